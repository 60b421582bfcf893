package beefi

// BfiMetadata is the decoded MIMO Control descriptor for one feedback frame.
// The tuple (Bandwidth, NrIndex, NcIndex, CodebookInfo, FeedbackType) uniquely
// determines the number of phi/psi angles per subcarrier and their bit
// widths -- see AngleLayout and AngleBitsFor.
type BfiMetadata struct {
	Bandwidth    Bandwidth
	NrIndex      int // 0..7; number of receive antennas - 1
	NcIndex      int // 0..7; number of feedback columns - 1
	CodebookInfo int // 0 or 1
	FeedbackType FeedbackType
}

// Nr returns the number of receive antennas.
func (m BfiMetadata) Nr() int { return m.NrIndex + 1 }

// Nc returns the number of feedback columns (spatial streams).
func (m BfiMetadata) Nc() int { return m.NcIndex + 1 }

// AngleBits returns the (phi, psi) bit widths this metadata implies.
func (m BfiMetadata) AngleBits() (AngleBits, error) {
	return AngleBitsFor(m.FeedbackType, m.CodebookInfo)
}

// Subcarriers returns S, the number of subcarriers this metadata implies.
func (m BfiMetadata) Subcarriers() (int, error) {
	return SubcarrierCount(m.Bandwidth)
}

// AnglesPerSubcarrier returns A, the number of angles per subcarrier this
// metadata implies.
func (m BfiMetadata) AnglesPerSubcarrier() int {
	return AngleCount(m.Nr(), m.Nc())
}
