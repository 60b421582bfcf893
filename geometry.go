package beefi

import "fmt"

// Bandwidth is one of the four channel widths a Compressed Beamforming
// Report can be sent over.
type Bandwidth int

const (
	Bandwidth20MHz  Bandwidth = 20
	Bandwidth40MHz  Bandwidth = 40
	Bandwidth80MHz  Bandwidth = 80
	Bandwidth160MHz Bandwidth = 160
)

// bandwidthFromBits maps the 2-bit MIMO Control Bandwidth field to a
// Bandwidth value, per the VHT Compressed Beamforming Report encoding.
var bandwidthFromBits = map[uint64]Bandwidth{
	0: Bandwidth20MHz,
	1: Bandwidth40MHz,
	2: Bandwidth80MHz,
	3: Bandwidth160MHz,
}

// subcarrierCounts is the single-group (Ng=1) subcarrier count table from
// spec.md 4.B. Other groupings are detected and rejected by the parser.
var subcarrierCounts = map[Bandwidth]int{
	Bandwidth20MHz:  52,
	Bandwidth40MHz:  108,
	Bandwidth80MHz:  234,
	Bandwidth160MHz: 468,
}

// SubcarrierCount returns S, the number of subcarriers reported for a frame
// of the given bandwidth under Ng=1 grouping.
func SubcarrierCount(bw Bandwidth) (int, error) {
	s, ok := subcarrierCounts[bw]
	if !ok {
		return 0, fmt.Errorf("beefi: unrecognised bandwidth %d MHz", int(bw))
	}
	return s, nil
}

// FeedbackType distinguishes the three kinds of Compressed Beamforming
// Report angle bit-width tables.
type FeedbackType int

const (
	FeedbackSU  FeedbackType = iota // single-user
	FeedbackMU                      // multi-user
	FeedbackCQI                     // channel quality indication
)

func (f FeedbackType) String() string {
	switch f {
	case FeedbackSU:
		return "SU"
	case FeedbackMU:
		return "MU"
	case FeedbackCQI:
		return "CQI"
	default:
		return fmt.Sprintf("FeedbackType(%d)", int(f))
	}
}

// feedbackTypeFromBits maps the 2-bit MIMO Control Feedback Type field.
// CQI feedback carries no compressed angles and is out of this parser's
// scope; it is recognised here only so metadata decoding can name it.
var feedbackTypeFromBits = map[uint64]FeedbackType{
	0: FeedbackSU,
	1: FeedbackMU,
	2: FeedbackCQI,
}

// AngleBits is the (phi, psi) bit-width pair selected by feedback type and
// codebook_info, per spec.md 4.B.
type AngleBits struct {
	Phi int
	Psi int
}

var angleBitsTable = map[FeedbackType]map[int]AngleBits{
	FeedbackSU: {
		0: {Phi: 4, Psi: 2},
		1: {Phi: 6, Psi: 4},
	},
	FeedbackMU: {
		0: {Phi: 7, Psi: 5},
		1: {Phi: 9, Psi: 7},
	},
}

// AngleBitsFor returns the (phi, psi) bit widths for a given feedback type
// and codebook selector.
func AngleBitsFor(ft FeedbackType, codebookInfo int) (AngleBits, error) {
	byCodebook, ok := angleBitsTable[ft]
	if !ok {
		return AngleBits{}, fmt.Errorf("beefi: feedback type %s carries no compressed angles", ft)
	}
	bits, ok := byCodebook[codebookInfo]
	if !ok {
		return AngleBits{}, fmt.Errorf("beefi: invalid codebook_info %d", codebookInfo)
	}
	return bits, nil
}

// AngleSlot names one (row, col) position in the Givens decomposition order
// and whether it carries a phi or a psi angle.
type AngleSlot struct {
	Row   int // l, 0-indexed row (0..Nr-1)
	Col   int // i, 0-indexed column (0..Nc-1)
	IsPhi bool
	Bits  int
}

// AngleLayout returns the ordered sequence of (phi, psi) angle slots emitted
// per subcarrier for a given (Nr, Nc, bits) geometry, following spec.md 4.B:
// for each column i in 1..=Nc (0-indexed col) and each row l in i..=Nr-2
// (0-indexed row), emit one phi then one psi. This yields exactly
// 2 * sum_{i=1..Nc}(Nr-i) angles, matching both worked examples in spec.md
// 8 (E1: Nr=2,Nc=1 -> 2; E2: Nr=4,Nc=2 -> 10) and the canonical IEEE 802.11
// angle counts for compressed beamforming feedback.
//
// Nr and Nc are the true antenna/stream counts (already +1'd from the MIMO
// Control index fields).
func AngleLayout(nr, nc int, bits AngleBits) []AngleSlot {
	slots := make([]AngleSlot, 0, AngleCount(nr, nc))

	for col := 0; col < nc; col++ {
		for row := col; row < nr-1; row++ {
			slots = append(slots, AngleSlot{Row: row, Col: col, IsPhi: true, Bits: bits.Phi})
			slots = append(slots, AngleSlot{Row: row, Col: col, IsPhi: false, Bits: bits.Psi})
		}
	}

	return slots
}

// AngleCount returns A, the total number of angles (phi+psi) emitted per
// subcarrier for an (Nr, Nc) geometry: 2 * sum_{i=1..Nc}(Nr-i), per spec.md
// 4.B. AngleLayout is the authoritative enumerator used by the parser; this
// is its closed-form count, used for budget/size-mismatch checks without
// materialising the slice.
func AngleCount(nr, nc int) int {
	total := 0
	for i := 1; i <= nc; i++ {
		total += 2 * (nr - i)
	}
	return total
}
