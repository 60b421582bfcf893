package beefi

import (
	"fmt"
	"time"
)

// mimoControlBytes is the length, in bytes, of the VHT/HE MIMO Control
// field this parser decodes (spec.md 4.C step 4).
const mimoControlBytes = 6

// ParsePacket decodes one radiotap-prefixed 802.11 packet into BfaData.
//
// It returns ErrNotFeedback (wrapped, check with errors.Is) for any
// well-formed packet that is not a VHT/HE Compressed Beamforming Action
// frame; that is not a failure, just "nothing here".
// Other sentinel errors (ErrTruncatedFrame, ErrUnsupportedGrouping,
// ErrSizeMismatch) indicate a frame that looked like feedback but could not
// be fully decoded.
func ParsePacket(buf []byte, captureTimestamp time.Time) (BfaData, error) {
	pos := 0

	// 1. Radiotap strip.
	rtLen, err := radiotapLen(buf)
	if err != nil {
		return BfaData{}, err
	}
	pos += rtLen

	// 2. 802.11 header filter.
	if len(buf) < pos+2 {
		return BfaData{}, ErrTruncatedFrame
	}
	fc := parseDot11FrameControl(buf[pos])
	if fc.Type != dot11TypeManagement || fc.Subtype != dot11SubtypeAction {
		return BfaData{}, ErrNotFeedback
	}

	if len(buf) < pos+dot11HeaderLen {
		return BfaData{}, ErrTruncatedFrame
	}
	pos += dot11HeaderLen // 2-byte frame control/flags + 22 more header bytes

	// 3. Action category filter.
	if len(buf) < pos+2 {
		return BfaData{}, ErrTruncatedFrame
	}
	category := buf[pos]
	action := buf[pos+1]
	pos += 2

	if (category != categoryVHT && category != categoryHE) || action != actionCompressedBeamforming {
		return BfaData{}, ErrNotFeedback
	}

	// 4. MIMO Control.
	if len(buf) < pos+mimoControlBytes {
		return BfaData{}, ErrTruncatedFrame
	}
	metadata, tokenNumber, err := decodeMimoControl(buf[pos : pos+mimoControlBytes])
	if err != nil {
		return BfaData{}, err
	}
	pos += mimoControlBytes

	// 5. SNR bytes: Nc+1 average-SNR bytes.
	snrBytes := metadata.Nc() + 1
	if len(buf) < pos+snrBytes {
		return BfaData{}, ErrTruncatedFrame
	}
	pos += snrBytes

	// 6. Angle decoding.
	angles, err := decodeAngles(buf[pos:], metadata)
	if err != nil {
		return BfaData{}, err
	}

	return BfaData{
		Metadata:    metadata,
		Timestamp:   captureTimestamp,
		TokenNumber: tokenNumber,
		Angles:      angles,
	}, nil
}

// decodeMimoControl decodes the 6-byte VHT/HE MIMO Control field per
// spec.md 4.C step 4: Nc index (3 bits), Nr index (3 bits), Bandwidth
// (2 bits), Grouping (2 bits), Codebook (1 bit), Feedback Type (2 bits),
// Remaining Feedback Segments (3 bits), First Feedback Segment (1 bit),
// Reserved, Sounding Dialog Token Number (6 bits).
func decodeMimoControl(field []byte) (BfiMetadata, int, error) {
	r := NewBitReader(field, 0)

	ncIndex, _ := r.Read(3)
	nrIndex, _ := r.Read(3)
	bwBits, _ := r.Read(2)
	grouping, _ := r.Read(2)
	codebook, _ := r.Read(1)
	feedbackBits, _ := r.Read(2)
	_, _ = r.Read(3) // Remaining Feedback Segments, not needed by this parser
	_, _ = r.Read(1) // First Feedback Segment, not needed by this parser

	totalBits := mimoControlBytes * 8
	consumedBits := 3 + 3 + 2 + 2 + 1 + 2 + 3 + 1
	reservedBits := totalBits - consumedBits - 6
	if err := r.Skip(reservedBits); err != nil {
		return BfiMetadata{}, 0, err
	}
	token, _ := r.Read(6)

	if grouping != 0 {
		return BfiMetadata{}, 0, ErrUnsupportedGrouping
	}

	bw, ok := bandwidthFromBits[bwBits]
	if !ok {
		return BfiMetadata{}, 0, fmt.Errorf("beefi: invalid bandwidth bits %d", bwBits)
	}
	ft, ok := feedbackTypeFromBits[feedbackBits]
	if !ok {
		return BfiMetadata{}, 0, fmt.Errorf("beefi: invalid feedback type bits %d", feedbackBits)
	}

	metadata := BfiMetadata{
		Bandwidth:    bw,
		NrIndex:      int(nrIndex),
		NcIndex:      int(ncIndex),
		CodebookInfo: int(codebook),
		FeedbackType: ft,
	}

	return metadata, int(token), nil
}

// decodeAngles reads the dense (S, A) angle matrix following the SNR bytes,
// per spec.md 4.C step 6.
func decodeAngles(buf []byte, metadata BfiMetadata) ([][]uint64, error) {
	s, err := metadata.Subcarriers()
	if err != nil {
		return nil, err
	}

	bits, err := metadata.AngleBits()
	if err != nil {
		return nil, err
	}

	layout := AngleLayout(metadata.Nr(), metadata.Nc(), bits)
	a := len(layout)

	r := NewBitReader(buf, 0)
	angles := make([][]uint64, s)
	for i := 0; i < s; i++ {
		row := make([]uint64, a)
		for j, slot := range layout {
			v, err := r.Read(slot.Bits)
			if err != nil {
				return nil, ErrTruncatedFrame
			}
			row[j] = v
		}
		angles[i] = row
	}

	// Accept up to 7 bits of trailing byte-alignment padding; anything more
	// indicates the declared geometry disagrees with the actual payload.
	if r.Remaining() > 7 {
		return nil, ErrSizeMismatch
	}

	return angles, nil
}
