package beefi

import "encoding/binary"

// radiotapLen reads the 2-byte little-endian length field at offset 2 of a
// Radiotap header (bytes 2-3) and returns the number of bytes the header
// occupies, so the caller can skip straight to the 802.11 MAC frame.
// Grounded on the same RadiotapHeader.Len field used by wanonpcap's
// RadiotapHeader.Read, minus the parts (Present bitmask, Pad byte) this
// parser has no use for.
func radiotapLen(buf []byte) (int, error) {
	if len(buf) < 4 {
		return 0, ErrTruncatedFrame
	}
	n := int(binary.LittleEndian.Uint16(buf[2:4]))
	if n > len(buf) {
		return 0, ErrTruncatedFrame
	}
	return n, nil
}

// dot11FrameControl is the type and subtype parsed from the first Frame
// Control byte of an 802.11 MAC header.
type dot11FrameControl struct {
	Type    int // 0=Management, 1=Control, 2=Data
	Subtype int
}

const (
	dot11TypeManagement = 0
)

// dot11SubtypeAction is the Management-frame subtype identifying an Action
// frame (the only subtype this parser cares about).
const dot11SubtypeAction = 0xD

// parseDot11FrameControl mirrors wanonpcap's parseFC: version is bits 0-1,
// type is bits 2-3, subtype is bits 4-7 of the first Frame Control byte.
func parseDot11FrameControl(fc byte) dot11FrameControl {
	return dot11FrameControl{
		Type:    int((fc >> 2) & 0x3),
		Subtype: int((fc >> 4) & 0xF),
	}
}

// dot11HeaderLen is the fixed length of a Management-frame MAC header this
// parser skips over to reach the frame body (3 MAC addresses + duration +
// sequence control, no QoS/HT control -- Action frames never carry those).
const dot11HeaderLen = 24

// Action frame categories that carry Compressed Beamforming Reports.
const (
	categoryVHT = 21
	categoryHE  = 30
)

// actionCompressedBeamforming is the Action field value identifying a
// Compressed Beamforming Report within both the VHT and HE categories.
const actionCompressedBeamforming = 0
