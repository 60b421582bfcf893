package beefi

import "errors"

// Sentinel errors returned by the frame parser and reconstructor. Callers
// should use errors.Is to distinguish them, since the streaming engine and
// batch extractor both need to tell NotFeedback (silently skip) apart from
// the others (count and skip).
var (
	// ErrNotFeedback indicates a well-formed packet that is not a Compressed
	// Beamforming Action frame. Never surfaced by the streaming engine.
	ErrNotFeedback = errors.New("beefi: packet is not a compressed beamforming frame")

	// ErrTruncatedFrame indicates the input ended mid-field.
	ErrTruncatedFrame = errors.New("beefi: frame truncated")

	// ErrUnsupportedGrouping indicates a Grouping field other than Ng=1.
	ErrUnsupportedGrouping = errors.New("beefi: unsupported subcarrier grouping")

	// ErrSizeMismatch indicates the remaining byte length disagrees with the
	// computed angle budget by more than the allowed 7 bits of padding.
	ErrSizeMismatch = errors.New("beefi: angle payload size mismatch")

	// ErrIO indicates the capture source failed to produce a packet.
	ErrIO = errors.New("beefi: capture source io error")

	// ErrShapeMismatch indicates BfaData passed to Reconstruct has a number of
	// angles per subcarrier that does not match its metadata; this can only
	// indicate a parser bug.
	ErrShapeMismatch = errors.New("beefi: angle matrix shape does not match metadata")
)
