package bee

import (
	"errors"
	"io"
	"log"
	"time"

	"github.com/samber/lo"

	"github.com/nzqo/beefi"
	"github.com/nzqo/beefi/capture"
)

// ExtractFromPcap opens path as a File capture source, parses every frame
// to BfaData, and assembles a Batch (spec.md 4.F "Batch mode"). A single
// bad packet does not fail the whole extraction: spec.md 7 requires batch
// mode to skip and continue, provided the source itself stays healthy. An
// IO error from the source itself is surfaced to the caller.
func ExtractFromPcap(path string) (beefi.Batch, error) {
	src, err := capture.NewFile(path)
	if err != nil {
		return beefi.Batch{}, err
	}
	defer src.Close()

	var packets []beefi.BfaData
	dropped := 0

	for {
		ts, data, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return beefi.Batch{}, err
		}

		parsed, err := beefi.ParsePacket(data, ts)
		if err != nil {
			if errors.Is(err, beefi.ErrNotFeedback) {
				continue
			}
			log.Printf("beefi: skipping unparsable frame in %s: %v", path, err)
			dropped++
			continue
		}

		packets = append(packets, parsed)
	}

	return assembleBatch(packets, dropped), nil
}

// assembleBatch builds the parallel-array Batch form from a slice of
// per-packet BfaData, zero-padding each row's angle matrix along the
// subcarrier axis to the file-wide maximum (spec.md 3 "Batch forms").
func assembleBatch(packets []beefi.BfaData, dropped int) beefi.Batch {
	if len(packets) == 0 {
		return beefi.Batch{Summary: beefi.BatchSummary{ConsistentBandwidth: true, DroppedFrames: dropped}}
	}

	subcarrierCounts := make([]int, len(packets))
	bandwidths := make([]beefi.Bandwidth, len(packets))
	timestamps := make([]time.Time, len(packets))

	for i, p := range packets {
		s, _ := p.Shape()
		subcarrierCounts[i] = s
		bandwidths[i] = p.Metadata.Bandwidth
		timestamps[i] = p.Timestamp
	}

	sMax := lo.Max(subcarrierCounts)
	consistentBandwidth := lo.Min(subcarrierCounts) == sMax
	duplicates := lo.FindDuplicates(timestamps)

	batch := beefi.Batch{
		Metadata:    make([]beefi.BfiMetadata, len(packets)),
		Timestamps:  timestamps,
		TokenNumber: make([]int, len(packets)),
		Angles:      make([][][]uint64, len(packets)),
		SMax:        sMax,
		Summary: beefi.BatchSummary{
			ConsistentBandwidth: consistentBandwidth,
			DuplicateTimestamps: duplicates,
			DroppedFrames:       dropped,
		},
	}

	for i, p := range packets {
		batch.Metadata[i] = p.Metadata
		batch.TokenNumber[i] = p.TokenNumber
		batch.Angles[i] = padRows(p.Angles, sMax)
	}

	return batch
}

// padRows zero-pads angles (shape (S, A)) with additional all-zero rows
// until it has sMax rows, leaving the angle width A unchanged.
func padRows(angles [][]uint64, sMax int) [][]uint64 {
	if len(angles) >= sMax {
		return angles
	}
	a := 0
	if len(angles) > 0 {
		a = len(angles[0])
	}
	padded := make([][]uint64, sMax)
	copy(padded, angles)
	for i := len(angles); i < sMax; i++ {
		padded[i] = make([]uint64, a)
	}
	return padded
}
