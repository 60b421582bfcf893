package bee

import (
	"testing"
	"time"

	"github.com/nzqo/beefi"
)

func TestPadRowsGrowsToSMax(t *testing.T) {
	angles := [][]uint64{{1, 2}, {3, 4}}
	padded := padRows(angles, 4)

	if len(padded) != 4 {
		t.Fatalf("len = %d, want 4", len(padded))
	}
	if padded[0][0] != 1 || padded[1][1] != 4 {
		t.Error("original rows were not preserved")
	}
	for i := 2; i < 4; i++ {
		if len(padded[i]) != 2 {
			t.Errorf("padded row %d width = %d, want 2", i, len(padded[i]))
		}
		for _, v := range padded[i] {
			if v != 0 {
				t.Errorf("padded row %d not zero: %v", i, padded[i])
			}
		}
	}
}

func TestPadRowsNoopWhenAlreadyLongEnough(t *testing.T) {
	angles := [][]uint64{{1}, {2}, {3}}
	padded := padRows(angles, 2)
	if len(padded) != 3 {
		t.Fatalf("len = %d, want 3 (unchanged)", len(padded))
	}
}

func TestAssembleBatchTracksSummary(t *testing.T) {
	now := time.Unix(1000, 0)
	dup := now.Add(time.Second)

	packets := []beefi.BfaData{
		{
			Metadata:  beefi.BfiMetadata{Bandwidth: beefi.Bandwidth20MHz},
			Timestamp: now,
			Angles:    [][]uint64{{1, 2}, {3, 4}},
		},
		{
			Metadata:  beefi.BfiMetadata{Bandwidth: beefi.Bandwidth80MHz},
			Timestamp: dup,
			Angles:    [][]uint64{{1, 2}, {3, 4}, {5, 6}, {7, 8}},
		},
		{
			Metadata:  beefi.BfiMetadata{Bandwidth: beefi.Bandwidth80MHz},
			Timestamp: dup,
			Angles:    [][]uint64{{1, 2}, {3, 4}, {5, 6}, {7, 8}},
		},
	}

	batch := assembleBatch(packets, 2)

	if batch.NumPackets() != 3 {
		t.Fatalf("NumPackets() = %d, want 3", batch.NumPackets())
	}
	if batch.SMax != 4 {
		t.Errorf("SMax = %d, want 4", batch.SMax)
	}
	if batch.Summary.ConsistentBandwidth {
		t.Error("ConsistentBandwidth should be false: packet 0 has only 2 subcarrier rows")
	}
	if batch.Summary.DroppedFrames != 2 {
		t.Errorf("DroppedFrames = %d, want 2", batch.Summary.DroppedFrames)
	}
	if len(batch.Summary.DuplicateTimestamps) != 1 {
		t.Errorf("DuplicateTimestamps = %v, want 1 entry", batch.Summary.DuplicateTimestamps)
	}
	if len(batch.Angles[0]) != 4 {
		t.Errorf("padded angle rows for packet 0 = %d, want 4", len(batch.Angles[0]))
	}
}

func TestAssembleBatchEmpty(t *testing.T) {
	batch := assembleBatch(nil, 5)
	if batch.NumPackets() != 0 {
		t.Errorf("NumPackets() = %d, want 0", batch.NumPackets())
	}
	if !batch.Summary.ConsistentBandwidth {
		t.Error("empty batch should report ConsistentBandwidth = true")
	}
	if batch.Summary.DroppedFrames != 5 {
		t.Errorf("DroppedFrames = %d, want 5", batch.Summary.DroppedFrames)
	}
}
