package core_test

import (
	"testing"

	"panako/core"
)

func qr(refID string, absStart float64, score int, durationMs uint32) core.QueryResult {
	return core.QueryResult{
		RefID:          refID,
		AbsoluteStart:  absStart,
		HasAbsolute:    true,
		Score:          score,
		RefDurationMs:  durationMs,
		HasRefDuration: true,
	}
}

func TestMergerDropsOverlapDuplicate(t *testing.T) {
	// ref_duration = 30s -> radius = 10s. Two detections 5s apart collide.
	results := []core.QueryResult{
		qr("songA", 0, 10, 30000),
		qr("songA", 5, 20, 30000),
	}

	merged := core.Merge(results)
	if len(merged) != 1 {
		t.Fatalf("expected duplicates merged into 1, got %d", len(merged))
	}
	if merged[0].Score != 20 {
		t.Errorf("expected surviving detection to be the higher-scoring one, got score %d", merged[0].Score)
	}
}

func TestMergerKeepsDistantDetections(t *testing.T) {
	// duration 30000ms -> ref_duration_s=30, radius=10s; 40s apart survives.
	results := []core.QueryResult{
		qr("songA", 0, 10, 30000),
		qr("songA", 40, 15, 30000),
	}

	merged := core.Merge(results)
	if len(merged) != 2 {
		t.Fatalf("expected both detections to survive, got %d", len(merged))
	}
}

func TestMergerSortedByAbsoluteStart(t *testing.T) {
	results := []core.QueryResult{
		qr("songA", 40, 15, 30000),
		qr("songB", 0, 10, 30000),
	}

	merged := core.Merge(results)
	for i := 1; i < len(merged); i++ {
		pos := func(r core.QueryResult) float64 {
			if r.HasAbsolute {
				return r.AbsoluteStart
			}
			return r.QueryStartSecs
		}
		if pos(merged[i]) < pos(merged[i-1]) {
			t.Fatalf("merger output not sorted by absolute_start at index %d", i)
		}
	}
}

func TestMergerNoSharedDuplicatesAfterSweep(t *testing.T) {
	results := []core.QueryResult{
		qr("songA", 0, 10, 30000),
		qr("songA", 2, 5, 30000),
		qr("songA", 4, 8, 30000),
		qr("songA", 50, 30, 30000),
	}

	merged := core.Merge(results)
	for i := 0; i < len(merged); i++ {
		for j := i + 1; j < len(merged); j++ {
			if merged[i].RefID != merged[j].RefID {
				continue
			}
			radius := float64(merged[i].RefDurationMs) / 1000.0 / 3.0
			delta := merged[j].AbsoluteStart - merged[i].AbsoluteStart
			if delta < 0 {
				delta = -delta
			}
			if delta < radius {
				t.Fatalf("survivors %d and %d are still within the duplicate radius", i, j)
			}
		}
	}
}
