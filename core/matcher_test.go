package core_test

import (
	"math"
	"testing"

	"panako/core"
)

func buildEventPoints(n int, seed int32) []core.EventPoint {
	points := make([]core.EventPoint, n)
	for i := 0; i < n; i++ {
		t := seed + int32(i*4)
		f := int16(50 + (i*7)%200)
		points[i] = core.EventPoint{T: t, F: f, M: float32(0.2 + 0.01*float64(i%10))}
	}
	return points
}

func TestSelfMatch(t *testing.T) {
	cfg := core.DefaultConfig()
	points := buildEventPoints(60, 0)
	fps := core.GenerateFingerprints(points, cfg)
	if len(fps) == 0 {
		t.Fatal("fixture produced no fingerprints; widen the event point spread")
	}

	idx := core.NewIndex()
	idx.AddFingerprints("ref1", fps)
	idx.SetDuration("ref1", 10000)

	results := core.Query(fps, idx, cfg)
	if len(results) != 1 {
		t.Fatalf("expected exactly 1 result for self-match, got %d", len(results))
	}

	r := results[0]
	if r.RefID != "ref1" {
		t.Errorf("expected ref1, got %s", r.RefID)
	}
	if math.Abs(r.TimeFactor-1.0) > 0.02 {
		t.Errorf("time_factor = %f, want ~1.0", r.TimeFactor)
	}
	if math.Abs(r.FrequencyFactor-1.0) > 0.02 {
		t.Errorf("frequency_factor = %f, want ~1.0", r.FrequencyFactor)
	}
	if r.Score != len(fps) {
		t.Errorf("score = %d, want %d", r.Score, len(fps))
	}
}

func TestTranslationInvariance(t *testing.T) {
	cfg := core.DefaultConfig()
	refPoints := buildEventPoints(60, 100)
	refFps := core.GenerateFingerprints(refPoints, cfg)

	idx := core.NewIndex()
	idx.AddFingerprints("ref1", refFps)

	queryPoints := buildEventPoints(60, 0)
	queryFps := core.GenerateFingerprints(queryPoints, cfg)

	results := core.Query(queryFps, idx, cfg)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if math.Abs(results[0].TimeFactor-1.0) > 0.02 {
		t.Errorf("time_factor = %f, want ~1.0 under pure translation", results[0].TimeFactor)
	}
}

func TestCoverageBounds(t *testing.T) {
	cfg := core.DefaultConfig()
	points := buildEventPoints(60, 0)
	fps := core.GenerateFingerprints(points, cfg)

	idx := core.NewIndex()
	idx.AddFingerprints("ref1", fps)

	results := core.Query(fps, idx, cfg)
	for _, r := range results {
		if r.PercentSecondsWithMatch < 0 || r.PercentSecondsWithMatch > 1 {
			t.Errorf("coverage %f out of [0,1]", r.PercentSecondsWithMatch)
		}
	}
}

func TestQueryResultsSortedByScoreDescending(t *testing.T) {
	cfg := core.DefaultConfig()
	points := buildEventPoints(60, 0)
	fps := core.GenerateFingerprints(points, cfg)

	idx := core.NewIndex()
	idx.AddFingerprints("ref1", fps)
	idx.AddFingerprints("ref2", fps[:len(fps)/2])

	results := core.Query(fps, idx, cfg)
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Fatalf("results not sorted by score descending at index %d", i)
		}
	}
}
