package core_test

import (
	"testing"

	"panako/core"
)

func TestHashDeterminism(t *testing.T) {
	e1 := core.EventPoint{T: 0, F: 100, M: 0.5}
	e2 := core.EventPoint{T: 10, F: 120, M: 0.7}
	e3 := core.EventPoint{T: 20, F: 110, M: 0.6}

	fp1 := core.NewFingerprint(e1, e2, e3)
	fp2 := core.NewFingerprint(e1, e2, e3)

	if fp1.Hash != fp2.Hash {
		t.Fatalf("hash not deterministic: %d != %d", fp1.Hash, fp2.Hash)
	}
	if fp1.Hash>>34 != 0 {
		t.Fatalf("upper 30 bits must be zero, got hash %064b", fp1.Hash)
	}
}

func TestTripletConstraints(t *testing.T) {
	cfg := core.DefaultConfig()
	points := []core.EventPoint{
		{T: 0, F: 100, M: 0.5},
		{T: 10, F: 120, M: 0.7},
		{T: 20, F: 110, M: 0.6},
	}

	fps := core.GenerateFingerprints(points, cfg)
	if len(fps) != 1 {
		t.Fatalf("expected exactly 1 fingerprint, got %d", len(fps))
	}

	fp := fps[0]
	if d := fp.T2 - fp.T1; d < cfg.MinTimeDist || d > cfg.MaxTimeDist {
		t.Errorf("t2-t1 = %d out of bounds", d)
	}
	if d := fp.T3 - fp.T2; d < cfg.MinTimeDist || d > cfg.MaxTimeDist {
		t.Errorf("t3-t2 = %d out of bounds", d)
	}
}

func TestTripletBrokenByTooCloseTimes(t *testing.T) {
	cfg := core.DefaultConfig()
	// t2-t1 becomes 1, below MinTimeDist=2.
	points := []core.EventPoint{
		{T: 0, F: 100, M: 0.5},
		{T: 1, F: 120, M: 0.7},
		{T: 20, F: 110, M: 0.6},
	}

	fps := core.GenerateFingerprints(points, cfg)
	if len(fps) != 0 {
		t.Fatalf("expected zero fingerprints once min_time_dist is violated, got %d", len(fps))
	}
}

func TestFingerprintSortStability(t *testing.T) {
	cfg := core.DefaultConfig()
	points := []core.EventPoint{
		{T: 30, F: 100, M: 0.5},
		{T: 40, F: 120, M: 0.7},
		{T: 60, F: 110, M: 0.6},
		{T: 0, F: 90, M: 0.4},
		{T: 10, F: 95, M: 0.3},
		{T: 25, F: 105, M: 0.2},
	}

	fps := core.GenerateFingerprints(points, cfg)
	for i := 1; i < len(fps); i++ {
		if fps[i].T1 < fps[i-1].T1 {
			t.Fatalf("fingerprints not sorted by t1 ascending at index %d", i)
		}
	}
}
