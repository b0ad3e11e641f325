package core_test

import (
	"testing"

	"panako/core"
)

func TestSegmentsShortFileIsSingleSegment(t *testing.T) {
	cfg := core.DefaultConfig()
	samples := make([]float64, 10*cfg.SampleRate) // 10s, well under 25s

	segs := core.Segments(samples, cfg)
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment for a short file, got %d", len(segs))
	}
	if segs[0].StartTimeSecs != 0 || segs[0].EndTimeSecs != 10 {
		t.Errorf("unexpected segment bounds: %+v", segs[0])
	}
}

func TestSegmentsStitching60Seconds(t *testing.T) {
	cfg := core.DefaultConfig()
	samples := make([]float64, 60*cfg.SampleRate)

	segs := core.Segments(samples, cfg)
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments for a 60s file, got %d", len(segs))
	}

	want := [][2]float64{{0, 25}, {20, 45}, {40, 60}}
	for i, w := range want {
		if segs[i].StartTimeSecs != w[0] || segs[i].EndTimeSecs != w[1] {
			t.Errorf("segment %d = [%f,%f), want [%f,%f)", i, segs[i].StartTimeSecs, segs[i].EndTimeSecs, w[0], w[1])
		}
	}
}

func TestSegmentsExtendsShortResidual(t *testing.T) {
	cfg := core.DefaultConfig()
	// 47s: after [0,25) residual is 22s (segment at [20,45), residual 2s < 10s)
	// so the last segment should extend to the full 47s.
	samples := make([]float64, 47*cfg.SampleRate)

	segs := core.Segments(samples, cfg)
	last := segs[len(segs)-1]
	if last.EndTimeSecs != 47 {
		t.Errorf("expected last segment to extend to end of file (47s), got %f", last.EndTimeSecs)
	}
}

func TestFingerprintSegmentShiftsEventTimes(t *testing.T) {
	cfg := core.DefaultConfig()
	samples := make([]float64, cfg.BlockSize*4)
	seg := core.Segment{Index: 1, StartTimeSecs: 20, EndTimeSecs: 20 + float64(len(samples))/float64(cfg.SampleRate), Samples: samples}

	fps := core.FingerprintSegment(seg, cfg)
	offsetFrames := int32(seg.StartTimeSecs / core.FrameSeconds)
	for _, fp := range fps {
		if fp.T1 < offsetFrames {
			t.Fatalf("fingerprint t1=%d precedes segment offset %d", fp.T1, offsetFrames)
		}
	}
}
