package core_test

import (
	"math"
	"testing"

	"panako/core"
)

func TestComputeSpectrogramFrameCount(t *testing.T) {
	cfg := core.DefaultConfig()
	samples := make([]float64, cfg.Hop*10)

	spec := core.ComputeSpectrogram(samples, cfg)
	want := len(samples)/cfg.Hop - 1
	if spec.NumFrames != want {
		t.Errorf("NumFrames = %d, want %d", spec.NumFrames, want)
	}
}

func TestComputeSpectrogramMagnitudesNonNegative(t *testing.T) {
	cfg := core.DefaultConfig()
	samples := make([]float64, cfg.BlockSize*3)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * 440 * float64(i) / float64(cfg.SampleRate))
	}

	spec := core.ComputeSpectrogram(samples, cfg)
	for t := 0; t < spec.NumFrames; t++ {
		for f := 0; f < spec.NumBins; f++ {
			if spec.Magnitudes[t][f] < 0 {
				t.Fatalf("negative magnitude at [%d][%d]", t, f)
			}
		}
	}
}

func TestComputeSpectrogramEmptyInput(t *testing.T) {
	cfg := core.DefaultConfig()
	spec := core.ComputeSpectrogram(nil, cfg)
	if spec.NumFrames != 0 {
		t.Errorf("expected 0 frames for empty input, got %d", spec.NumFrames)
	}
}
