// Package core implements the Panako spectro-temporal fingerprinting
// pipeline: spectrogram, event point extraction, fingerprint hashing,
// the inverted index, the matcher, and monitor-mode segmentation/merging.
package core

import (
	"fmt"

	"panako/apperr"
)

// Config holds the frozen numeric parameters that govern every stage of
// the pipeline. It is built once at process start and passed explicitly
// through every call — nothing here is ambient/global state.
type Config struct {
	// Audio
	SampleRate int // samples/sec the decoder must deliver
	BlockSize  int // FFT window size in samples
	Hop        int // samples between successive frames

	// Spectral transform (constant-Q-like log-frequency grid)
	MinFreq        float64 // Hz
	MaxFreq        float64 // Hz
	BandsPerOctave int

	// Event point extractor (2D max-filter window sizes, in cells; the
	// filter's half-window on each axis is the value divided by 2)
	EventFreqFilter int
	EventTimeFilter int

	// Fingerprint triplet distance bounds
	MinFreqDist int32 // bins
	MaxFreqDist int32 // bins
	MinTimeDist int32 // frames
	MaxTimeDist int32 // frames

	// Matching
	MinAligned       int     // minimum votes in the winning delta-t bucket
	DeltaTolerance   int32   // +/- frames around the winning delta-t
	MinTimeFactor    float64 // tempo clamp lower bound
	MaxTimeFactor    float64 // tempo clamp upper bound
	MinDetectionSecs float64 // same value as MinDetectionOutputSecs; FilterOutput uses that constant, not this field

	// Monitor mode segmentation
	SegmentDurationSecs    float64
	OverlapDurationSecs    float64
	MinSegmentDurationSecs float64
}

// FrameSeconds is the fixed frame-to-seconds conversion factor (hop /
// sample_rate at the default config). It is embedded in every output
// timestamp and must never vary between implementations.
const FrameSeconds = 0.008

// DefaultConfig returns the Panako reference parameters from spec.md §3.
func DefaultConfig() Config {
	return Config{
		SampleRate: 16000,
		BlockSize:  8192,
		Hop:        128,

		MinFreq:        110,
		MaxFreq:        7040,
		BandsPerOctave: 85,

		EventFreqFilter: 103,
		EventTimeFilter: 25,

		MinFreqDist: 1,
		MaxFreqDist: 128,
		MinTimeDist: 2,
		MaxTimeDist: 33,

		MinAligned:       5,
		DeltaTolerance:   2,
		MinTimeFactor:    0.5,
		MaxTimeFactor:    2.0,
		MinDetectionSecs: 2.0,

		SegmentDurationSecs:    25.0,
		OverlapDurationSecs:    5.0,
		MinSegmentDurationSecs: 10.0,
	}
}

// Validate refuses configs that would make every downstream stage
// meaningless. It is checked once at startup; nothing recovers from a
// ConfigInvalid error.
func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample_rate must be > 0, got %d", apperr.ErrConfigInvalid, c.SampleRate)
	}
	if c.MinFreq >= c.MaxFreq {
		return fmt.Errorf("%w: min_freq (%.1f) must be < max_freq (%.1f)", apperr.ErrConfigInvalid, c.MinFreq, c.MaxFreq)
	}
	if c.BandsPerOctave == 0 {
		return fmt.Errorf("%w: bands_per_octave must be > 0", apperr.ErrConfigInvalid)
	}
	return nil
}
