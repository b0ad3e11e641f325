package core_test

import (
	"errors"
	"testing"

	"panako/apperr"
	"panako/core"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := core.DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestValidateRejectsBadSampleRate(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.SampleRate = 0
	err := cfg.Validate()
	if !errors.Is(err, apperr.ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid, got %v", err)
	}
}

func TestValidateRejectsInvertedFreqRange(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.MinFreq = 8000
	cfg.MaxFreq = 100
	if err := cfg.Validate(); !errors.Is(err, apperr.ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid, got %v", err)
	}
}

func TestValidateRejectsZeroBandsPerOctave(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.BandsPerOctave = 0
	if err := cfg.Validate(); !errors.Is(err, apperr.ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid, got %v", err)
	}
}
