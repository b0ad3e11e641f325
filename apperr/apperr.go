// Package apperr defines the typed failure kinds surfaced by the core
// pipeline and its collaborators (spec.md §7). Orchestrators decide
// whether to abort (single-item workflows) or skip-and-continue (bulk
// corpus load) based on these sentinels; the core itself never retries.
package apperr

import (
	"errors"

	"github.com/mdobak/go-xerrors"
)

// Sentinel kinds. Use errors.Is against these after wrapping with Wrap.
var (
	// ErrConfigInvalid: sample_rate <= 0, min_freq >= max_freq,
	// bands_per_octave == 0. Fatal; refuse to start.
	ErrConfigInvalid = errors.New("apperr: invalid configuration")

	// ErrDecodeFailed: the audio collaborator could not produce PCM
	// for a file (missing, corrupt, unsupported container).
	ErrDecodeFailed = errors.New("apperr: audio decode failed")

	// ErrStorageFailed: missing corpus entry, unreadable record,
	// format mismatch in a storage backend.
	ErrStorageFailed = errors.New("apperr: storage operation failed")

	// ErrEmptyResult is not a failure — it marks a legal zero-match
	// outcome so callers can distinguish it from ErrDecodeFailed etc.
	// when they want to (most callers just check len(results) == 0).
	ErrEmptyResult = errors.New("apperr: no detections")
)

// Wrap attaches a stack trace to err via go-xerrors and associates it
// with kind so errors.Is(wrapped, kind) still succeeds.
func Wrap(kind error, err error) error {
	if err == nil {
		return nil
	}
	return xerrors.New(&wrapped{kind: kind, cause: err})
}

type wrapped struct {
	kind  error
	cause error
}

func (w *wrapped) Error() string {
	return w.kind.Error() + ": " + w.cause.Error()
}

func (w *wrapped) Unwrap() []error {
	return []error{w.kind, w.cause}
}
