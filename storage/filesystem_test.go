package storage_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panako/storage"
)

func sampleReference(id string) storage.Reference {
	return storage.Reference{
		ID: id,
		Metadata: storage.Metadata{
			OriginalPath: "/music/" + id + ".mp3",
			Filename:     id + ".mp3",
			Algorithm:    "PANAKO",
			SampleRate:   16000,
			DurationMs:   180000,
			Channels:     1,
			CreatedAt:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		Segments: []storage.SegmentRecord{
			{
				SegmentID:     0,
				StartTimeSecs: 0,
				EndTimeSecs:   180,
				Fingerprints: []storage.FingerprintRecord{
					{Hash: 1234, T1: 10, F1: 40, M1: 0.5},
					{Hash: 5678, T1: 20, F1: 60, M1: 0.7},
				},
			},
		},
	}
}

func TestFilesystemBackendPutGetRoundTrip(t *testing.T) {
	backend, err := storage.NewFilesystemBackend(t.TempDir())
	require.NoError(t, err)
	defer backend.Close()

	ref := sampleReference("track1")
	require.NoError(t, backend.Put(ref))

	got, err := backend.Get("track1")
	require.NoError(t, err)
	assert.Equal(t, ref.ID, got.ID)
	assert.Equal(t, ref.Metadata.Filename, got.Metadata.Filename)
	require.Len(t, got.Segments, 1)
	assert.Len(t, got.Segments[0].Fingerprints, 2)
}

func TestFilesystemBackendList(t *testing.T) {
	backend, err := storage.NewFilesystemBackend(t.TempDir())
	require.NoError(t, err)
	defer backend.Close()

	require.NoError(t, backend.Put(sampleReference("a")))
	require.NoError(t, backend.Put(sampleReference("b")))

	ids, err := backend.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)
}

func TestFilesystemBackendStats(t *testing.T) {
	backend, err := storage.NewFilesystemBackend(t.TempDir())
	require.NoError(t, err)
	defer backend.Close()

	require.NoError(t, backend.Put(sampleReference("a")))
	require.NoError(t, backend.Put(sampleReference("b")))

	stats, err := backend.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalReferences)
	assert.Equal(t, 4, stats.TotalFingerprints)
}

func TestFilesystemBackendGetMissing(t *testing.T) {
	backend, err := storage.NewFilesystemBackend(t.TempDir())
	require.NoError(t, err)
	defer backend.Close()

	_, err = backend.Get("nope")
	assert.Error(t, err)
}

func TestFilesystemBackendDelete(t *testing.T) {
	backend, err := storage.NewFilesystemBackend(t.TempDir())
	require.NoError(t, err)
	defer backend.Close()

	require.NoError(t, backend.Put(sampleReference("a")))
	require.NoError(t, backend.Delete("a"))

	_, err = backend.Get("a")
	assert.Error(t, err)
}
