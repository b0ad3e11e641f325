package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panako/storage"
)

func TestLoadConfigMissingFileReturnsDefault(t *testing.T) {
	cfg, err := storage.LoadConfig("/nonexistent/panako-storage.yaml")
	require.NoError(t, err)
	assert.Equal(t, "filesystem", cfg.Backend)
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	cfg := storage.DefaultConfig()
	cfg.Backend = "carrier-pigeon"

	_, err := storage.Open(cfg)
	assert.Error(t, err)
}

func TestOpenFilesystemBackend(t *testing.T) {
	cfg := storage.DefaultConfig()
	cfg.Filesystem.BaseDirectory = t.TempDir()

	backend, err := storage.Open(cfg)
	require.NoError(t, err)
	defer backend.Close()

	stats, err := backend.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalReferences)
}
