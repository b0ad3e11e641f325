package storage

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"panako/apperr"
)

// Config selects and parameterizes one storage backend. It is loaded
// from a YAML file (re-expressed here from the original TOML backend
// menu: filesystem / sqlite / mongo).
type Config struct {
	Backend    string           `yaml:"backend"`
	Filesystem FilesystemConfig `yaml:"filesystem"`
	SQLite     SQLiteConfig     `yaml:"sqlite"`
	Mongo      MongoConfig      `yaml:"mongo"`
}

type FilesystemConfig struct {
	BaseDirectory string `yaml:"base_directory"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type MongoConfig struct {
	URI string `yaml:"uri"`
}

// DefaultConfig is the filesystem/JSON backend rooted at ./fingerprints,
// matching the original source's own default.
func DefaultConfig() Config {
	return Config{
		Backend:    "filesystem",
		Filesystem: FilesystemConfig{BaseDirectory: "./fingerprints"},
		SQLite:     SQLiteConfig{Path: "./panako.db"},
		Mongo:      MongoConfig{URI: "mongodb://localhost:27017"},
	}
}

// LoadConfig reads a YAML storage config from path, falling back to
// DefaultConfig if path does not exist.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, apperr.Wrap(apperr.ErrConfigInvalid, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, apperr.Wrap(apperr.ErrConfigInvalid, fmt.Errorf("parsing storage config: %w", err))
	}
	return cfg, nil
}

// Open constructs the Backend named by cfg.Backend.
func Open(cfg Config) (Backend, error) {
	switch cfg.Backend {
	case "", "filesystem":
		return NewFilesystemBackend(cfg.Filesystem.BaseDirectory)
	case "sqlite":
		return NewSQLiteBackend(cfg.SQLite.Path)
	case "mongo", "mongodb":
		return NewMongoBackend(cfg.Mongo.URI)
	default:
		return nil, apperr.Wrap(apperr.ErrConfigInvalid, fmt.Errorf("unknown storage backend %q", cfg.Backend))
	}
}
