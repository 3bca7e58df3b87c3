package types

import (
	"errors"
	"os"
)

// Config holds the parameters for schema.Open.
type Config struct {
	// DataDir is the directory holding the database file. Created if
	// absent; defaults to the current directory when empty.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// LegacyKVPath points at a legacy key/value settings file from an
	// earlier release. Optional; empty disables that migration tier.
	LegacyKVPath string `json:"legacy_kv_path" yaml:"legacy_kv_path"`

	// LegacyCookiePath points at a legacy cookie-format settings file.
	// Optional; empty disables that migration tier.
	LegacyCookiePath string `json:"legacy_cookie_path" yaml:"legacy_cookie_path"`
}

// DatabaseFile is the on-disk name of the canonical database.
const DatabaseFile = "boltstore.db"

// Config validation errors.
var (
	ErrDataDirIsFile = errors.New("data dir exists and is not a directory")
)

// Validate checks that the Config is well-formed. An empty DataDir is
// valid and resolves to the current directory at open time.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return nil
	}
	info, err := os.Stat(c.DataDir)
	if err != nil {
		// A missing directory is fine; Open creates it.
		return nil
	}
	if !info.IsDir() {
		return ErrDataDirIsFile
	}
	return nil
}
