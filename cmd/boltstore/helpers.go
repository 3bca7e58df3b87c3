// Shared helpers for boltstore CLI commands.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/you112ef/boltstore/internal/schema"
	"github.com/you112ef/boltstore/pkg/types"
)

// storeConfig builds the store configuration from the resolved data
// directory and any configured legacy settings files.
func storeConfig() (types.Config, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	return types.Config{
		DataDir:          dataDir,
		LegacyKVPath:     configLegacyKVPath,
		LegacyCookiePath: configLegacyCookiePath,
	}, nil
}

// openStore resolves the data directory and opens the versioned store.
// The caller must defer db.Close().
func openStore() (*schema.DB, types.Config, error) {
	cfg, err := storeConfig()
	if err != nil {
		return nil, types.Config{}, err
	}

	db, err := schema.Open(cfg)
	if err != nil {
		return nil, types.Config{}, fmt.Errorf("open store: %w", err)
	}
	return db, cfg, nil
}

// printEntity writes v as indented JSON to stdout.
func printEntity(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}

// isNotFound returns true if the error wraps ErrNotFound.
func isNotFound(err error) bool {
	return errors.Is(err, types.ErrNotFound)
}

// fatal prints the prefixed error to stderr and exits with code.
func fatal(code int, prefix string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", prefix, err)
	os.Exit(code)
}
