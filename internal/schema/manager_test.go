package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you112ef/boltstore/pkg/types"
)

func TestOpenCreatesAllStores(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(types.Config{DataDir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	v, err := db.Version()
	require.NoError(t, err)
	assert.Equal(t, TargetVersion, v)

	for _, table := range []string{"chats", "snapshots", "mutation_queue", "settings"} {
		var name string
		err := db.Conn().QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	db, err := Open(types.Config{DataDir: dir})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Re-opening an already upgraded database must be a no-op.
	db, err = Open(types.Config{DataDir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	v, err := db.Version()
	require.NoError(t, err)
	assert.Equal(t, TargetVersion, v)
}

func TestUpgradeResumesFromPartialVersion(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(types.Config{DataDir: dir})
	require.NoError(t, err)

	// Roll the recorded version back while leaving the tables in place,
	// simulating a database from an older release.
	_, err = db.Conn().Exec("PRAGMA user_version = 2;")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(types.Config{DataDir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	v, err := db.Version()
	require.NoError(t, err)
	assert.Equal(t, TargetVersion, v)
}

func TestOpenBestEffortDegrades(t *testing.T) {
	// Point DataDir at an existing regular file so Open must fail.
	dir := t.TempDir()
	blocked := filepath.Join(dir, "occupied")
	writeFile(t, blocked, "not a directory")

	h := OpenBestEffort(types.Config{DataDir: blocked})
	assert.Nil(t, h)

	// A nil handle degrades rather than panics.
	_, err := h.Version()
	assert.ErrorIs(t, err, types.ErrStoreUnavailable)
	assert.NoError(t, h.Close())
}

func TestConfigValidateRejectsFileDataDir(t *testing.T) {
	dir := t.TempDir()
	blocked := filepath.Join(dir, "occupied")
	writeFile(t, blocked, "x")

	err := types.Config{DataDir: blocked}.Validate()
	assert.ErrorIs(t, err, types.ErrDataDirIsFile)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
