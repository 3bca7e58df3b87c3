package schema

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/you112ef/boltstore/pkg/types"
)

// step is one additive schema upgrade, keyed by the version that
// introduces it. Steps run in ascending order inside a transaction each.
type step struct {
	version int
	apply   func(tx *sql.Tx) error
}

// steps is the ordered upgrade ladder. Never reorder or edit a shipped
// step; append a new version instead.
var steps = []step{
	{1, func(tx *sql.Tx) error { return execAll(tx, createChats, idxChatsURLID) }},
	{2, func(tx *sql.Tx) error { return execAll(tx, createSnapshots) }},
	{3, func(tx *sql.Tx) error { return execAll(tx, createMutationQueue, idxQueueEnqueuedAt) }},
	{4, func(tx *sql.Tx) error { return execAll(tx, createSettings) }},
}

// DB is an open handle to the canonical database. It is safe for
// concurrent use and shared by all repositories.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens (creating if absent) the versioned database under
// cfg.DataDir and runs any pending upgrade steps. The returned handle
// owns the connection; call Close when done.
func Open(cfg types.Config) (*DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	path := filepath.Join(dataDir, types.DatabaseFile)

	// WAL lets concurrent contexts (multiple processes on the same
	// file) read while one writes; busy_timeout makes lock contention
	// wait instead of failing immediately. The pragmas ride on the DSN
	// so every pooled connection gets them, not just the first.
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := upgrade(db); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db: db, path: path}, nil
}

// OpenBestEffort opens the database, resolving to a nil handle instead
// of an error when the environment cannot host one. Callers treat a nil
// handle as "degrade to in-memory behavior"; every store method on a nil
// handle returns types.ErrStoreUnavailable.
func OpenBestEffort(cfg types.Config) *DB {
	h, err := Open(cfg)
	if err != nil {
		return nil
	}
	return h
}

// upgrade runs every step newer than the stored user_version. Each step
// commits atomically together with the version bump, so a crash between
// steps leaves a database that simply resumes from the next step.
func upgrade(db *sql.DB) error {
	var current int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, s := range steps {
		if s.version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("beginning upgrade to version %d: %w", s.version, err)
		}
		if err := s.apply(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("upgrading to version %d: %w", s.version, err)
		}
		// PRAGMA does not accept bind parameters.
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d;", s.version)); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording version %d: %w", s.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing version %d: %w", s.version, err)
		}
		current = s.version
	}
	return nil
}

// Version reports the stored schema version.
func (d *DB) Version() (int, error) {
	if d == nil {
		return 0, types.ErrStoreUnavailable
	}
	var v int
	if err := d.db.QueryRow("PRAGMA user_version;").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// Path returns the database file path.
func (d *DB) Path() string {
	if d == nil {
		return ""
	}
	return d.path
}

// Conn exposes the underlying connection pool to the repositories.
func (d *DB) Conn() *sql.DB {
	if d == nil {
		return nil
	}
	return d.db
}

// Close releases the connection. Safe on a nil handle.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

func execAll(tx *sql.Tx, stmts ...string) error {
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
