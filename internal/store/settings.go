package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/you112ef/boltstore/internal/schema"
	"github.com/you112ef/boltstore/pkg/types"
)

// SettingStore is the repository for key/value setting entries. Entries
// are created lazily on first write; the key is the natural primary key,
// so concurrent writers of the same key converge on the last value.
type SettingStore struct {
	db *schema.DB
}

// NewSettingStore returns a SettingStore over the given handle.
func NewSettingStore(db *schema.DB) *SettingStore {
	return &SettingStore{db: db}
}

// Get retrieves the value stored under key. Returns ErrNotFound when
// the key has never been written.
func (s *SettingStore) Get(key string) (json.RawMessage, error) {
	if key == "" {
		return nil, types.ErrInvalidID
	}
	if s.db.Conn() == nil {
		return nil, types.ErrStoreUnavailable
	}

	var value string
	err := s.db.Conn().QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting setting %s: %w", key, err)
	}
	return json.RawMessage(value), nil
}

// GetAll returns every setting entry, ordered by key.
func (s *SettingStore) GetAll() ([]types.Setting, error) {
	if s.db.Conn() == nil {
		return nil, types.ErrStoreUnavailable
	}

	rows, err := s.db.Conn().Query("SELECT key, value FROM settings ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("listing settings: %w", err)
	}
	defer rows.Close()

	var settings []types.Setting
	for rows.Next() {
		var entry types.Setting
		var value string
		if err := rows.Scan(&entry.Key, &value); err != nil {
			return nil, fmt.Errorf("scanning setting: %w", err)
		}
		entry.Value = json.RawMessage(value)
		settings = append(settings, entry)
	}
	return settings, rows.Err()
}

// Put creates or replaces the value stored under key.
func (s *SettingStore) Put(key string, value json.RawMessage) error {
	if key == "" {
		return types.ErrInvalidID
	}
	if len(value) == 0 {
		return types.ErrInvalidData
	}
	if s.db.Conn() == nil {
		return types.ErrStoreUnavailable
	}

	_, err := s.db.Conn().Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, string(value),
	)
	if err != nil {
		return fmt.Errorf("persisting setting %s: %w", key, err)
	}
	return nil
}

// Delete removes the entry for key. Deleting an absent key is success.
func (s *SettingStore) Delete(key string) error {
	if key == "" {
		return types.ErrInvalidID
	}
	if s.db.Conn() == nil {
		return types.ErrStoreUnavailable
	}

	if _, err := s.db.Conn().Exec("DELETE FROM settings WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting setting %s: %w", key, err)
	}
	return nil
}

// Update runs a transactional read-modify-write of one key. fn receives
// the current value (ok reports presence) and returns the replacement;
// returning write=false leaves the entry untouched. The transaction is
// taken with BEGIN IMMEDIATE so two contexts cannot interleave between
// read and write, which is what the sync drain lock builds on.
func (s *SettingStore) Update(key string, fn func(cur json.RawMessage, ok bool) (next json.RawMessage, write bool, err error)) error {
	if key == "" {
		return types.ErrInvalidID
	}
	if s.db.Conn() == nil {
		return types.ErrStoreUnavailable
	}

	tx, err := s.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("beginning update of setting %s: %w", key, err)
	}
	defer tx.Rollback()

	// Acquire the write lock up front; a plain deferred BEGIN would let
	// another context slip a write in between our read and write.
	if _, err := tx.Exec("UPDATE settings SET key = key WHERE key = ?", key); err != nil {
		return fmt.Errorf("locking setting %s: %w", key, err)
	}

	var cur string
	ok := true
	err = tx.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&cur)
	if err == sql.ErrNoRows {
		ok = false
	} else if err != nil {
		return fmt.Errorf("reading setting %s: %w", key, err)
	}

	var curRaw json.RawMessage
	if ok {
		curRaw = json.RawMessage(cur)
	}
	next, write, err := fn(curRaw, ok)
	if err != nil {
		return err
	}
	if !write {
		return tx.Commit()
	}
	if len(next) == 0 {
		return types.ErrInvalidData
	}

	_, err = tx.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, string(next),
	)
	if err != nil {
		return fmt.Errorf("writing setting %s: %w", key, err)
	}
	return tx.Commit()
}
