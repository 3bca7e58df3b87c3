package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/you112ef/boltstore/internal/schema"
	"github.com/you112ef/boltstore/pkg/types"
)

// SnapshotStore is the repository for workspace snapshots, keyed by the
// owning chat's ID.
type SnapshotStore struct {
	db *schema.DB
}

// NewSnapshotStore returns a SnapshotStore over the given handle.
func NewSnapshotStore(db *schema.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Get retrieves the snapshot for a chat. Returns ErrNotFound when the
// chat has no snapshot.
func (s *SnapshotStore) Get(chatID string) (*types.Snapshot, error) {
	if chatID == "" {
		return nil, types.ErrInvalidID
	}
	if s.db.Conn() == nil {
		return nil, types.ErrStoreUnavailable
	}

	var payload string
	err := s.db.Conn().QueryRow(
		"SELECT payload FROM snapshots WHERE chat_id = ?", chatID,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting snapshot for chat %s: %w", chatID, err)
	}
	return &types.Snapshot{ChatID: chatID, Payload: json.RawMessage(payload)}, nil
}

// Put creates or replaces the snapshot for a chat.
func (s *SnapshotStore) Put(snapshot *types.Snapshot) error {
	if snapshot == nil || len(snapshot.Payload) == 0 {
		return types.ErrInvalidData
	}
	if snapshot.ChatID == "" {
		return types.ErrInvalidID
	}
	if s.db.Conn() == nil {
		return types.ErrStoreUnavailable
	}

	_, err := s.db.Conn().Exec(
		`INSERT INTO snapshots (chat_id, payload) VALUES (?, ?)
		 ON CONFLICT(chat_id) DO UPDATE SET payload = excluded.payload`,
		snapshot.ChatID, string(snapshot.Payload),
	)
	if err != nil {
		return fmt.Errorf("persisting snapshot for chat %s: %w", snapshot.ChatID, err)
	}
	return nil
}

// Delete removes the snapshot for a chat. An already-absent snapshot is
// success; only genuine storage errors propagate.
func (s *SnapshotStore) Delete(chatID string) error {
	if chatID == "" {
		return types.ErrInvalidID
	}
	if s.db.Conn() == nil {
		return types.ErrStoreUnavailable
	}

	if _, err := s.db.Conn().Exec("DELETE FROM snapshots WHERE chat_id = ?", chatID); err != nil {
		return fmt.Errorf("deleting snapshot for chat %s: %w", chatID, err)
	}
	return nil
}
