package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/you112ef/boltstore/internal/schema"
	"github.com/you112ef/boltstore/pkg/types"
)

// QueueStore is the repository for the offline mutation queue: an
// append-only log of remote writes captured while offline, drained FIFO
// by enqueue time.
type QueueStore struct {
	db *schema.DB
}

// NewQueueStore returns a QueueStore over the given handle.
func NewQueueStore(db *schema.DB) *QueueStore {
	return &QueueStore{db: db}
}

// Enqueue appends a mutation, assigning its auto-incrementing ID and,
// when unset, the current timestamp. A storage fault is returned to the
// caller so it can warn the user the action may be lost.
func (s *QueueStore) Enqueue(m *types.QueuedMutation) (int64, error) {
	if m == nil || m.URL == "" || m.Method == "" {
		return 0, types.ErrInvalidData
	}
	if s.db.Conn() == nil {
		return 0, types.ErrStoreUnavailable
	}

	if m.EnqueuedAt.IsZero() {
		m.EnqueuedAt = time.Now().UTC()
	}
	headers, err := json.Marshal(m.Headers)
	if err != nil {
		return 0, fmt.Errorf("encoding headers: %w", err)
	}

	res, err := s.db.Conn().Exec(
		"INSERT INTO mutation_queue (url, method, headers, body, enqueued_at) VALUES (?, ?, ?, ?, ?)",
		m.URL, m.Method, string(headers), m.Body, m.EnqueuedAt.UTC().UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("enqueuing mutation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading assigned mutation ID: %w", err)
	}
	m.ID = id
	return id, nil
}

// PeekOldest returns the mutation with the smallest enqueue time, or
// nil when the queue is empty.
func (s *QueueStore) PeekOldest() (*types.QueuedMutation, error) {
	if s.db.Conn() == nil {
		return nil, types.ErrStoreUnavailable
	}

	row := s.db.Conn().QueryRow(
		"SELECT id, url, method, headers, body, enqueued_at FROM mutation_queue ORDER BY enqueued_at, id LIMIT 1",
	)
	m, err := scanMutation(row)
	if err == types.ErrNotFound {
		return nil, nil
	}
	return m, err
}

// ListAll returns every queued mutation, ascending by enqueue time.
func (s *QueueStore) ListAll() ([]types.QueuedMutation, error) {
	if s.db.Conn() == nil {
		return nil, types.ErrStoreUnavailable
	}

	rows, err := s.db.Conn().Query(
		"SELECT id, url, method, headers, body, enqueued_at FROM mutation_queue ORDER BY enqueued_at, id",
	)
	if err != nil {
		return nil, fmt.Errorf("listing mutation queue: %w", err)
	}
	defer rows.Close()

	var queue []types.QueuedMutation
	for rows.Next() {
		m, err := scanMutation(rows)
		if err != nil {
			return nil, err
		}
		queue = append(queue, *m)
	}
	return queue, rows.Err()
}

// Remove deletes one queue entry. Removing an already-absent ID is
// success, which makes post-delivery cleanup safe to retry.
func (s *QueueStore) Remove(id int64) error {
	if s.db.Conn() == nil {
		return types.ErrStoreUnavailable
	}

	if _, err := s.db.Conn().Exec("DELETE FROM mutation_queue WHERE id = ?", id); err != nil {
		return fmt.Errorf("removing mutation %d: %w", id, err)
	}
	return nil
}

// Len reports the number of queued mutations.
func (s *QueueStore) Len() (int, error) {
	if s.db.Conn() == nil {
		return 0, types.ErrStoreUnavailable
	}

	var n int
	if err := s.db.Conn().QueryRow("SELECT COUNT(*) FROM mutation_queue").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting mutation queue: %w", err)
	}
	return n, nil
}

func scanMutation(row scanner) (*types.QueuedMutation, error) {
	var (
		m          types.QueuedMutation
		headers    string
		enqueuedAt int64
	)
	err := row.Scan(&m.ID, &m.URL, &m.Method, &headers, &m.Body, &enqueuedAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning mutation: %w", err)
	}

	if err := json.Unmarshal([]byte(headers), &m.Headers); err != nil {
		return nil, fmt.Errorf("decoding headers for mutation %d: %w", m.ID, err)
	}
	m.EnqueuedAt = time.Unix(0, enqueuedAt).UTC()
	return &m, nil
}
