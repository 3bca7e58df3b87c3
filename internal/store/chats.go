// Package store provides the typed repositories over the boltstore
// schema: chats, snapshots, settings, and the offline mutation queue.
// Repositories confine their side effects to the database; none of them
// performs network I/O.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/you112ef/boltstore/internal/schema"
	"github.com/you112ef/boltstore/pkg/types"
)

// ChatStore is the repository for chat records. Lookups accept either
// the numeric ID or the human-shareable urlId.
type ChatStore struct {
	db *schema.DB
}

// NewChatStore returns a ChatStore over the given handle. A nil handle
// is accepted; every operation then reports ErrStoreUnavailable.
func NewChatStore(db *schema.DB) *ChatStore {
	return &ChatStore{db: db}
}

// Get retrieves a chat by ID, falling back to urlId lookup so callers
// can resolve either identifier form.
func (s *ChatStore) Get(id string) (*types.ChatRecord, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	if s.db.Conn() == nil {
		return nil, types.ErrStoreUnavailable
	}

	chat, err := s.getWhere("id = ?", id)
	if err == types.ErrNotFound {
		return s.GetByURLID(id)
	}
	return chat, err
}

// GetByURLID retrieves a chat by its urlId.
func (s *ChatStore) GetByURLID(urlID string) (*types.ChatRecord, error) {
	if urlID == "" {
		return nil, types.ErrInvalidID
	}
	if s.db.Conn() == nil {
		return nil, types.ErrStoreUnavailable
	}
	return s.getWhere("url_id = ?", urlID)
}

// GetAll returns every chat, ordered by numeric ID.
func (s *ChatStore) GetAll() ([]types.ChatRecord, error) {
	if s.db.Conn() == nil {
		return nil, types.ErrStoreUnavailable
	}

	rows, err := s.db.Conn().Query(
		"SELECT id, url_id, messages, description, timestamp, metadata FROM chats ORDER BY CAST(id AS INTEGER)",
	)
	if err != nil {
		return nil, fmt.Errorf("listing chats: %w", err)
	}
	defer rows.Close()

	var chats []types.ChatRecord
	for rows.Next() {
		chat, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		chats = append(chats, *chat)
	}
	return chats, rows.Err()
}

// Put creates or replaces a chat record. A zero Timestamp is stamped
// with the current time.
func (s *ChatStore) Put(chat *types.ChatRecord) error {
	if s.db.Conn() == nil {
		return types.ErrStoreUnavailable
	}
	return put(s.db.Conn(), chat)
}

func put(q dbtx, chat *types.ChatRecord) error {
	if chat == nil {
		return types.ErrInvalidData
	}
	if chat.ID == "" {
		return types.ErrInvalidID
	}

	if chat.Timestamp.IsZero() {
		chat.Timestamp = time.Now().UTC()
	}

	messages, err := json.Marshal(chat.Messages)
	if err != nil {
		return fmt.Errorf("encoding messages: %w", err)
	}
	var metadata any
	if chat.Metadata != nil {
		raw, err := json.Marshal(chat.Metadata)
		if err != nil {
			return fmt.Errorf("encoding metadata: %w", err)
		}
		metadata = string(raw)
	}
	var urlID any
	if chat.URLID != "" {
		urlID = chat.URLID
	}

	_, err = q.Exec(
		`INSERT INTO chats (id, url_id, messages, description, timestamp, metadata)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   url_id = excluded.url_id,
		   messages = excluded.messages,
		   description = excluded.description,
		   timestamp = excluded.timestamp,
		   metadata = excluded.metadata`,
		chat.ID, urlID, string(messages), chat.Description,
		chat.Timestamp.UTC().Format(time.RFC3339Nano), metadata,
	)
	if err != nil {
		return fmt.Errorf("persisting chat %s: %w", chat.ID, err)
	}
	return nil
}

// Delete removes a chat and, in the same transaction, its snapshot.
// Deleting an absent chat or an absent snapshot is success; only genuine
// storage errors propagate.
func (s *ChatStore) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	if s.db.Conn() == nil {
		return types.ErrStoreUnavailable
	}

	tx, err := s.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("beginning delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM chats WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting chat %s: %w", id, err)
	}
	if _, err := tx.Exec("DELETE FROM snapshots WHERE chat_id = ?", id); err != nil {
		return fmt.Errorf("deleting snapshot for chat %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete of chat %s: %w", id, err)
	}
	return nil
}

// NextID allocates the next numeric chat ID: max(existing)+1, starting
// at 1 on an empty store.
func (s *ChatStore) NextID() (string, error) {
	if s.db.Conn() == nil {
		return "", types.ErrStoreUnavailable
	}
	return nextID(s.db.Conn())
}

func nextID(q dbtx) (string, error) {
	var next int64
	err := q.QueryRow(
		"SELECT COALESCE(MAX(CAST(id AS INTEGER)), 0) + 1 FROM chats",
	).Scan(&next)
	if err != nil {
		return "", fmt.Errorf("allocating next chat ID: %w", err)
	}
	return strconv.FormatInt(next, 10), nil
}

// AllocateURLID derives a collision-free urlId from base by appending
// -2, -3, ... until the result is unused.
func (s *ChatStore) AllocateURLID(base string) (string, error) {
	if s.db.Conn() == nil {
		return "", types.ErrStoreUnavailable
	}
	return allocateURLID(s.db.Conn(), base)
}

func allocateURLID(q dbtx, base string) (string, error) {
	if base == "" {
		return "", types.ErrInvalidID
	}

	taken, err := urlIDs(q)
	if err != nil {
		return "", err
	}
	if !taken[base] {
		return base, nil
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if !taken[candidate] {
			return candidate, nil
		}
	}
}

// ForkChat copies messages up to and including messageID into a new
// chat and returns the new chat's urlId.
func (s *ChatStore) ForkChat(chatID, messageID string) (string, error) {
	chat, err := s.Get(chatID)
	if err != nil {
		return "", err
	}

	idx := chat.MessageIndex(messageID)
	if idx < 0 {
		return "", types.ErrMessageNotFound
	}

	description := "Forked chat"
	if chat.Description != "" {
		description = chat.Description + " (fork)"
	}
	return s.CreateFromMessages(description, chat.Messages[:idx+1], chat.Metadata)
}

// DuplicateChat copies the full message sequence into a new chat and
// returns the new chat's urlId.
func (s *ChatStore) DuplicateChat(chatID string) (string, error) {
	chat, err := s.Get(chatID)
	if err != nil {
		return "", err
	}

	description := chat.Description
	if description == "" {
		description = "Chat"
	}
	return s.CreateFromMessages(description+" (copy)", chat.Messages, chat.Metadata)
}

// CreateFromMessages persists a new chat with a freshly allocated ID
// and urlId, and returns the urlId for navigation. Allocation and
// insert run in one transaction so concurrent creates cannot claim the
// same ID.
func (s *ChatStore) CreateFromMessages(description string, messages []types.Message, metadata *types.ChatMetadata) (string, error) {
	if s.db.Conn() == nil {
		return "", types.ErrStoreUnavailable
	}

	tx, err := s.db.Conn().Begin()
	if err != nil {
		return "", fmt.Errorf("beginning chat creation: %w", err)
	}
	defer tx.Rollback()

	// Acquire the write lock up front; with a plain deferred BEGIN a
	// second creator could read the same ID ceiling before our insert.
	if _, err := tx.Exec("UPDATE chats SET id = id WHERE id = ''"); err != nil {
		return "", fmt.Errorf("locking chats for creation: %w", err)
	}

	id, err := nextID(tx)
	if err != nil {
		return "", err
	}
	urlID, err := allocateURLID(tx, id)
	if err != nil {
		return "", err
	}

	chat := &types.ChatRecord{
		ID:          id,
		URLID:       urlID,
		Messages:    messages,
		Description: description,
		Metadata:    metadata,
	}
	if err := put(tx, chat); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing chat %s: %w", id, err)
	}
	return urlID, nil
}

// UpdateDescription renames a chat. An empty description is rejected.
func (s *ChatStore) UpdateDescription(id, description string) error {
	if strings.TrimSpace(description) == "" {
		return types.ErrEmptyDescription
	}
	chat, err := s.Get(id)
	if err != nil {
		return err
	}
	chat.Description = description
	return s.Put(chat)
}

// UpdateMetadata replaces a chat's metadata; nil clears it.
func (s *ChatStore) UpdateMetadata(id string, metadata *types.ChatMetadata) error {
	chat, err := s.Get(id)
	if err != nil {
		return err
	}
	chat.Metadata = metadata
	return s.Put(chat)
}

func (s *ChatStore) getWhere(where string, arg any) (*types.ChatRecord, error) {
	row := s.db.Conn().QueryRow(
		"SELECT id, url_id, messages, description, timestamp, metadata FROM chats WHERE "+where, arg,
	)
	return scanChat(row)
}

func urlIDs(q dbtx) (map[string]bool, error) {
	rows, err := q.Query("SELECT url_id FROM chats WHERE url_id IS NOT NULL")
	if err != nil {
		return nil, fmt.Errorf("listing urlIds: %w", err)
	}
	defer rows.Close()

	taken := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning urlId: %w", err)
		}
		taken[id] = true
	}
	return taken, rows.Err()
}

// dbtx covers both *sql.DB and *sql.Tx, so allocation helpers run the
// same whether or not they are inside a transaction.
type dbtx interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanChat(row scanner) (*types.ChatRecord, error) {
	var (
		chat        types.ChatRecord
		urlID       sql.NullString
		description sql.NullString
		messages    string
		timestamp   string
		metadata    sql.NullString
	)
	err := row.Scan(&chat.ID, &urlID, &messages, &description, &timestamp, &metadata)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning chat: %w", err)
	}

	chat.URLID = urlID.String
	chat.Description = description.String
	if err := json.Unmarshal([]byte(messages), &chat.Messages); err != nil {
		return nil, fmt.Errorf("decoding messages for chat %s: %w", chat.ID, err)
	}
	chat.Timestamp, err = time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return nil, fmt.Errorf("decoding timestamp for chat %s: %w", chat.ID, err)
	}
	if metadata.Valid && metadata.String != "" {
		var m types.ChatMetadata
		if err := json.Unmarshal([]byte(metadata.String), &m); err != nil {
			return nil, fmt.Errorf("decoding metadata for chat %s: %w", chat.ID, err)
		}
		chat.Metadata = &m
	}
	return &chat, nil
}

