// Package integration provides shared test helpers for integration tests.
package integration

import (
	"testing"
	"time"

	"github.com/you112ef/boltstore/internal/schema"
	"github.com/you112ef/boltstore/internal/store"
	"github.com/you112ef/boltstore/pkg/types"
)

// setupStore opens a versioned store in an isolated temp directory.
// Each test case gets its own database for isolation.
func setupStore(t *testing.T) (*schema.DB, types.Config) {
	t.Helper()
	cfg := types.Config{DataDir: t.TempDir()}
	db, err := schema.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, cfg
}

// reopenStore closes db and opens a fresh handle over the same data
// directory, simulating a process restart.
func reopenStore(t *testing.T, db *schema.DB, cfg types.Config) *schema.DB {
	t.Helper()
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	reopened, err := schema.Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { reopened.Close() })
	return reopened
}

// mustPutChat persists a chat or fails the test.
func mustPutChat(t *testing.T, chats *store.ChatStore, chat *types.ChatRecord) {
	t.Helper()
	if err := chats.Put(chat); err != nil {
		t.Fatalf("Put chat %q: %v", chat.ID, err)
	}
}

// mustGetChat retrieves a chat by id or fails the test.
func mustGetChat(t *testing.T, chats *store.ChatStore, id string) *types.ChatRecord {
	t.Helper()
	chat, err := chats.Get(id)
	if err != nil {
		t.Fatalf("Get chat %q: %v", id, err)
	}
	return chat
}

// mustEnqueue queues a mutation or fails the test.
func mustEnqueue(t *testing.T, queue *store.QueueStore, url string, at time.Time) int64 {
	t.Helper()
	id, err := queue.Enqueue(&types.QueuedMutation{
		URL:        url,
		Method:     "POST",
		Headers:    map[string][]string{"Content-Type": {"application/json"}},
		Body:       []byte(`{"op":"sync"}`),
		EnqueuedAt: at,
	})
	if err != nil {
		t.Fatalf("Enqueue %q: %v", url, err)
	}
	return id
}

// queueLen returns the queue depth or fails the test.
func queueLen(t *testing.T, queue *store.QueueStore) int {
	t.Helper()
	n, err := queue.Len()
	if err != nil {
		t.Fatalf("Len: %v", err)
	}
	return n
}
