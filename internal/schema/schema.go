// Package schema owns the versioned on-disk layout of the boltstore
// database. Each release that adds a store bumps the target version and
// appends one additive upgrade step; steps are idempotent so a partially
// upgraded database can always be re-opened.
package schema

// TargetVersion is the schema version this build writes. The stored
// version is tracked in PRAGMA user_version.
const TargetVersion = 4

// DDL for each upgrade step. Every statement is guarded with IF NOT
// EXISTS so re-running a step that already created its objects is a
// no-op, never an error.
const (
	// Version 1 introduces chats.
	createChats = `CREATE TABLE IF NOT EXISTS chats (
    id TEXT PRIMARY KEY,
    url_id TEXT,
    messages TEXT NOT NULL,
    description TEXT,
    timestamp TEXT NOT NULL,
    metadata TEXT
);`
	idxChatsURLID = `CREATE UNIQUE INDEX IF NOT EXISTS idx_chats_url_id ON chats(url_id);`

	// Version 2 introduces snapshots (1:1 with chats).
	createSnapshots = `CREATE TABLE IF NOT EXISTS snapshots (
    chat_id TEXT PRIMARY KEY,
    payload TEXT NOT NULL
);`

	// Version 3 introduces the offline mutation queue. enqueued_at is
	// Unix nanoseconds: FIFO order is numeric order, which a textual
	// timestamp with variable-width fractional seconds cannot give.
	createMutationQueue = `CREATE TABLE IF NOT EXISTS mutation_queue (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    url TEXT NOT NULL,
    method TEXT NOT NULL,
    headers TEXT NOT NULL,
    body BLOB,
    enqueued_at INTEGER NOT NULL
);`
	idxQueueEnqueuedAt = `CREATE INDEX IF NOT EXISTS idx_mutation_queue_enqueued_at ON mutation_queue(enqueued_at);`

	// Version 4 introduces settings.
	createSettings = `CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`
)
