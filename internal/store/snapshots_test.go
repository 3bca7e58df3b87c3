package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you112ef/boltstore/pkg/types"
)

func TestSnapshotRoundTrip(t *testing.T) {
	snapshots := NewSnapshotStore(setupDB(t))

	snap := &types.Snapshot{
		ChatID:  "1",
		Payload: json.RawMessage(`{"files":{"index.ts":"export {}"},"chatIndex":3}`),
	}
	require.NoError(t, snapshots.Put(snap))

	got, err := snapshots.Get("1")
	require.NoError(t, err)
	assert.Equal(t, snap, got)

	// Put replaces.
	snap.Payload = json.RawMessage(`{"files":{}}`)
	require.NoError(t, snapshots.Put(snap))
	got, err = snapshots.Get("1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"files":{}}`, string(got.Payload))
}

func TestSnapshotGetNotFound(t *testing.T) {
	snapshots := NewSnapshotStore(setupDB(t))

	_, err := snapshots.Get("missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestSnapshotDeleteIdempotent(t *testing.T) {
	snapshots := NewSnapshotStore(setupDB(t))

	require.NoError(t, snapshots.Put(&types.Snapshot{ChatID: "1", Payload: json.RawMessage(`{}`)}))
	require.NoError(t, snapshots.Delete("1"))
	require.NoError(t, snapshots.Delete("1"))
}

func TestSnapshotPutValidation(t *testing.T) {
	snapshots := NewSnapshotStore(setupDB(t))

	err := snapshots.Put(&types.Snapshot{ChatID: "", Payload: json.RawMessage(`{}`)})
	assert.ErrorIs(t, err, types.ErrInvalidID)

	err = snapshots.Put(&types.Snapshot{ChatID: "1"})
	assert.ErrorIs(t, err, types.ErrInvalidData)
}
