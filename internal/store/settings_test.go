package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you112ef/boltstore/pkg/types"
)

func TestSettingRoundTrip(t *testing.T) {
	settings := NewSettingStore(setupDB(t))

	require.NoError(t, settings.Put(types.KeyPromptID, json.RawMessage(`"default"`)))

	got, err := settings.Get(types.KeyPromptID)
	require.NoError(t, err)
	assert.JSONEq(t, `"default"`, string(got))

	// Last write wins on the natural key.
	require.NoError(t, settings.Put(types.KeyPromptID, json.RawMessage(`"optimized"`)))
	got, err = settings.Get(types.KeyPromptID)
	require.NoError(t, err)
	assert.JSONEq(t, `"optimized"`, string(got))
}

func TestSettingGetNotFound(t *testing.T) {
	settings := NewSettingStore(setupDB(t))

	_, err := settings.Get("never-written")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestSettingDeleteIdempotent(t *testing.T) {
	settings := NewSettingStore(setupDB(t))

	require.NoError(t, settings.Put("k", json.RawMessage(`true`)))
	require.NoError(t, settings.Delete("k"))
	require.NoError(t, settings.Delete("k"))

	_, err := settings.Get("k")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestSettingGetAllOrdered(t *testing.T) {
	settings := NewSettingStore(setupDB(t))

	require.NoError(t, settings.Put("zeta", json.RawMessage(`1`)))
	require.NoError(t, settings.Put("alpha", json.RawMessage(`2`)))

	all, err := settings.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "alpha", all[0].Key)
	assert.Equal(t, "zeta", all[1].Key)
}

func TestSettingUpdate(t *testing.T) {
	settings := NewSettingStore(setupDB(t))

	// First update sees the key as absent.
	err := settings.Update("counter", func(cur json.RawMessage, ok bool) (json.RawMessage, bool, error) {
		assert.False(t, ok)
		return json.RawMessage(`1`), true, nil
	})
	require.NoError(t, err)

	// Second update sees the committed value.
	err = settings.Update("counter", func(cur json.RawMessage, ok bool) (json.RawMessage, bool, error) {
		assert.True(t, ok)
		assert.JSONEq(t, `1`, string(cur))
		return json.RawMessage(`2`), true, nil
	})
	require.NoError(t, err)

	got, err := settings.Get("counter")
	require.NoError(t, err)
	assert.JSONEq(t, `2`, string(got))
}

func TestSettingUpdateNoWriteLeavesValue(t *testing.T) {
	settings := NewSettingStore(setupDB(t))
	require.NoError(t, settings.Put("k", json.RawMessage(`"keep"`)))

	err := settings.Update("k", func(cur json.RawMessage, ok bool) (json.RawMessage, bool, error) {
		return nil, false, nil
	})
	require.NoError(t, err)

	got, err := settings.Get("k")
	require.NoError(t, err)
	assert.JSONEq(t, `"keep"`, string(got))
}
