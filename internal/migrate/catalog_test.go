package migrate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you112ef/boltstore/pkg/types"
)

func TestLoaderMigratesCatalog(t *testing.T) {
	settings := setupSettings(t)
	dir := t.TempDir()
	kvPath := writeKVFile(t, dir, map[string]string{
		"isDeveloperMode": "true",
		"promptId":        "optimized",
	})
	cookiePath := writeCookieFile(t, dir,
		"tabConfiguration=%7B%22userTabs%22%3A%5B%5D%2C%22developerTabs%22%3A%5B%22debug%22%5D%7D\n")

	loader := NewLoader(settings, types.Config{
		LegacyKVPath:     kvPath,
		LegacyCookiePath: cookiePath,
	})
	require.NoError(t, loader.MigrateAll())

	developer, err := settings.Get(types.KeyDeveloperMode)
	require.NoError(t, err)
	assert.JSONEq(t, `true`, string(developer))

	prompt, err := settings.Get(types.KeyPromptID)
	require.NoError(t, err)
	assert.JSONEq(t, `"optimized"`, string(prompt))

	tabs, err := settings.Get(types.KeyTabConfiguration)
	require.NoError(t, err)
	assert.JSONEq(t, `{"userTabs":[],"developerTabs":["debug"]}`, string(tabs))

	// Keys with no legacy copy received their defaults.
	auto, err := settings.Get(types.KeyAutoSelectTemplate)
	require.NoError(t, err)
	assert.JSONEq(t, `true`, string(auto))
}

func TestLoaderAdHocKey(t *testing.T) {
	settings := setupSettings(t)
	loader := NewLoader(settings, types.Config{})

	value, err := loader.Load("customFlag", json.RawMessage(`false`))
	require.NoError(t, err)
	assert.JSONEq(t, `false`, string(value))

	canonical, err := settings.Get("customFlag")
	require.NoError(t, err)
	assert.JSONEq(t, `false`, string(canonical))
}

func TestLoaderProvisionalPrecedesMigration(t *testing.T) {
	settings := setupSettings(t)
	dir := t.TempDir()
	kvPath := writeKVFile(t, dir, map[string]string{"isEventLogsEnabled": "false"})

	loader := NewLoader(settings, types.Config{LegacyKVPath: kvPath})

	// Provisional peek sees the legacy value without migrating it.
	provisional := loader.LoadProvisional(types.KeyEventLogs, nil)
	assert.JSONEq(t, `false`, string(provisional))
	_, err := settings.Get(types.KeyEventLogs)
	assert.ErrorIs(t, err, types.ErrNotFound)

	// The canonical load then supersedes it.
	value, err := loader.Load(types.KeyEventLogs, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `false`, string(value))
}
