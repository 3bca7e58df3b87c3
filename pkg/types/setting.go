package types

import "encoding/json"

// Setting is a single key/value entry in the canonical settings store.
// Values are opaque serialized JSON; superset keys (e.g. all provider
// settings) store a serialized map under one key.
type Setting struct {
	// Key is the unique logical setting name.
	Key string `json:"key"`

	// Value is the serialized setting value.
	Value json.RawMessage `json:"value"`
}

// Well-known setting keys carried over from earlier releases. The
// migration chain in internal/migrate promotes legacy copies of these
// into the canonical store on first load.
const (
	KeyProviderSettings    = "provider_settings_all"
	KeyTabConfiguration    = "tabConfiguration"
	KeyLatestBranch        = "isLatestBranch"
	KeyAutoSelectTemplate  = "autoSelectTemplate"
	KeyContextOptimization = "contextOptimizationEnabled"
	KeyEventLogs           = "isEventLogsEnabled"
	KeyPromptID            = "promptId"
	KeyDeveloperMode       = "isDeveloperMode"
)
