package types

import "encoding/json"

// Snapshot is a point-in-time capture of workspace state tied to a chat.
// At most one snapshot exists per chat; it is deleted with its chat.
type Snapshot struct {
	// ChatID is the owning chat's ID (1:1).
	ChatID string `json:"chatId"`

	// Payload is the serialized workspace state, opaque to this layer.
	Payload json.RawMessage `json:"payload"`
}
