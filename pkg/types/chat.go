// ChatRecord entity and its message sequence.
package types

import (
	"errors"
	"time"
)

// Chat operation errors.
var (
	ErrEmptyDescription = errors.New("description cannot be empty")
	ErrMessageNotFound  = errors.New("message not found in chat")
)

// Message is one entry in a chat transcript.
type Message struct {
	// ID is assigned by the UI layer and unique within a chat.
	ID string `json:"id"`

	// Role is the message author kind ("user", "assistant", "system").
	Role string `json:"role"`

	// Content is the rendered message text.
	Content string `json:"content"`
}

// ChatMetadata carries deployment context attached to a chat by the UI.
// All fields are opaque to the persistence layer.
type ChatMetadata struct {
	GitURL        string `json:"gitUrl"`
	GitBranch     string `json:"gitBranch,omitempty"`
	NetlifySiteID string `json:"netlifySiteId,omitempty"`
}

// ChatRecord is a persisted chat transcript.
type ChatRecord struct {
	// ID is a numeric string, allocated as max(existing)+1.
	ID string `json:"id"`

	// URLID is the unique human-shareable identifier. Collisions are
	// resolved by appending -2, -3, ... until unused.
	URLID string `json:"urlId"`

	// Messages is the ordered transcript.
	Messages []Message `json:"messages"`

	// Description is a short human-readable title.
	Description string `json:"description,omitempty"`

	// Timestamp is the last-modified time.
	Timestamp time.Time `json:"timestamp"`

	// Metadata is optional deployment context; nil when unset.
	Metadata *ChatMetadata `json:"metadata,omitempty"`
}

// MessageIndex returns the index of the message with the given ID, or -1.
func (c *ChatRecord) MessageIndex(messageID string) int {
	for i, m := range c.Messages {
		if m.ID == messageID {
			return i
		}
	}
	return -1
}
