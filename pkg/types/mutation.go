// QueuedMutation entity and delivery error taxonomy.
package types

import (
	"errors"
	"fmt"
	"time"
)

// QueuedMutation is one pending remote write captured while offline.
// Replay must reconstruct the original request byte-for-byte; this layer
// performs no content transformation.
type QueuedMutation struct {
	// ID is auto-assigned by the queue store, monotonically increasing.
	ID int64 `json:"id"`

	// URL is the original request target.
	URL string `json:"url"`

	// Method is the original HTTP method.
	Method string `json:"method"`

	// Headers are the original request headers as captured.
	Headers map[string][]string `json:"headers"`

	// Body is the original request body bytes.
	Body []byte `json:"body"`

	// EnqueuedAt orders the queue (FIFO, oldest first).
	EnqueuedAt time.Time `json:"enqueuedAt"`
}

// Drain lock errors.
var (
	ErrDrainLocked   = errors.New("drain lock held by another context")
	ErrNotLockHolder = errors.New("caller is not the drain lock holder")
)

// TerminalDeliveryError reports a replay rejected with a 4xx status.
// The mutation is permanently undeliverable and has been removed.
type TerminalDeliveryError struct {
	MutationID int64
	Status     int
}

func (e *TerminalDeliveryError) Error() string {
	return fmt.Sprintf("mutation %d permanently rejected with status %d", e.MutationID, e.Status)
}

// TransientDeliveryError reports a replay that failed with a 5xx status
// or a network-level error. The mutation remains queued.
type TransientDeliveryError struct {
	MutationID int64
	Status     int // 0 for network-level failures
	Err        error
}

func (e *TransientDeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mutation %d delivery failed: %v", e.MutationID, e.Err)
	}
	return fmt.Sprintf("mutation %d delivery failed with status %d", e.MutationID, e.Status)
}

func (e *TransientDeliveryError) Unwrap() error { return e.Err }
