// Package bridge fans drain-result events out to every open consumer.
// Delivery is fire-and-forget and at-most-once per consumer; the
// authoritative state is always re-derivable from the queue and store,
// never from notifications alone.
package bridge

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Kind classifies a drain-result event.
type Kind string

const (
	// KindDelivered reports a mutation confirmed by the remote endpoint.
	KindDelivered Kind = "delivered"
	// KindFailed reports a mutation classified as permanently
	// undeliverable and removed from the queue.
	KindFailed Kind = "failed"
)

// Event is one drain result pushed to consumers.
type Event struct {
	Kind       Kind
	MutationID int64
	Detail     string
}

// MessageType is the wire-format type tag for inter-context messages.
const MessageType = "QUEUED_MUTATION_STATUS"

// Message is the structured wire format carried between a background
// execution context and foreground consumers.
type Message struct {
	Type    string  `json:"type"`
	Payload Payload `json:"payload"`
}

// Payload is the body of a Message.
type Payload struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Encode serializes an event into its wire format.
func Encode(ev Event) ([]byte, error) {
	msg := Message{
		Type: MessageType,
		Payload: Payload{
			ID:     ev.MutationID,
			Status: string(ev.Kind),
			Detail: ev.Detail,
		},
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encoding bridge message: %w", err)
	}
	return data, nil
}

// Decode parses a wire-format message back into an event. Messages of
// a different type are rejected.
func Decode(data []byte) (Event, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Event{}, fmt.Errorf("decoding bridge message: %w", err)
	}
	if msg.Type != MessageType {
		return Event{}, fmt.Errorf("unexpected message type %q", msg.Type)
	}
	return Event{
		Kind:       Kind(msg.Payload.Status),
		MutationID: msg.Payload.ID,
		Detail:     msg.Payload.Detail,
	}, nil
}

// Handler consumes events. Handlers must not block; a handler that is
// slow simply misses later events from its buffered feed.
type Handler func(Event)

// Bridge delivers events to all subscribed handlers. Safe for
// concurrent use from multiple goroutines.
type Bridge struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
	wg     sync.WaitGroup
}

// subscriberBuffer bounds how many undelivered events a consumer can
// lag behind before it starts missing them.
const subscriberBuffer = 16

// New returns an empty Bridge.
func New() *Bridge {
	return &Bridge{subs: make(map[int]chan Event)}
}

// Subscribe registers a handler and returns its unsubscribe function.
// Each subscriber is driven by its own goroutine so one consumer can
// never stall another or the broadcaster.
func (b *Bridge) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch
	b.mu.Unlock()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for ev := range ch {
			h(ev)
		}
	}()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if ch, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
	}
}

// Broadcast delivers ev to every current subscriber, at most once each.
// A subscriber whose buffer is full misses the event.
func (b *Bridge) Broadcast(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// Consumer lagging; drop rather than block the drainer.
		}
	}
}

// Close unsubscribes everyone and waits for in-flight handler calls.
func (b *Bridge) Close() {
	b.mu.Lock()
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
	b.mu.Unlock()
	b.wg.Wait()
}
