// Package syncer drains the offline mutation queue against the remote
// endpoint when connectivity triggers fire. Replay is strictly FIFO and
// mutually exclusive across execution contexts via an advisory lock in
// the settings store.
package syncer

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/you112ef/boltstore/internal/bridge"
	"github.com/you112ef/boltstore/internal/store"
	"github.com/you112ef/boltstore/pkg/types"
)

// Defaults for Options fields left zero.
const (
	DefaultAttemptTimeout = 30 * time.Second
	DefaultLockTTL        = 2 * time.Minute
	DefaultInitialBackoff = 5 * time.Second
	DefaultMaxBackoff     = 5 * time.Minute
)

// Options configures a Coordinator.
type Options struct {
	// Client performs the replays; http.DefaultClient when nil.
	Client *http.Client

	// BaseURL prefixes relative mutation URLs (mutations captured from
	// the UI record origin-relative paths like "/api/chat").
	BaseURL string

	// AttemptTimeout bounds each individual replay so a hung call
	// cannot stall the whole cycle.
	AttemptTimeout time.Duration

	// LockTTL is the drain lock lease. It must comfortably exceed the
	// longest expected cycle.
	LockTTL time.Duration

	// InitialBackoff and MaxBackoff shape the retry delay after a
	// cycle that left transient failures queued.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Report summarizes one drain cycle.
type Report struct {
	// Delivered counts mutations confirmed and removed.
	Delivered int

	// Failed counts mutations classified terminal and removed.
	Failed int

	// Remaining counts mutations still queued after the cycle.
	Remaining int

	// Stopped is set when a network-level failure ended the cycle
	// early to preserve FIFO ordering.
	Stopped bool

	// Rejected carries the terminal failure for each mutation counted
	// in Failed, in replay order.
	Rejected []*types.TerminalDeliveryError
}

// Coordinator replays queued mutations. Safe for concurrent use; the
// advisory lock serializes actual drains across goroutines and across
// processes sharing the database.
type Coordinator struct {
	queue    *store.QueueStore
	settings *store.SettingStore
	bridge   *bridge.Bridge
	opts     Options

	mu       sync.Mutex
	failures int // consecutive cycles that left transient failures
}

// New returns a Coordinator over the given stores and bridge.
func New(queue *store.QueueStore, settings *store.SettingStore, b *bridge.Bridge, opts Options) *Coordinator {
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	if opts.AttemptTimeout <= 0 {
		opts.AttemptTimeout = DefaultAttemptTimeout
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = DefaultLockTTL
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = DefaultInitialBackoff
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = DefaultMaxBackoff
	}
	return &Coordinator{queue: queue, settings: settings, bridge: b, opts: opts}
}

// Drain replays the queue in FIFO order. Both trigger channels (the
// connectivity-restored signal and the periodic background signal) end
// up here. Returns ErrDrainLocked when another context holds the lock;
// the caller skips the cycle and relies on the owner to complete it.
func (c *Coordinator) Drain(ctx context.Context) (Report, error) {
	owner, err := acquireDrainLock(c.settings, c.opts.LockTTL, time.Now().UTC())
	if err != nil {
		return Report{}, err
	}
	defer releaseDrainLock(c.settings, owner)

	queued, err := c.queue.ListAll()
	if err != nil {
		return Report{}, err
	}

	var report Report
	for i, m := range queued {
		if ctx.Err() != nil {
			// Teardown: leave everything from here on queued.
			report.Remaining += len(queued) - i
			return report, ctx.Err()
		}

		status, err := c.replay(ctx, &m)
		switch {
		case err != nil:
			// Network-level failure: later mutations must not overtake
			// this one, so the cycle ends here.
			report.Remaining += len(queued) - i
			report.Stopped = true
			c.recordOutcome(report.Remaining > 0)
			return report, nil
		case status >= 200 && status < 300:
			if err := c.queue.Remove(m.ID); err != nil {
				return report, err
			}
			c.bridge.Broadcast(bridge.Event{
				Kind:       bridge.KindDelivered,
				MutationID: m.ID,
				Detail:     fmt.Sprintf("%d", status),
			})
			report.Delivered++
		case status >= 400 && status < 500:
			// Terminal: replaying a rejected request will never
			// succeed, so it comes off the queue.
			if err := c.queue.Remove(m.ID); err != nil {
				return report, err
			}
			derr := &types.TerminalDeliveryError{MutationID: m.ID, Status: status}
			c.bridge.Broadcast(bridge.Event{
				Kind:       bridge.KindFailed,
				MutationID: m.ID,
				Detail:     derr.Error(),
			})
			report.Failed++
			report.Rejected = append(report.Rejected, derr)
		default:
			// 5xx and anything else: transient, stays queued, but the
			// endpoint is reachable so later mutations still get their
			// attempt.
			report.Remaining++
		}
	}

	c.recordOutcome(report.Remaining > 0)
	return report, nil
}

// replay reconstructs the captured request byte-for-byte and performs
// it with a bounded timeout. No content transformation happens here.
func (c *Coordinator) replay(ctx context.Context, m *types.QueuedMutation) (int, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.opts.AttemptTimeout)
	defer cancel()

	target := m.URL
	if strings.HasPrefix(target, "/") && c.opts.BaseURL != "" {
		target = strings.TrimSuffix(c.opts.BaseURL, "/") + target
	}

	req, err := http.NewRequestWithContext(attemptCtx, m.Method, target, bytes.NewReader(m.Body))
	if err != nil {
		return 0, fmt.Errorf("rebuilding request for mutation %d: %w", m.ID, err)
	}
	for name, values := range m.Headers {
		req.Header[name] = append([]string(nil), values...)
	}

	resp, err := c.opts.Client.Do(req)
	if err != nil {
		return 0, &types.TransientDeliveryError{MutationID: m.ID, Err: err}
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

// NextDelay returns the backoff before the next drain should run:
// exponential in the number of consecutive cycles that left transient
// failures queued, capped, and zero when the queue drained clean.
func (c *Coordinator) NextDelay() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failures == 0 {
		return 0
	}
	delay := c.opts.InitialBackoff
	for i := 1; i < c.failures; i++ {
		delay *= 2
		if delay >= c.opts.MaxBackoff {
			return c.opts.MaxBackoff
		}
	}
	if delay > c.opts.MaxBackoff {
		delay = c.opts.MaxBackoff
	}
	return delay
}

func (c *Coordinator) recordOutcome(transientRemain bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if transientRemain {
		c.failures++
	} else {
		c.failures = 0
	}
}
