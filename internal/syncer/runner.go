package syncer

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Runner maps the host environment's trigger channels, an explicit
// connectivity-restored signal and a recurring background-sync tick,
// onto Coordinator.Drain. The core drain logic stays trigger-agnostic
// so it can be exercised directly.
type Runner struct {
	coordinator *Coordinator
	interval    time.Duration

	kick chan struct{}
	once sync.Once
	done chan struct{}
	wg   sync.WaitGroup
}

// NewRunner returns an unstarted Runner draining every interval.
func NewRunner(c *Coordinator, interval time.Duration) *Runner {
	return &Runner{
		coordinator: c,
		interval:    interval,
		kick:        make(chan struct{}, 1),
		done:        make(chan struct{}),
	}
}

// Start launches the drain loop. The loop exits when ctx is cancelled
// or Stop is called; a drain in flight aborts cleanly, leaving
// unprocessed mutations queued.
func (r *Runner) Start(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		timer := time.NewTimer(r.interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-r.done:
				return
			case <-r.kick:
			case <-timer.C:
			}

			// ErrDrainLocked means another context owns this cycle;
			// storage failures simply surface again on the next one.
			report, err := r.coordinator.Drain(ctx)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}

			next := r.interval
			if report.Remaining > 0 {
				if d := r.coordinator.NextDelay(); d > 0 && d < next {
					next = d
				}
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(next)
		}
	}()
}

// ConnectivityRestored requests an immediate drain. Signals coalesce;
// calling it while a drain is already pending is a no-op.
func (r *Runner) ConnectivityRestored() {
	select {
	case r.kick <- struct{}{}:
	default:
	}
}

// Stop ends the loop and waits for any in-flight drain to abort.
func (r *Runner) Stop() {
	r.once.Do(func() { close(r.done) })
	r.wg.Wait()
}
