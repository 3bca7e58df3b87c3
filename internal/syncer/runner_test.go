package syncer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectivityRestoredTriggersDrain(t *testing.T) {
	f := setup(t)

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	f.enqueue(t, "/a", time.Now().UTC())

	// Interval far beyond the test so only the kick can drain.
	r := NewRunner(f.coordinator(srv.URL), time.Hour)
	r.Start(context.Background())
	t.Cleanup(r.Stop)

	r.ConnectivityRestored()

	require.Eventually(t, func() bool {
		n, err := f.queue.Len()
		return err == nil && n == 0
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(1), hits.Load())
}

func TestRunnerPeriodicDrain(t *testing.T) {
	f := setup(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	f.enqueue(t, "/a", time.Now().UTC())

	r := NewRunner(f.coordinator(srv.URL), 20*time.Millisecond)
	r.Start(context.Background())
	t.Cleanup(r.Stop)

	require.Eventually(t, func() bool {
		n, err := f.queue.Len()
		return err == nil && n == 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestRunnerStopIsIdempotent(t *testing.T) {
	f := setup(t)

	r := NewRunner(f.coordinator("http://127.0.0.1:0"), time.Hour)
	r.Start(context.Background())
	r.Stop()
	r.Stop()
}

func TestRunnerStopsOnContextCancel(t *testing.T) {
	f := setup(t)

	ctx, cancel := context.WithCancel(context.Background())
	r := NewRunner(f.coordinator("http://127.0.0.1:0"), time.Hour)
	r.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop after context cancellation")
	}
}
