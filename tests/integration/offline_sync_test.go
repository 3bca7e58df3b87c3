// Offline sync integration tests: mutations queued while the endpoint
// is unreachable replay in order once connectivity returns.
package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/you112ef/boltstore/internal/bridge"
	"github.com/you112ef/boltstore/internal/store"
	"github.com/you112ef/boltstore/internal/syncer"
)

func TestOfflineQueueDrainsAfterReconnect(t *testing.T) {
	db, _ := setupStore(t)
	queue := store.NewQueueStore(db)
	settings := store.NewSettingStore(db)

	b := bridge.New()
	defer b.Close()
	var mu sync.Mutex
	var delivered []int64
	b.Subscribe(func(ev bridge.Event) {
		if ev.Kind == bridge.KindDelivered {
			mu.Lock()
			delivered = append(delivered, ev.MutationID)
			mu.Unlock()
		}
	})

	// The endpoint is down: capture mutations offline.
	base := time.Now().UTC()
	idA := mustEnqueue(t, queue, "/api/chat", base.Add(1*time.Second))
	idB := mustEnqueue(t, queue, "/api/snapshot", base.Add(2*time.Second))

	var mu2 sync.Mutex
	var served []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu2.Lock()
		served = append(served, r.URL.Path)
		mu2.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	srv.Close()

	coordinator := syncer.New(queue, settings, b, syncer.Options{
		BaseURL:        srv.URL,
		AttemptTimeout: 2 * time.Second,
	})

	// Draining against the dead endpoint leaves everything queued.
	report, err := coordinator.Drain(context.Background())
	if err != nil {
		t.Fatalf("offline Drain: %v", err)
	}
	if !report.Stopped || report.Remaining != 2 {
		t.Fatalf("offline report = %+v, want stopped with 2 remaining", report)
	}
	if got := queueLen(t, queue); got != 2 {
		t.Fatalf("queue depth = %d, want 2", got)
	}

	// Connectivity restored.
	srv2 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu2.Lock()
		served = append(served, r.URL.Path)
		mu2.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv2.Close()
	coordinator = syncer.New(queue, settings, b, syncer.Options{
		BaseURL:        srv2.URL,
		AttemptTimeout: 2 * time.Second,
	})

	report, err = coordinator.Drain(context.Background())
	if err != nil {
		t.Fatalf("online Drain: %v", err)
	}
	if report.Delivered != 2 || report.Remaining != 0 {
		t.Fatalf("online report = %+v, want 2 delivered", report)
	}
	if got := queueLen(t, queue); got != 0 {
		t.Fatalf("queue depth = %d, want 0", got)
	}

	mu2.Lock()
	if len(served) != 2 || served[0] != "/api/chat" || served[1] != "/api/snapshot" {
		t.Fatalf("served = %v, want [/api/chat /api/snapshot]", served)
	}
	mu2.Unlock()

	// Close flushes the subscriber goroutines before we read.
	b.Close()
	mu.Lock()
	defer mu.Unlock()
	if len(delivered) != 2 || delivered[0] != idA || delivered[1] != idB {
		t.Fatalf("delivered = %v, want [%d %d]", delivered, idA, idB)
	}
}

func TestRejectedMutationIsDroppedOthersProceed(t *testing.T) {
	db, _ := setupStore(t)
	queue := store.NewQueueStore(db)
	settings := store.NewSettingStore(db)
	b := bridge.New()
	defer b.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/rejected" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	base := time.Now().UTC()
	mustEnqueue(t, queue, "/rejected", base.Add(1*time.Second))
	mustEnqueue(t, queue, "/accepted", base.Add(2*time.Second))

	coordinator := syncer.New(queue, settings, b, syncer.Options{
		BaseURL:        srv.URL,
		AttemptTimeout: 2 * time.Second,
	})
	report, err := coordinator.Drain(context.Background())
	if err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if report.Failed != 1 || report.Delivered != 1 {
		t.Fatalf("report = %+v, want 1 failed and 1 delivered", report)
	}
	if got := queueLen(t, queue); got != 0 {
		t.Fatalf("queue depth = %d, want 0", got)
	}
}

func TestRunnerDrainsOnConnectivitySignal(t *testing.T) {
	db, _ := setupStore(t)
	queue := store.NewQueueStore(db)
	settings := store.NewSettingStore(db)
	b := bridge.New()
	defer b.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	mustEnqueue(t, queue, "/api/chat", time.Now().UTC())

	coordinator := syncer.New(queue, settings, b, syncer.Options{
		BaseURL:        srv.URL,
		AttemptTimeout: 2 * time.Second,
	})
	runner := syncer.NewRunner(coordinator, time.Hour)
	runner.Start(context.Background())
	defer runner.Stop()

	runner.ConnectivityRestored()

	deadline := time.Now().Add(5 * time.Second)
	for queueLen(t, queue) > 0 {
		if time.Now().After(deadline) {
			t.Fatal("queue did not drain after connectivity signal")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
