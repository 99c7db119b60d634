package stats

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeFetcher) GetStats(ctx context.Context, pollID int64) (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return Snapshot{}, f.err
	}
	return Snapshot{SubmissionsCount: f.calls}, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestWatcher_DeliversOnInterval(t *testing.T) {
	fetcher := &fakeFetcher{}
	watcher := NewWatcher(zaptest.NewLogger(t), fetcher, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var seen []Snapshot
	done := make(chan error, 1)
	go func() {
		done <- watcher.Watch(ctx, 1, func(s Snapshot) {
			mu.Lock()
			seen = append(seen, s)
			if len(seen) == 3 {
				cancel()
			}
			mu.Unlock()
		})
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not deliver three snapshots in time")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) < 3 {
		t.Fatalf("expected at least 3 snapshots, got %d", len(seen))
	}
	// Serialized fetches deliver in request order.
	for i := 1; i < len(seen); i++ {
		if seen[i].SubmissionsCount <= seen[i-1].SubmissionsCount {
			t.Errorf("snapshots out of order: %d then %d",
				seen[i-1].SubmissionsCount, seen[i].SubmissionsCount)
		}
	}
}

func TestWatcher_StopsOnCancel(t *testing.T) {
	fetcher := &fakeFetcher{}
	watcher := NewWatcher(zaptest.NewLogger(t), fetcher, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := watcher.Watch(ctx, 1, func(Snapshot) {})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWatcher_SurvivesFetchErrors(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("backend down")}
	watcher := NewWatcher(zaptest.NewLogger(t), fetcher, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := watcher.Watch(ctx, 1, func(Snapshot) {
		t.Error("no snapshot should be delivered on fetch failure")
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	// The loop kept retrying instead of bailing on the first error.
	if fetcher.callCount() < 2 {
		t.Errorf("expected repeated fetch attempts, got %d", fetcher.callCount())
	}
}
