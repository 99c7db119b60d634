package stats

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is the refresh period for the live statistics view.
const DefaultInterval = 2 * time.Second

// Fetcher is the slice of the backend client the watcher needs.
type Fetcher interface {
	GetStats(ctx context.Context, pollID int64) (Snapshot, error)
}

// Watcher polls the statistics endpoint on a fixed interval and hands
// each snapshot to a callback. Fetches are serialized: the next one does
// not start until the previous finished, so snapshots always arrive in
// request order and a slow response cannot overwrite a newer one.
type Watcher struct {
	logger   *zap.Logger
	fetcher  Fetcher
	interval time.Duration
}

func NewWatcher(logger *zap.Logger, fetcher Fetcher, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{
		logger:   logger,
		fetcher:  fetcher,
		interval: interval,
	}
}

// Watch fetches immediately, then on every tick, until the context is
// canceled. Fetch failures are logged and skipped; the loop keeps going
// so a transient backend hiccup does not kill the live view.
func (w *Watcher) Watch(ctx context.Context, pollID int64, deliver func(Snapshot)) error {
	if err := w.fetch(ctx, pollID, deliver); err != nil {
		w.logger.Warn("stats fetch failed", zap.Int64("poll_id", pollID), zap.Error(err))
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.fetch(ctx, pollID, deliver); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				w.logger.Warn("stats fetch failed", zap.Int64("poll_id", pollID), zap.Error(err))
			}
		}
	}
}

func (w *Watcher) fetch(ctx context.Context, pollID int64, deliver func(Snapshot)) error {
	snapshot, err := w.fetcher.GetStats(ctx, pollID)
	if err != nil {
		return err
	}
	deliver(snapshot)
	return nil
}
