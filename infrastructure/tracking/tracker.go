// Package tracking fans batch progress snapshots out to reporters.
package tracking

import (
	"context"
	"log/slog"
	"sync"

	"github.com/helixml/curator/domain/approval"
)

// Reporter is re-exported so callers wiring reporters only import tracking.
type Reporter = approval.Reporter

// Tracker holds the progress of one batch and propagates every change to
// its registered reporters.
type Tracker struct {
	progress    approval.Progress
	subscribers []Reporter
	logger      *slog.Logger
	mu          sync.RWMutex
}

// NewTracker creates a tracker for a batch of total items.
func NewTracker(total int, logger *slog.Logger, reporters ...Reporter) *Tracker {
	return &Tracker{
		progress:    approval.NewProgress(total),
		subscribers: append([]Reporter(nil), reporters...),
		logger:      logger,
	}
}

// Progress returns the current snapshot.
func (t *Tracker) Progress() approval.Progress {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.progress
}

// Subscribe adds a reporter to receive progress notifications.
func (t *Tracker) Subscribe(reporter Reporter) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subscribers = append(t.subscribers, reporter)
}

// Record counts one processed item and notifies subscribers.
func (t *Tracker) Record(ctx context.Context, outcome approval.Outcome) approval.Progress {
	t.mu.Lock()
	t.progress = t.progress.Record(outcome)
	progress := t.progress
	t.mu.Unlock()

	t.notifySubscribers(ctx, progress)
	return progress
}

// Complete marks the batch finished and notifies subscribers.
func (t *Tracker) Complete(ctx context.Context) approval.Progress {
	t.mu.Lock()
	t.progress = t.progress.Complete()
	progress := t.progress
	t.mu.Unlock()

	t.notifySubscribers(ctx, progress)
	return progress
}

// Notify announces the current snapshot without changing it.
func (t *Tracker) Notify(ctx context.Context) {
	t.notifySubscribers(ctx, t.Progress())
}

func (t *Tracker) notifySubscribers(ctx context.Context, progress approval.Progress) {
	t.mu.RLock()
	subscribers := make([]Reporter, len(t.subscribers))
	copy(subscribers, t.subscribers)
	t.mu.RUnlock()

	for _, subscriber := range subscribers {
		if err := subscriber.OnChange(ctx, progress); err != nil {
			// A failing reporter must not stop the others.
			t.logger.Error("failed to notify subscriber",
				slog.String("error", err.Error()),
				slog.String("batch_id", progress.ID()),
			)
		}
	}
}
