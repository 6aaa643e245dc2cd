// Package notify provides notify.Notifier sinks.
package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/helixml/curator/domain/notify"
)

// Log writes notifications to a structured logger.
type Log struct {
	logger *slog.Logger
}

// NewLog creates a Log sink.
func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

// Notify logs n at info for success and warn for errors.
func (l *Log) Notify(ctx context.Context, n notify.Notification) {
	level := slog.LevelInfo
	if n.Level == notify.LevelError {
		level = slog.LevelWarn
	}
	l.logger.Log(ctx, level, n.Title,
		slog.String("notification", string(n.Level)),
		slog.String("message", n.Message),
	)
}

// Recorder keeps notifications in memory, newest last. It backs the
// notifications endpoint and tests.
type Recorder struct {
	mu    sync.Mutex
	limit int
	items []notify.Notification
}

// NewRecorder creates a Recorder holding at most limit notifications.
// A limit of zero or less keeps everything.
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

// Notify records n.
func (r *Recorder) Notify(_ context.Context, n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
	if r.limit > 0 && len(r.items) > r.limit {
		r.items = append([]notify.Notification(nil), r.items[len(r.items)-r.limit:]...)
	}
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Notification(nil), r.items...)
}

// Fanout delivers every notification to each of its sinks.
type Fanout []notify.Notifier

// Notify forwards n to every sink.
func (f Fanout) Notify(ctx context.Context, n notify.Notification) {
	for _, sink := range f {
		sink.Notify(ctx, n)
	}
}

var (
	_ notify.Notifier = (*Log)(nil)
	_ notify.Notifier = (*Recorder)(nil)
	_ notify.Notifier = Fanout(nil)
)
