package tracking

import (
	"context"
	"sync"

	"github.com/helixml/curator/domain/approval"
)

// Latest is a Reporter that keeps the most recent snapshot it received.
type Latest struct {
	mu       sync.RWMutex
	progress approval.Progress
	seen     bool
}

// NewLatest creates an empty Latest reporter.
func NewLatest() *Latest {
	return &Latest{}
}

// OnChange stores the snapshot.
func (l *Latest) OnChange(_ context.Context, progress approval.Progress) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.progress = progress
	l.seen = true
	return nil
}

// Progress returns the last snapshot, and false if no batch has reported yet.
func (l *Latest) Progress() (approval.Progress, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.progress, l.seen
}
