// Package invalidation provides invalidation.Bus implementations: an
// in-process fan-out and a Redis pub/sub bus for multi-instance deployments.
package invalidation

import (
	"context"
	"sync"

	"github.com/helixml/curator/domain/invalidation"
)

// Memory delivers invalidations synchronously to in-process subscribers.
type Memory struct {
	mu       sync.RWMutex
	next     int
	handlers map[int]invalidation.Handler
}

// NewMemory creates an empty in-process bus.
func NewMemory() *Memory {
	return &Memory{handlers: make(map[int]invalidation.Handler)}
}

// Invalidate calls every subscriber with keys. It never fails.
func (m *Memory) Invalidate(ctx context.Context, keys ...invalidation.Key) error {
	if len(keys) == 0 {
		return nil
	}

	m.mu.RLock()
	handlers := make([]invalidation.Handler, 0, len(m.handlers))
	for _, h := range m.handlers {
		handlers = append(handlers, h)
	}
	m.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, append([]invalidation.Key(nil), keys...))
	}
	return nil
}

// Subscribe registers h and returns a function that removes it.
func (m *Memory) Subscribe(h invalidation.Handler) func() {
	m.mu.Lock()
	id := m.next
	m.next++
	m.handlers[id] = h
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.handlers, id)
			m.mu.Unlock()
		})
	}
}

var _ invalidation.Bus = (*Memory)(nil)
