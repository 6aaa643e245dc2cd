package invalidation

import (
	"context"
	"testing"

	"github.com/helixml/curator/domain/invalidation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_DeliversToSubscribers(t *testing.T) {
	bus := NewMemory()
	var a, b [][]invalidation.Key
	unsubA := bus.Subscribe(func(_ context.Context, keys []invalidation.Key) { a = append(a, keys) })
	bus.Subscribe(func(_ context.Context, keys []invalidation.Key) { b = append(b, keys) })

	require.NoError(t, bus.Invalidate(context.Background(), invalidation.ApprovalKeys()...))
	unsubA()
	unsubA()
	require.NoError(t, bus.Invalidate(context.Background(), invalidation.KeyApprovedTopics))

	assert.Len(t, a, 1)
	require.Len(t, b, 2)
	assert.Equal(t, []invalidation.Key{invalidation.KeyApprovedTopics}, b[1])
}

func TestMemory_EmptyKeysIsNoop(t *testing.T) {
	bus := NewMemory()
	called := false
	bus.Subscribe(func(context.Context, []invalidation.Key) { called = true })

	require.NoError(t, bus.Invalidate(context.Background()))
	assert.False(t, called)
}
