package invalidation

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/helixml/curator/domain/invalidation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedis_EncodeDecode(t *testing.T) {
	raw, err := encode("node-a", []invalidation.Key{invalidation.KeyContent, invalidation.KeyApprovedTopics})
	require.NoError(t, err)

	msg, err := decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "node-a", msg.Origin)
	assert.Equal(t, []invalidation.Key{invalidation.KeyContent, invalidation.KeyApprovedTopics}, msg.Keys)
	assert.False(t, msg.At.IsZero())

	_, err = decode([]byte(`{"keys":`))
	assert.Error(t, err)
}

func TestRedis_DispatchIgnoresOwnMessages(t *testing.T) {
	r := &Redis{local: NewMemory(), origin: "self", logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	var got []invalidation.Key
	r.Subscribe(func(_ context.Context, keys []invalidation.Key) { got = append(got, keys...) })

	own, err := encode("self", []invalidation.Key{invalidation.KeyContent})
	require.NoError(t, err)
	remote, err := encode("other", []invalidation.Key{invalidation.KeyFiles})
	require.NoError(t, err)

	r.dispatch(context.Background(), own)
	r.dispatch(context.Background(), remote)
	r.dispatch(context.Background(), []byte("not json"))

	assert.Equal(t, []invalidation.Key{invalidation.KeyFiles}, got)
}

func TestRedis_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher, err := NewRedis(ctx, addr, "curator:test", logger)
	require.NoError(t, err)
	defer func() { _ = publisher.Close() }()
	receiver, err := NewRedis(ctx, addr, "curator:test", logger)
	require.NoError(t, err)
	defer func() { _ = receiver.Close() }()

	received := make(chan []invalidation.Key, 1)
	receiver.Subscribe(func(_ context.Context, keys []invalidation.Key) { received <- keys })
	go func() { _ = receiver.Forward(ctx) }()
	time.Sleep(200 * time.Millisecond)

	require.NoError(t, publisher.Invalidate(ctx, invalidation.KeyApprovedTopics))

	select {
	case keys := <-received:
		assert.Equal(t, []invalidation.Key{invalidation.KeyApprovedTopics}, keys)
	case <-ctx.Done():
		t.Fatal("invalidation not forwarded")
	}
}
