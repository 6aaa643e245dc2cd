package invalidation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/helixml/curator/domain/invalidation"
)

// DefaultChannel is the pub/sub channel used when none is configured.
const DefaultChannel = "curator:invalidate"

// message is the JSON payload published on the channel.
type message struct {
	Origin string             `json:"origin"`
	Keys   []invalidation.Key `json:"keys"`
	At     time.Time          `json:"at"`
}

// Redis publishes invalidations to other instances over Redis pub/sub.
// Local subscribers are notified immediately; messages this instance
// published are ignored when they come back through the forwarder.
type Redis struct {
	local   *Memory
	rdb     *goredis.Client
	channel string
	origin  string
	logger  *slog.Logger
}

// NewRedis connects to addr and verifies the connection.
func NewRedis(ctx context.Context, addr, channel string, logger *slog.Logger) (*Redis, error) {
	if addr == "" {
		return nil, errors.New("redis address required")
	}
	if channel == "" {
		channel = DefaultChannel
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Redis{
		local:   NewMemory(),
		rdb:     rdb,
		channel: channel,
		origin:  uuid.NewString(),
		logger:  logger.With("component", "redis_invalidation"),
	}, nil
}

// Invalidate notifies local subscribers and publishes keys to the channel.
func (r *Redis) Invalidate(ctx context.Context, keys ...invalidation.Key) error {
	if len(keys) == 0 {
		return nil
	}
	_ = r.local.Invalidate(ctx, keys...)

	raw, err := encode(r.origin, keys)
	if err != nil {
		return err
	}
	if err := r.rdb.Publish(ctx, r.channel, raw).Err(); err != nil {
		return fmt.Errorf("publish invalidation: %w", err)
	}
	return nil
}

// Subscribe registers a local handler.
func (r *Redis) Subscribe(h invalidation.Handler) func() {
	return r.local.Subscribe(h)
}

// Forward subscribes to the channel and delivers remote invalidations to
// local subscribers until ctx is done.
func (r *Redis) Forward(ctx context.Context) error {
	sub := r.rdb.Subscribe(ctx, r.channel)
	defer func() { _ = sub.Close() }()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe: %w", err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok || m == nil {
				return nil
			}
			r.dispatch(ctx, []byte(m.Payload))
		}
	}
}

func (r *Redis) dispatch(ctx context.Context, payload []byte) {
	msg, err := decode(payload)
	if err != nil {
		r.logger.Warn("bad invalidation payload", slog.String("error", err.Error()))
		return
	}
	if msg.Origin == r.origin {
		return
	}
	_ = r.local.Invalidate(ctx, msg.Keys...)
}

// Close closes the Redis client.
func (r *Redis) Close() error {
	return r.rdb.Close()
}

func encode(origin string, keys []invalidation.Key) ([]byte, error) {
	raw, err := json.Marshal(message{Origin: origin, Keys: keys, At: time.Now().UTC()})
	if err != nil {
		return nil, fmt.Errorf("encode invalidation: %w", err)
	}
	return raw, nil
}

func decode(payload []byte) (message, error) {
	var msg message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return message{}, fmt.Errorf("decode invalidation: %w", err)
	}
	return msg, nil
}

var _ invalidation.Bus = (*Redis)(nil)
