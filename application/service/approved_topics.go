package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/helixml/curator/domain/content"
	"github.com/helixml/curator/domain/generation"
	"github.com/helixml/curator/domain/invalidation"
	"github.com/helixml/curator/domain/notify"
)

// GenerationAPI is the remote content generation service.
type GenerationAPI interface {
	ApprovedTopics(ctx context.Context) ([]content.Topic, error)
	Generate(ctx context.Context, request generation.Request) (generation.Result, error)
}

// RetryPolicy controls how rate-limited generation calls are retried.
// The delay before retry n (starting at 1) is InitialDelay * BackoffFactor^(n-1).
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	BackoffFactor float64
}

// DefaultRetryPolicy retries twice, after 2s and then 4s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:    2,
		InitialDelay:  2 * time.Second,
		BackoffFactor: 2,
	}
}

// Delay returns the wait before the given retry.
func (p RetryPolicy) Delay(retry int) time.Duration {
	if retry < 1 {
		return 0
	}
	return time.Duration(float64(p.InitialDelay) * math.Pow(p.BackoffFactor, float64(retry-1)))
}

// ApprovedTopics reads approved topics from the generation API and asks it
// to draft content for them. The topic listing is cached until the
// approvedTopics key is invalidated.
type ApprovedTopics struct {
	api         GenerationAPI
	bus         invalidation.Bus
	notifier    notify.Notifier
	logger      *slog.Logger
	policy      RetryPolicy
	sleep       func(ctx context.Context, d time.Duration) error
	unsubscribe func()

	mu     sync.Mutex
	cached []content.Topic
	valid  bool
	// epoch advances on every invalidation; a fetch that started in an
	// earlier epoch must not fill the cache.
	epoch uint64
}

// NewApprovedTopics creates a new ApprovedTopics service subscribed to bus.
func NewApprovedTopics(
	api GenerationAPI,
	bus invalidation.Bus,
	notifier notify.Notifier,
	logger *slog.Logger,
	policy RetryPolicy,
) *ApprovedTopics {
	s := &ApprovedTopics{
		api:      api,
		bus:      bus,
		notifier: notifier,
		logger:   logger,
		policy:   policy,
		sleep:    sleepContext,
	}
	s.unsubscribe = bus.Subscribe(func(_ context.Context, keys []invalidation.Key) {
		if invalidation.Contains(keys, invalidation.KeyApprovedTopics) {
			s.clear()
		}
	})
	return s
}

// Close stops listening for invalidations.
func (s *ApprovedTopics) Close() {
	s.unsubscribe()
}

// Fetch returns the approved topics.
func (s *ApprovedTopics) Fetch(ctx context.Context) ([]content.Topic, error) {
	s.mu.Lock()
	if s.valid {
		topics := append([]content.Topic(nil), s.cached...)
		s.mu.Unlock()
		return topics, nil
	}
	epoch := s.epoch
	s.mu.Unlock()

	topics, err := s.api.ApprovedTopics(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch approved topics: %w", err)
	}

	s.mu.Lock()
	if s.epoch == epoch {
		s.cached = append([]content.Topic(nil), topics...)
		s.valid = true
	}
	s.mu.Unlock()
	return topics, nil
}

func (s *ApprovedTopics) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = nil
	s.valid = false
	s.epoch++
}

// GenerateContentFromTopic asks the API to draft and save content for
// topicID. Rate-limited attempts are retried per the policy; every other
// failure is final. Errors are *generation.UserError values whose message
// is safe to show.
func (s *ApprovedTopics) GenerateContentFromTopic(ctx context.Context, topicID string) (generation.Result, error) {
	if topicID == "" {
		return generation.Result{}, generation.NewUserError("A topic is required", ErrValidation)
	}
	log := s.logger.With(slog.String("topic_id", topicID))

	var result generation.Result
	for retry := 0; ; retry++ {
		var err error
		result, err = s.api.Generate(ctx, generation.NewRequest(topicID))
		if err == nil {
			break
		}

		if !errors.Is(err, generation.ErrRateLimited) || retry >= s.policy.MaxRetries {
			return generation.Result{}, s.fail(ctx, log, err)
		}

		delay := s.policy.Delay(retry + 1)
		log.Warn("generation rate limited, retrying",
			slog.Int("retry", retry+1),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()),
		)
		if err := s.sleep(ctx, delay); err != nil {
			return generation.Result{}, s.fail(ctx, log, err)
		}
	}

	if err := s.bus.Invalidate(ctx, invalidation.GenerationKeys()...); err != nil {
		log.Warn("failed to invalidate caches", slog.String("error", err.Error()))
	}
	notify.Success(ctx, s.notifier, "Content generated",
		fmt.Sprintf("%d draft(s) created from the topic.", len(result.Contents())))
	return result, nil
}

func (s *ApprovedTopics) fail(ctx context.Context, log *slog.Logger, err error) error {
	userErr := generation.NewUserError("Failed to generate content", err)
	log.Error("generation failed", slog.String("error", err.Error()))
	notify.Error(ctx, s.notifier, "Generation failed", userErr.Message())
	return userErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
