package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/helixml/curator/domain/content"
	"github.com/helixml/curator/domain/generation"
	domaininvalidation "github.com/helixml/curator/domain/invalidation"
	"github.com/helixml/curator/domain/notify"
	"github.com/helixml/curator/infrastructure/generationapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const generatedBody = `{"topic_id":"t1","contents":[{"id":"c1","topic_id":"t1","platform":"facebook","text":"hi","status":"draft"}]}`

// scriptedServer answers generation calls with the given status codes in
// order, then with a successful body.
func scriptedServer(t *testing.T, calls *atomic.Int32, failures []int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(calls.Add(1))
		if n <= len(failures) {
			w.WriteHeader(failures[n-1])
			_, _ = w.Write([]byte(body))
			return
		}
		_, _ = w.Write([]byte(generatedBody))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newApprovedTopics(f fixture, url string) (*ApprovedTopics, *[]time.Duration) {
	svc := NewApprovedTopics(generationapi.NewClient(url), f.bus, f.recorder, discardLogger(), DefaultRetryPolicy())
	var sleeps []time.Duration
	svc.sleep = func(_ context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}
	return svc, &sleeps
}

func TestRetryPolicy_Delay(t *testing.T) {
	p := DefaultRetryPolicy()
	assert.Equal(t, time.Duration(0), p.Delay(0))
	assert.Equal(t, 2*time.Second, p.Delay(1))
	assert.Equal(t, 4*time.Second, p.Delay(2))
	assert.Equal(t, 8*time.Second, p.Delay(3))
}

func TestApprovedTopics_RetriesRateLimits(t *testing.T) {
	f := newFixture(t)
	var calls atomic.Int32
	srv := scriptedServer(t, &calls, []int{http.StatusTooManyRequests, http.StatusTooManyRequests}, `{"error":"slow down"}`)
	svc, sleeps := newApprovedTopics(f, srv.URL)
	defer svc.Close()

	var invalidated []domaininvalidation.Key
	f.bus.Subscribe(func(_ context.Context, keys []domaininvalidation.Key) { invalidated = append(invalidated, keys...) })

	result, err := svc.GenerateContentFromTopic(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, *sleeps)
	assert.Len(t, result.Contents(), 1)
	assert.ElementsMatch(t, domaininvalidation.GenerationKeys(), invalidated)

	toasts := f.recorder.All()
	require.Len(t, toasts, 1)
	assert.Equal(t, notify.LevelSuccess, toasts[0].Level)
}

func TestApprovedTopics_RetriesQuotaErrors(t *testing.T) {
	f := newFixture(t)
	var calls atomic.Int32
	srv := scriptedServer(t, &calls, []int{http.StatusInternalServerError}, `{"message":"Quota exceeded"}`)
	svc, sleeps := newApprovedTopics(f, srv.URL)
	defer svc.Close()

	_, err := svc.GenerateContentFromTopic(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, []time.Duration{2 * time.Second}, *sleeps)
}

func TestApprovedTopics_GivesUpWithOverloadedMessage(t *testing.T) {
	f := newFixture(t)
	var calls atomic.Int32
	srv := scriptedServer(t, &calls, []int{429, 429, 429, 429}, `{"error":"slow down"}`)
	svc, sleeps := newApprovedTopics(f, srv.URL)
	defer svc.Close()

	_, err := svc.GenerateContentFromTopic(context.Background(), "t1")
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Len(t, *sleeps, 2)

	var userErr *generation.UserError
	require.True(t, errors.As(err, &userErr))
	assert.Equal(t, generation.OverloadedMessage, userErr.Message())
	assert.ErrorIs(t, err, generation.ErrRateLimited)

	toasts := f.recorder.All()
	require.Len(t, toasts, 1)
	assert.Equal(t, notify.LevelError, toasts[0].Level)
	assert.Equal(t, generation.OverloadedMessage, toasts[0].Message)
}

func TestApprovedTopics_DoesNotRetryOtherErrors(t *testing.T) {
	f := newFixture(t)
	var calls atomic.Int32
	srv := scriptedServer(t, &calls, []int{http.StatusInternalServerError}, `{"error":"db down"}`)
	svc, sleeps := newApprovedTopics(f, srv.URL)
	defer svc.Close()

	_, err := svc.GenerateContentFromTopic(context.Background(), "t1")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Empty(t, *sleeps)

	var userErr *generation.UserError
	require.True(t, errors.As(err, &userErr))
	assert.Equal(t, "Failed to generate content", userErr.Message())
	assert.NotContains(t, userErr.Message(), "db down")
}

func TestApprovedTopics_RequiresTopic(t *testing.T) {
	f := newFixture(t)
	svc, _ := newApprovedTopics(f, "http://127.0.0.1:0")
	defer svc.Close()

	_, err := svc.GenerateContentFromTopic(context.Background(), "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestApprovedTopics_StopsWhenContextEnds(t *testing.T) {
	f := newFixture(t)
	var calls atomic.Int32
	srv := scriptedServer(t, &calls, []int{429, 429, 429}, `{}`)
	svc := NewApprovedTopics(generationapi.NewClient(srv.URL), f.bus, f.recorder, discardLogger(), DefaultRetryPolicy())
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	svc.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return sleepContext(ctx, d)
	}

	_, err := svc.GenerateContentFromTopic(ctx, "t1")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), calls.Load())
}

func TestApprovedTopics_FetchCachesUntilInvalidated(t *testing.T) {
	f := newFixture(t)
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"data":[{"id":"t1","title":"Summer Sale","status":"approved"},{"id":"t2","title":"Draft","status":"draft"}]}`))
	}))
	defer srv.Close()

	svc, _ := newApprovedTopics(f, srv.URL)
	defer svc.Close()
	ctx := context.Background()

	topics, err := svc.Fetch(ctx)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, "t1", topics[0].ID())

	_, err = svc.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	require.NoError(t, f.bus.Invalidate(ctx, domaininvalidation.KeyContent))
	_, err = svc.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load(), "unrelated keys keep the cache")

	require.NoError(t, f.bus.Invalidate(ctx, domaininvalidation.KeyApprovedTopics))
	_, err = svc.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

// gatedAPI blocks the first ApprovedTopics call until release is closed.
type gatedAPI struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (g *gatedAPI) ApprovedTopics(context.Context) ([]content.Topic, error) {
	now := time.Now().UTC()
	topic := content.ReconstructTopic("t1", "", "", "", "Summer Sale", "", content.TopicStatusApproved, "", now, now)
	if g.calls.Add(1) == 1 {
		close(g.started)
		<-g.release
		return []content.Topic{topic}, nil
	}
	return nil, nil
}

func (g *gatedAPI) Generate(context.Context, generation.Request) (generation.Result, error) {
	return generation.Result{}, nil
}

func TestApprovedTopics_FetchInvalidatedMidFlightIsNotCached(t *testing.T) {
	f := newFixture(t)
	api := &gatedAPI{started: make(chan struct{}), release: make(chan struct{})}
	svc := NewApprovedTopics(api, f.bus, f.recorder, discardLogger(), DefaultRetryPolicy())
	defer svc.Close()
	ctx := context.Background()

	done := make(chan []content.Topic, 1)
	go func() {
		topics, err := svc.Fetch(ctx)
		assert.NoError(t, err)
		done <- topics
	}()

	<-api.started
	require.NoError(t, f.bus.Invalidate(ctx, domaininvalidation.KeyApprovedTopics))
	close(api.release)
	require.Len(t, <-done, 1, "the in-flight caller still gets its answer")

	topics, err := svc.Fetch(ctx)
	require.NoError(t, err)
	assert.Empty(t, topics)
	assert.Equal(t, int32(2), api.calls.Load(), "the stale listing was not cached")
}

func TestApprovedTopics_FetchFailure(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	svc, _ := newApprovedTopics(f, srv.URL)
	defer svc.Close()

	_, err := svc.Fetch(context.Background())
	var apiErr *generationapi.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}
