package v1_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/helixml/curator"
	"github.com/helixml/curator/domain/content"
	"github.com/helixml/curator/domain/generation"
	"github.com/helixml/curator/infrastructure/persistence"
	"github.com/helixml/curator/infrastructure/provider"
	"github.com/helixml/curator/internal/database"
	"github.com/stretchr/testify/require"
)

// fixture describes rows written before the client opens the database.
type fixture struct {
	topics   []content.Topic
	contents []content.Content
}

func topicFixture(id, title string, status content.TopicStatus, createdAt time.Time) content.Topic {
	return content.ReconstructTopic(id, "brand-1", "", "", title, title+" description", status, "user-1", createdAt, createdAt)
}

func contentFixture(id, topicID, platform, imageURL string, createdAt time.Time) content.Content {
	return content.ReconstructContent(id, topicID, platform, "copy for "+id, imageURL, content.StatusDraft, nil, createdAt, createdAt)
}

// newTestClient seeds a fresh SQLite database and opens a client on it.
func newTestClient(t *testing.T, seed fixture, opts ...curator.Option) *curator.Client {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "curator.db")

	db, err := database.NewDatabase(ctx, "sqlite:///"+dbPath)
	require.NoError(t, err)
	require.NoError(t, persistence.AutoMigrate(db))
	topics := persistence.NewTopicStore(db)
	for _, topic := range seed.topics {
		_, err = topics.Save(ctx, topic)
		require.NoError(t, err)
	}
	if len(seed.contents) > 0 {
		_, err = persistence.NewContentStore(db).SaveAll(ctx, seed.contents)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	base := []curator.Option{
		curator.WithSQLite(dbPath),
		curator.WithDataDir(dir),
		curator.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	client, err := curator.New(append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// serve mounts routes at prefix and performs one request against them.
func serve(t *testing.T, prefix string, routes chi.Router, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	router := chi.NewRouter()
	router.Mount(prefix, routes)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), "body: %s", w.Body.String())
	return v
}

// echoText answers every prompt with the last user message.
type echoText struct{}

func (echoText) ChatCompletion(_ context.Context, req provider.ChatCompletionRequest) (provider.ChatCompletionResponse, error) {
	messages := req.Messages()
	return provider.NewChatCompletionResponse("post about "+messages[len(messages)-1].Content(), "stop"), nil
}

// rateLimitedText always fails the way a throttled provider does.
type rateLimitedText struct{}

func (rateLimitedText) ChatCompletion(_ context.Context, _ provider.ChatCompletionRequest) (provider.ChatCompletionResponse, error) {
	perr := provider.NewProviderError("chat completion", http.StatusTooManyRequests, "rate limit exceeded", nil)
	return provider.ChatCompletionResponse{}, fmt.Errorf("%w: %w", generation.ErrRateLimited, perr)
}
