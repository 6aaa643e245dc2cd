package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/helixml/curator/domain/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChatServer mimics the chat completions endpoint. The first failCount
// requests answer with failStatus; the rest succeed.
func fakeChatServer(t *testing.T, counter *atomic.Int64, failCount int64, failStatus int, failMessage string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := counter.Add(1)
		w.Header().Set("Content-Type", "application/json")

		if n <= failCount {
			w.WriteHeader(failStatus)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": failMessage, "type": "error"},
			})
			return
		}

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  body.Model,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]any{
					"role":    "assistant",
					"content": "draft for " + body.Messages[len(body.Messages)-1].Content,
				},
			}},
		})
	}))
}

func newTestProvider(url string, retries int) *OpenAIProvider {
	return NewOpenAIProviderFromConfig(OpenAIConfig{
		APIKey:       "test-key",
		BaseURL:      url,
		ChatModel:    "test-model",
		MaxRetries:   retries,
		InitialDelay: time.Millisecond,
	})
}

func chatRequest() ChatCompletionRequest {
	return NewChatCompletionRequest([]Message{
		SystemMessage("You write social posts."),
		UserMessage("summer sale"),
	})
}

func TestOpenAIProvider_ChatCompletion(t *testing.T) {
	var counter atomic.Int64
	srv := fakeChatServer(t, &counter, 0, 0, "")
	defer srv.Close()

	resp, err := newTestProvider(srv.URL, -1).ChatCompletion(context.Background(), chatRequest())
	require.NoError(t, err)
	assert.Equal(t, "draft for summer sale", resp.Content())
	assert.Equal(t, "stop", resp.FinishReason())
	assert.Equal(t, int64(1), counter.Load())
}

func TestOpenAIProvider_RetriesTransientFailures(t *testing.T) {
	var counter atomic.Int64
	srv := fakeChatServer(t, &counter, 2, http.StatusServiceUnavailable, "busy")
	defer srv.Close()

	resp, err := newTestProvider(srv.URL, 3).ChatCompletion(context.Background(), chatRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Content())
	assert.Equal(t, int64(3), counter.Load())
}

func TestOpenAIProvider_RateLimitIsTagged(t *testing.T) {
	var counter atomic.Int64
	srv := fakeChatServer(t, &counter, 100, http.StatusTooManyRequests, "slow down")
	defer srv.Close()

	_, err := newTestProvider(srv.URL, 1).ChatCompletion(context.Background(), chatRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, generation.ErrRateLimited)

	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.True(t, perr.IsRateLimited())
	assert.Equal(t, int64(2), counter.Load())
}

func TestOpenAIProvider_NonRetryableFailsFast(t *testing.T) {
	var counter atomic.Int64
	srv := fakeChatServer(t, &counter, 100, http.StatusBadRequest, "bad prompt")
	defer srv.Close()

	_, err := newTestProvider(srv.URL, 3).ChatCompletion(context.Background(), chatRequest())
	require.Error(t, err)
	assert.NotErrorIs(t, err, generation.ErrRateLimited)
	assert.Equal(t, int64(1), counter.Load())
}

func TestOpenAIProvider_CancelledContext(t *testing.T) {
	var counter atomic.Int64
	srv := fakeChatServer(t, &counter, 0, 0, "")
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestProvider(srv.URL, -1).ChatCompletion(ctx, chatRequest())
	require.Error(t, err)
	assert.Equal(t, int64(0), counter.Load())
}
