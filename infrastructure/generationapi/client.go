// Package generationapi is the HTTP client of the content generation API:
// the approved-topics listing and the generate-from-approved endpoint.
package generationapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/helixml/curator/domain/content"
	"github.com/helixml/curator/domain/generation"
	"github.com/helixml/curator/infrastructure/api/v1/dto"
)

// Endpoint paths relative to the base URL.
const (
	TopicsPath   = "/api/v1/topics"
	GeneratePath = "/api/v1/content/generate-from-approved"
)

// maxErrorBody caps how much of an error body is read.
const maxErrorBody = 64 << 10

// APIError is a non-2xx response from the generation API.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("generation api returned %d: %s", e.StatusCode, e.Message)
}

// Is reports rate-limit responses as generation.ErrRateLimited.
func (e *APIError) Is(target error) bool {
	return target == generation.ErrRateLimited && generation.IsRateLimit(e.StatusCode, e.Message)
}

// Client calls the generation API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sends key with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ApprovedTopics lists approved topics, normalizing whatever envelope the
// API wraps them in.
func (c *Client) ApprovedTopics(ctx context.Context) ([]content.Topic, error) {
	query := url.Values{"status": []string{string(content.TopicStatusApproved)}}
	req, err := c.newRequest(ctx, http.MethodGet, TopicsPath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch approved topics: %w", err)
	}
	return DecodeTopics(body), nil
}

// Generate asks the API to draft content for a topic. It makes exactly one
// attempt; callers decide whether to retry.
func (c *Client) Generate(ctx context.Context, request generation.Request) (generation.Result, error) {
	payload, err := json.Marshal(dto.GenerateRequest{
		TopicID:     request.TopicID,
		WithRelated: request.WithRelated,
		SaveToDB:    request.SaveToDB,
	})
	if err != nil {
		return generation.Result{}, fmt.Errorf("encode generate request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, GeneratePath, payload)
	if err != nil {
		return generation.Result{}, err
	}

	body, err := c.do(req)
	if err != nil {
		return generation.Result{}, err
	}

	var resp dto.GenerateResponse
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &resp); err != nil {
			return generation.Result{}, fmt.Errorf("decode generate response: %w", err)
		}
	}
	if resp.TopicID == "" {
		resp.TopicID = request.TopicID
	}
	return resp.Domain(), nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-KEY", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return req, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

// errorMessage extracts a message from the common error body shapes,
// falling back to the raw text.
func errorMessage(body []byte) string {
	var shaped struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
		Errors  []struct {
			Title  string `json:"title"`
			Detail string `json:"detail"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &shaped); err == nil {
		switch {
		case len(shaped.Errors) > 0 && shaped.Errors[0].Detail != "":
			return shaped.Errors[0].Detail
		case len(shaped.Errors) > 0 && shaped.Errors[0].Title != "":
			return shaped.Errors[0].Title
		case shaped.Message != "":
			return shaped.Message
		case len(shaped.Error) > 0:
			return nestedError(shaped.Error)
		}
	}
	return strings.TrimSpace(string(body))
}

func nestedError(raw json.RawMessage) string {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}
	return string(raw)
}

// AsAPIError unwraps an APIError from err.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
