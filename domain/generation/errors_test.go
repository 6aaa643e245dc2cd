package generation

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRateLimit(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		message string
		want    bool
	}{
		{name: "429", status: http.StatusTooManyRequests, want: true},
		{name: "500 quota", status: http.StatusInternalServerError, message: "Quota exceeded for model", want: true},
		{name: "500 rate limit", status: http.StatusInternalServerError, message: "upstream Rate Limit hit", want: true},
		{name: "500 other", status: http.StatusInternalServerError, message: "database unavailable", want: false},
		{name: "503 quota", status: http.StatusServiceUnavailable, message: "quota", want: false},
		{name: "400", status: http.StatusBadRequest, message: "bad topic", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRateLimit(tt.status, tt.message))
		})
	}
}

func TestUserError_SanitizesRateLimit(t *testing.T) {
	cause := fmt.Errorf("api error 429: %w", ErrRateLimited)
	err := NewUserError("Failed to generate content", cause)

	assert.Equal(t, OverloadedMessage, err.Message())
	assert.True(t, errors.Is(err, ErrRateLimited))
}

func TestUserError_KeepsMessage(t *testing.T) {
	cause := errors.New("topic not approved")
	err := NewUserError("Failed to generate content", cause)

	assert.Equal(t, "Failed to generate content", err.Message())
	assert.Equal(t, "Failed to generate content: topic not approved", err.Error())
}
