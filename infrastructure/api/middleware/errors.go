package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/helixml/curator/application/service"
	"github.com/helixml/curator/domain/approval"
	"github.com/helixml/curator/domain/generation"
	"github.com/helixml/curator/infrastructure/provider"
	"github.com/helixml/curator/internal/database"
	"github.com/helixml/curator/internal/log"
)

// ErrAuthentication matches every AuthenticationError.
var ErrAuthentication = errors.New("authentication failed")

// APIError carries an explicit HTTP status.
type APIError struct {
	code    int
	message string
	cause   error
}

// NewAPIError creates an APIError.
func NewAPIError(code int, message string, cause error) *APIError {
	return &APIError{code: code, message: message, cause: cause}
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("api error %d: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("api error %d: %s", e.code, e.message)
}

// Code returns the HTTP status.
func (e *APIError) Code() int { return e.code }

// Message returns the client-facing message.
func (e *APIError) Message() string { return e.message }

// Unwrap returns the cause.
func (e *APIError) Unwrap() error { return e.cause }

// AuthenticationError is a missing or rejected credential.
type AuthenticationError struct {
	reason string
}

// NewAuthenticationError creates an AuthenticationError.
func NewAuthenticationError(reason string) *AuthenticationError {
	return &AuthenticationError{reason: reason}
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	return "authentication failed: " + e.reason
}

// Is matches ErrAuthentication.
func (e *AuthenticationError) Is(target error) bool { return target == ErrAuthentication }

// JSONAPIError represents a JSON:API error object.
type JSONAPIError struct {
	Status string `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
	ID     string `json:"id,omitempty"`
}

// JSONAPIErrorResponse represents a JSON:API error document.
type JSONAPIErrorResponse struct {
	Errors []JSONAPIError `json:"errors"`
}

// StatusFor maps an error to its HTTP status and title.
func StatusFor(err error) (int, string) {
	var apiErr *APIError
	var authErr *AuthenticationError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Code(), http.StatusText(apiErr.Code())
	case errors.As(err, &authErr):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, generation.ErrRateLimited):
		return http.StatusTooManyRequests, "Rate Limited"
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, "Validation Error"
	case errors.Is(err, database.ErrNotFound), errors.Is(err, approval.ErrTopicNotFound):
		return http.StatusNotFound, "Not Found"
	case errors.Is(err, database.ErrConflict), errors.Is(err, approval.ErrBatchInProgress):
		return http.StatusConflict, "Conflict"
	case errors.Is(err, provider.ErrUnsupportedOperation):
		return http.StatusNotImplemented, "Not Implemented"
	case errors.Is(err, service.ErrClientClosed):
		return http.StatusServiceUnavailable, "Service Unavailable"
	}
	return http.StatusInternalServerError, "Internal Server Error"
}

// WriteError writes a JSON:API error document. Generation failures are
// reported with their sanitized message; other 5xx details are hidden.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	status, title := StatusFor(err)

	detail := err.Error()
	var apiErr *APIError
	var userErr *generation.UserError
	switch {
	case errors.As(err, &apiErr):
		detail = apiErr.Message()
	case errors.As(err, &userErr):
		detail = userErr.Message()
	case status >= http.StatusInternalServerError:
		detail = http.StatusText(status)
	}

	correlationID := log.CorrelationID(r.Context())
	if logger != nil {
		logger.ErrorContext(r.Context(), "request error",
			slog.Int("status", status),
			slog.String("error", err.Error()),
			slog.String("path", r.URL.Path),
		)
	}

	resp := JSONAPIErrorResponse{
		Errors: []JSONAPIError{{
			Status: strconv.Itoa(status),
			Title:  title,
			Detail: detail,
			ID:     correlationID,
		}},
	}

	w.Header().Set("Content-Type", "application/vnd.api+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
