// Package notify provides the user-notification (toast) contract.
package notify

import (
	"context"
	"time"
)

// Level is the toast severity.
type Level string

// Level values.
const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is one user-visible message.
type Notification struct {
	Level   Level     `json:"level"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// NewNotification creates a Notification stamped with the current time.
func NewNotification(level Level, title, message string) Notification {
	return Notification{Level: level, Title: title, Message: message, At: time.Now().UTC()}
}

// Notifier is a fire-and-forget sink for user notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Success sends a success notification.
func Success(ctx context.Context, n Notifier, title, message string) {
	n.Notify(ctx, NewNotification(LevelSuccess, title, message))
}

// Error sends an error notification.
func Error(ctx context.Context, n Notifier, title, message string) {
	n.Notify(ctx, NewNotification(LevelError, title, message))
}
