package content

import (
	"context"
	"time"

	"github.com/helixml/curator/domain/repository"
)

// ContentStore persists Content items.
type ContentStore interface {
	repository.Store[Content]

	// UpdateStatus sets status and updated_at on the content with the given id.
	// It returns an error wrapping database.ErrNotFound when no row matches.
	UpdateStatus(ctx context.Context, id string, status Status, at time.Time) error

	// SaveAll stores several items atomically.
	SaveAll(ctx context.Context, items []Content) ([]Content, error)
}

// TopicStore persists Topics.
type TopicStore interface {
	repository.Store[Topic]
}
