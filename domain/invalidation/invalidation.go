// Package invalidation provides the cache keys and bus contract used to
// tell read views that their data changed.
package invalidation

import "context"

// Key names a cached read view.
type Key string

// Cache keys.
const (
	KeyContent        Key = "content"
	KeyFileTopics     Key = "fileTopics"
	KeyFilePlatforms  Key = "filePlatforms"
	KeyFiles          Key = "files"
	KeyTopics         Key = "topics"
	KeyApprovedTopics Key = "approvedTopics"
)

// ApprovalKeys are invalidated after every content approval.
func ApprovalKeys() []Key {
	return []Key{KeyContent, KeyFileTopics, KeyFilePlatforms, KeyFiles}
}

// GenerationKeys are invalidated after a successful generation.
func GenerationKeys() []Key {
	return []Key{KeyApprovedTopics, KeyTopics, KeyContent}
}

// Handler receives invalidated keys.
type Handler func(ctx context.Context, keys []Key)

// Bus publishes invalidations to subscribers. Publishing is fire-and-forget
// from the caller's point of view; an error only reports delivery failure.
type Bus interface {
	Invalidate(ctx context.Context, keys ...Key) error
	Subscribe(h Handler) (unsubscribe func())
}

// Contains reports whether keys includes k.
func Contains(keys []Key, k Key) bool {
	for _, key := range keys {
		if key == k {
			return true
		}
	}
	return false
}
