package persistence

import (
	"context"

	"github.com/helixml/curator/domain/content"
	"github.com/helixml/curator/internal/database"
)

// TopicStore implements content.TopicStore using GORM.
type TopicStore struct {
	database.Repository[content.Topic, TopicModel]
}

// NewTopicStore creates a new TopicStore.
func NewTopicStore(db database.Database) TopicStore {
	return TopicStore{
		Repository: database.NewRepository[content.Topic, TopicModel](db, TopicMapper{}, "topic"),
	}
}

// Save creates or updates a topic.
func (s TopicStore) Save(ctx context.Context, t content.Topic) (content.Topic, error) {
	return s.Upsert(ctx, t)
}

// Delete removes a topic.
func (s TopicStore) Delete(ctx context.Context, t content.Topic) error {
	return s.Remove(ctx, t)
}
