package filemanager

import "github.com/helixml/curator/domain/repository"

// WithName filters by the "name" column.
func WithName(name string) repository.Option {
	return repository.WithCondition("name", name)
}

// WithTopicID filters platforms by the "topic_id" column.
func WithTopicID(id string) repository.Option {
	return repository.WithCondition("topic_id", id)
}

// WithPlatformType filters platforms by the "platform_type" column.
func WithPlatformType(platformType string) repository.Option {
	return repository.WithCondition("platform_type", platformType)
}

// WithPlatformID filters files by the "platform_id" column.
func WithPlatformID(id string) repository.Option {
	return repository.WithCondition("platform_id", id)
}

// WithTopicPlatform filters platforms by (topic_id, platform_type), the
// platform's identity.
func WithTopicPlatform(topicID, platformType string) []repository.Option {
	return []repository.Option{WithTopicID(topicID), WithPlatformType(platformType)}
}
