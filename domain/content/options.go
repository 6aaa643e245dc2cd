package content

import "github.com/helixml/curator/domain/repository"

// WithStatus filters content by the "status" column.
func WithStatus(status Status) repository.Option {
	return repository.WithCondition("status", string(status))
}

// WithTopicStatus filters topics by the "status" column.
func WithTopicStatus(status TopicStatus) repository.Option {
	return repository.WithCondition("status", string(status))
}

// WithTopicID filters content by the "topic_id" column.
func WithTopicID(id string) repository.Option {
	return repository.WithCondition("topic_id", id)
}

// WithTopicIDIn filters content by several topics.
func WithTopicIDIn(ids []string) repository.Option {
	return repository.WithConditionIn("topic_id", ids)
}

// WithPlatform filters content by the "platform" column.
func WithPlatform(platform string) repository.Option {
	return repository.WithCondition("platform", platform)
}

// WithBrandID filters topics by the "brand_id" column.
func WithBrandID(id string) repository.Option {
	return repository.WithCondition("brand_id", id)
}
