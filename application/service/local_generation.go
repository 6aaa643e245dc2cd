package service

import (
	"context"
	"fmt"

	"github.com/helixml/curator/domain/content"
	"github.com/helixml/curator/domain/generation"
	"github.com/helixml/curator/domain/repository"
	"github.com/helixml/curator/infrastructure/provider"
)

// LocalGeneration serves GenerationAPI from this process: topics come from
// the local store and drafts from the Generator. It is used when no remote
// generation API is configured.
type LocalGeneration struct {
	topics    content.TopicStore
	generator *Generator
}

// NewLocalGeneration creates a LocalGeneration. A nil generator makes
// Generate fail with provider.ErrUnsupportedOperation.
func NewLocalGeneration(topics content.TopicStore, generator *Generator) *LocalGeneration {
	return &LocalGeneration{topics: topics, generator: generator}
}

// ApprovedTopics returns the approved topics, newest first.
func (l *LocalGeneration) ApprovedTopics(ctx context.Context) ([]content.Topic, error) {
	return l.topics.Find(ctx,
		content.WithTopicStatus(content.TopicStatusApproved),
		repository.WithOrderDesc("created_at"),
	)
}

// Generate drafts content through the local Generator.
func (l *LocalGeneration) Generate(ctx context.Context, request generation.Request) (generation.Result, error) {
	if l.generator == nil {
		return generation.Result{}, fmt.Errorf("generate: no text provider configured: %w", provider.ErrUnsupportedOperation)
	}
	return l.generator.Generate(ctx, request)
}
