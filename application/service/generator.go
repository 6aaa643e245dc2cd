package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/helixml/curator/domain/content"
	"github.com/helixml/curator/domain/generation"
	"github.com/helixml/curator/domain/invalidation"
	"github.com/helixml/curator/domain/repository"
	"github.com/helixml/curator/infrastructure/provider"
)

// maxParallelPlatforms bounds concurrent provider calls per generation.
const maxParallelPlatforms = 4

// PlatformPrompt is a target platform and its writing instructions.
type PlatformPrompt struct {
	Name         string
	Instructions string
	MaxTokens    int
}

// DefaultPlatformPrompts returns the built-in platforms.
func DefaultPlatformPrompts() []PlatformPrompt {
	return []PlatformPrompt{
		{Name: "facebook", Instructions: "Write an engaging Facebook post of two to four short paragraphs."},
		{Name: "instagram", Instructions: "Write an Instagram caption with a strong first line and up to five hashtags."},
		{Name: "linkedin", Instructions: "Write a professional LinkedIn post that leads with an insight."},
		{Name: "twitter", Instructions: "Write a single tweet under 280 characters."},
	}
}

// Generator drafts one content item per platform from an approved topic.
// It backs the generate-from-approved endpoint.
type Generator struct {
	topicStore   content.TopicStore
	contentStore content.ContentStore
	text         provider.TextGenerator
	platforms    []PlatformPrompt
	bus          invalidation.Bus
	logger       *slog.Logger
}

// NewGenerator creates a new Generator.
func NewGenerator(
	topicStore content.TopicStore,
	contentStore content.ContentStore,
	text provider.TextGenerator,
	platforms []PlatformPrompt,
	bus invalidation.Bus,
	logger *slog.Logger,
) *Generator {
	if len(platforms) == 0 {
		platforms = DefaultPlatformPrompts()
	}
	return &Generator{
		topicStore:   topicStore,
		contentStore: contentStore,
		text:         text,
		platforms:    platforms,
		bus:          bus,
		logger:       logger,
	}
}

// Platforms returns the configured platform names.
func (g *Generator) Platforms() []string {
	names := make([]string, len(g.platforms))
	for i, p := range g.platforms {
		names[i] = p.Name
	}
	return names
}

// Generate drafts content for the topic in request. Provider rate limits
// surface as errors matching generation.ErrRateLimited.
func (g *Generator) Generate(ctx context.Context, request generation.Request) (generation.Result, error) {
	if strings.TrimSpace(request.TopicID) == "" {
		return generation.Result{}, fmt.Errorf("%w: topic_id is required", ErrValidation)
	}

	topic, err := g.topicStore.FindOne(ctx, repository.WithID(request.TopicID))
	if err != nil {
		return generation.Result{}, fmt.Errorf("find topic: %w", err)
	}
	if topic.Status() != content.TopicStatusApproved {
		return generation.Result{}, fmt.Errorf("%w: topic %s is %s, not approved", ErrValidation, topic.ID(), topic.Status())
	}

	drafts := make([]content.Content, len(g.platforms))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxParallelPlatforms)
	for i, platform := range g.platforms {
		group.Go(func() error {
			text, err := g.draft(groupCtx, topic, platform)
			if err != nil {
				return fmt.Errorf("draft %s: %w", platform.Name, err)
			}
			drafts[i] = content.NewContent(topic.ID(), platform.Name, text)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return generation.Result{}, err
	}

	if request.SaveToDB {
		saved, err := g.contentStore.SaveAll(ctx, drafts)
		if err != nil {
			return generation.Result{}, fmt.Errorf("save drafts: %w", err)
		}
		drafts = saved
		if err := g.bus.Invalidate(ctx, invalidation.GenerationKeys()...); err != nil {
			g.logger.Warn("failed to invalidate caches", slog.String("error", err.Error()))
		}
	}

	g.logger.Info("generated content",
		slog.String("topic_id", topic.ID()),
		slog.Int("drafts", len(drafts)),
		slog.Bool("saved", request.SaveToDB),
	)

	var related *content.Topic
	if request.WithRelated {
		related = &topic
	}
	return generation.NewResult(topic.ID(), related, drafts), nil
}

func (g *Generator) draft(ctx context.Context, topic content.Topic, platform PlatformPrompt) (string, error) {
	system := "You are a social media copywriter. " + platform.Instructions +
		" Reply with the post text only."
	user := fmt.Sprintf("Topic: %s\n\n%s", topic.Title(), topic.Description())

	req := provider.NewChatCompletionRequest([]provider.Message{
		provider.SystemMessage(system),
		provider.UserMessage(user),
	})
	if platform.MaxTokens > 0 {
		req = req.WithMaxTokens(platform.MaxTokens)
	}

	resp, err := g.text.ChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content()), nil
}
