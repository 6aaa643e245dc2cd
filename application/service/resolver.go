package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/helixml/curator/domain/filemanager"
	"github.com/helixml/curator/domain/repository"
	"github.com/helixml/curator/internal/database"
)

// Resolver finds or creates the file-manager records that archive approved
// content: a FileTopic per content topic title, a Platform per
// (FileTopic, platform type), and a FileItem per content image.
type Resolver struct {
	topicStore    filemanager.TopicStore
	platformStore filemanager.PlatformStore
	fileStore     filemanager.FileStore
	logger        *slog.Logger
	now           func() time.Time
}

// NewResolver creates a new Resolver.
func NewResolver(
	topicStore filemanager.TopicStore,
	platformStore filemanager.PlatformStore,
	fileStore filemanager.FileStore,
	logger *slog.Logger,
) *Resolver {
	return &Resolver{
		topicStore:    topicStore,
		platformStore: platformStore,
		fileStore:     fileStore,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// EnsureFileTopic returns the id of the FileTopic named title, creating it
// when none exists. With several same-named topics the oldest wins.
func (r *Resolver) EnsureFileTopic(ctx context.Context, title, description string) (string, error) {
	existing, err := r.topicStore.Find(ctx,
		filemanager.WithName(title),
		repository.WithOrderAsc("created_at"),
		repository.WithLimit(1),
	)
	if err != nil {
		return "", fmt.Errorf("find file topic %q: %w", title, err)
	}
	if len(existing) > 0 {
		return existing[0].ID(), nil
	}

	created, err := r.topicStore.Save(ctx, filemanager.NewFileTopic(title, description))
	if err != nil {
		return "", fmt.Errorf("create file topic %q: %w", title, err)
	}
	r.logger.Info("created file topic", slog.String("file_topic_id", created.ID()), slog.String("name", title))
	return created.ID(), nil
}

// EnsurePlatform makes sure a Platform exists for (fileTopicID,
// platformType). Losing a creation race to another writer counts as success.
func (r *Resolver) EnsurePlatform(ctx context.Context, fileTopicID, platformType, title string) error {
	exists, err := r.platformStore.Exists(ctx, filemanager.WithTopicPlatform(fileTopicID, platformType)...)
	if err != nil {
		return fmt.Errorf("find platform %s: %w", platformType, err)
	}
	if exists {
		return nil
	}

	created, err := r.platformStore.Save(ctx, filemanager.NewAutoPlatform(fileTopicID, platformType, title))
	if errors.Is(err, database.ErrConflict) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create platform %s: %w", platformType, err)
	}
	r.logger.Info("created platform",
		slog.String("platform_id", created.ID()),
		slog.String("file_topic_id", fileTopicID),
		slog.String("platform_type", platformType),
	)
	return nil
}

// PlatformID looks up the Platform for (fileTopicID, platformType).
func (r *Resolver) PlatformID(ctx context.Context, fileTopicID, platformType string) (string, error) {
	platform, err := r.platformStore.FindOne(ctx, filemanager.WithTopicPlatform(fileTopicID, platformType)...)
	if err != nil {
		return "", fmt.Errorf("find platform %s: %w", platformType, err)
	}
	return platform.ID(), nil
}

// CreateFileForImage archives a content image under the given platform.
func (r *Resolver) CreateFileForImage(ctx context.Context, platformID, contentID, platform, imageURL string) error {
	file := filemanager.NewContentImage(platformID, contentID, platform, imageURL, r.now())
	if _, err := r.fileStore.Save(ctx, file); err != nil {
		return fmt.Errorf("create file for content %s: %w", contentID, err)
	}
	return nil
}
