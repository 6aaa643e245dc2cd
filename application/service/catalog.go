package service

import (
	"context"

	"github.com/helixml/curator/domain/content"
	"github.com/helixml/curator/domain/filemanager"
	"github.com/helixml/curator/domain/repository"
)

// Catalog provides read access to topics and the file manager tree.
type Catalog struct {
	topics     repository.Collection[content.Topic]
	fileTopics repository.Collection[filemanager.FileTopic]
	platforms  repository.Collection[filemanager.Platform]
	files      repository.Collection[filemanager.FileItem]
}

// NewCatalog creates a new Catalog.
func NewCatalog(
	topicStore content.TopicStore,
	fileTopicStore filemanager.TopicStore,
	platformStore filemanager.PlatformStore,
	fileStore filemanager.FileStore,
) *Catalog {
	return &Catalog{
		topics:     repository.NewCollection[content.Topic](topicStore),
		fileTopics: repository.NewCollection[filemanager.FileTopic](fileTopicStore),
		platforms:  repository.NewCollection[filemanager.Platform](platformStore),
		files:      repository.NewCollection[filemanager.FileItem](fileStore),
	}
}

// Topics lists content topics, newest first.
func (c *Catalog) Topics(ctx context.Context, options ...repository.Option) ([]content.Topic, error) {
	return c.topics.Find(ctx, append(options, repository.WithOrderDesc("created_at"))...)
}

// FileTopics lists file-manager folders by name.
func (c *Catalog) FileTopics(ctx context.Context) ([]filemanager.FileTopic, error) {
	return c.fileTopics.Find(ctx, repository.WithOrderAsc("name"))
}

// Platforms lists the platform folders of a file topic.
func (c *Catalog) Platforms(ctx context.Context, fileTopicID string) ([]filemanager.Platform, error) {
	return c.platforms.Find(ctx, filemanager.WithTopicID(fileTopicID), repository.WithOrderAsc("platform_type"))
}

// Files lists the files of a platform folder.
func (c *Catalog) Files(ctx context.Context, platformID string) ([]filemanager.FileItem, error) {
	return c.files.Find(ctx, filemanager.WithPlatformID(platformID), repository.WithOrderAsc("name"))
}
