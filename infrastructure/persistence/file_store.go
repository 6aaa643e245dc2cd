package persistence

import (
	"context"

	"fmt"

	"github.com/helixml/curator/domain/filemanager"
	"github.com/helixml/curator/domain/repository"
	"github.com/helixml/curator/internal/database"
)

// FileTopicStore implements filemanager.TopicStore using GORM.
type FileTopicStore struct {
	database.Repository[filemanager.FileTopic, FileTopicModel]
}

// NewFileTopicStore creates a new FileTopicStore.
func NewFileTopicStore(db database.Database) FileTopicStore {
	return FileTopicStore{
		Repository: database.NewRepository[filemanager.FileTopic, FileTopicModel](db, FileTopicMapper{}, "file topic"),
	}
}

// Save creates or updates a file topic.
func (s FileTopicStore) Save(ctx context.Context, t filemanager.FileTopic) (filemanager.FileTopic, error) {
	return s.Upsert(ctx, t)
}

// Delete removes a file topic.
func (s FileTopicStore) Delete(ctx context.Context, t filemanager.FileTopic) error {
	return s.Remove(ctx, t)
}

// PlatformStore implements filemanager.PlatformStore using GORM.
type PlatformStore struct {
	database.Repository[filemanager.Platform, PlatformModel]
}

// NewPlatformStore creates a new PlatformStore.
func NewPlatformStore(db database.Database) PlatformStore {
	return PlatformStore{
		Repository: database.NewRepository[filemanager.Platform, PlatformModel](db, PlatformMapper{}, "platform"),
	}
}

// Save inserts a new platform or updates an existing one. Inserting a
// second platform for the same (topic, type) fails with database.ErrConflict.
func (s PlatformStore) Save(ctx context.Context, p filemanager.Platform) (filemanager.Platform, error) {
	exists, err := s.Exists(ctx, repository.WithID(p.ID()))
	if err != nil {
		return filemanager.Platform{}, err
	}
	if !exists {
		return s.Create(ctx, p)
	}

	result := s.DB(ctx).Model(&PlatformModel{}).
		Where("id = ?", p.ID()).
		Updates(map[string]any{"name": p.Name(), "description": p.Description()})
	if result.Error != nil {
		return filemanager.Platform{}, fmt.Errorf("update platform: %w", result.Error)
	}
	return p, nil
}

// Delete removes a platform.
func (s PlatformStore) Delete(ctx context.Context, p filemanager.Platform) error {
	return s.Remove(ctx, p)
}

// FileStore implements filemanager.FileStore using GORM.
type FileStore struct {
	database.Repository[filemanager.FileItem, FileModel]
}

// NewFileStore creates a new FileStore.
func NewFileStore(db database.Database) FileStore {
	return FileStore{
		Repository: database.NewRepository[filemanager.FileItem, FileModel](db, FileMapper{}, "file"),
	}
}

// Save creates or updates a file.
func (s FileStore) Save(ctx context.Context, f filemanager.FileItem) (filemanager.FileItem, error) {
	return s.Upsert(ctx, f)
}

// Delete removes a file.
func (s FileStore) Delete(ctx context.Context, f filemanager.FileItem) error {
	return s.Remove(ctx, f)
}
