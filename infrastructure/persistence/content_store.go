package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/helixml/curator/domain/content"
	"github.com/helixml/curator/internal/database"
	"gorm.io/gorm"
)

// ContentStore implements content.ContentStore using GORM.
type ContentStore struct {
	database.Repository[content.Content, ContentModel]
}

// NewContentStore creates a new ContentStore.
func NewContentStore(db database.Database) ContentStore {
	return ContentStore{
		Repository: database.NewRepository[content.Content, ContentModel](db, ContentMapper{}, "content"),
	}
}

// Save creates or updates a content item.
func (s ContentStore) Save(ctx context.Context, c content.Content) (content.Content, error) {
	return s.Upsert(ctx, c)
}

// SaveAll stores several content items in one transaction.
func (s ContentStore) SaveAll(ctx context.Context, items []content.Content) ([]content.Content, error) {
	if len(items) == 0 {
		return []content.Content{}, nil
	}

	models := make([]ContentModel, len(items))
	for i, c := range items {
		models[i] = s.Mapper().ToModel(c)
	}

	err := database.WithTransaction(ctx, s.Database(), func(tx *gorm.DB) error {
		return tx.Create(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("save content batch: %w", err)
	}

	saved := make([]content.Content, len(models))
	for i, m := range models {
		saved[i] = s.Mapper().ToDomain(m)
	}
	return saved, nil
}

// UpdateStatus sets the status of a single content item.
func (s ContentStore) UpdateStatus(ctx context.Context, id string, status content.Status, at time.Time) error {
	result := s.DB(ctx).Model(&ContentModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": string(status), "updated_at": at})
	if result.Error != nil {
		return fmt.Errorf("update content status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("update content status %s: %w", id, database.ErrNotFound)
	}
	return nil
}

// Delete removes a content item.
func (s ContentStore) Delete(ctx context.Context, c content.Content) error {
	return s.Remove(ctx, c)
}
