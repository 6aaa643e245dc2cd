package persistence

import (
	"github.com/helixml/curator/domain/content"
	"github.com/helixml/curator/domain/filemanager"
)

// ContentMapper maps between domain Content and ContentModel.
type ContentMapper struct{}

// ToDomain converts a ContentModel to a domain Content.
func (m ContentMapper) ToDomain(e ContentModel) content.Content {
	return content.ReconstructContent(
		e.ID,
		e.TopicID,
		e.Platform,
		e.Text,
		deref(e.ImageURL),
		content.Status(e.Status),
		e.ScheduledAt,
		e.CreatedAt,
		e.UpdatedAt,
	)
}

// ToModel converts a domain Content to a ContentModel.
func (m ContentMapper) ToModel(c content.Content) ContentModel {
	return ContentModel{
		ID:          c.ID(),
		TopicID:     c.TopicID(),
		Platform:    c.Platform(),
		Text:        c.Text(),
		ImageURL:    optional(c.ImageURL()),
		Status:      string(c.Status()),
		ScheduledAt: c.ScheduledAt(),
		CreatedAt:   c.CreatedAt(),
		UpdatedAt:   c.UpdatedAt(),
	}
}

// TopicMapper maps between domain Topic and TopicModel.
type TopicMapper struct{}

// ToDomain converts a TopicModel to a domain Topic.
func (m TopicMapper) ToDomain(e TopicModel) content.Topic {
	return content.ReconstructTopic(
		e.ID,
		e.BrandID,
		deref(e.ThemeTypeID),
		deref(e.ProductTypeID),
		e.Title,
		e.Description,
		content.TopicStatus(e.Status),
		e.CreatedBy,
		e.CreatedAt,
		e.UpdatedAt,
	)
}

// ToModel converts a domain Topic to a TopicModel.
func (m TopicMapper) ToModel(t content.Topic) TopicModel {
	return TopicModel{
		ID:            t.ID(),
		BrandID:       t.BrandID(),
		ThemeTypeID:   optional(t.ThemeTypeID()),
		ProductTypeID: optional(t.ProductTypeID()),
		Title:         t.Title(),
		Description:   t.Description(),
		Status:        string(t.Status()),
		CreatedBy:     t.CreatedBy(),
		CreatedAt:     t.CreatedAt(),
		UpdatedAt:     t.UpdatedAt(),
	}
}

// FileTopicMapper maps between domain FileTopic and FileTopicModel.
type FileTopicMapper struct{}

// ToDomain converts a FileTopicModel to a domain FileTopic.
func (m FileTopicMapper) ToDomain(e FileTopicModel) filemanager.FileTopic {
	return filemanager.ReconstructFileTopic(e.ID, e.Name, e.Description, e.CreatedAt, e.UpdatedAt)
}

// ToModel converts a domain FileTopic to a FileTopicModel.
func (m FileTopicMapper) ToModel(t filemanager.FileTopic) FileTopicModel {
	return FileTopicModel{
		ID:          t.ID(),
		Name:        t.Name(),
		Description: t.Description(),
		CreatedAt:   t.CreatedAt(),
		UpdatedAt:   t.UpdatedAt(),
	}
}

// PlatformMapper maps between domain Platform and PlatformModel.
type PlatformMapper struct{}

// ToDomain converts a PlatformModel to a domain Platform.
func (m PlatformMapper) ToDomain(e PlatformModel) filemanager.Platform {
	return filemanager.ReconstructPlatform(e.ID, e.TopicID, e.PlatformType, e.Name, e.Description)
}

// ToModel converts a domain Platform to a PlatformModel.
func (m PlatformMapper) ToModel(p filemanager.Platform) PlatformModel {
	return PlatformModel{
		ID:           p.ID(),
		TopicID:      p.TopicID(),
		PlatformType: p.PlatformType(),
		Name:         p.Name(),
		Description:  p.Description(),
	}
}

// FileMapper maps between domain FileItem and FileModel.
type FileMapper struct{}

// ToDomain converts a FileModel to a domain FileItem.
func (m FileMapper) ToDomain(e FileModel) filemanager.FileItem {
	var size int64
	if e.FileSize != nil {
		size = *e.FileSize
	}
	return filemanager.ReconstructFileItem(
		e.ID,
		e.PlatformID,
		e.Name,
		e.FileType,
		deref(e.FilePath),
		deref(e.Content),
		size,
		[]string(e.Tags),
	)
}

// ToModel converts a domain FileItem to a FileModel.
func (m FileMapper) ToModel(f filemanager.FileItem) FileModel {
	var size *int64
	if f.FileSize() > 0 {
		s := f.FileSize()
		size = &s
	}
	return FileModel{
		ID:         f.ID(),
		PlatformID: f.PlatformID(),
		Name:       f.Name(),
		FileType:   f.FileType(),
		FilePath:   optional(f.FilePath()),
		Content:    optional(f.Content()),
		FileSize:   size,
		Tags:       f.Tags(),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
