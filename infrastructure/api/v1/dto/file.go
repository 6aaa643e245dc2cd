package dto

import (
	"time"

	"github.com/helixml/curator/domain/filemanager"
)

// FileTopicResponse represents a file-manager folder.
type FileTopicResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PlatformResponse represents a platform subfolder.
type PlatformResponse struct {
	ID           string `json:"id"`
	TopicID      string `json:"topic_id"`
	PlatformType string `json:"platform_type"`
	Name         string `json:"name"`
	Description  string `json:"description"`
}

// FileResponse represents an archived file.
type FileResponse struct {
	ID         string   `json:"id"`
	PlatformID string   `json:"platform_id"`
	Name       string   `json:"name"`
	FileType   string   `json:"file_type"`
	FilePath   string   `json:"file_path,omitempty"`
	Content    string   `json:"content,omitempty"`
	FileSize   int64    `json:"file_size,omitempty"`
	Tags       []string `json:"tags"`
}

// ListResponse is a generic data envelope.
type ListResponse[T any] struct {
	Data []T `json:"data"`
}

// NewFileTopicList converts domain FileTopics.
func NewFileTopicList(topics []filemanager.FileTopic) ListResponse[FileTopicResponse] {
	data := make([]FileTopicResponse, len(topics))
	for i, t := range topics {
		data[i] = FileTopicResponse{
			ID:          t.ID(),
			Name:        t.Name(),
			Description: t.Description(),
			CreatedAt:   t.CreatedAt(),
			UpdatedAt:   t.UpdatedAt(),
		}
	}
	return ListResponse[FileTopicResponse]{Data: data}
}

// NewPlatformList converts domain Platforms.
func NewPlatformList(platforms []filemanager.Platform) ListResponse[PlatformResponse] {
	data := make([]PlatformResponse, len(platforms))
	for i, p := range platforms {
		data[i] = PlatformResponse{
			ID:           p.ID(),
			TopicID:      p.TopicID(),
			PlatformType: p.PlatformType(),
			Name:         p.Name(),
			Description:  p.Description(),
		}
	}
	return ListResponse[PlatformResponse]{Data: data}
}

// NewFileList converts domain FileItems.
func NewFileList(files []filemanager.FileItem) ListResponse[FileResponse] {
	data := make([]FileResponse, len(files))
	for i, f := range files {
		data[i] = FileResponse{
			ID:         f.ID(),
			PlatformID: f.PlatformID(),
			Name:       f.Name(),
			FileType:   f.FileType(),
			FilePath:   f.FilePath(),
			Content:    f.Content(),
			FileSize:   f.FileSize(),
			Tags:       f.Tags(),
		}
	}
	return ListResponse[FileResponse]{Data: data}
}
