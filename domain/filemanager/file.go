package filemanager

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Tag values attached to files created from approved content.
const (
	TagContent       = "content"
	TagAutoGenerated = "auto-generated"
)

// DefaultImageType is the file type recorded for approved content images.
const DefaultImageType = "image/jpeg"

// FileItem is a file stored under a Platform. It either references an
// external path/URL or carries inline content.
type FileItem struct {
	id         string
	platformID string
	name       string
	fileType   string
	filePath   string
	content    string
	fileSize   int64
	tags       []string
}

// NewFileItem creates a FileItem with a fresh identifier.
func NewFileItem(platformID, name, fileType, filePath string, tags []string) FileItem {
	return FileItem{
		id:         uuid.NewString(),
		platformID: platformID,
		name:       name,
		fileType:   fileType,
		filePath:   filePath,
		tags:       append([]string(nil), tags...),
	}
}

// NewContentImage creates the FileItem that archives an approved content
// image. The name is unique per content and creation instant.
func NewContentImage(platformID, contentID, platform, imageURL string, at time.Time) FileItem {
	return NewFileItem(
		platformID,
		fmt.Sprintf("Content-%s-%d", contentID, at.UnixMilli()),
		DefaultImageType,
		imageURL,
		[]string{TagContent, platform, TagAutoGenerated},
	)
}

// ReconstructFileItem recreates a FileItem from persistence.
func ReconstructFileItem(id, platformID, name, fileType, filePath, content string, fileSize int64, tags []string) FileItem {
	return FileItem{
		id:         id,
		platformID: platformID,
		name:       name,
		fileType:   fileType,
		filePath:   filePath,
		content:    content,
		fileSize:   fileSize,
		tags:       append([]string(nil), tags...),
	}
}

// ID returns the identifier.
func (f FileItem) ID() string { return f.id }

// PlatformID returns the owning Platform identifier.
func (f FileItem) PlatformID() string { return f.platformID }

// Name returns the file name.
func (f FileItem) Name() string { return f.name }

// FileType returns the MIME type.
func (f FileItem) FileType() string { return f.fileType }

// FilePath returns the referenced path or URL.
func (f FileItem) FilePath() string { return f.filePath }

// Content returns inline content, if any.
func (f FileItem) Content() string { return f.content }

// FileSize returns the size in bytes, or 0 when unknown.
func (f FileItem) FileSize() int64 { return f.fileSize }

// Tags returns a copy of the tags.
func (f FileItem) Tags() []string { return append([]string(nil), f.tags...) }

// HasTag reports whether the file carries tag.
func (f FileItem) HasTag(tag string) bool {
	for _, t := range f.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// WithContent returns a copy carrying inline content and its size.
func (f FileItem) WithContent(content string) FileItem {
	f.content = content
	f.fileSize = int64(len(content))
	return f
}
