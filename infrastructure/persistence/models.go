package persistence

import (
	"time"

	"gorm.io/datatypes"
)

// ContentModel represents a generated content item in the database.
type ContentModel struct {
	ID          string     `gorm:"column:id;primaryKey;size:36"`
	TopicID     string     `gorm:"column:topic_id;index;size:36"`
	Platform    string     `gorm:"column:platform;index;size:64"`
	Text        string     `gorm:"column:text;type:text"`
	ImageURL    *string    `gorm:"column:image_url;size:2048"`
	Status      string     `gorm:"column:status;index;size:32"`
	ScheduledAt *time.Time `gorm:"column:scheduled_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (ContentModel) TableName() string {
	return "content"
}

// TopicModel represents a content topic in the database.
type TopicModel struct {
	ID            string    `gorm:"column:id;primaryKey;size:36"`
	BrandID       string    `gorm:"column:brand_id;index;size:36"`
	ThemeTypeID   *string   `gorm:"column:theme_type_id;size:36"`
	ProductTypeID *string   `gorm:"column:product_type_id;size:36"`
	Title         string    `gorm:"column:title;size:512"`
	Description   string    `gorm:"column:description;type:text"`
	Status        string    `gorm:"column:status;index;size:32"`
	CreatedBy     string    `gorm:"column:created_by;size:255"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (TopicModel) TableName() string {
	return "content_topics"
}

// FileTopicModel represents a file-manager folder in the database.
// Names are deliberately not unique.
type FileTopicModel struct {
	ID          string    `gorm:"column:id;primaryKey;size:36"`
	Name        string    `gorm:"column:name;index;size:512"`
	Description string    `gorm:"column:description;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (FileTopicModel) TableName() string {
	return "topics"
}

// PlatformModel represents a per-platform subfolder of a file topic.
type PlatformModel struct {
	ID           string    `gorm:"column:id;primaryKey;size:36"`
	TopicID      string    `gorm:"column:topic_id;uniqueIndex:idx_platforms_topic_type;size:36"`
	PlatformType string    `gorm:"column:platform_type;uniqueIndex:idx_platforms_topic_type;size:64"`
	Name         string    `gorm:"column:name;size:512"`
	Description  string    `gorm:"column:description;type:text"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (PlatformModel) TableName() string {
	return "platforms"
}

// FileModel represents an archived file in the database.
type FileModel struct {
	ID         string                      `gorm:"column:id;primaryKey;size:36"`
	PlatformID string                      `gorm:"column:platform_id;index;size:36"`
	Name       string                      `gorm:"column:name;size:512"`
	FileType   string                      `gorm:"column:file_type;size:255"`
	FilePath   *string                     `gorm:"column:file_path;size:2048"`
	Content    *string                     `gorm:"column:content;type:text"`
	FileSize   *int64                      `gorm:"column:file_size"`
	Tags       datatypes.JSONSlice[string] `gorm:"column:tags"`
	CreatedAt  time.Time                   `gorm:"column:created_at"`
	UpdatedAt  time.Time                   `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (FileModel) TableName() string {
	return "files"
}
