package filemanager

import "github.com/helixml/curator/domain/repository"

// TopicStore persists FileTopics (the "topics" table).
type TopicStore interface {
	repository.Store[FileTopic]
}

// PlatformStore persists Platforms. Save returns an error wrapping
// database.ErrConflict when (topic_id, platform_type) already exists.
type PlatformStore interface {
	repository.Store[Platform]
}

// FileStore persists FileItems.
type FileStore interface {
	repository.Store[FileItem]
}
