// Package filemanager provides the file manager's own hierarchy:
// FileTopic → Platform → FileItem. It is namespace-separate from the
// content pipeline's Topic and Content.
package filemanager

import (
	"time"

	"github.com/google/uuid"
)

// FileTopic is a top-level folder in the file manager. Approval looks
// FileTopics up by name, matching the content Topic's title.
type FileTopic struct {
	id          string
	name        string
	description string
	createdAt   time.Time
	updatedAt   time.Time
}

// NewFileTopic creates a FileTopic with a fresh identifier.
func NewFileTopic(name, description string) FileTopic {
	now := time.Now().UTC()
	return FileTopic{
		id:          uuid.NewString(),
		name:        name,
		description: description,
		createdAt:   now,
		updatedAt:   now,
	}
}

// ReconstructFileTopic recreates a FileTopic from persistence.
func ReconstructFileTopic(id, name, description string, createdAt, updatedAt time.Time) FileTopic {
	return FileTopic{
		id:          id,
		name:        name,
		description: description,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ID returns the identifier.
func (t FileTopic) ID() string { return t.id }

// Name returns the folder name.
func (t FileTopic) Name() string { return t.name }

// Description returns the folder description.
func (t FileTopic) Description() string { return t.description }

// CreatedAt returns the creation time.
func (t FileTopic) CreatedAt() time.Time { return t.createdAt }

// UpdatedAt returns the last modification time.
func (t FileTopic) UpdatedAt() time.Time { return t.updatedAt }
