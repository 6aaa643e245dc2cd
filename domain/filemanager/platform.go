package filemanager

import (
	"fmt"

	"github.com/google/uuid"
)

// Platform groups the files of one FileTopic for one platform type.
// At most one Platform exists per (topicID, platformType).
type Platform struct {
	id           string
	topicID      string
	platformType string
	name         string
	description  string
}

// NewPlatform creates a Platform with a fresh identifier.
func NewPlatform(topicID, platformType, name, description string) Platform {
	return Platform{
		id:           uuid.NewString(),
		topicID:      topicID,
		platformType: platformType,
		name:         name,
		description:  description,
	}
}

// NewAutoPlatform creates the Platform provisioned during approval, named
// after the content topic title.
func NewAutoPlatform(topicID, platformType, title string) Platform {
	return NewPlatform(
		topicID,
		platformType,
		fmt.Sprintf("%s - %s", title, platformType),
		fmt.Sprintf("Auto-generated platform for %s on %s", title, platformType),
	)
}

// ReconstructPlatform recreates a Platform from persistence.
func ReconstructPlatform(id, topicID, platformType, name, description string) Platform {
	return Platform{
		id:           id,
		topicID:      topicID,
		platformType: platformType,
		name:         name,
		description:  description,
	}
}

// ID returns the identifier.
func (p Platform) ID() string { return p.id }

// TopicID returns the owning FileTopic identifier.
func (p Platform) TopicID() string { return p.topicID }

// PlatformType returns the platform type (e.g. "instagram").
func (p Platform) PlatformType() string { return p.platformType }

// Name returns the display name.
func (p Platform) Name() string { return p.name }

// Description returns the description.
func (p Platform) Description() string { return p.description }
