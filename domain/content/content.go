// Package content provides the content-pipeline domain types: generated
// social-media Content and the Topics it is generated from.
package content

import (
	"time"

	"github.com/google/uuid"
)

// Content is a single piece of generated social-media copy (and optional
// image) tied to one Topic and one platform.
type Content struct {
	id          string
	topicID     string
	platform    string
	text        string
	imageURL    string
	status      Status
	scheduledAt *time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

// NewContent creates a draft Content item with a fresh identifier.
func NewContent(topicID, platform, text string) Content {
	now := time.Now().UTC()
	return Content{
		id:        uuid.NewString(),
		topicID:   topicID,
		platform:  platform,
		text:      text,
		status:    StatusDraft,
		createdAt: now,
		updatedAt: now,
	}
}

// ReconstructContent recreates a Content from persistence.
func ReconstructContent(
	id string,
	topicID string,
	platform string,
	text string,
	imageURL string,
	status Status,
	scheduledAt *time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) Content {
	return Content{
		id:          id,
		topicID:     topicID,
		platform:    platform,
		text:        text,
		imageURL:    imageURL,
		status:      status,
		scheduledAt: scheduledAt,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ID returns the content identifier.
func (c Content) ID() string { return c.id }

// TopicID returns the identifier of the owning Topic.
func (c Content) TopicID() string { return c.topicID }

// Platform returns the target platform type (e.g. "facebook").
func (c Content) Platform() string { return c.platform }

// Text returns the generated copy.
func (c Content) Text() string { return c.text }

// ImageURL returns the attached image URL, or "" when there is none.
func (c Content) ImageURL() string { return c.imageURL }

// HasImage reports whether the content carries an image.
func (c Content) HasImage() bool { return c.imageURL != "" }

// Status returns the lifecycle status.
func (c Content) Status() Status { return c.status }

// ScheduledAt returns the publication time, if scheduled.
func (c Content) ScheduledAt() *time.Time {
	if c.scheduledAt == nil {
		return nil
	}
	t := *c.scheduledAt
	return &t
}

// CreatedAt returns when the content was created.
func (c Content) CreatedAt() time.Time { return c.createdAt }

// UpdatedAt returns when the content was last modified.
func (c Content) UpdatedAt() time.Time { return c.updatedAt }

// IsApproved reports whether the content has been approved.
func (c Content) IsApproved() bool { return c.status == StatusApproved }

// WithImageURL returns a copy carrying the given image URL.
func (c Content) WithImageURL(url string) Content {
	c.imageURL = url
	return c
}

// WithStatus returns a copy with the status changed and updatedAt set to at.
func (c Content) WithStatus(status Status, at time.Time) Content {
	c.status = status
	c.updatedAt = at
	return c
}

// WithSchedule returns a copy scheduled for publication at the given time.
func (c Content) WithSchedule(at time.Time) Content {
	c.scheduledAt = &at
	c.status = StatusScheduled
	c.updatedAt = time.Now().UTC()
	return c
}
