package content

import (
	"time"

	"github.com/google/uuid"
)

// Topic is a content idea that Content items are generated from.
// It lives in the content_topics table and is distinct from the file
// manager's FileTopic.
type Topic struct {
	id            string
	brandID       string
	themeTypeID   string
	productTypeID string
	title         string
	description   string
	status        TopicStatus
	createdBy     string
	createdAt     time.Time
	updatedAt     time.Time
}

// NewTopic creates a draft Topic with a fresh identifier.
func NewTopic(brandID, title, description, createdBy string) Topic {
	now := time.Now().UTC()
	return Topic{
		id:          uuid.NewString(),
		brandID:     brandID,
		title:       title,
		description: description,
		status:      TopicStatusDraft,
		createdBy:   createdBy,
		createdAt:   now,
		updatedAt:   now,
	}
}

// ReconstructTopic recreates a Topic from persistence or an API payload.
func ReconstructTopic(
	id string,
	brandID string,
	themeTypeID string,
	productTypeID string,
	title string,
	description string,
	status TopicStatus,
	createdBy string,
	createdAt time.Time,
	updatedAt time.Time,
) Topic {
	return Topic{
		id:            id,
		brandID:       brandID,
		themeTypeID:   themeTypeID,
		productTypeID: productTypeID,
		title:         title,
		description:   description,
		status:        status,
		createdBy:     createdBy,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// ID returns the topic identifier.
func (t Topic) ID() string { return t.id }

// BrandID returns the owning brand.
func (t Topic) BrandID() string { return t.brandID }

// ThemeTypeID returns the optional theme type.
func (t Topic) ThemeTypeID() string { return t.themeTypeID }

// ProductTypeID returns the optional product type.
func (t Topic) ProductTypeID() string { return t.productTypeID }

// Title returns the topic title.
func (t Topic) Title() string { return t.title }

// Description returns the topic description.
func (t Topic) Description() string { return t.description }

// Status returns the topic status.
func (t Topic) Status() TopicStatus { return t.status }

// CreatedBy returns the creating user.
func (t Topic) CreatedBy() string { return t.createdBy }

// CreatedAt returns when the topic was created.
func (t Topic) CreatedAt() time.Time { return t.createdAt }

// UpdatedAt returns when the topic was last modified.
func (t Topic) UpdatedAt() time.Time { return t.updatedAt }

// WithStatus returns a copy with the status changed.
func (t Topic) WithStatus(status TopicStatus) Topic {
	t.status = status
	t.updatedAt = time.Now().UTC()
	return t
}

// WithTypes returns a copy with the theme and product types set.
func (t Topic) WithTypes(themeTypeID, productTypeID string) Topic {
	t.themeTypeID = themeTypeID
	t.productTypeID = productTypeID
	return t
}

// FindTopic returns the topic with the given id from topics.
func FindTopic(topics []Topic, id string) (Topic, bool) {
	for _, t := range topics {
		if t.id == id {
			return t, true
		}
	}
	return Topic{}, false
}
