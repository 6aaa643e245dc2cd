// Package dto provides the JSON wire types of the HTTP API. The topic and
// content shapes are shared with the generation API client.
package dto

import (
	"time"

	"github.com/helixml/curator/domain/content"
)

// TopicResponse represents a content topic on the wire.
type TopicResponse struct {
	ID            string    `json:"id"`
	BrandID       string    `json:"brand_id"`
	ThemeTypeID   string    `json:"theme_type_id,omitempty"`
	ProductTypeID string    `json:"product_type_id,omitempty"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	CreatedBy     string    `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TopicListResponse is the envelope of a topic listing.
type TopicListResponse struct {
	Data []TopicResponse `json:"data"`
}

// NewTopicResponse converts a domain Topic.
func NewTopicResponse(t content.Topic) TopicResponse {
	return TopicResponse{
		ID:            t.ID(),
		BrandID:       t.BrandID(),
		ThemeTypeID:   t.ThemeTypeID(),
		ProductTypeID: t.ProductTypeID(),
		Title:         t.Title(),
		Description:   t.Description(),
		Status:        string(t.Status()),
		CreatedBy:     t.CreatedBy(),
		CreatedAt:     t.CreatedAt(),
		UpdatedAt:     t.UpdatedAt(),
	}
}

// NewTopicListResponse converts a slice of domain Topics.
func NewTopicListResponse(topics []content.Topic) TopicListResponse {
	data := make([]TopicResponse, len(topics))
	for i, t := range topics {
		data[i] = NewTopicResponse(t)
	}
	return TopicListResponse{Data: data}
}

// Domain converts the wire topic back into a domain Topic.
func (r TopicResponse) Domain() content.Topic {
	return content.ReconstructTopic(
		r.ID,
		r.BrandID,
		r.ThemeTypeID,
		r.ProductTypeID,
		r.Title,
		r.Description,
		content.TopicStatus(r.Status),
		r.CreatedBy,
		r.CreatedAt,
		r.UpdatedAt,
	)
}
