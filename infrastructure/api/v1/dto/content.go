package dto

import (
	"time"

	"github.com/helixml/curator/domain/content"
	"github.com/helixml/curator/domain/generation"
	"github.com/helixml/curator/infrastructure/api/jsonapi"
)

// ContentResponse represents a content item on the wire.
type ContentResponse struct {
	ID          string     `json:"id"`
	TopicID     string     `json:"topic_id"`
	Platform    string     `json:"platform"`
	Text        string     `json:"text"`
	ImageURL    string     `json:"image_url,omitempty"`
	Status      string     `json:"status"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ContentListResponse is the envelope of a content listing.
type ContentListResponse struct {
	Data  []ContentResponse `json:"data"`
	Meta  *jsonapi.Meta     `json:"meta,omitempty"`
	Links *jsonapi.Links    `json:"links,omitempty"`
}

// NewContentResponse converts a domain Content.
func NewContentResponse(c content.Content) ContentResponse {
	return ContentResponse{
		ID:          c.ID(),
		TopicID:     c.TopicID(),
		Platform:    c.Platform(),
		Text:        c.Text(),
		ImageURL:    c.ImageURL(),
		Status:      string(c.Status()),
		ScheduledAt: c.ScheduledAt(),
		CreatedAt:   c.CreatedAt(),
		UpdatedAt:   c.UpdatedAt(),
	}
}

// NewContentResponses converts a slice of domain Content.
func NewContentResponses(items []content.Content) []ContentResponse {
	out := make([]ContentResponse, len(items))
	for i, c := range items {
		out[i] = NewContentResponse(c)
	}
	return out
}

// Domain converts the wire item back into a domain Content.
func (r ContentResponse) Domain() content.Content {
	return content.ReconstructContent(
		r.ID,
		r.TopicID,
		r.Platform,
		r.Text,
		r.ImageURL,
		content.Status(r.Status),
		r.ScheduledAt,
		r.CreatedAt,
		r.UpdatedAt,
	)
}

// GenerateRequest is the body of the generate-from-approved endpoint.
type GenerateRequest struct {
	TopicID     string `json:"topic_id"`
	WithRelated bool   `json:"with_related"`
	SaveToDB    bool   `json:"save_to_db"`
}

// Domain converts the request body.
func (r GenerateRequest) Domain() generation.Request {
	return generation.Request{TopicID: r.TopicID, WithRelated: r.WithRelated, SaveToDB: r.SaveToDB}
}

// GenerateResponse is the body returned by the generate-from-approved endpoint.
type GenerateResponse struct {
	TopicID  string            `json:"topic_id"`
	Topic    *TopicResponse    `json:"topic,omitempty"`
	Contents []ContentResponse `json:"contents"`
}

// NewGenerateResponse converts a generation result.
func NewGenerateResponse(r generation.Result) GenerateResponse {
	resp := GenerateResponse{
		TopicID:  r.TopicID(),
		Contents: NewContentResponses(r.Contents()),
	}
	if t := r.Topic(); t != nil {
		topic := NewTopicResponse(*t)
		resp.Topic = &topic
	}
	return resp
}

// Domain converts the response back into a generation result.
func (r GenerateResponse) Domain() generation.Result {
	items := make([]content.Content, len(r.Contents))
	for i, c := range r.Contents {
		items[i] = c.Domain()
	}
	var topic *content.Topic
	if r.Topic != nil {
		t := r.Topic.Domain()
		topic = &t
	}
	return generation.NewResult(r.TopicID, topic, items)
}
