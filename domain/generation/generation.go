// Package generation provides the domain types of topic-to-content
// generation: requests, results, and the rate-limit error taxonomy.
package generation

import (
	"github.com/helixml/curator/domain/content"
)

// Request asks the generation API to draft content for an approved topic.
type Request struct {
	TopicID     string `json:"topic_id"`
	WithRelated bool   `json:"with_related"`
	SaveToDB    bool   `json:"save_to_db"`
}

// NewRequest builds the request used by the approved-topics reader: related
// records are returned and drafts are persisted.
func NewRequest(topicID string) Request {
	return Request{
		TopicID:     topicID,
		WithRelated: true,
		SaveToDB:    true,
	}
}

// Result is the outcome of a successful generation call.
type Result struct {
	topicID  string
	topic    *content.Topic
	contents []content.Content
}

// NewResult creates a Result.
func NewResult(topicID string, topic *content.Topic, contents []content.Content) Result {
	return Result{
		topicID:  topicID,
		topic:    topic,
		contents: append([]content.Content(nil), contents...),
	}
}

// TopicID returns the topic the content was generated from.
func (r Result) TopicID() string { return r.topicID }

// Topic returns the related topic when the API included it.
func (r Result) Topic() *content.Topic { return r.topic }

// Contents returns the generated drafts.
func (r Result) Contents() []content.Content {
	return append([]content.Content(nil), r.contents...)
}
