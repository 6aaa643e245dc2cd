package generationapi

import (
	"bytes"
	"encoding/json"
	"io"
	"time"

	"github.com/helixml/curator/domain/content"
)

// envelopeKeys are the known wrapper properties, checked in order.
var envelopeKeys = []string{"data", "topics", "items"}

// DecodeTopics normalizes an approved-topics response. The payload may be
// a bare array, an object wrapping the array under data, topics or items,
// or an object whose first array-valued property holds the topics. Anything
// else yields no topics.
//
// Entries without an id or a title are dropped. When at least one entry has
// a non-empty status, only approved entries are kept; a listing that carries
// no status at all is trusted as already filtered.
func DecodeTopics(raw []byte) []content.Topic {
	entries := topicArray(raw)

	kept := make([]topicEntry, 0, len(entries))
	anyStatus := false
	for _, rawEntry := range entries {
		entry, ok := decodeEntry(rawEntry)
		if !ok {
			continue
		}
		if entry.status != "" {
			anyStatus = true
		}
		kept = append(kept, entry)
	}

	topics := make([]content.Topic, 0, len(kept))
	for _, entry := range kept {
		if anyStatus && entry.status != string(content.TopicStatusApproved) {
			continue
		}
		topics = append(topics, entry.domain())
	}
	return topics
}

// wireTopic keeps every field raw so that one mistyped property never
// drops the whole entry.
type wireTopic struct {
	ID            json.RawMessage `json:"id"`
	Title         json.RawMessage `json:"title"`
	Status        json.RawMessage `json:"status"`
	BrandID       json.RawMessage `json:"brand_id"`
	ThemeTypeID   json.RawMessage `json:"theme_type_id"`
	ProductTypeID json.RawMessage `json:"product_type_id"`
	Description   json.RawMessage `json:"description"`
	CreatedBy     json.RawMessage `json:"created_by"`
	CreatedAt     json.RawMessage `json:"created_at"`
	UpdatedAt     json.RawMessage `json:"updated_at"`
}

type topicEntry struct {
	id            string
	title         string
	status        string
	brandID       string
	themeTypeID   string
	productTypeID string
	description   string
	createdBy     string
	createdAt     time.Time
	updatedAt     time.Time
}

func (e topicEntry) domain() content.Topic {
	status := content.TopicStatusApproved
	if e.status != "" {
		status = content.TopicStatus(e.status)
	}
	return content.ReconstructTopic(
		e.id,
		e.brandID,
		e.themeTypeID,
		e.productTypeID,
		e.title,
		e.description,
		status,
		e.createdBy,
		e.createdAt,
		e.updatedAt,
	)
}

// text reads a string or number as text. Any other JSON value, including
// null, reads as empty.
func text(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch {
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9'):
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return ""
		}
		return n.String()
	default:
		return ""
	}
}

func parseTime(raw json.RawMessage) time.Time {
	t, err := time.Parse(time.RFC3339Nano, text(raw))
	if err != nil {
		return time.Time{}
	}
	return t
}

func decodeEntry(raw json.RawMessage) (topicEntry, bool) {
	var wire wireTopic
	if err := json.Unmarshal(raw, &wire); err != nil {
		return topicEntry{}, false
	}
	entry := topicEntry{
		id:            text(wire.ID),
		title:         text(wire.Title),
		status:        text(wire.Status),
		brandID:       text(wire.BrandID),
		themeTypeID:   text(wire.ThemeTypeID),
		productTypeID: text(wire.ProductTypeID),
		description:   text(wire.Description),
		createdBy:     text(wire.CreatedBy),
		createdAt:     parseTime(wire.CreatedAt),
		updatedAt:     parseTime(wire.UpdatedAt),
	}
	if entry.id == "" || entry.title == "" {
		return topicEntry{}, false
	}
	return entry, true
}

// topicArray returns the raw entries of the topic list inside raw.
func topicArray(raw []byte) []json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	switch raw[0] {
	case '[':
		return asArray(raw)
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil
		}
		for _, key := range envelopeKeys {
			if value, ok := fields[key]; ok && isArray(value) {
				return asArray(value)
			}
		}
		value, err := firstArrayProperty(raw)
		if err != nil {
			return nil
		}
		return asArray(value)
	default:
		return nil
	}
}

// firstArrayProperty walks the object's properties in document order and
// returns the first array-valued one.
func firstArrayProperty(raw []byte) (json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		if isArray(value) {
			return value, nil
		}
	}
	return nil, io.EOF
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func asArray(raw json.RawMessage) []json.RawMessage {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	return entries
}
