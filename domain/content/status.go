package content

// Status is the lifecycle state of a Content item.
type Status string

// Content status values.
const (
	StatusDraft      Status = "draft"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
	StatusGenerating Status = "generating"
	StatusCompleted  Status = "completed"
	StatusScheduled  Status = "scheduled"
)

// Valid reports whether s is a known content status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusApproved, StatusRejected, StatusGenerating, StatusCompleted, StatusScheduled:
		return true
	}
	return false
}

// String returns the status as stored.
func (s Status) String() string { return string(s) }

// TopicStatus is the lifecycle state of a Topic. Topics are never scheduled.
type TopicStatus string

// Topic status values.
const (
	TopicStatusDraft      TopicStatus = "draft"
	TopicStatusApproved   TopicStatus = "approved"
	TopicStatusRejected   TopicStatus = "rejected"
	TopicStatusGenerating TopicStatus = "generating"
	TopicStatusCompleted  TopicStatus = "completed"
)

// Valid reports whether s is a known topic status.
func (s TopicStatus) Valid() bool {
	switch s {
	case TopicStatusDraft, TopicStatusApproved, TopicStatusRejected, TopicStatusGenerating, TopicStatusCompleted:
		return true
	}
	return false
}

// String returns the status as stored.
func (s TopicStatus) String() string { return string(s) }
