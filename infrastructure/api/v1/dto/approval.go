package dto

import (
	"time"

	"github.com/helixml/curator/domain/approval"
	"github.com/helixml/curator/domain/notify"
)

// BatchApprovalRequest is the body of the batch approval endpoint.
type BatchApprovalRequest struct {
	ContentIDs []string `json:"content_ids"`
}

// ProgressResponse represents batch approval progress.
type ProgressResponse struct {
	ID                string    `json:"id,omitempty"`
	State             string    `json:"state"`
	Total             int       `json:"total"`
	Processed         int       `json:"processed"`
	Success           int       `json:"success"`
	Failed            int       `json:"failed"`
	CompletionPercent float64   `json:"completion_percent"`
	Processing        bool      `json:"processing"`
	StartedAt         time.Time `json:"started_at,omitzero"`
	UpdatedAt         time.Time `json:"updated_at,omitzero"`
}

// NewProgressResponse converts a progress snapshot.
func NewProgressResponse(p approval.Progress, processing bool) ProgressResponse {
	return ProgressResponse{
		ID:                p.ID(),
		State:             string(p.State()),
		Total:             p.Total(),
		Processed:         p.Processed(),
		Success:           p.Success(),
		Failed:            p.Failed(),
		CompletionPercent: p.Percent(),
		Processing:        processing,
		StartedAt:         p.StartedAt(),
		UpdatedAt:         p.UpdatedAt(),
	}
}

// ApproveResponse is returned by the single approval endpoint.
type ApproveResponse struct {
	ID       string `json:"id"`
	Approved bool   `json:"approved"`
}

// NotificationListResponse lists recent notifications.
type NotificationListResponse struct {
	Data []notify.Notification `json:"data"`
}
