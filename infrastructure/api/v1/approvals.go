package v1

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/helixml/curator"
	"github.com/helixml/curator/application/service"
	"github.com/helixml/curator/domain/approval"
	"github.com/helixml/curator/infrastructure/api/middleware"
	"github.com/helixml/curator/infrastructure/api/v1/dto"
)

// ApprovalsRouter handles batch approval endpoints.
type ApprovalsRouter struct {
	client *curator.Client
	logger *slog.Logger
}

// NewApprovalsRouter creates a new ApprovalsRouter.
func NewApprovalsRouter(client *curator.Client) *ApprovalsRouter {
	return &ApprovalsRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for approval endpoints.
func (r *ApprovalsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/batch", r.Batch)
	router.Get("/progress", r.Progress)

	return router
}

// Batch handles POST /api/v1/approvals/batch. The batch runs to completion
// before the response is written; poll /progress to follow it.
//
//	@Summary		Approve a batch
//	@Description	Approve content items one after another
//	@Tags			approvals
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.BatchApprovalRequest	true	"Content IDs"
//	@Success		200		{object}	dto.ProgressResponse
//	@Failure		400		{object}	middleware.JSONAPIErrorResponse
//	@Failure		409		{object}	middleware.JSONAPIErrorResponse
//	@Security		APIKeyAuth
//	@Router			/approvals/batch [post]
func (r *ApprovalsRouter) Batch(w http.ResponseWriter, req *http.Request) {
	var body dto.BatchApprovalRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: invalid request body: %w", service.ErrValidation, err), r.logger)
		return
	}

	progress, err := r.client.Approvals.ApproveByIDs(req.Context(), body.ContentIDs)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.NewProgressResponse(progress, r.client.Approvals.Processing()))
}

// Progress handles GET /api/v1/approvals/progress.
//
//	@Summary		Batch progress
//	@Description	Latest batch snapshot and whether a batch is running
//	@Tags			approvals
//	@Produce		json
//	@Success		200	{object}	dto.ProgressResponse
//	@Router			/approvals/progress [get]
func (r *ApprovalsRouter) Progress(w http.ResponseWriter, req *http.Request) {
	progress, seen, processing := r.client.Progress()
	if !seen {
		progress = approval.ReconstructProgress("", approval.StateIdle, 0, 0, 0, 0, time.Time{}, time.Time{})
	}
	middleware.WriteJSON(w, http.StatusOK, dto.NewProgressResponse(progress, processing))
}
