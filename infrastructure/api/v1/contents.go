// Package v1 provides the v1 API routes.
package v1

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/helixml/curator"
	"github.com/helixml/curator/application/service"
	"github.com/helixml/curator/domain/content"
	"github.com/helixml/curator/domain/repository"
	"github.com/helixml/curator/infrastructure/api/middleware"
	"github.com/helixml/curator/infrastructure/api/v1/dto"
)

// ContentsRouter handles content API endpoints.
type ContentsRouter struct {
	client *curator.Client
	logger *slog.Logger
}

// NewContentsRouter creates a new ContentsRouter.
func NewContentsRouter(client *curator.Client) *ContentsRouter {
	return &ContentsRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for content endpoints.
func (r *ContentsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.List)
	router.Get("/{id}", r.Get)
	router.Post("/{id}/approve", r.Approve)

	return router
}

// List handles GET /api/v1/contents.
//
//	@Summary		List content
//	@Description	List content items, newest first
//	@Tags			contents
//	@Produce		json
//	@Param			status		query	string	false	"Filter by status"
//	@Param			topic_id	query	string	false	"Filter by topic"
//	@Param			page		query	int		false	"Page number (default: 1)"
//	@Param			page_size	query	int		false	"Results per page (default: 20, max: 100)"
//	@Success		200	{object}	dto.ContentListResponse
//	@Failure		400	{object}	middleware.JSONAPIErrorResponse
//	@Router			/contents [get]
func (r *ContentsRouter) List(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	filters, err := contentFilters(req)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	pagination := ParsePagination(req)
	options := append(append([]repository.Option{}, filters...), repository.WithOrderDesc("created_at"))
	options = append(options, pagination.Options()...)

	items, err := r.client.Approvals.Find(ctx, options...)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	total, err := r.client.Approvals.Count(ctx, filters...)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.ContentListResponse{
		Data:  dto.NewContentResponses(items),
		Meta:  PaginationMeta(pagination, total),
		Links: PaginationLinks(req, pagination, total),
	})
}

// Get handles GET /api/v1/contents/{id}.
//
//	@Summary		Get content
//	@Tags			contents
//	@Produce		json
//	@Param			id	path		string	true	"Content ID"
//	@Success		200	{object}	dto.ContentResponse
//	@Failure		404	{object}	middleware.JSONAPIErrorResponse
//	@Router			/contents/{id} [get]
func (r *ContentsRouter) Get(w http.ResponseWriter, req *http.Request) {
	item, err := r.client.Approvals.Get(req.Context(), repository.WithID(chi.URLParam(req, "id")))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.NewContentResponse(item))
}

// Approve handles POST /api/v1/contents/{id}/approve.
//
//	@Summary		Approve content
//	@Description	Approve one content item and archive it in the file manager
//	@Tags			contents
//	@Produce		json
//	@Param			id	path		string	true	"Content ID"
//	@Success		200	{object}	dto.ApproveResponse
//	@Failure		404	{object}	middleware.JSONAPIErrorResponse
//	@Failure		500	{object}	middleware.JSONAPIErrorResponse
//	@Security		APIKeyAuth
//	@Router			/contents/{id}/approve [post]
func (r *ContentsRouter) Approve(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")
	if err := r.client.Approvals.Approve(req.Context(), id); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.ApproveResponse{ID: id, Approved: true})
}

func contentFilters(req *http.Request) ([]repository.Option, error) {
	query := req.URL.Query()
	var filters []repository.Option

	if s := query.Get("status"); s != "" {
		status := content.Status(s)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", service.ErrValidation, s)
		}
		filters = append(filters, content.WithStatus(status))
	}
	if topicID := query.Get("topic_id"); topicID != "" {
		filters = append(filters, content.WithTopicID(topicID))
	}
	if platform := query.Get("platform"); platform != "" {
		filters = append(filters, content.WithPlatform(platform))
	}
	return filters, nil
}
