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

// TopicsRouter handles topic endpoints. The listing has the shape the
// approved-topics reader expects, so one instance can serve another.
type TopicsRouter struct {
	client *curator.Client
	logger *slog.Logger
}

// NewTopicsRouter creates a new TopicsRouter.
func NewTopicsRouter(client *curator.Client) *TopicsRouter {
	return &TopicsRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for topic endpoints.
func (r *TopicsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.List)
	router.Get("/approved", r.Approved)
	router.Post("/{id}/generate", r.Generate)

	return router
}

// List handles GET /api/v1/topics.
//
//	@Summary		List topics
//	@Tags			topics
//	@Produce		json
//	@Param			status		query	string	false	"Filter by status"
//	@Param			brand_id	query	string	false	"Filter by brand"
//	@Success		200	{object}	dto.TopicListResponse
//	@Failure		400	{object}	middleware.JSONAPIErrorResponse
//	@Router			/topics [get]
func (r *TopicsRouter) List(w http.ResponseWriter, req *http.Request) {
	query := req.URL.Query()
	var filters []repository.Option

	if s := query.Get("status"); s != "" {
		status := content.TopicStatus(s)
		if !status.Valid() {
			middleware.WriteError(w, req, fmt.Errorf("%w: unknown status %q", service.ErrValidation, s), r.logger)
			return
		}
		filters = append(filters, content.WithTopicStatus(status))
	}
	if brandID := query.Get("brand_id"); brandID != "" {
		filters = append(filters, content.WithBrandID(brandID))
	}

	topics, err := r.client.Catalog.Topics(req.Context(), filters...)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.NewTopicListResponse(topics))
}

// Approved handles GET /api/v1/topics/approved. It returns what the
// approved-topics reader sees, which may come from a remote API.
//
//	@Summary		Approved topics
//	@Tags			topics
//	@Produce		json
//	@Success		200	{object}	dto.TopicListResponse
//	@Failure		502	{object}	middleware.JSONAPIErrorResponse
//	@Router			/topics/approved [get]
func (r *TopicsRouter) Approved(w http.ResponseWriter, req *http.Request) {
	topics, err := r.client.ApprovedTopics.Fetch(req.Context())
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.NewTopicListResponse(topics))
}

// Generate handles POST /api/v1/topics/{id}/generate. Rate-limited
// attempts are retried with backoff before the response is written.
//
//	@Summary		Generate content from a topic
//	@Tags			topics
//	@Produce		json
//	@Param			id	path		string	true	"Topic ID"
//	@Success		200	{object}	dto.GenerateResponse
//	@Failure		429	{object}	middleware.JSONAPIErrorResponse
//	@Security		APIKeyAuth
//	@Router			/topics/{id}/generate [post]
func (r *TopicsRouter) Generate(w http.ResponseWriter, req *http.Request) {
	result, err := r.client.ApprovedTopics.GenerateContentFromTopic(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.NewGenerateResponse(result))
}
