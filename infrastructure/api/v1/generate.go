package v1

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/helixml/curator"
	"github.com/helixml/curator/application/service"
	"github.com/helixml/curator/infrastructure/api/middleware"
	"github.com/helixml/curator/infrastructure/api/v1/dto"
	"github.com/helixml/curator/infrastructure/provider"
)

// GenerateRouter serves server-side generation, the endpoint the
// approved-topics reader calls.
type GenerateRouter struct {
	client *curator.Client
	logger *slog.Logger
}

// NewGenerateRouter creates a new GenerateRouter.
func NewGenerateRouter(client *curator.Client) *GenerateRouter {
	return &GenerateRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for generation endpoints.
func (r *GenerateRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/generate-from-approved", r.GenerateFromApproved)

	return router
}

// GenerateFromApproved handles POST /api/v1/content/generate-from-approved.
// Provider rate limits are answered with 429 so callers can back off.
//
//	@Summary		Generate drafts from an approved topic
//	@Tags			content
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.GenerateRequest	true	"Generation request"
//	@Success		200		{object}	dto.GenerateResponse
//	@Failure		400		{object}	middleware.JSONAPIErrorResponse
//	@Failure		429		{object}	middleware.JSONAPIErrorResponse
//	@Failure		501		{object}	middleware.JSONAPIErrorResponse
//	@Security		APIKeyAuth
//	@Router			/content/generate-from-approved [post]
func (r *GenerateRouter) GenerateFromApproved(w http.ResponseWriter, req *http.Request) {
	if r.client.Generator == nil {
		middleware.WriteError(w, req, fmt.Errorf("generate: no text provider configured: %w", provider.ErrUnsupportedOperation), r.logger)
		return
	}

	var body dto.GenerateRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: invalid request body: %w", service.ErrValidation, err), r.logger)
		return
	}

	result, err := r.client.Generator.Generate(req.Context(), body.Domain())
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	resp := dto.NewGenerateResponse(result)
	if !body.WithRelated {
		resp.Topic = nil
	}
	middleware.WriteJSON(w, http.StatusOK, resp)
}
