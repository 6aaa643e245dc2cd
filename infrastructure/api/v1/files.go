package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/helixml/curator"
	"github.com/helixml/curator/infrastructure/api/middleware"
	"github.com/helixml/curator/infrastructure/api/v1/dto"
)

// FilesRouter serves the read side of the file manager.
type FilesRouter struct {
	client *curator.Client
	logger *slog.Logger
}

// NewFilesRouter creates a new FilesRouter.
func NewFilesRouter(client *curator.Client) *FilesRouter {
	return &FilesRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for file manager endpoints.
func (r *FilesRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/topics", r.ListTopics)
	router.Get("/topics/{id}/platforms", r.ListPlatforms)
	router.Get("/platforms/{id}/files", r.ListFiles)

	return router
}

// ListTopics handles GET /api/v1/files/topics.
//
//	@Summary		List file topics
//	@Tags			files
//	@Produce		json
//	@Success		200	{object}	dto.ListResponse[dto.FileTopicResponse]
//	@Router			/files/topics [get]
func (r *FilesRouter) ListTopics(w http.ResponseWriter, req *http.Request) {
	topics, err := r.client.Catalog.FileTopics(req.Context())
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.NewFileTopicList(topics))
}

// ListPlatforms handles GET /api/v1/files/topics/{id}/platforms.
//
//	@Summary		List platforms of a file topic
//	@Tags			files
//	@Produce		json
//	@Param			id	path		string	true	"File topic ID"
//	@Success		200	{object}	dto.ListResponse[dto.PlatformResponse]
//	@Router			/files/topics/{id}/platforms [get]
func (r *FilesRouter) ListPlatforms(w http.ResponseWriter, req *http.Request) {
	platforms, err := r.client.Catalog.Platforms(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.NewPlatformList(platforms))
}

// ListFiles handles GET /api/v1/files/platforms/{id}/files.
//
//	@Summary		List files of a platform
//	@Tags			files
//	@Produce		json
//	@Param			id	path		string	true	"Platform ID"
//	@Success		200	{object}	dto.ListResponse[dto.FileResponse]
//	@Router			/files/platforms/{id}/files [get]
func (r *FilesRouter) ListFiles(w http.ResponseWriter, req *http.Request) {
	files, err := r.client.Catalog.Files(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.NewFileList(files))
}
