package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/helixml/curator"
	apimiddleware "github.com/helixml/curator/infrastructure/api/middleware"
	v1 "github.com/helixml/curator/infrastructure/api/v1"
	mcpinternal "github.com/helixml/curator/internal/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// APIServer provides an HTTP API backed by a curator Client.
type APIServer struct {
	client       *curator.Client
	corsOrigins  []string
	version      string
	server       *Server
	router       chi.Router
	routerCalled bool
	logger       *slog.Logger
}

// APIServerOption configures an APIServer.
type APIServerOption func(*APIServer)

// WithCORSOrigins sets the origins allowed by the CORS middleware.
func WithCORSOrigins(origins []string) APIServerOption {
	return func(a *APIServer) {
		if len(origins) > 0 {
			a.corsOrigins = append([]string(nil), origins...)
		}
	}
}

// WithVersion sets the version reported by the MCP endpoint.
func WithVersion(version string) APIServerOption {
	return func(a *APIServer) {
		if version != "" {
			a.version = version
		}
	}
}

// NewAPIServer creates a new APIServer wired to the given curator Client.
// Mutating endpoints under /api/v1 require one of the client's API keys;
// reads, the file tree, notifications and MCP remain open.
func NewAPIServer(client *curator.Client, opts ...APIServerOption) *APIServer {
	a := &APIServer{
		client:      client,
		corsOrigins: []string{"*"},
		version:     "dev",
		logger:      client.Logger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Router returns the chi router for customization before starting.
// Call this first, add custom middleware with router.Use(), then call MountRoutes().
// If not called, ListenAndServe creates a default router with all standard routes.
func (a *APIServer) Router() chi.Router {
	if a.router != nil {
		return a.router
	}

	a.router = chi.NewRouter()
	a.routerCalled = true
	return a.router
}

// MountRoutes wires up all v1 API routes on the router.
// Call this after adding any custom middleware via Router().Use().
func (a *APIServer) MountRoutes() {
	if a.router == nil {
		a.Router()
	}
	a.mountRoutes(a.router)
}

func (a *APIServer) mountRoutes(router chi.Router) {
	c := a.client

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.corsOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-KEY", "X-Correlation-ID", "Mcp-Session-Id"},
		ExposedHeaders:   []string{"X-Correlation-ID", "Mcp-Session-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(apimiddleware.CorrelationID)
	router.Use(apimiddleware.Logging(a.logger))

	router.Get("/health", healthHandler)
	router.Get("/healthz", healthHandler)

	contentsRouter := v1.NewContentsRouter(c)
	approvalsRouter := v1.NewApprovalsRouter(c)
	topicsRouter := v1.NewTopicsRouter(c)
	generateRouter := v1.NewGenerateRouter(c)
	filesRouter := v1.NewFilesRouter(c)
	notificationsRouter := v1.NewNotificationsRouter(c)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(60 * time.Second))

		// Read-only routes.
		r.Mount("/files", filesRouter.Routes())
		r.Mount("/notifications", notificationsRouter.Routes())

		// Mutating methods require a valid API key.
		r.Group(func(r chi.Router) {
			r.Use(apimiddleware.WriteProtectAuth(c.APIKeys()))
			r.Mount("/contents", contentsRouter.Routes())
			r.Mount("/approvals", approvalsRouter.Routes())
			r.Mount("/topics", topicsRouter.Routes())
			r.Mount("/content", generateRouter.Routes())
		})
	})

	// Streaming responses are incompatible with the Timeout middleware, so
	// MCP sits outside the /api/v1 group.
	mcpSrv := mcpinternal.NewServer(c.ApprovedTopics, c.Approvals, c, a.version, a.logger)
	router.Mount("/mcp", server.NewStreamableHTTPServer(mcpSrv.MCPServer()))
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// ListenAndServe starts the HTTP server on the given address.
func (a *APIServer) ListenAndServe(addr string) error {
	server := NewServer(addr, a.logger)
	a.server = &server

	if a.routerCalled && a.router != nil {
		server.Router().Mount("/", a.router)
	} else {
		a.mountRoutes(server.Router())
	}

	return server.Start()
}

// Shutdown gracefully shuts down the server.
func (a *APIServer) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

// Handler returns the router as an http.Handler for use with custom servers.
func (a *APIServer) Handler() http.Handler {
	if a.router == nil {
		a.Router()
		a.MountRoutes()
	}
	return a.router
}
