package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/helixml/curator"
	"github.com/helixml/curator/domain/notify"
	"github.com/helixml/curator/infrastructure/api/middleware"
	"github.com/helixml/curator/infrastructure/api/v1/dto"
)

// NotificationsRouter exposes the recent user-facing notifications.
type NotificationsRouter struct {
	client *curator.Client
}

// NewNotificationsRouter creates a new NotificationsRouter.
func NewNotificationsRouter(client *curator.Client) *NotificationsRouter {
	return &NotificationsRouter{client: client}
}

// Routes returns the chi router for notification endpoints.
func (r *NotificationsRouter) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", r.List)
	return router
}

// List handles GET /api/v1/notifications.
func (r *NotificationsRouter) List(w http.ResponseWriter, _ *http.Request) {
	data := r.client.Notifications()
	if data == nil {
		data = []notify.Notification{}
	}
	middleware.WriteJSON(w, http.StatusOK, dto.NotificationListResponse{Data: data})
}
