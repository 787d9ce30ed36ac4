package notification

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the admin notification feed.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(router *chi.Mux, requireAuth, requireAdmin func(http.Handler) http.Handler) {
	router.Route("/api/v1/notifications", func(r chi.Router) {
		r.Use(requireAuth, requireAdmin)
		r.Get("/", h.listNotifications)
		r.Put("/{id}/read", h.markRead)
	})
}

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unread") == "true"
	notifications, err := h.service.ListNotifications(r.Context(), unreadOnly)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "message": err.Error()})
		return
	}
	if notifications == nil {
		notifications = []*Notification{}
	}
	respond(w, http.StatusOK, map[string]interface{}{"success": true, "data": notifications})
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.MarkRead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrNotificationNotFound) {
			status = http.StatusNotFound
		}
		respond(w, status, map[string]interface{}{"success": false, "message": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"success": true, "data": n})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
