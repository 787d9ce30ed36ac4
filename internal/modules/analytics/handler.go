package analytics

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the admin dashboard stats endpoint.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(router *chi.Mux, requireAuth, requireAdmin func(http.Handler) http.Handler) {
	router.With(requireAuth, requireAdmin).Get("/api/v1/orders/stats", h.orderStats)
}

func (h *Handler) orderStats(w http.ResponseWriter, r *http.Request) {
	var start, end *time.Time
	if v := r.URL.Query().Get("startDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			respond(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": "invalid startDate, expected YYYY-MM-DD"})
			return
		}
		start = &t
	}
	if v := r.URL.Query().Get("endDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			respond(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": "invalid endDate, expected YYYY-MM-DD"})
			return
		}
		e := t.AddDate(0, 0, 1).Add(-time.Second)
		end = &e
	}

	stats, err := h.service.OrderStats(r.Context(), start, end)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "message": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"success": true, "data": stats})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
