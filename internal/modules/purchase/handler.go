package purchase

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/plantheaven/nursery-backend/internal/modules/plant"
)

// Handler exposes purchase HTTP endpoints. All of them are admin-only.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(router *chi.Mux, requireAuth, requireAdmin func(http.Handler) http.Handler) {
	router.Route("/api/v1/purchases", func(r chi.Router) {
		r.Use(requireAuth, requireAdmin)
		r.Post("/", h.recordPurchase)
		r.Get("/", h.listPurchases)
		r.Get("/{id}/receipt", h.receipt)
		r.Get("/report/{year}/{month}", h.monthlyReport)
	})
}

func (h *Handler) recordPurchase(w http.ResponseWriter, r *http.Request) {
	var req RecordPurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": err.Error()})
		return
	}
	p, updated, err := h.service.RecordPurchase(r.Context(), req)
	if err != nil {
		respond(w, statusFor(err), map[string]interface{}{"success": false, "message": err.Error()})
		return
	}
	respond(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "purchase recorded and plant stock updated",
		"data":    map[string]interface{}{"purchase": p, "plant": updated},
	})
}

func (h *Handler) listPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.service.ListPurchases(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "message": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"success": true, "data": purchases})
}

func (h *Handler) receipt(w http.ResponseWriter, r *http.Request) {
	text, err := h.service.Receipt(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond(w, statusFor(err), map[string]interface{}{"success": false, "message": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(text))
}

func (h *Handler) monthlyReport(w http.ResponseWriter, r *http.Request) {
	year, err1 := strconv.Atoi(chi.URLParam(r, "year"))
	month, err2 := strconv.Atoi(chi.URLParam(r, "month"))
	if err1 != nil || err2 != nil {
		respond(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": "invalid year or month"})
		return
	}
	text, err := h.service.MonthlyReport(r.Context(), year, month)
	if err != nil {
		respond(w, statusFor(err), map[string]interface{}{"success": false, "message": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(text))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrPurchaseNotFound), errors.Is(err, plant.ErrPlantNotFound):
		return http.StatusNotFound
	case errors.Is(err, plant.ErrInvalidSize):
		return http.StatusBadRequest
	}
	// Input validation errors come through as plain fmt errors.
	msg := err.Error()
	if strings.Contains(msg, "required") || strings.Contains(msg, "positive") || strings.Contains(msg, "invalid") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
