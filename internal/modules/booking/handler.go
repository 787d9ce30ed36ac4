package booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/plantheaven/nursery-backend/internal/modules/auth"
	"github.com/plantheaven/nursery-backend/internal/modules/user"
)

// Handler exposes garden service request endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(router *chi.Mux, requireAuth, requireAdmin func(http.Handler) http.Handler) {
	router.Route("/api/v1/services", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", h.requestService)
		r.Get("/mine", h.listMyBookings)
		r.Get("/{id}", h.getBooking)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/", h.listBookings)
			r.Put("/{id}/status", h.updateStatus)
		})
	})
}

func (h *Handler) requestService(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "please login to access this resource"})
		return
	}
	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": err.Error()})
		return
	}
	b, err := h.service.RequestService(r.Context(), claims.Subject, req)
	if err != nil {
		respond(w, statusFor(err), map[string]interface{}{"success": false, "message": err.Error()})
		return
	}
	respond(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "service request submitted",
		"data":    b,
	})
}

func (h *Handler) getBooking(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "please login to access this resource"})
		return
	}
	b, err := h.service.GetBooking(r.Context(), chi.URLParam(r, "id"), claims.Subject, claims.Role == user.RoleAdmin)
	if err != nil {
		respond(w, statusFor(err), map[string]interface{}{"success": false, "message": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"success": true, "data": b})
}

func (h *Handler) listBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.ListBookings(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "message": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"success": true, "data": bookings})
}

func (h *Handler) listMyBookings(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "please login to access this resource"})
		return
	}
	bookings, err := h.service.ListMyBookings(r.Context(), claims.Subject)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "message": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"success": true, "data": bookings})
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": err.Error()})
		return
	}
	b, err := h.service.ChangeStatus(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		body := map[string]interface{}{"success": false, "message": err.Error()}
		var it *InvalidTransitionError
		if errors.As(err, &it) {
			body["allowed_transitions"] = it.Allowed
		}
		respond(w, statusFor(err), body)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "service request updated",
		"data":    b,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotBookingOwner):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidTransition):
		return http.StatusBadRequest
	}
	msg := err.Error()
	if strings.Contains(msg, "required") || strings.Contains(msg, "invalid") || strings.Contains(msg, "past") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
