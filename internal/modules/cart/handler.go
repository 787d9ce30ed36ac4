package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/plantheaven/nursery-backend/internal/modules/auth"
	"github.com/plantheaven/nursery-backend/internal/modules/plant"
)

// Handler exposes cart HTTP endpoints. Carts belong to the logged-in
// user; there is no admin view.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(router *chi.Mux, requireAuth func(http.Handler) http.Handler) {
	router.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", h.getCart)
		r.Delete("/", h.clearCart)
		r.Post("/items", h.addItem)
		r.Put("/items/{plantID}/{size}", h.updateItem)
		r.Delete("/items/{plantID}/{size}", h.removeItem)
	})
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "please login to access this resource"})
		return
	}
	cart, err := h.service.GetCart(r.Context(), claims.Subject)
	if err != nil {
		respond(w, statusFor(err), map[string]interface{}{"success": false, "message": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"success": true, "data": cart})
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "please login to access this resource"})
		return
	}
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": err.Error()})
		return
	}
	cart, err := h.service.AddItem(r.Context(), claims.Subject, req)
	if err != nil {
		respond(w, statusFor(err), map[string]interface{}{"success": false, "message": err.Error()})
		return
	}
	respond(w, http.StatusCreated, map[string]interface{}{"success": true, "message": "item added to cart", "data": cart})
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "please login to access this resource"})
		return
	}
	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": err.Error()})
		return
	}
	cart, err := h.service.UpdateItem(r.Context(), claims.Subject,
		chi.URLParam(r, "plantID"), chi.URLParam(r, "size"), req)
	if err != nil {
		respond(w, statusFor(err), map[string]interface{}{"success": false, "message": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"success": true, "message": "cart updated", "data": cart})
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "please login to access this resource"})
		return
	}
	cart, err := h.service.RemoveItem(r.Context(), claims.Subject,
		chi.URLParam(r, "plantID"), chi.URLParam(r, "size"))
	if err != nil {
		respond(w, statusFor(err), map[string]interface{}{"success": false, "message": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"success": true, "message": "item removed", "data": cart})
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "please login to access this resource"})
		return
	}
	if err := h.service.ClearCart(r.Context(), claims.Subject); err != nil {
		respond(w, statusFor(err), map[string]interface{}{"success": false, "message": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"success": true, "message": "cart cleared"})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrItemNotFound), errors.Is(err, plant.ErrPlantNotFound):
		return http.StatusNotFound
	case errors.Is(err, plant.ErrInsufficientStock), errors.Is(err, plant.ErrInvalidSize):
		return http.StatusBadRequest
	}
	msg := err.Error()
	if strings.Contains(msg, "positive") || strings.Contains(msg, "negative") || strings.Contains(msg, "invalid") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
