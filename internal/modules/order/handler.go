package order

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/plantheaven/nursery-backend/internal/modules/auth"
	"github.com/plantheaven/nursery-backend/internal/modules/plant"
	"github.com/plantheaven/nursery-backend/internal/modules/user"
)

// Handler exposes order HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(router *chi.Mux, requireAuth, requireAdmin func(http.Handler) http.Handler) {
	router.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", h.placeOrder)
		r.Get("/mine", h.listMyOrders)
		r.Get("/{id}", h.getOrder)
		r.Delete("/{id}", h.cancelOrder)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/", h.listOrders)
			r.Put("/{id}/status", h.updateStatus)
		})
	})
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "please login to access this resource"})
		return
	}
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": err.Error()})
		return
	}
	o, err := h.service.PlaceOrder(r.Context(), claims.Subject, req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "order placed",
		"data":    o,
	})
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "please login to access this resource"})
		return
	}
	o, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "id"), claims.Subject, claims.Role == user.RoleAdmin)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"success": true, "data": o})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	f := Filter{
		Status: OrderStatus(strings.ToLower(r.URL.Query().Get("status"))),
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", 10),
	}
	if v := r.URL.Query().Get("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			respond(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": "invalid start_date, expected YYYY-MM-DD"})
			return
		}
		f.StartDate = &t
	}
	if v := r.URL.Query().Get("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			respond(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": "invalid end_date, expected YYYY-MM-DD"})
			return
		}
		end := t.AddDate(0, 0, 1).Add(-time.Second)
		f.EndDate = &end
	}

	orders, total, err := h.service.ListOrders(r.Context(), f)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    orders,
		"total":   total,
		"page":    f.Page,
		"limit":   f.Limit,
	})
}

func (h *Handler) listMyOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "please login to access this resource"})
		return
	}
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)
	orders, total, err := h.service.ListMyOrders(r.Context(), claims.Subject, page, limit)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    orders,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": err.Error()})
		return
	}
	o, err := h.service.ChangeStatus(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "order status updated",
		"data":    o,
	})
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "please login to access this resource"})
		return
	}
	o, err := h.service.CancelOrder(r.Context(), chi.URLParam(r, "id"), claims.Subject, claims.Role == user.RoleAdmin)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "order cancelled and stock restored",
		"data":    o,
	})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	body := map[string]interface{}{"success": false, "message": err.Error()}

	var oos *OutOfStockError
	if errors.As(err, &oos) {
		body["out_of_stock_items"] = oos.Items
	}
	var it *InvalidTransitionError
	if errors.As(err, &it) {
		body["allowed_transitions"] = it.Allowed
	}

	respond(w, statusFor(err), body)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrOrderNotFound), errors.Is(err, plant.ErrPlantNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotOrderOwner):
		return http.StatusForbidden
	case errors.Is(err, ErrOutOfStock), errors.Is(err, ErrInvalidTransition), errors.Is(err, plant.ErrInvalidSize):
		return http.StatusBadRequest
	}
	msg := err.Error()
	if strings.Contains(msg, "required") || strings.Contains(msg, "positive") || strings.Contains(msg, "invalid") ||
		strings.Contains(msg, "negative") || strings.Contains(msg, "at least one") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
