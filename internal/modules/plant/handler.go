package plant

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes plant catalog HTTP endpoints. Reads are public; writes
// are admin-only.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(router *chi.Mux, requireAuth, requireAdmin func(http.Handler) http.Handler) {
	router.Route("/api/v1/plants", func(r chi.Router) {
		r.Get("/", h.listPlants)
		r.Get("/{id}", h.getPlant)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth, requireAdmin)
			r.Post("/", h.createPlant)
			r.Put("/{id}", h.updatePlant)
			r.Delete("/{id}", h.deletePlant)
		})
	})
}

func (h *Handler) createPlant(w http.ResponseWriter, r *http.Request) {
	var req CreatePlantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.CreatePlant(r.Context(), req)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *Handler) getPlant(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetPlant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) listPlants(w http.ResponseWriter, r *http.Request) {
	plants, err := h.service.ListPlants(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, plants)
}

func (h *Handler) updatePlant(w http.ResponseWriter, r *http.Request) {
	var req UpdatePlantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.UpdatePlant(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) deletePlant(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePlant(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "plant deleted"})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrPlantNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidSize), errors.Is(err, ErrInsufficientStock):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
