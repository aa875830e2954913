package handler

import (
	"net/http"

	"barbearia-backend/internal/domain"
	"barbearia-backend/internal/repository"
	"barbearia-backend/internal/service"
	"github.com/go-chi/chi/v5"
)

// ServiceCatalogHandler manages the services barbers can record.
type ServiceCatalogHandler struct {
	Repo      repository.ServiceRepository
	Dashboard service.ManagerDashboardService
}

func (h ServiceCatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/services", h.list)
	r.Post("/services", h.create)
	r.Patch("/services/{id}", h.update)
	r.Delete("/services/{id}", h.delete)
}

func (h ServiceCatalogHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, s := range items {
		resp = append(resp, map[string]any{
			"id":    s.ID,
			"name":  s.Name,
			"price": s.Price,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h ServiceCatalogHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string  `json:"name" validate:"required"`
		Price float64 `json:"price" validate:"gte=0"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	id, err := h.Repo.Add(r.Context(), domain.Service{Name: req.Name, Price: req.Price})
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeRawJSON(w, http.StatusCreated, apiResponse{Status: "ok", Data: map[string]string{"id": id}})
}

func (h ServiceCatalogHandler) update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  *string  `json:"name" validate:"omitempty,min=1"`
		Price *float64 `json:"price" validate:"omitempty,gte=0"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	view, err := h.Dashboard.UpdateService(r.Context(), chi.URLParam(r, "id"), repository.ServiceUpdate{Name: req.Name, Price: req.Price})
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h ServiceCatalogHandler) delete(w http.ResponseWriter, r *http.Request) {
	view, err := h.Dashboard.DeleteService(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
