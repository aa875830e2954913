package handler

import (
	"net/http"

	"barbearia-backend/internal/domain"
	"barbearia-backend/internal/repository"
	"barbearia-backend/internal/service"
	"github.com/go-chi/chi/v5"
)

// BarberAdminHandler is the manager's staff list.
type BarberAdminHandler struct {
	Repo      repository.BarberRepository
	Dashboard service.ManagerDashboardService
}

func (h BarberAdminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/barbers", h.list)
	r.Post("/barbers", h.create)
	r.Get("/barbers/{id}", h.get)
	r.Patch("/barbers/{id}", h.update)
	r.Delete("/barbers/{id}", h.delete)
	r.Post("/barbers/{id}/settle", h.settle)
}

func barberJSON(b domain.Barber) map[string]any {
	return map[string]any{
		"id":      b.ID,
		"name":    b.Name,
		"email":   b.Email,
		"phone":   b.Phone,
		"unit":    b.Unit,
		"balance": b.Balance,
	}
}

func (h BarberAdminHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, b := range items {
		resp = append(resp, barberJSON(b))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h BarberAdminHandler) get(w http.ResponseWriter, r *http.Request) {
	b, err := h.Repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, barberJSON(*b))
}

func (h BarberAdminHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name" validate:"required"`
		Email string `json:"email" validate:"required,email"`
		Phone string `json:"phone"`
		Unit  string `json:"unit"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	existing, err := h.Repo.FindByEmail(r.Context(), req.Email)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "Já existe um barbeiro com este email.")
		return
	}
	id, err := h.Repo.Add(r.Context(), domain.Barber{Name: req.Name, Email: req.Email, Phone: req.Phone, Unit: req.Unit})
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeRawJSON(w, http.StatusCreated, apiResponse{Status: "ok", Data: map[string]string{"id": id}})
}

func (h BarberAdminHandler) update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  *string `json:"name" validate:"omitempty,min=1"`
		Email *string `json:"email" validate:"omitempty,email"`
		Phone *string `json:"phone"`
		Unit  *string `json:"unit"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	view, err := h.Dashboard.UpdateBarber(r.Context(), chi.URLParam(r, "id"), repository.BarberUpdate{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Unit:  req.Unit,
	})
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h BarberAdminHandler) delete(w http.ResponseWriter, r *http.Request) {
	view, err := h.Dashboard.DeleteBarber(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h BarberAdminHandler) settle(w http.ResponseWriter, r *http.Request) {
	view, err := h.Dashboard.SettleBarber(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
