package handler

import (
	"net/http"

	"barbearia-backend/internal/server/authctx"
	"barbearia-backend/internal/service"
	"github.com/go-chi/chi/v5"
)

type ManagerHandler struct {
	Dashboard service.ManagerDashboardService
}

func (h ManagerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/manager", h.view)
}

func (h ManagerHandler) view(w http.ResponseWriter, r *http.Request) {
	view, err := h.Dashboard.Load(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type BarberHandler struct {
	Dashboard service.BarberDashboardService
}

func (h BarberHandler) RegisterRoutes(r chi.Router) {
	r.Get("/barber", h.view)
}

func (h BarberHandler) view(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	view, err := h.Dashboard.Load(r.Context(), user.Email)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
