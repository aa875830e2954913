package handler

import (
	"net/http"

	"barbearia-backend/internal/server/authctx"
	"github.com/go-chi/chi/v5"
)

// AccessHandler lists the two portals. It only navigates; the routes enforce access themselves.
type AccessHandler struct {
	IsManager func(email string) bool
}

func (h AccessHandler) RegisterRoutes(r chi.Router) {
	r.Get("/access-control", h.portals)
}

func (h AccessHandler) portals(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	manager := h.IsManager == nil || h.IsManager(user.Email)
	writeJSON(w, http.StatusOK, []map[string]any{
		{"portal": "barber", "label": "Área do Barbeiro", "path": "/barber", "available": true},
		{"portal": "manager", "label": "Área do Gestor", "path": "/manager", "available": manager},
	})
}
