package handler

import (
	"errors"
	"net/http"

	"barbearia-backend/internal/identity"
	"barbearia-backend/internal/server/authctx"
	"barbearia-backend/internal/service"
	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	Service service.AuthService
}

func (h AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)
}

func (h AuthHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/auth/logout", h.logout)
	r.Get("/auth/me", h.me)
}

type credentialsRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sess, err := h.Service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		var ierr *identity.Error
		if errors.As(err, &ierr) {
			writeError(w, http.StatusBadRequest, ierr.Message)
			return
		}
		writeFailure(w, err)
		return
	}
	writeRawJSON(w, http.StatusCreated, apiResponse{Status: "ok", Data: sess})
}

func (h AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sess, err := h.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.Service.Logout(r.Context(), user.Token); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"signedOut": true})
}

func (h AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	profile, err := h.Service.Profile(r.Context(), identity.User{UID: user.UID, Email: user.Email})
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
