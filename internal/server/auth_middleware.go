package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"barbearia-backend/internal/identity"
	"barbearia-backend/internal/server/authctx"
)

// TokenVerifier resolves a bearer token to the signed-in user.
type TokenVerifier interface {
	CurrentUser(ctx context.Context, token string) (identity.User, error)
}

// AuthMiddleware resolves the bearer token through the identity provider and sets the current user in context.
func AuthMiddleware(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				writeAuthError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			user, err := verifier.CurrentUser(r.Context(), token)
			if err != nil {
				var ierr *identity.Error
				if errors.As(err, &ierr) {
					writeAuthError(w, http.StatusUnauthorized, ierr.Message)
					return
				}
				logger.Error("verify token failed", "err", err)
				writeAuthError(w, http.StatusServiceUnavailable, "identity provider unavailable")
				return
			}
			ctx := authctx.WithCurrentUser(r.Context(), authctx.CurrentUser{
				UID:   user.UID,
				Email: user.Email,
				Token: token,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireManager admits users allowed into the manager portal.
func RequireManager(isManager func(email string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := authctx.FromContext(r.Context())
			if u == nil || !isManager(u.Email) {
				writeAuthError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "error",
		"message": message,
		"data":    nil,
		"error":   map[string]any{"code": status, "status": http.StatusText(status)},
	})
}
