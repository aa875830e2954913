package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"barbearia-backend/internal/domain"
	"barbearia-backend/internal/identity"
	"barbearia-backend/internal/repository"
)

type AuthService struct {
	Provider      identity.Provider
	Barbers       repository.BarberRepository
	ManagerEmails []string
	Logger        *slog.Logger
}

// Profile is the signed-in user with the barber record matching its email, if any.
type Profile struct {
	User      identity.User  `json:"user"`
	Barber    *domain.Barber `json:"barber,omitempty"`
	IsManager bool           `json:"isManager"`
}

func (s AuthService) Register(ctx context.Context, email, password string) (identity.Session, error) {
	sess, err := s.Provider.Register(ctx, email, password)
	if err != nil {
		s.logFailure("register", email, err)
	}
	return sess, err
}

func (s AuthService) Login(ctx context.Context, email, password string) (identity.Session, error) {
	sess, err := s.Provider.SignIn(ctx, email, password)
	if err != nil {
		s.logFailure("sign_in", email, err)
	}
	return sess, err
}

func (s AuthService) Logout(ctx context.Context, token string) error {
	if err := s.Provider.SignOut(ctx, token); err != nil {
		s.logFailure("sign_out", "", err)
		return err
	}
	return nil
}

func (s AuthService) CurrentUser(ctx context.Context, token string) (identity.User, error) {
	return s.Provider.CurrentUser(ctx, token)
}

func (s AuthService) Profile(ctx context.Context, u identity.User) (Profile, error) {
	b, err := s.Barbers.FindByEmail(ctx, u.Email)
	if err != nil {
		s.Logger.Error("resolve barber failed", "email", u.Email, "err", err)
		return Profile{}, err
	}
	return Profile{User: u, Barber: b, IsManager: s.IsManager(u.Email)}, nil
}

// IsManager reports whether email may use the manager portal. An empty list admits every signed-in user.
func (s AuthService) IsManager(email string) bool {
	if len(s.ManagerEmails) == 0 {
		return true
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, m := range s.ManagerEmails {
		if m == email {
			return true
		}
	}
	return false
}

func (s AuthService) logFailure(op, email string, err error) {
	var ierr *identity.Error
	if errors.As(err, &ierr) {
		s.Logger.Warn("identity rejected request", "op", op, "email", email, "reason", ierr.Message)
		return
	}
	s.Logger.Error("identity request failed", "op", op, "email", email, "err", err)
}
