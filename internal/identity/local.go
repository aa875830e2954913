package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"barbearia-backend/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgEmailInvalid      = "Email inválido."
	msgWeakPassword      = "A senha deve ter pelo menos 6 caracteres."
	msgEmailExists       = "Este email já está registado."
	msgInvalidCredential = "Email ou senha incorretos."
	msgSessionExpired    = "Sessão inválida ou expirada."
)

type UserStore interface {
	Add(ctx context.Context, u domain.User) (string, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Local keeps accounts in the document store and issues HS256 tokens.
type Local struct {
	Users   UserStore
	Secret  []byte
	TTL     time.Duration
	Revoked RevocationList
	Now     func() time.Time

	validate *validator.Validate
}

func NewLocal(users UserStore, secret string, ttl time.Duration, revoked RevocationList) *Local {
	return &Local{
		Users:    users,
		Secret:   []byte(secret),
		TTL:      ttl,
		Revoked:  revoked,
		Now:      time.Now,
		validate: validator.New(),
	}
}

func (l *Local) Register(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := l.check(email, password); err != nil {
		return Session{}, fail("register", err.Error(), nil)
	}
	existing, err := l.Users.FindByEmail(ctx, email)
	if err != nil {
		return Session{}, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return Session{}, fail("register", msgEmailExists, nil)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}
	id, err := l.Users.Add(ctx, domain.User{
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    l.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return Session{}, err
	}
	return l.issue(User{UID: id, Email: email})
}

func (l *Local) SignIn(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := l.Users.FindByEmail(ctx, email)
	if err != nil {
		return Session{}, fmt.Errorf("lookup user: %w", err)
	}
	if u == nil {
		return Session{}, fail("sign_in", msgInvalidCredential, nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return Session{}, fail("sign_in", msgInvalidCredential, err)
	}
	return l.issue(User{UID: u.ID, Email: u.Email})
}

// SignOut revokes the token. Tokens that no longer parse are already unusable and are ignored.
func (l *Local) SignOut(ctx context.Context, token string) error {
	c, err := l.parse(token)
	if err != nil {
		return nil
	}
	return l.Revoked.Revoke(ctx, c.ID, c.ExpiresAt.Time)
}

func (l *Local) CurrentUser(ctx context.Context, token string) (User, error) {
	c, err := l.parse(token)
	if err != nil {
		return User{}, fail("current_user", msgSessionExpired, fmt.Errorf("%w: %v", ErrNoSession, err))
	}
	revoked, err := l.Revoked.IsRevoked(ctx, c.ID)
	if err != nil {
		return User{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return User{}, fail("current_user", msgSessionExpired, ErrNoSession)
	}
	return User{UID: c.Subject, Email: c.Email}, nil
}

func (l *Local) check(email, password string) error {
	err := l.validate.Struct(credentials{Email: email, Password: password})
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() == "Password" {
		return errors.New(msgWeakPassword)
	}
	return errors.New(msgEmailInvalid)
}

func (l *Local) issue(u User) (Session, error) {
	now := l.Now()
	exp := now.Add(l.TTL)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}).SignedString(l.Secret)
	if err != nil {
		return Session{}, fmt.Errorf("sign token: %w", err)
	}
	return Session{Token: token, ExpiresAt: exp, User: u}, nil
}

func (l *Local) parse(token string) (*claims, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return l.Secret, nil
	}, jwt.WithTimeFunc(l.Now))
	if err != nil {
		return nil, err
	}
	return &c, nil
}
