package identity

import (
	"context"
	"errors"
	"time"
)

// User is the signed-in identity. Email is used to find the matching barber.
type User struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// Session is the bearer token returned on register or sign-in.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

// Provider registers, signs in and resolves users by email and password.
type Provider interface {
	Register(ctx context.Context, email, password string) (Session, error)
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (User, error)
}

// Error is an authentication failure. Message is the provider's text and is shown to users verbatim.
type Error struct {
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// ErrNoSession is wrapped by CurrentUser failures for missing, expired or revoked tokens.
var ErrNoSession = errors.New("no active session")

func fail(op, msg string, err error) error {
	return &Error{Op: op, Message: msg, Err: err}
}
