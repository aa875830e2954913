package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// AdminAuth is the part of the firebase admin auth client the provider uses.
type AdminAuth interface {
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*auth.Token, error)
}

// PasswordSignIn exchanges email and password for an ID token.
type PasswordSignIn interface {
	VerifyPassword(ctx context.Context, email, password string) (Session, error)
}

// Firebase delegates accounts to Firebase Authentication.
type Firebase struct {
	Admin     AdminAuth
	Passwords PasswordSignIn
}

func (f Firebase) Register(ctx context.Context, email, password string) (Session, error) {
	params := (&auth.UserToCreate{}).Email(strings.TrimSpace(email)).Password(password)
	if _, err := f.Admin.CreateUser(ctx, params); err != nil {
		return Session{}, fail("register", providerMessage(err), err)
	}
	return f.SignIn(ctx, email, password)
}

func (f Firebase) SignIn(ctx context.Context, email, password string) (Session, error) {
	s, err := f.Passwords.VerifyPassword(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return Session{}, fail("sign_in", providerMessage(err), err)
	}
	return s, nil
}

// SignOut revokes every refresh token of the user; outstanding ID tokens fail the revocation check.
func (f Firebase) SignOut(ctx context.Context, token string) error {
	t, err := f.Admin.VerifyIDTokenAndCheckRevoked(ctx, token)
	if err != nil {
		return nil
	}
	if err := f.Admin.RevokeRefreshTokens(ctx, t.UID); err != nil {
		return fail("sign_out", providerMessage(err), err)
	}
	return nil
}

func (f Firebase) CurrentUser(ctx context.Context, token string) (User, error) {
	t, err := f.Admin.VerifyIDTokenAndCheckRevoked(ctx, token)
	if err != nil {
		return User{}, fail("current_user", providerMessage(err), errors.Join(ErrNoSession, err))
	}
	email, _ := t.Claims["email"].(string)
	return User{UID: t.UID, Email: email}, nil
}

func providerMessage(err error) string {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Message != "" {
		return gerr.Message
	}
	return err.Error()
}

// Toolkit signs in through the Identity Toolkit REST API with the project's web API key.
type Toolkit struct {
	svc *identitytoolkit.Service
	now func() time.Time
}

func NewToolkit(ctx context.Context, apiKey string, opts ...option.ClientOption) (*Toolkit, error) {
	svc, err := identitytoolkit.NewService(ctx, append(opts, option.WithAPIKey(apiKey))...)
	if err != nil {
		return nil, err
	}
	return &Toolkit{svc: svc, now: time.Now}, nil
}

func (t *Toolkit) VerifyPassword(ctx context.Context, email, password string) (Session, error) {
	resp, err := t.svc.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return Session{}, err
	}
	return Session{
		Token:     resp.IdToken,
		ExpiresAt: t.now().Add(time.Duration(resp.ExpiresIn) * time.Second),
		User:      User{UID: resp.LocalId, Email: resp.Email},
	}, nil
}
