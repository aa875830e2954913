package repository

import (
	"context"
	"strings"

	"barbearia-backend/internal/docstore"
	"barbearia-backend/internal/domain"
)

// UserRepository stores accounts for the local identity provider.
type UserRepository struct {
	Store docstore.Store
}

func (r UserRepository) coll() collection[domain.User] {
	return collection[domain.User]{
		store: r.Store,
		name:  domain.CollectionUsers,
		setID: func(u *domain.User, id string) { u.ID = id },
	}
}

func (r UserRepository) Add(ctx context.Context, u domain.User) (string, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return r.coll().add(ctx, u)
}

// FindByEmail returns nil, nil when no account has the email.
func (r UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	items, err := r.coll().list(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if strings.EqualFold(items[i].Email, strings.TrimSpace(email)) {
			return &items[i], nil
		}
	}
	return nil, nil
}
