package repository

import (
	"context"
	"strings"

	"barbearia-backend/internal/docstore"
	"barbearia-backend/internal/domain"
)

type BarberRepository struct {
	Store docstore.Store
}

type BarberUpdate struct {
	Name  *string
	Email *string
	Phone *string
	Unit  *string
}

func (r BarberRepository) coll() collection[domain.Barber] {
	return collection[domain.Barber]{
		store: r.Store,
		name:  domain.CollectionBarbers,
		setID: func(b *domain.Barber, id string) { b.ID = id },
	}
}

func (r BarberRepository) Add(ctx context.Context, b domain.Barber) (string, error) {
	b.Email = strings.ToLower(strings.TrimSpace(b.Email))
	return r.coll().add(ctx, b)
}

func (r BarberRepository) List(ctx context.Context) ([]domain.Barber, error) {
	return r.coll().list(ctx)
}

func (r BarberRepository) Get(ctx context.Context, id string) (*domain.Barber, error) {
	return r.coll().get(ctx, id)
}

// FindByEmail scans the whole collection; barber counts are small and the field is not indexed.
// It returns nil, nil when no barber has the email.
func (r BarberRepository) FindByEmail(ctx context.Context, email string) (*domain.Barber, error) {
	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	email = strings.TrimSpace(email)
	for i := range items {
		if strings.EqualFold(items[i].Email, email) {
			return &items[i], nil
		}
	}
	return nil, nil
}

func (r BarberRepository) Update(ctx context.Context, id string, u BarberUpdate) error {
	fields := map[string]any{}
	if u.Name != nil {
		fields["name"] = *u.Name
	}
	if u.Email != nil {
		fields["email"] = strings.ToLower(strings.TrimSpace(*u.Email))
	}
	if u.Phone != nil {
		fields["phone"] = *u.Phone
	}
	if u.Unit != nil {
		fields["unit"] = *u.Unit
	}
	return r.coll().update(ctx, id, fields)
}

func (r BarberRepository) Delete(ctx context.Context, id string) error {
	return r.coll().delete(ctx, id)
}

// CreditCommission adds an earned commission to the barber's pending balance.
func (r BarberRepository) CreditCommission(ctx context.Context, id string, amount float64) (float64, error) {
	return r.coll().adjust(ctx, id, "balance", amount, docstore.NoFloor)
}

// SettleBalance records that the pending balance was paid out.
func (r BarberRepository) SettleBalance(ctx context.Context, id string) error {
	return r.coll().update(ctx, id, map[string]any{"balance": 0.0})
}
