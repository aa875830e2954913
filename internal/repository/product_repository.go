package repository

import (
	"context"
	"errors"

	"barbearia-backend/internal/docstore"
	"barbearia-backend/internal/domain"
)

// ErrNegativeStock rejects product writes whose stock would be below zero.
var ErrNegativeStock = errors.New("stock must not be negative")

type ProductRepository struct {
	Store docstore.Store
}

// ProductUpdate carries the fields to merge; nil fields are left untouched.
type ProductUpdate struct {
	Name      *string
	BasePrice *float64
	Stock     *int
}

func (r ProductRepository) coll() collection[domain.Product] {
	return collection[domain.Product]{
		store: r.Store,
		name:  domain.CollectionProducts,
		setID: func(p *domain.Product, id string) { p.ID = id },
	}
}

func (r ProductRepository) Add(ctx context.Context, p domain.Product) (string, error) {
	if p.Stock < 0 {
		return "", ErrNegativeStock
	}
	return r.coll().add(ctx, p)
}

func (r ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	return r.coll().list(ctx)
}

func (r ProductRepository) Get(ctx context.Context, id string) (*domain.Product, error) {
	return r.coll().get(ctx, id)
}

func (r ProductRepository) Update(ctx context.Context, id string, u ProductUpdate) error {
	fields := map[string]any{}
	if u.Name != nil {
		fields["name"] = *u.Name
	}
	if u.BasePrice != nil {
		fields["basePrice"] = *u.BasePrice
	}
	if u.Stock != nil {
		if *u.Stock < 0 {
			return ErrNegativeStock
		}
		fields["stock"] = *u.Stock
	}
	return r.coll().update(ctx, id, fields)
}

func (r ProductRepository) Delete(ctx context.Context, id string) error {
	return r.coll().delete(ctx, id)
}

// AdjustStock adds delta to the stock atomically and returns the new level.
// A decrement past zero writes nothing and returns ErrInsufficientStock.
func (r ProductRepository) AdjustStock(ctx context.Context, id string, delta int) (int, error) {
	v, err := r.coll().adjust(ctx, id, "stock", float64(delta), 0)
	if err != nil {
		if errors.Is(err, docstore.ErrBelowFloor) {
			return int(v), ErrInsufficientStock
		}
		return 0, err
	}
	return int(v), nil
}
