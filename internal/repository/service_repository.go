package repository

import (
	"context"

	"barbearia-backend/internal/docstore"
	"barbearia-backend/internal/domain"
)

type ServiceRepository struct {
	Store docstore.Store
}

type ServiceUpdate struct {
	Name  *string
	Price *float64
}

func (r ServiceRepository) coll() collection[domain.Service] {
	return collection[domain.Service]{
		store: r.Store,
		name:  domain.CollectionServices,
		setID: func(s *domain.Service, id string) { s.ID = id },
	}
}

func (r ServiceRepository) Add(ctx context.Context, s domain.Service) (string, error) {
	return r.coll().add(ctx, s)
}

func (r ServiceRepository) List(ctx context.Context) ([]domain.Service, error) {
	return r.coll().list(ctx)
}

func (r ServiceRepository) Update(ctx context.Context, id string, u ServiceUpdate) error {
	fields := map[string]any{}
	if u.Name != nil {
		fields["name"] = *u.Name
	}
	if u.Price != nil {
		fields["price"] = *u.Price
	}
	return r.coll().update(ctx, id, fields)
}

func (r ServiceRepository) Delete(ctx context.Context, id string) error {
	return r.coll().delete(ctx, id)
}
