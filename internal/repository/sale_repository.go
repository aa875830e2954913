package repository

import (
	"context"

	"barbearia-backend/internal/docstore"
	"barbearia-backend/internal/domain"
)

type SaleRepository struct {
	Store docstore.Store
}

func (r SaleRepository) coll() collection[domain.Sale] {
	return collection[domain.Sale]{
		store: r.Store,
		name:  domain.CollectionSales,
		setID: func(s *domain.Sale, id string) { s.ID = id },
	}
}

func (r SaleRepository) Add(ctx context.Context, s domain.Sale) (string, error) {
	return r.coll().add(ctx, s)
}

func (r SaleRepository) List(ctx context.Context) ([]domain.Sale, error) {
	return r.coll().list(ctx)
}
