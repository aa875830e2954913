package repository

import (
	"context"

	"barbearia-backend/internal/domain"
)

// SeedDefaults fills the product collection with a starter catalog when it is empty.
func (r ProductRepository) SeedDefaults(ctx context.Context) (int, error) {
	existing, err := r.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	defaults := []domain.Product{
		{Name: "Pomada Modeladora", BasePrice: 12, Stock: 25},
		{Name: "Shampoo", BasePrice: 10, Stock: 30},
		{Name: "Óleo para Barba", BasePrice: 15, Stock: 8},
		{Name: "Cera Capilar", BasePrice: 11.5, Stock: 20},
	}
	for _, p := range defaults {
		if _, err := r.Add(ctx, p); err != nil {
			return 0, err
		}
	}
	return len(defaults), nil
}

// SeedDefaults fills the service collection with a starter catalog when it is empty.
func (r ServiceRepository) SeedDefaults(ctx context.Context) (int, error) {
	existing, err := r.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	defaults := []domain.Service{
		{Name: "Corte de Cabelo", Price: 15},
		{Name: "Barba", Price: 10},
		{Name: "Corte e Barba", Price: 22},
		{Name: "Lavagem", Price: 5},
	}
	for _, s := range defaults {
		if _, err := r.Add(ctx, s); err != nil {
			return 0, err
		}
	}
	return len(defaults), nil
}
