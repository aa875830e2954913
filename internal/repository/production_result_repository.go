package repository

import (
	"context"
	"time"

	"barbearia-backend/internal/docstore"
	"barbearia-backend/internal/domain"
)

type ProductionResultRepository struct {
	Store docstore.Store
}

func (r ProductionResultRepository) coll() collection[domain.ProductionResult] {
	return collection[domain.ProductionResult]{
		store: r.Store,
		name:  domain.CollectionProductionResults,
		setID: func(p *domain.ProductionResult, id string) { p.ID = id },
	}
}

func (r ProductionResultRepository) Add(ctx context.Context, p domain.ProductionResult) (string, error) {
	return r.coll().add(ctx, p)
}

func (r ProductionResultRepository) List(ctx context.Context) ([]domain.ProductionResult, error) {
	return r.coll().list(ctx)
}

// ListBetween keeps results whose date falls within [start, end] (days, inclusive).
// Nil bounds are open. Results with unparseable dates are only kept when both bounds are nil.
func (r ProductionResultRepository) ListBetween(ctx context.Context, start, end *time.Time) ([]domain.ProductionResult, error) {
	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	if start == nil && end == nil {
		return items, nil
	}
	out := make([]domain.ProductionResult, 0, len(items))
	for _, p := range items {
		t, ok := domain.ParseTimestamp(p.Date)
		if !ok {
			continue
		}
		if start != nil && t.Before(*start) {
			continue
		}
		if end != nil && !t.Before(end.AddDate(0, 0, 1)) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
