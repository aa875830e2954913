package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"barbearia-backend/internal/domain"
	"barbearia-backend/internal/pricing"
	"barbearia-backend/internal/repository"
	"golang.org/x/sync/errgroup"
)

// ProductView is a product with its derived prices.
type ProductView struct {
	domain.Product
	domain.Pricing
	LowStock bool `json:"lowStock"`
}

type ManagerView struct {
	Products          []ProductView             `json:"products"`
	Services          []domain.Service          `json:"services"`
	Barbers           []domain.Barber           `json:"barbers"`
	ProductionResults []domain.ProductionResult `json:"productionResults"`

	TotalPendingBalance float64 `json:"totalPendingBalance"`
	TotalStock          int     `json:"totalStock"`
	LowStockCount       int     `json:"lowStockCount"`
	ActiveBarbers       int     `json:"activeBarbers"`
	TodayRevenue        float64 `json:"todayRevenue"`

	// Errors holds the message of each collection that failed to load. The others are still filled.
	Errors map[string]string `json:"errors,omitempty"`
}

type ManagerDashboardService struct {
	Products repository.ProductRepository
	Services repository.ServiceRepository
	Barbers  repository.BarberRepository
	Results  repository.ProductionResultRepository
	Sales    repository.SaleRepository
	Logger   *slog.Logger
	Now      func() time.Time
}

// Load fetches every collection concurrently. A failed fetch does not discard the others;
// only a cancelled ctx fails the whole view.
func (s ManagerDashboardService) Load(ctx context.Context) (ManagerView, error) {
	var (
		view     ManagerView
		products []domain.Product
		sales    []domain.Sale
		mu       sync.Mutex
		g        errgroup.Group
	)
	report := func(collection string, err error) {
		s.Logger.Error("dashboard fetch failed", "collection", collection, "err", err)
		mu.Lock()
		if view.Errors == nil {
			view.Errors = map[string]string{}
		}
		view.Errors[collection] = "Não foi possível carregar os dados."
		mu.Unlock()
	}

	g.Go(func() error {
		items, err := s.Products.List(ctx)
		if err != nil {
			report(domain.CollectionProducts, err)
			return nil
		}
		products = items
		return nil
	})
	g.Go(func() error {
		items, err := s.Services.List(ctx)
		if err != nil {
			report(domain.CollectionServices, err)
			return nil
		}
		view.Services = items
		return nil
	})
	g.Go(func() error {
		items, err := s.Barbers.List(ctx)
		if err != nil {
			report(domain.CollectionBarbers, err)
			return nil
		}
		view.Barbers = items
		return nil
	})
	g.Go(func() error {
		items, err := s.Results.List(ctx)
		if err != nil {
			report(domain.CollectionProductionResults, err)
			return nil
		}
		view.ProductionResults = items
		return nil
	})
	g.Go(func() error {
		items, err := s.Sales.List(ctx)
		if err != nil {
			report(domain.CollectionSales, err)
			return nil
		}
		sales = items
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return ManagerView{}, err
	}

	view.Products = make([]ProductView, 0, len(products))
	for _, p := range products {
		view.Products = append(view.Products, ProductView{Product: p, Pricing: pricing.Compute(p.BasePrice), LowStock: p.Stock < domain.LowStockThreshold})
	}
	if view.Services == nil {
		view.Services = []domain.Service{}
	}
	if view.Barbers == nil {
		view.Barbers = []domain.Barber{}
	}
	if view.ProductionResults == nil {
		view.ProductionResults = []domain.ProductionResult{}
	}
	view.TotalPendingBalance = TotalPendingBalance(view.Barbers)
	view.TotalStock = TotalStock(products)
	view.LowStockCount = LowStockCount(products)
	view.ActiveBarbers = len(view.Barbers)
	view.TodayRevenue = revenueOn(s.now(), view.ProductionResults, sales)
	return view, nil
}

func (s ManagerDashboardService) DeleteProduct(ctx context.Context, id string) (ManagerView, error) {
	if err := s.Products.Delete(ctx, id); err != nil {
		s.Logger.Error("delete product failed", "id", id, "err", err)
		return ManagerView{}, err
	}
	return s.Load(ctx)
}

func (s ManagerDashboardService) DeleteService(ctx context.Context, id string) (ManagerView, error) {
	if err := s.Services.Delete(ctx, id); err != nil {
		s.Logger.Error("delete service failed", "id", id, "err", err)
		return ManagerView{}, err
	}
	return s.Load(ctx)
}

func (s ManagerDashboardService) DeleteBarber(ctx context.Context, id string) (ManagerView, error) {
	if err := s.Barbers.Delete(ctx, id); err != nil {
		s.Logger.Error("delete barber failed", "id", id, "err", err)
		return ManagerView{}, err
	}
	return s.Load(ctx)
}

func (s ManagerDashboardService) UpdateProduct(ctx context.Context, id string, u repository.ProductUpdate) (ManagerView, error) {
	if err := s.Products.Update(ctx, id, u); err != nil {
		s.Logger.Error("update product failed", "id", id, "err", err)
		return ManagerView{}, err
	}
	return s.Load(ctx)
}

func (s ManagerDashboardService) UpdateService(ctx context.Context, id string, u repository.ServiceUpdate) (ManagerView, error) {
	if err := s.Services.Update(ctx, id, u); err != nil {
		s.Logger.Error("update service failed", "id", id, "err", err)
		return ManagerView{}, err
	}
	return s.Load(ctx)
}

func (s ManagerDashboardService) UpdateBarber(ctx context.Context, id string, u repository.BarberUpdate) (ManagerView, error) {
	if err := s.Barbers.Update(ctx, id, u); err != nil {
		s.Logger.Error("update barber failed", "id", id, "err", err)
		return ManagerView{}, err
	}
	return s.Load(ctx)
}

func (s ManagerDashboardService) RestockProduct(ctx context.Context, id string, quantity int) (ManagerView, error) {
	if _, err := s.Products.AdjustStock(ctx, id, quantity); err != nil {
		s.Logger.Error("restock failed", "id", id, "quantity", quantity, "err", err)
		return ManagerView{}, err
	}
	return s.Load(ctx)
}

func (s ManagerDashboardService) SettleBarber(ctx context.Context, id string) (ManagerView, error) {
	if err := s.Barbers.SettleBalance(ctx, id); err != nil {
		s.Logger.Error("settle balance failed", "id", id, "err", err)
		return ManagerView{}, err
	}
	return s.Load(ctx)
}

func (s ManagerDashboardService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func TotalPendingBalance(barbers []domain.Barber) float64 {
	var total float64
	for _, b := range barbers {
		total += b.Balance
	}
	return total
}

func TotalStock(products []domain.Product) int {
	var total int
	for _, p := range products {
		total += p.Stock
	}
	return total
}

func LowStockCount(products []domain.Product) int {
	var n int
	for _, p := range products {
		if p.Stock < domain.LowStockThreshold {
			n++
		}
	}
	return n
}

func revenueOn(day time.Time, results []domain.ProductionResult, sales []domain.Sale) float64 {
	var total float64
	for _, r := range results {
		if t, ok := domain.ParseTimestamp(r.Date); ok && sameDay(t, day) {
			total += r.Price
		}
	}
	for _, s := range sales {
		if t, ok := domain.ParseTimestamp(s.Timestamp); ok && sameDay(t, day) {
			total += s.TotalPrice
		}
	}
	return total
}

func sameDay(t, day time.Time) bool {
	t = t.In(day.Location())
	y1, m1, d1 := t.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
