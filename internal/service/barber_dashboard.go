package service

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"barbearia-backend/internal/domain"
	"barbearia-backend/internal/repository"
	"golang.org/x/sync/errgroup"
)

const latestServicesLimit = 5

var weekdayLabels = [7]string{"Seg", "Ter", "Qua", "Qui", "Sex", "Sab", "Dom"}

type DayTotal struct {
	Day   string  `json:"day"`
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type LatestService struct {
	Service    string  `json:"service"`
	ClientName string  `json:"clientName,omitempty"`
	Value      float64 `json:"value"`
	Commission float64 `json:"commission"`
	Date       string  `json:"date"`
}

type BarberView struct {
	IsNew  bool           `json:"isNew"`
	Barber *domain.Barber `json:"barber,omitempty"`

	EarningsToday   float64 `json:"earningsToday"`
	CommissionToday float64 `json:"commissionToday"`
	EarningsWeek    float64 `json:"earningsWeek"`
	CommissionWeek  float64 `json:"commissionWeek"`
	ServicesToday   int     `json:"servicesToday"`

	Weekly         []DayTotal        `json:"weekly"`
	LatestServices []LatestService   `json:"latestServices"`
	Errors         map[string]string `json:"errors,omitempty"`
}

type BarberDashboardService struct {
	Barbers repository.BarberRepository
	Results repository.ProductionResultRepository
	Sales   repository.SaleRepository
	Logger  *slog.Logger
	Now     func() time.Time
}

// ResolveBarber finds the barber whose email matches the signed-in user. It returns nil, nil when there is none.
func (s BarberDashboardService) ResolveBarber(ctx context.Context, email string) (*domain.Barber, error) {
	b, err := s.Barbers.FindByEmail(ctx, email)
	if err != nil {
		s.Logger.Error("resolve barber failed", "email", email, "err", err)
		return nil, err
	}
	return b, nil
}

func (s BarberDashboardService) Load(ctx context.Context, email string) (BarberView, error) {
	b, err := s.ResolveBarber(ctx, email)
	if err != nil {
		return BarberView{}, err
	}
	if b == nil {
		return BarberView{IsNew: true}, nil
	}

	var (
		results []domain.ProductionResult
		sales   []domain.Sale
		errs    map[string]string
		mu      sync.Mutex
		g       errgroup.Group
	)
	report := func(collection string, err error) {
		s.Logger.Error("barber dashboard fetch failed", "collection", collection, "barber_id", b.ID, "err", err)
		mu.Lock()
		if errs == nil {
			errs = map[string]string{}
		}
		errs[collection] = "Não foi possível carregar os dados."
		mu.Unlock()
	}
	g.Go(func() error {
		items, err := s.Results.List(ctx)
		if err != nil {
			report(domain.CollectionProductionResults, err)
			return nil
		}
		results = items
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
		return BarberView{}, err
	}

	view := buildBarberView(*b, results, sales, s.now())
	view.Errors = errs
	return view, nil
}

func (s BarberDashboardService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func buildBarberView(b domain.Barber, results []domain.ProductionResult, sales []domain.Sale, now time.Time) BarberView {
	view := BarberView{Barber: &b, Weekly: make([]DayTotal, 7), LatestServices: []LatestService{}}

	weekStart := startOfWeek(now)
	for i := range view.Weekly {
		d := weekStart.AddDate(0, 0, i)
		view.Weekly[i] = DayTotal{Day: weekdayLabels[i], Date: d.Format("2006-01-02")}
	}
	add := func(t time.Time, value, commission float64) {
		t = t.In(now.Location())
		if sameDay(t, now) {
			view.EarningsToday += value
			view.CommissionToday += commission
		}
		if !t.Before(weekStart) && t.Before(weekStart.AddDate(0, 0, 7)) {
			view.EarningsWeek += value
			view.CommissionWeek += commission
			view.Weekly[dayIndex(t)].Value += value
		}
	}

	type dated struct {
		at time.Time
		r  domain.ProductionResult
	}
	var mine []dated
	for _, r := range results {
		if !performedBy(b, r.BarberID, r.BarberName) {
			continue
		}
		t, ok := domain.ParseTimestamp(r.Date)
		if !ok {
			continue
		}
		add(t, r.Price, r.Commission)
		if sameDay(t, now) {
			view.ServicesToday++
		}
		mine = append(mine, dated{at: t, r: r})
	}
	for _, sale := range sales {
		if !performedBy(b, sale.BarberID, sale.BarberName) {
			continue
		}
		if t, ok := domain.ParseTimestamp(sale.Timestamp); ok {
			add(t, sale.TotalPrice, sale.Commission)
		}
	}

	sort.SliceStable(mine, func(i, j int) bool { return mine[i].at.After(mine[j].at) })
	for i := 0; i < len(mine) && i < latestServicesLimit; i++ {
		r := mine[i].r
		view.LatestServices = append(view.LatestServices, LatestService{
			Service:    r.ServiceName,
			ClientName: r.ClientName,
			Value:      r.Price,
			Commission: r.Commission,
			Date:       r.Date,
		})
	}
	return view
}

// performedBy matches on barber id, falling back to the name for records that predate ids.
func performedBy(b domain.Barber, id, name string) bool {
	if id != "" {
		return id == b.ID
	}
	return name != "" && name == b.Name
}

func startOfWeek(now time.Time) time.Time {
	y, m, d := now.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return day.AddDate(0, 0, -dayIndex(day))
}

// dayIndex counts from Monday.
func dayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
