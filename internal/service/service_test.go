package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"barbearia-backend/internal/catalog"
	"barbearia-backend/internal/docstore"
	"barbearia-backend/internal/domain"
	"barbearia-backend/internal/entry"
	"barbearia-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUnavailable = errors.New("unavailable")

// flakyStore fails List for one collection and counts deletes.
type flakyStore struct {
	*docstore.Memory
	failList string
	deletes  []string
}

func (f *flakyStore) List(ctx context.Context, collection string) ([]docstore.Document, error) {
	if collection == f.failList {
		return nil, errUnavailable
	}
	return f.Memory.List(ctx, collection)
}

func (f *flakyStore) Delete(ctx context.Context, collection, id string) error {
	f.deletes = append(f.deletes, collection+"/"+id)
	return f.Memory.Delete(ctx, collection, id)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newManager(store docstore.Store, now time.Time) ManagerDashboardService {
	return ManagerDashboardService{
		Products: repository.ProductRepository{Store: store},
		Services: repository.ServiceRepository{Store: store},
		Barbers:  repository.BarberRepository{Store: store},
		Results:  repository.ProductionResultRepository{Store: store},
		Sales:    repository.SaleRepository{Store: store},
		Logger:   discardLogger(),
		Now:      func() time.Time { return now },
	}
}

var testNow = time.Date(2024, 5, 8, 15, 0, 0, 0, time.UTC) // a Wednesday

func TestManagerTotals(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	m := newManager(store, testNow)

	for _, bal := range []float64{10.50, 0, 25.25} {
		_, err := m.Barbers.Add(ctx, domain.Barber{Name: "B", Balance: bal})
		require.NoError(t, err)
	}
	for _, p := range []domain.Product{{Name: "Shampoo", BasePrice: 10, Stock: 5}, {Name: "Cera", BasePrice: 11, Stock: 20}} {
		_, err := m.Products.Add(ctx, p)
		require.NoError(t, err)
	}

	view, err := m.Load(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 35.75, view.TotalPendingBalance, 1e-9)
	assert.Equal(t, 25, view.TotalStock)
	assert.Equal(t, 1, view.LowStockCount)
	assert.Equal(t, 3, view.ActiveBarbers)
	assert.Empty(t, view.Errors)

	require.Len(t, view.Products, 2)
	assert.InDelta(t, 12.3, view.Products[0].TotalPrice, 1e-9)
	assert.InDelta(t, 2.3, view.Products[0].TaxAmount, 1e-9)
	assert.InDelta(t, 2.0, view.Products[0].Commission, 1e-9)
	assert.True(t, view.Products[0].LowStock)
}

func TestManagerDeleteServiceRefetches(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{Memory: docstore.NewMemory()}
	m := newManager(store, testNow)

	id, err := m.Services.Add(ctx, domain.Service{Name: "Corte", Price: 15})
	require.NoError(t, err)
	_, err = m.Services.Add(ctx, domain.Service{Name: "Barba", Price: 10})
	require.NoError(t, err)

	view, err := m.DeleteService(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.CollectionServices + "/" + id}, store.deletes)
	require.Len(t, view.Services, 1)
	assert.Equal(t, "Barba", view.Services[0].Name)
}

func TestManagerDeleteMissingProduct(t *testing.T) {
	ctx := context.Background()
	m := newManager(docstore.NewMemory(), testNow)
	_, err := m.Products.Add(ctx, domain.Product{Name: "Shampoo", BasePrice: 10, Stock: 5})
	require.NoError(t, err)

	view, err := m.DeleteProduct(ctx, "ghost")
	require.NoError(t, err)
	require.Len(t, view.Products, 1)
	for _, p := range view.Products {
		assert.NotEqual(t, "ghost", p.ID)
	}
}

func TestManagerPartialFailure(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{Memory: docstore.NewMemory(), failList: domain.CollectionProducts}
	m := newManager(store, testNow)
	_, err := m.Barbers.Add(ctx, domain.Barber{Name: "Rui", Balance: 4})
	require.NoError(t, err)

	view, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Contains(t, view.Errors, domain.CollectionProducts)
	assert.Empty(t, view.Products)
	assert.Len(t, view.Barbers, 1)
	assert.Equal(t, 4.0, view.TotalPendingBalance)
}

func TestManagerLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newManager(docstore.NewMemory(), testNow).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestManagerRestockAndUpdateErrors(t *testing.T) {
	ctx := context.Background()
	m := newManager(docstore.NewMemory(), testNow)
	id, err := m.Products.Add(ctx, domain.Product{Name: "Cera", BasePrice: 11, Stock: 2})
	require.NoError(t, err)

	view, err := m.RestockProduct(ctx, id, 10)
	require.NoError(t, err)
	assert.Equal(t, 12, view.TotalStock)

	name := "Cera Forte"
	_, err = m.UpdateProduct(ctx, "ghost", repository.ProductUpdate{Name: &name})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func newEntryService(t *testing.T, store docstore.Store) EntryService {
	t.Helper()
	extras, err := catalog.Load("")
	require.NoError(t, err)
	logger := discardLogger()
	return EntryService{
		Services: repository.ServiceRepository{Store: store},
		Products: repository.ProductRepository{Store: store},
		Catalog:  extras,
		Logger:   logger,
		Recorder: EntryRecorder{
			Products: repository.ProductRepository{Store: store},
			Barbers:  repository.BarberRepository{Store: store},
			Results:  repository.ProductionResultRepository{Store: store},
			Sales:    repository.SaleRepository{Store: store},
			Logger:   logger,
		},
	}
}

func TestRecordServicePersistsAndCredits(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	svc := newEntryService(t, store)
	barbers := repository.BarberRepository{Store: store}

	barberID, err := barbers.Add(ctx, domain.Barber{Name: "Rui", Email: "rui@cortes.pt"})
	require.NoError(t, err)
	serviceID, err := svc.Services.Add(ctx, domain.Service{Name: "Corte", Price: 15})
	require.NoError(t, err)
	barber, err := barbers.Get(ctx, barberID)
	require.NoError(t, err)

	rec, err := svc.RecordService(ctx, *barber, ServiceEntryInput{ServiceID: serviceID, ExtraServiceID: "color", ClientName: "João"})
	require.NoError(t, err)
	assert.Equal(t, 55.0, rec.Price)

	results, err := repository.ProductionResultRepository{Store: store}.List(ctx)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Rui", results[0].BarberName)
	assert.Equal(t, "Corte", results[0].ServiceName)
	assert.Equal(t, "Coloração", results[0].ExtraServiceName)

	barber, err = barbers.Get(ctx, barberID)
	require.NoError(t, err)
	assert.InDelta(t, 11.0, barber.Balance, 1e-9)
}

func TestRecordServiceValidationSkipsStore(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	svc := newEntryService(t, store)

	_, err := svc.RecordService(ctx, domain.Barber{ID: "b1", Name: "Rui"}, ServiceEntryInput{ClientName: "João"})
	var verr *entry.ValidationError
	require.ErrorAs(t, err, &verr)

	results, err := repository.ProductionResultRepository{Store: store}.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRecordSaleDecrementsStock(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	svc := newEntryService(t, store)
	barbers := repository.BarberRepository{Store: store}

	barberID, err := barbers.Add(ctx, domain.Barber{Name: "Rui"})
	require.NoError(t, err)
	productID, err := svc.Products.Add(ctx, domain.Product{Name: "Shampoo", BasePrice: 10, Stock: 3})
	require.NoError(t, err)
	rui := domain.Barber{ID: barberID, Name: "Rui"}

	rec, err := svc.RecordSale(ctx, rui, SaleEntryInput{ProductID: productID, Quantity: 2})
	require.NoError(t, err)
	assert.InDelta(t, 24.6, rec.TotalPrice, 1e-9)

	p, err := svc.Products.Get(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Stock)

	sales, err := repository.SaleRepository{Store: store}.List(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, 2, sales[0].Quantity)

	b, err := barbers.Get(ctx, barberID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, b.Balance, 1e-9)

	_, err = svc.RecordSale(ctx, rui, SaleEntryInput{ProductID: productID, Quantity: 2})
	var verr *entry.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, entry.MsgInsufficientStock, verr.Message)
}

func TestRecorderMapsRacedStockShortage(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	rec := newEntryService(t, store).Recorder.(EntryRecorder)
	productID, err := rec.Products.Add(ctx, domain.Product{Name: "Shampoo", BasePrice: 10, Stock: 1})
	require.NoError(t, err)

	err = rec.RecordSale(ctx, entry.SaleRecord{ProductID: productID, Quantity: 2, BarberName: "Rui"})
	var verr *entry.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "quantity", verr.Field)

	sales, err := rec.Sales.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestBarberDashboard(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	d := BarberDashboardService{
		Barbers: repository.BarberRepository{Store: store},
		Results: repository.ProductionResultRepository{Store: store},
		Sales:   repository.SaleRepository{Store: store},
		Logger:  discardLogger(),
		Now:     func() time.Time { return testNow },
	}

	view, err := d.Load(ctx, "ninguem@cortes.pt")
	require.NoError(t, err)
	assert.True(t, view.IsNew)

	id, err := d.Barbers.Add(ctx, domain.Barber{Name: "Rui", Email: "rui@cortes.pt"})
	require.NoError(t, err)
	records := []domain.ProductionResult{
		{BarberID: id, BarberName: "Rui", ServiceName: "Corte", Date: "2024-05-08T10:00:00Z", Price: 15, Commission: 3},
		{BarberID: id, BarberName: "Rui", ServiceName: "Barba", Date: "2024-05-06T10:00:00Z", Price: 10, Commission: 2},
		{BarberName: "Rui", ServiceName: "Corte", Date: "2024-05-01"},
		{BarberID: "other", BarberName: "Ana", ServiceName: "Corte", Date: "2024-05-08T11:00:00Z", Price: 15, Commission: 3},
	}
	for _, r := range records {
		_, err := d.Results.Add(ctx, r)
		require.NoError(t, err)
	}
	_, err = d.Sales.Add(ctx, domain.Sale{BarberID: id, BarberName: "Rui", ProductName: "Shampoo", Quantity: 1, TotalPrice: 12.3, Commission: 2, Timestamp: "2024-05-08T12:00:00Z"})
	require.NoError(t, err)

	view, err = d.Load(ctx, "RUI@cortes.pt")
	require.NoError(t, err)
	assert.False(t, view.IsNew)
	assert.Equal(t, "Rui", view.Barber.Name)
	assert.Equal(t, 1, view.ServicesToday)
	assert.InDelta(t, 27.3, view.EarningsToday, 1e-9)
	assert.InDelta(t, 5.0, view.CommissionToday, 1e-9)
	assert.InDelta(t, 37.3, view.EarningsWeek, 1e-9)
	assert.InDelta(t, 7.0, view.CommissionWeek, 1e-9)

	require.Len(t, view.Weekly, 7)
	assert.Equal(t, "Seg", view.Weekly[0].Day)
	assert.Equal(t, "2024-05-06", view.Weekly[0].Date)
	assert.InDelta(t, 10.0, view.Weekly[0].Value, 1e-9)
	assert.InDelta(t, 27.3, view.Weekly[2].Value, 1e-9)

	require.Len(t, view.LatestServices, 3)
	assert.Equal(t, "2024-05-08T10:00:00Z", view.LatestServices[0].Date)
}

func TestIsManager(t *testing.T) {
	open := AuthService{}
	assert.True(t, open.IsManager("anyone@cortes.pt"))

	gated := AuthService{ManagerEmails: []string{"boss@cortes.pt"}}
	assert.True(t, gated.IsManager(" Boss@Cortes.pt"))
	assert.False(t, gated.IsManager("rui@cortes.pt"))
}
