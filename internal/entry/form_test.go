package entry

import (
	"context"
	"errors"
	"testing"
	"time"

	"barbearia-backend/internal/catalog"
	"barbearia-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	services []ServiceRecord
	sales    []SaleRecord
	err      error
}

func (r *fakeRecorder) RecordService(_ context.Context, rec ServiceRecord) error {
	if r.err != nil {
		return r.err
	}
	r.services = append(r.services, rec)
	return nil
}

func (r *fakeRecorder) RecordSale(_ context.Context, rec SaleRecord) error {
	if r.err != nil {
		return r.err
	}
	r.sales = append(r.sales, rec)
	return nil
}

var rui = domain.Barber{ID: "b1", Name: "Rui"}

func testOptions(t *testing.T) Options {
	t.Helper()
	extras, err := catalog.Load("")
	require.NoError(t, err)
	return Options{
		Services:      []domain.Service{{ID: "s1", Name: "Corte", Price: 15}},
		ExtraServices: extras.ExtraServices(),
		Products:      []domain.Product{{ID: "p1", Name: "Shampoo", BasePrice: 10, Stock: 5}},
	}
}

func fixedNow() time.Time { return time.Date(2024, 5, 3, 10, 30, 0, 0, time.UTC) }

func TestSubmitServiceWithoutSelectionIsRejected(t *testing.T) {
	rec := &fakeRecorder{}
	form := NewForm(testOptions(t), rec)
	var seen []State
	form.OnTransition = func(_, to State) { seen = append(seen, to) }

	form.SetClientName("João")
	_, err := form.SubmitService(context.Background(), rui)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "service", verr.Field)
	assert.Equal(t, msgServiceRequired, verr.Message)
	assert.Empty(t, rec.services)
	assert.Equal(t, Selecting, form.State())
	assert.Equal(t, []State{Selecting, SubmissionRejected, Selecting}, seen)

	_, _, client, _, _ := form.Fields()
	assert.Equal(t, "João", client)
}

func TestSubmitServiceRequiresClientName(t *testing.T) {
	rec := &fakeRecorder{}
	form := NewForm(testOptions(t), rec)
	form.SelectService("s1")
	form.SetClientName("   ")

	_, err := form.SubmitService(context.Background(), rui)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "clientName", verr.Field)
	assert.Empty(t, rec.services)
}

func TestSubmitServiceRecordsAndClears(t *testing.T) {
	rec := &fakeRecorder{}
	form := NewForm(testOptions(t), rec)
	form.Now = fixedNow
	var completed *ServiceRecord
	form.OnServiceRecord = func(r ServiceRecord) { completed = &r }

	form.SelectService("s1")
	form.SelectExtraService("eyebrows")
	form.SetClientName(" João ")
	got, err := form.SubmitService(context.Background(), rui)
	require.NoError(t, err)

	assert.Equal(t, "Corte", got.ServiceName)
	assert.Equal(t, "Tratamento de Sobrancelhas", got.ExtraServiceName)
	assert.Equal(t, "João", got.ClientName)
	assert.Equal(t, 30.0, got.Price)
	assert.InDelta(t, 6.0, got.Commission, 1e-9)
	assert.Equal(t, "2024-05-03T10:30:00Z", got.Timestamp)
	assert.Equal(t, "Rui", got.BarberName)

	require.Len(t, rec.services, 1)
	require.NotNil(t, completed)
	assert.Equal(t, got, *completed)
	assert.Equal(t, Idle, form.State())
	svc, extra, client, _, _ := form.Fields()
	assert.Empty(t, svc)
	assert.Empty(t, extra)
	assert.Empty(t, client)
}

func TestSubmitServiceUnknownExtra(t *testing.T) {
	form := NewForm(testOptions(t), &fakeRecorder{})
	form.SelectService("s1")
	form.SelectExtraService("massage")
	form.SetClientName("Ana")

	_, err := form.SubmitService(context.Background(), rui)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "extraService", verr.Field)
}

func TestRecorderFailureKeepsFields(t *testing.T) {
	boom := errors.New("store unavailable")
	form := NewForm(testOptions(t), &fakeRecorder{err: boom})
	called := false
	form.OnServiceRecord = func(ServiceRecord) { called = true }

	form.SelectService("s1")
	form.SetClientName("Ana")
	_, err := form.SubmitService(context.Background(), rui)
	require.ErrorIs(t, err, boom)

	assert.False(t, called)
	assert.Equal(t, Selecting, form.State())
	svc, _, client, _, _ := form.Fields()
	assert.Equal(t, "s1", svc)
	assert.Equal(t, "Ana", client)
}

func TestSubmitSale(t *testing.T) {
	rec := &fakeRecorder{}
	form := NewForm(testOptions(t), rec)
	form.Now = fixedNow

	form.SelectProduct("p1")
	form.SetQuantity(2)
	got, err := form.SubmitSale(context.Background(), rui)
	require.NoError(t, err)

	assert.Equal(t, 10.0, got.BasePrice)
	assert.InDelta(t, 4.6, got.TaxAmount, 1e-9)
	assert.InDelta(t, 24.6, got.TotalPrice, 1e-9)
	assert.InDelta(t, 4.0, got.Commission, 1e-9)
	require.Len(t, rec.sales, 1)

	_, _, _, product, qty := form.Fields()
	assert.Empty(t, product)
	assert.Equal(t, 1, qty)
	assert.Equal(t, Idle, form.State())
}

func TestSubmitSaleGuards(t *testing.T) {
	tests := []struct {
		name      string
		product   string
		quantity  int
		wantField string
		wantMsg   string
	}{
		{name: "no product", quantity: 1, wantField: "product", wantMsg: msgProductRequired},
		{name: "zero quantity", product: "p1", quantity: 0, wantField: "quantity", wantMsg: msgProductRequired},
		{name: "unknown product", product: "p9", quantity: 1, wantField: "product", wantMsg: msgProductNotFound},
		{name: "more than stock", product: "p1", quantity: 6, wantField: "quantity", wantMsg: MsgInsufficientStock},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := &fakeRecorder{}
			form := NewForm(testOptions(t), rec)
			form.SelectProduct(tc.product)
			form.SetQuantity(tc.quantity)

			_, err := form.SubmitSale(context.Background(), rui)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.wantField, verr.Field)
			assert.Equal(t, tc.wantMsg, verr.Message)
			assert.Empty(t, rec.sales)
		})
	}
}

type listFunc[T any] func(context.Context) ([]T, error)

func (f listFunc[T]) List(ctx context.Context) ([]T, error) { return f(ctx) }

func TestLoadOptionsPartialFailure(t *testing.T) {
	boom := errors.New("products down")
	services := listFunc[domain.Service](func(context.Context) ([]domain.Service, error) {
		return []domain.Service{{ID: "s1", Name: "Corte", Price: 15}}, nil
	})
	products := listFunc[domain.Product](func(context.Context) ([]domain.Product, error) {
		return nil, boom
	})
	extras, err := catalog.Load("")
	require.NoError(t, err)

	opts, err := LoadOptions(context.Background(), services, products, extras)
	require.NoError(t, err)
	assert.Len(t, opts.Services, 1)
	assert.NoError(t, opts.ServicesErr)
	assert.ErrorIs(t, opts.ProductsErr, boom)
	assert.Empty(t, opts.Products)
	assert.Len(t, opts.ExtraServices, 4)
}

func TestLoadOptionsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	services := listFunc[domain.Service](func(ctx context.Context) ([]domain.Service, error) { return nil, ctx.Err() })
	products := listFunc[domain.Product](func(ctx context.Context) ([]domain.Product, error) { return nil, ctx.Err() })

	_, err := LoadOptions(ctx, services, products, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
