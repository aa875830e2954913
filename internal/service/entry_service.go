package service

import (
	"context"
	"errors"
	"log/slog"

	"barbearia-backend/internal/catalog"
	"barbearia-backend/internal/domain"
	"barbearia-backend/internal/entry"
	"barbearia-backend/internal/repository"
)

// EntryRecorder persists entry form submissions and credits the barber's commission.
type EntryRecorder struct {
	Products repository.ProductRepository
	Barbers  repository.BarberRepository
	Results  repository.ProductionResultRepository
	Sales    repository.SaleRepository
	Logger   *slog.Logger
}

func (r EntryRecorder) RecordService(ctx context.Context, rec entry.ServiceRecord) error {
	id, err := r.Results.Add(ctx, domain.ProductionResult{
		BarberName:       rec.BarberName,
		ServiceName:      rec.ServiceName,
		Date:             rec.Timestamp,
		BarberID:         rec.BarberID,
		ServiceID:        rec.ServiceID,
		ClientName:       rec.ClientName,
		ExtraServiceName: rec.ExtraServiceName,
		Price:            rec.Price,
		Commission:       rec.Commission,
	})
	if err != nil {
		r.Logger.Error("record service failed", "barber", rec.BarberName, "service", rec.ServiceName, "err", err)
		return err
	}
	return r.credit(ctx, rec.BarberID, rec.Commission, "productionResults", id)
}

// RecordSale takes the stock first so a sale is never stored for goods that are not there.
// The later writes are not rolled back if they fail.
func (r EntryRecorder) RecordSale(ctx context.Context, rec entry.SaleRecord) error {
	if _, err := r.Products.AdjustStock(ctx, rec.ProductID, -rec.Quantity); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return &entry.ValidationError{Field: "quantity", Message: entry.MsgInsufficientStock}
		}
		if errors.Is(err, repository.ErrNotFound) {
			return &entry.ValidationError{Field: "product", Message: "Produto não encontrado."}
		}
		r.Logger.Error("decrement stock failed", "product", rec.ProductID, "quantity", rec.Quantity, "err", err)
		return err
	}
	id, err := r.Sales.Add(ctx, domain.Sale{
		ProductID:   rec.ProductID,
		ProductName: rec.ProductName,
		Quantity:    rec.Quantity,
		BasePrice:   rec.BasePrice,
		TaxAmount:   rec.TaxAmount,
		TotalPrice:  rec.TotalPrice,
		Commission:  rec.Commission,
		BarberID:    rec.BarberID,
		BarberName:  rec.BarberName,
		Timestamp:   rec.Timestamp,
	})
	if err != nil {
		r.Logger.Error("record sale failed after stock decrement", "product", rec.ProductID, "quantity", rec.Quantity, "err", err)
		return err
	}
	return r.credit(ctx, rec.BarberID, rec.Commission, "sales", id)
}

func (r EntryRecorder) credit(ctx context.Context, barberID string, amount float64, source, sourceID string) error {
	if barberID == "" || amount == 0 {
		return nil
	}
	if _, err := r.Barbers.CreditCommission(ctx, barberID, amount); err != nil {
		r.Logger.Error("credit commission failed", "barber_id", barberID, "amount", amount, "source", source, "source_id", sourceID, "err", err)
		return err
	}
	return nil
}

// EntryService builds an entry form per request and submits it.
type EntryService struct {
	Services repository.ServiceRepository
	Products repository.ProductRepository
	Catalog  *catalog.Catalog
	Recorder entry.Recorder
	Logger   *slog.Logger
}

type ServiceEntryInput struct {
	ServiceID      string `json:"serviceId"`
	ExtraServiceID string `json:"extraServiceId"`
	ClientName     string `json:"clientName"`
}

type SaleEntryInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (s EntryService) Options(ctx context.Context) (entry.Options, error) {
	opts, err := entry.LoadOptions(ctx, s.Services, s.Products, s.Catalog)
	if err != nil {
		return opts, err
	}
	if opts.ServicesErr != nil {
		s.Logger.Error("load services failed", "err", opts.ServicesErr)
	}
	if opts.ProductsErr != nil {
		s.Logger.Error("load products failed", "err", opts.ProductsErr)
	}
	return opts, nil
}

func (s EntryService) RecordService(ctx context.Context, barber domain.Barber, in ServiceEntryInput) (entry.ServiceRecord, error) {
	opts, err := s.Options(ctx)
	if err != nil {
		return entry.ServiceRecord{}, err
	}
	if opts.ServicesErr != nil {
		return entry.ServiceRecord{}, opts.ServicesErr
	}
	form := entry.NewForm(opts, s.Recorder)
	form.SelectService(in.ServiceID)
	form.SelectExtraService(in.ExtraServiceID)
	form.SetClientName(in.ClientName)
	form.OnServiceRecord = func(rec entry.ServiceRecord) {
		s.Logger.Info("service recorded", "barber", rec.BarberName, "service", rec.ServiceName, "price", rec.Price)
	}
	return form.SubmitService(ctx, barber)
}

func (s EntryService) RecordSale(ctx context.Context, barber domain.Barber, in SaleEntryInput) (entry.SaleRecord, error) {
	opts, err := s.Options(ctx)
	if err != nil {
		return entry.SaleRecord{}, err
	}
	if opts.ProductsErr != nil {
		return entry.SaleRecord{}, opts.ProductsErr
	}
	form := entry.NewForm(opts, s.Recorder)
	form.SelectProduct(in.ProductID)
	form.SetQuantity(in.Quantity)
	form.OnSaleRecord = func(rec entry.SaleRecord) {
		s.Logger.Info("sale recorded", "barber", rec.BarberName, "product", rec.ProductName, "quantity", rec.Quantity)
	}
	return form.SubmitSale(ctx, barber)
}
