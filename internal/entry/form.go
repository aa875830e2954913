package entry

import (
	"context"
	"strings"
	"time"

	"barbearia-backend/internal/domain"
	"barbearia-backend/internal/pricing"
	"github.com/go-playground/validator/v10"
)

type State int

const (
	Idle State = iota
	Selecting
	Submitting
	SubmissionRejected
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Selecting:
		return "selecting"
	case Submitting:
		return "submitting"
	case SubmissionRejected:
		return "submission_rejected"
	}
	return "unknown"
}

// ServiceRecord is one completed service, priced with its extra service.
type ServiceRecord struct {
	ServiceID        string  `json:"serviceId"`
	ServiceName      string  `json:"serviceName"`
	ClientName       string  `json:"clientName"`
	ExtraServiceID   string  `json:"extraServiceId,omitempty"`
	ExtraServiceName string  `json:"extraServiceName,omitempty"`
	Price            float64 `json:"price"`
	Commission       float64 `json:"commission"`
	BarberID         string  `json:"barberId"`
	BarberName       string  `json:"barberName"`
	Timestamp        string  `json:"timestamp"`
}

// SaleRecord is one product sale. BasePrice is per unit; the derived amounts cover the whole quantity.
type SaleRecord struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	BasePrice   float64 `json:"basePrice"`
	TaxAmount   float64 `json:"taxAmount"`
	TotalPrice  float64 `json:"totalPrice"`
	Commission  float64 `json:"commission"`
	BarberID    string  `json:"barberId"`
	BarberName  string  `json:"barberName"`
	Timestamp   string  `json:"timestamp"`
}

// Recorder persists submitted records.
type Recorder interface {
	RecordService(ctx context.Context, rec ServiceRecord) error
	RecordSale(ctx context.Context, rec SaleRecord) error
}

var validate = validator.New()

type serviceInput struct {
	ServiceID  string `validate:"required"`
	ClientName string `validate:"required"`
}

type saleInput struct {
	ProductID string `validate:"required"`
	Quantity  int    `validate:"gt=0"`
}

// Form holds the selections of one entry form. It is request scoped and not
// safe for concurrent use.
type Form struct {
	opts     Options
	recorder Recorder
	state    State

	serviceID      string
	extraServiceID string
	clientName     string
	productID      string
	quantity       int

	Now             func() time.Time
	OnTransition    func(from, to State)
	OnServiceRecord func(ServiceRecord)
	OnSaleRecord    func(SaleRecord)
}

func NewForm(opts Options, recorder Recorder) *Form {
	return &Form{opts: opts, recorder: recorder, quantity: 1, Now: time.Now}
}

func (f *Form) State() State { return f.state }

func (f *Form) Options() Options { return f.opts }

func (f *Form) SelectService(id string) {
	f.serviceID = strings.TrimSpace(id)
	f.touch()
}

func (f *Form) SelectExtraService(id string) {
	f.extraServiceID = strings.TrimSpace(id)
	f.touch()
}

func (f *Form) SetClientName(name string) {
	f.clientName = name
	f.touch()
}

func (f *Form) SelectProduct(id string) {
	f.productID = strings.TrimSpace(id)
	f.touch()
}

func (f *Form) SetQuantity(q int) {
	f.quantity = q
	f.touch()
}

// Fields returns the current selections in the order service, extra, client, product, quantity.
func (f *Form) Fields() (serviceID, extraServiceID, clientName, productID string, quantity int) {
	return f.serviceID, f.extraServiceID, f.clientName, f.productID, f.quantity
}

// SubmitService validates the service selections, records them for barber and resets the service fields.
func (f *Form) SubmitService(ctx context.Context, barber domain.Barber) (ServiceRecord, error) {
	in := serviceInput{ServiceID: f.serviceID, ClientName: strings.TrimSpace(f.clientName)}
	if err := validate.Struct(in); err != nil {
		return ServiceRecord{}, f.reject(fieldOf(err, "service"), msgServiceRequired)
	}
	svc, ok := f.opts.service(in.ServiceID)
	if !ok {
		return ServiceRecord{}, f.reject("service", msgServiceNotFound)
	}
	rec := ServiceRecord{
		ServiceID:   svc.ID,
		ServiceName: svc.Name,
		ClientName:  in.ClientName,
		Price:       svc.Price,
	}
	if f.extraServiceID != "" {
		extra, ok := f.opts.extra(f.extraServiceID)
		if !ok {
			return ServiceRecord{}, f.reject("extraService", msgExtraNotFound)
		}
		rec.ExtraServiceID, rec.ExtraServiceName = extra.ID, extra.Name
		rec.Price += extra.Price
	}
	if barber.Name == "" {
		return ServiceRecord{}, f.reject("barber", msgBarberRequired)
	}
	rec.Commission = pricing.Commission(rec.Price)
	rec.BarberID, rec.BarberName = barber.ID, barber.Name
	rec.Timestamp = f.Now().UTC().Format(time.RFC3339Nano)

	f.transition(Submitting)
	if err := f.recorder.RecordService(ctx, rec); err != nil {
		f.transition(Selecting)
		return ServiceRecord{}, err
	}
	f.serviceID, f.extraServiceID, f.clientName = "", "", ""
	f.transition(Idle)
	if f.OnServiceRecord != nil {
		f.OnServiceRecord(rec)
	}
	return rec, nil
}

// SubmitSale validates the product selections, records the sale for barber and resets the product fields.
func (f *Form) SubmitSale(ctx context.Context, barber domain.Barber) (SaleRecord, error) {
	in := saleInput{ProductID: f.productID, Quantity: f.quantity}
	if err := validate.Struct(in); err != nil {
		return SaleRecord{}, f.reject(fieldOf(err, "product"), msgProductRequired)
	}
	p, ok := f.opts.product(in.ProductID)
	if !ok {
		return SaleRecord{}, f.reject("product", msgProductNotFound)
	}
	if p.Stock < in.Quantity {
		return SaleRecord{}, f.reject("quantity", MsgInsufficientStock)
	}
	if barber.Name == "" {
		return SaleRecord{}, f.reject("barber", msgBarberRequired)
	}
	unit := pricing.Compute(p.BasePrice)
	qty := float64(in.Quantity)
	rec := SaleRecord{
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    in.Quantity,
		BasePrice:   p.BasePrice,
		TaxAmount:   unit.TaxAmount * qty,
		TotalPrice:  unit.TotalPrice * qty,
		Commission:  unit.Commission * qty,
		BarberID:    barber.ID,
		BarberName:  barber.Name,
		Timestamp:   f.Now().UTC().Format(time.RFC3339Nano),
	}

	f.transition(Submitting)
	if err := f.recorder.RecordSale(ctx, rec); err != nil {
		f.transition(Selecting)
		return SaleRecord{}, err
	}
	f.productID, f.quantity = "", 1
	f.transition(Idle)
	if f.OnSaleRecord != nil {
		f.OnSaleRecord(rec)
	}
	return rec, nil
}

func (f *Form) touch() {
	if f.state == Idle {
		f.transition(Selecting)
	}
}

func (f *Form) reject(field, msg string) error {
	f.transition(SubmissionRejected)
	f.transition(Selecting)
	return &ValidationError{Field: field, Message: msg}
}

func (f *Form) transition(to State) {
	from := f.state
	f.state = to
	if f.OnTransition != nil && from != to {
		f.OnTransition(from, to)
	}
}

var inputFields = map[string]string{
	"ServiceID":  "service",
	"ClientName": "clientName",
	"ProductID":  "product",
	"Quantity":   "quantity",
}

func fieldOf(err error, fallback string) string {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		if name, ok := inputFields[verrs[0].Field()]; ok {
			return name
		}
	}
	return fallback
}
