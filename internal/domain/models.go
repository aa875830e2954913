package domain

import "time"

// Collection names in the document store.
const (
	CollectionProducts          = "products"
	CollectionServices          = "services"
	CollectionBarbers           = "barbers"
	CollectionProductionResults = "productionResults"
	CollectionSales             = "sales"
	CollectionUsers             = "users"
)

// LowStockThreshold marks products that need restocking.
const LowStockThreshold = 10

// Service is a catalog entry a barber can perform. Price is in whole currency units.
type Service struct {
	ID    string  `json:"id" mapstructure:"-"`
	Name  string  `json:"name" mapstructure:"name"`
	Price float64 `json:"price" mapstructure:"price"`
}

// Product is a retail item. BasePrice excludes tax.
type Product struct {
	ID        string  `json:"id" mapstructure:"-"`
	Name      string  `json:"name" mapstructure:"name"`
	BasePrice float64 `json:"basePrice" mapstructure:"basePrice"`
	Stock     int     `json:"stock" mapstructure:"stock"`
}

// Barber is a staff member. Balance is accrued, unpaid commission.
type Barber struct {
	ID      string  `json:"id" mapstructure:"-"`
	Name    string  `json:"name" mapstructure:"name"`
	Email   string  `json:"email" mapstructure:"email"`
	Phone   string  `json:"phone" mapstructure:"phone"`
	Unit    string  `json:"unit" mapstructure:"unit"`
	Balance float64 `json:"balance" mapstructure:"balance"`
}

// ProductionResult is a denormalized record of one completed service.
// The detail fields are empty on records created before entries were persisted.
type ProductionResult struct {
	ID          string `json:"id" mapstructure:"-"`
	BarberName  string `json:"barberName" mapstructure:"barberName"`
	ServiceName string `json:"serviceName" mapstructure:"serviceName"`
	Date        string `json:"date" mapstructure:"date"`

	BarberID         string  `json:"barberId,omitempty" mapstructure:"barberId,omitempty"`
	ServiceID        string  `json:"serviceId,omitempty" mapstructure:"serviceId,omitempty"`
	ClientName       string  `json:"clientName,omitempty" mapstructure:"clientName,omitempty"`
	ExtraServiceName string  `json:"extraServiceName,omitempty" mapstructure:"extraServiceName,omitempty"`
	Price            float64 `json:"price,omitempty" mapstructure:"price,omitempty"`
	Commission       float64 `json:"commission,omitempty" mapstructure:"commission,omitempty"`
}

// Sale is a persisted product sale.
type Sale struct {
	ID          string  `json:"id" mapstructure:"-"`
	ProductID   string  `json:"productId" mapstructure:"productId"`
	ProductName string  `json:"productName" mapstructure:"productName"`
	Quantity    int     `json:"quantity" mapstructure:"quantity"`
	BasePrice   float64 `json:"basePrice" mapstructure:"basePrice"`
	TaxAmount   float64 `json:"taxAmount" mapstructure:"taxAmount"`
	TotalPrice  float64 `json:"totalPrice" mapstructure:"totalPrice"`
	Commission  float64 `json:"commission" mapstructure:"commission"`
	BarberID    string  `json:"barberId" mapstructure:"barberId"`
	BarberName  string  `json:"barberName" mapstructure:"barberName"`
	Timestamp   string  `json:"timestamp" mapstructure:"timestamp"`
}

// User is an account of the local identity provider.
type User struct {
	ID           string `json:"id" mapstructure:"-"`
	Email        string `json:"email" mapstructure:"email"`
	PasswordHash string `json:"-" mapstructure:"passwordHash"`
	CreatedAt    string `json:"createdAt" mapstructure:"createdAt"`
}

// Pricing is derived from a base price and never persisted on the product.
type Pricing struct {
	TaxAmount  float64 `json:"taxAmount"`
	TotalPrice float64 `json:"totalPrice"`
	Commission float64 `json:"commission"`
}

// ParseTimestamp reads the RFC 3339 timestamps stored on records.
// Date-only values (YYYY-MM-DD) are accepted for older production results.
func ParseTimestamp(v string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, true
	}
	return time.Time{}, false
}
