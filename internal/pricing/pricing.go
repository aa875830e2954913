// Package pricing derives tax, total and commission from a product base price.
package pricing

import (
	"math"

	"barbearia-backend/internal/domain"
)

const (
	TaxRate        = 0.23
	CommissionRate = 0.20
)

// Compute maps a base price to its tax amount, total price and commission.
// NaN and infinite inputs yield a zero result instead of propagating. No rounding is applied.
func Compute(basePrice float64) domain.Pricing {
	if math.IsNaN(basePrice) || math.IsInf(basePrice, 0) {
		return domain.Pricing{}
	}
	tax := basePrice * TaxRate
	return domain.Pricing{
		TaxAmount:  tax,
		TotalPrice: basePrice + tax,
		Commission: basePrice * CommissionRate,
	}
}

// Commission returns the commission owed on an amount charged for a service.
func Commission(amount float64) float64 {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0
	}
	return amount * CommissionRate
}
