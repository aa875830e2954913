package report

import (
	"fmt"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Money formats amounts in one currency for Portuguese readers.
type Money struct {
	unit    currency.Unit
	printer *message.Printer
}

func NewMoney(code string) (Money, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return Money{}, fmt.Errorf("currency %q: %w", code, err)
	}
	return Money{unit: unit, printer: message.NewPrinter(language.Portuguese)}, nil
}

func (m Money) Format(v float64) string {
	return m.printer.Sprint(currency.Symbol(m.unit.Amount(v)))
}
