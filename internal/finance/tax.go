// Package finance holds the invoice money math: tax and totals for a single
// invoice, and revenue aggregation over many of them. Every screen, export and
// persisted record derives its totals from Compute.
package finance

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Sentinel errors returned by Compute.
var (
	ErrNegativeAmount = errors.New("amount must be positive")
	ErrTaxRateRange   = errors.New("tax rate must be between 0 and 1")
)

// Totals is the derived money breakdown of an invoice.
type Totals struct {
	AmountExclTax decimal.Decimal `json:"amount_excl_tax"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	AmountInclTax decimal.Decimal `json:"amount_incl_tax"`
}

// Round2 rounds to currency minor units, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Compute derives the tax amount and the tax-inclusive total from the pre-tax
// amount and a tax rate expressed as a fraction.
func Compute(amountExclTax, taxRate decimal.Decimal) (Totals, error) {
	if amountExclTax.IsNegative() {
		return Totals{}, ErrNegativeAmount
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(1)) {
		return Totals{}, ErrTaxRateRange
	}
	tax := Round2(amountExclTax.Mul(taxRate))
	return Totals{
		AmountExclTax: amountExclTax,
		TaxRate:       taxRate,
		TaxAmount:     tax,
		AmountInclTax: Round2(amountExclTax.Add(tax)),
	}, nil
}

// MustCompute is Compute for values already validated upstream (stored
// records). Out-of-range inputs yield zero totals instead of an error.
func MustCompute(amountExclTax, taxRate decimal.Decimal) Totals {
	t, err := Compute(amountExclTax, taxRate)
	if err != nil {
		return Totals{AmountExclTax: amountExclTax, TaxRate: taxRate}
	}
	return t
}

// ParseTaxRate accepts "0.2", "20" or "20%" and returns the fraction.
// Without a percent sign, values from 2 up are read as percentages. A value
// between 1 and 2 is returned as is so range validation rejects it.
func ParseTaxRate(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	pct := strings.HasSuffix(s, "%")
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return decimal.Zero, nil
	}
	rate, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if pct || rate.GreaterThanOrEqual(decimal.NewFromInt(2)) {
		rate = rate.Div(decimal.NewFromInt(100))
	}
	return rate, nil
}

// ParseAmount reads a user supplied money amount, accepting a comma as the
// decimal separator.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
