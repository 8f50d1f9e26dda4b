package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Line is one cart position as the calculator sees it.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

type NegativePriceError struct {
	Index int
	Price decimal.Decimal
}

func (e *NegativePriceError) Error() string {
	return fmt.Sprintf("line %d: negative unit price %s", e.Index, e.Price)
}

type InvalidQuantityError struct {
	Index    int
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("line %d: quantity must be >= 1, got %d", e.Index, e.Quantity)
}

type NegativeTaxRateError struct {
	Rate decimal.Decimal
}

func (e *NegativeTaxRateError) Error() string {
	return fmt.Sprintf("negative tax rate %s", e.Rate)
}

// ComputeTotals sums unit price * qty over all lines, then applies taxRate.
// Rounding (half-up, 2dp) happens once on the summed subtotal and once on the
// tax, never per line, so repeated small prices don't drift.
func ComputeTotals(lines []Line, taxRate decimal.Decimal) (Totals, error) {
	if taxRate.IsNegative() {
		return Totals{}, &NegativeTaxRateError{Rate: taxRate}
	}
	sum := decimal.Zero
	for i, ln := range lines {
		if ln.UnitPrice.IsNegative() {
			return Totals{}, &NegativePriceError{Index: i, Price: ln.UnitPrice}
		}
		if ln.Quantity < 1 {
			return Totals{}, &InvalidQuantityError{Index: i, Quantity: ln.Quantity}
		}
		sum = sum.Add(ln.UnitPrice.Mul(decimal.NewFromInt(int64(ln.Quantity))))
	}
	subtotal := sum.Round(2)
	tax := subtotal.Mul(taxRate).Round(2)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}, nil
}
