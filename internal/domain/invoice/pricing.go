package invoice

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/theplanbeta/invoice/internal/domain/shared/valueobject"
)

// ComputeTotal sums item amounts; unparseable amounts count as zero
func ComputeTotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount.Decimal())
	}
	return total
}

// ComputeRemaining returns max(0, total - payableNow) rounded to cents
func ComputeRemaining(total decimal.Decimal, payableNow Amount) decimal.Decimal {
	remaining := total.Sub(payableNow.Decimal())
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining.Round(2)
}

// ApplyCurrencyChange reprices every item at its level's fee in the new
// currency. Items whose level has no table entry are kept as they are.
func ApplyCurrencyChange(items []LineItem, c valueobject.Currency, table PricingTable) []LineItem {
	out := make([]LineItem, len(items))
	for i, it := range items {
		if fee, ok := table.Fee(it.Level, c); ok {
			it.Amount = AmountOf(fee)
		}
		out[i] = it
	}
	return out
}

// ApplyLevelChange sets the level and re-derives the amount for the currency.
// Description, month and batch are untouched.
func ApplyLevelChange(item LineItem, l Level, c valueobject.Currency, table PricingTable) LineItem {
	item.Level = l
	if fee, ok := table.Fee(l, c); ok {
		item.Amount = AmountOf(fee)
	}
	return item
}

// IsSubmittable gates document generation. It never errors; a false result
// just means the form is incomplete.
func IsSubmittable(d Draft) bool {
	if strings.TrimSpace(d.InvoiceNumber) == "" || strings.TrimSpace(d.Student.Name) == "" {
		return false
	}
	if len(d.Items) == 0 {
		return false
	}
	for _, it := range d.Items {
		if it.Amount.IsBlank() {
			return false
		}
	}
	return !d.PayableNow.IsBlank()
}

// Recompute derives the remaining amount from items and payable now
func Recompute(d Draft) Draft {
	d.RemainingAmount = ComputeRemaining(ComputeTotal(d.Items), d.PayableNow)
	return d
}

// Totals is the money summary of a draft
type Totals struct {
	Total      valueobject.Money
	PayableNow valueobject.Money
	Remaining  valueobject.Money
}

// ComputeTotals evaluates the draft in its own currency. Its Remaining
// always equals ComputeRemaining for the same draft.
func ComputeTotals(d Draft) Totals {
	c := d.Currency
	if c == "" {
		c = valueobject.DefaultCurrency
	}

	// Every Money below shares c, so Add and Subtract cannot fail.
	total := valueobject.Zero(c)
	for _, it := range d.Items {
		total, _ = total.Add(money(it.Amount, c))
	}
	payable := money(d.PayableNow, c)
	remaining, _ := total.Subtract(payable)

	return Totals{
		Total:      total,
		PayableNow: payable,
		Remaining:  remaining.FloorZero().Round(2),
	}
}

func money(a Amount, c valueobject.Currency) valueobject.Money {
	m, _ := valueobject.NewMoney(a.Decimal(), c)
	return m
}

// ShowRemaining reports whether the Remaining Amount line is printed
func (t Totals) ShowRemaining() bool {
	return t.Remaining.IsPositive()
}
