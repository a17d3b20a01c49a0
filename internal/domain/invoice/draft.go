package invoice

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/theplanbeta/invoice/internal/domain/shared"
	"github.com/theplanbeta/invoice/internal/domain/shared/valueobject"
)

// DateLayout is the layout of issue and due dates
const DateLayout = "2006-01-02"

// DefaultDescription is the description of every new line item
const DefaultDescription = "German Language Course"

// LineItem is one course row on the invoice
type LineItem struct {
	Level       Level  `json:"level"`
	Description string `json:"description"`
	Month       Month  `json:"month"`
	Batch       Batch  `json:"batch"`
	Amount      Amount `json:"amount"`
}

// Student is the invoice recipient
type Student struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// Draft is the invoice being composed. It has no identity and is never stored.
// Every method returns a new Draft with totals already recomputed.
type Draft struct {
	InvoiceNumber   string               `json:"invoiceNumber"`
	IssueDate       string               `json:"issueDate"`
	DueDate         string               `json:"dueDate"`
	Currency        valueobject.Currency `json:"currency"`
	Student         Student              `json:"student"`
	Items           []LineItem           `json:"items"`
	PayableNow      Amount               `json:"payableNow"`
	RemainingAmount decimal.Decimal      `json:"remainingAmount"`
	Notes           string               `json:"notes"`
}

// NewDraft returns the starting form state at the given instant
func NewDraft(now time.Time, ref Reference) Draft {
	today := now.Format(DateLayout)
	d := Draft{
		InvoiceNumber: GenerateInvoiceNumber(now),
		IssueDate:     today,
		DueDate:       today,
		Currency:      valueobject.DefaultCurrency,
		Items:         []LineItem{newLineItem(valueobject.DefaultCurrency, ref.Pricing)},
		Notes:         ref.DefaultNotes,
	}
	return Recompute(d)
}

func newLineItem(c valueobject.Currency, table PricingTable) LineItem {
	fee, _ := table.Fee(LevelA1, c)
	return LineItem{
		Level:       LevelA1,
		Description: DefaultDescription,
		Month:       January,
		Batch:       BatchMorning,
		Amount:      AmountOf(fee),
	}
}

// GenerateInvoiceNumber formats INV-YYYYMMDD-HHMM
func GenerateInvoiceNumber(now time.Time) string {
	return now.Format("INV-20060102-1504")
}

func (d Draft) clone() Draft {
	items := make([]LineItem, len(d.Items))
	copy(items, d.Items)
	d.Items = items
	return d
}

func (d Draft) checkIndex(i int) error {
	if i < 0 || i >= len(d.Items) {
		return shared.NewDomainError(shared.ErrItemOutOfRange.Code,
			fmt.Sprintf("course %d does not exist (have %d)", i+1, len(d.Items)))
	}
	return nil
}

// WithInvoiceNumber replaces the invoice number
func (d Draft) WithInvoiceNumber(n string) Draft {
	d = d.clone()
	d.InvoiceNumber = n
	return Recompute(d)
}

// WithIssueDate sets the issue date and moves the due date with it
func (d Draft) WithIssueDate(date string) Draft {
	d = d.clone()
	d.IssueDate = date
	d.DueDate = date
	return Recompute(d)
}

// WithDueDate sets the due date alone. The next issue date change overrides it.
func (d Draft) WithDueDate(date string) Draft {
	d = d.clone()
	d.DueDate = date
	return Recompute(d)
}

// WithStudent replaces the recipient details
func (d Draft) WithStudent(s Student) Draft {
	d = d.clone()
	d.Student = s
	return Recompute(d)
}

// WithNotes replaces the policy text
func (d Draft) WithNotes(notes string) Draft {
	d = d.clone()
	d.Notes = notes
	return Recompute(d)
}

// WithCurrency switches currency and reprices every item from the table,
// discarding amounts typed by hand.
func (d Draft) WithCurrency(c valueobject.Currency, table PricingTable) (Draft, error) {
	if !c.IsValid() {
		return d, shared.ErrInvalidCurrency
	}
	d = d.clone()
	d.Currency = c
	d.Items = ApplyCurrencyChange(d.Items, c, table)
	return Recompute(d), nil
}

// WithItemLevel changes one item's level and reprices it
func (d Draft) WithItemLevel(i int, l Level, table PricingTable) (Draft, error) {
	if err := d.checkIndex(i); err != nil {
		return d, err
	}
	if !l.IsValid() {
		return d, shared.ErrInvalidLevel
	}
	d = d.clone()
	d.Items[i] = ApplyLevelChange(d.Items[i], l, d.Currency, table)
	return Recompute(d), nil
}

// ItemPatch lists the item fields to overwrite; nil fields are left alone
type ItemPatch struct {
	Description *string
	Month       *Month
	Batch       *Batch
	Amount      *Amount
}

// WithItem applies a patch to one item. Level changes go through WithItemLevel.
func (d Draft) WithItem(i int, p ItemPatch) (Draft, error) {
	if err := d.checkIndex(i); err != nil {
		return d, err
	}
	d = d.clone()
	it := &d.Items[i]
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.Month != nil {
		it.Month = *p.Month
	}
	if p.Batch != nil {
		it.Batch = *p.Batch
	}
	if p.Amount != nil {
		it.Amount = *p.Amount
	}
	return Recompute(d), nil
}

// AddItem appends an A1 course priced in the current currency
func (d Draft) AddItem(table PricingTable) Draft {
	d = d.clone()
	d.Items = append(d.Items, newLineItem(d.Currency, table))
	return Recompute(d)
}

// RemoveItem deletes an item. The last remaining item cannot be removed.
func (d Draft) RemoveItem(i int) (Draft, error) {
	if err := d.checkIndex(i); err != nil {
		return d, err
	}
	if len(d.Items) == 1 {
		return d, shared.ErrLastItem
	}
	items := make([]LineItem, 0, len(d.Items)-1)
	items = append(items, d.Items[:i]...)
	items = append(items, d.Items[i+1:]...)
	d.Items = items
	return Recompute(d), nil
}

// WithPayableNow sets the amount paid immediately
func (d Draft) WithPayableNow(a Amount) Draft {
	d = d.clone()
	d.PayableNow = a
	return Recompute(d)
}

// Validate checks the structural invariants of a draft received from outside,
// such as a JSON request. Amount text is not checked here.
func (d Draft) Validate() error {
	if !d.Currency.IsValid() {
		return shared.ErrInvalidCurrency
	}
	if len(d.Items) == 0 {
		return shared.ErrLastItem
	}
	for i, it := range d.Items {
		if !it.Level.IsValid() {
			return shared.NewDomainError(shared.ErrInvalidLevel.Code,
				fmt.Sprintf("course %d: unknown level %q", i+1, it.Level))
		}
		if it.Month != "" && !it.Month.IsValid() {
			return shared.NewDomainError(shared.ErrInvalidInput.Code,
				fmt.Sprintf("course %d: unknown month %q", i+1, it.Month))
		}
		if it.Batch != "" && !it.Batch.IsValid() {
			return shared.NewDomainError(shared.ErrInvalidInput.Code,
				fmt.Sprintf("course %d: unknown batch %q", i+1, it.Batch))
		}
	}
	return nil
}

// ValidateAmounts rejects amount text that does not parse in full.
// It backs the strict amounts mode; the default mode reads such text as zero.
func (d Draft) ValidateAmounts() error {
	for i, it := range d.Items {
		if _, err := it.Amount.StrictDecimal(); err != nil {
			return fmt.Errorf("course %d: %w", i+1, err)
		}
	}
	if _, err := d.PayableNow.StrictDecimal(); err != nil {
		return fmt.Errorf("payable now: %w", err)
	}
	return nil
}
