package invoice

import (
	"strings"

	domain "github.com/theplanbeta/invoice/internal/domain/invoice"
	"github.com/theplanbeta/invoice/internal/domain/printing"
)

const (
	invoiceTitle  = "INVOICE"
	policyHeading = "PAYMENT TERMS & REFUND POLICY:"
)

// BuildView formats a draft for the renderers. Totals are recomputed here so
// a stale RemainingAmount on the draft never reaches the document.
func BuildView(d domain.Draft, ref domain.Reference, theme printing.Theme) *printing.InvoiceView {
	d = domain.Recompute(d)
	totals := domain.ComputeTotals(d)
	currency := totals.Total.Currency()
	issuer := ref.Issuer

	rows := make([]printing.RowView, len(d.Items))
	for i, it := range d.Items {
		r, g, b := ref.Pricing.Color(it.Level).RGB()
		rows[i] = printing.RowView{
			Description: it.Description,
			Level:       string(it.Level),
			LevelColor:  printing.RGB{R: uint8(r), G: uint8(g), B: uint8(b)},
			Month:       string(it.Month),
			Batch:       string(it.Batch),
			Amount:      currency.Symbol() + it.Amount.Decimal().StringFixed(2),
			Shaded:      i%2 == 0,
		}
	}

	return &printing.InvoiceView{
		FileStem: FileStem(ref, d),
		Header: printing.HeaderView{
			Brand:         issuer.Brand,
			Subtitle:      issuer.Subtitle,
			Tagline:       issuer.Tagline,
			Title:         invoiceTitle,
			InvoiceNumber: d.InvoiceNumber,
			IssueDate:     d.IssueDate,
		},
		Issuer: printing.IssuerView{
			Name:         issuer.Name,
			AddressLines: issuer.AddressLines,
			TaxLine:      "GST: " + issuer.GST,
		},
		BillTo: printing.BillToView{
			Name:    d.Student.Name,
			Address: strings.TrimSpace(d.Student.Address),
			Email:   strings.TrimSpace(d.Student.Email),
			Phone:   strings.TrimSpace(d.Student.Phone),
		},
		DueDate: strings.TrimSpace(d.DueDate),
		Table: printing.TableView{
			AmountHeader: "Amount (" + currency.String() + ")",
			Rows:         rows,
		},
		Totals: printing.TotalsView{
			Total:         totals.Total.Display(),
			PayableNow:    totals.PayableNow.Display(),
			Remaining:     totals.Remaining.Display(),
			ShowRemaining: totals.ShowRemaining(),
		},
		Policy: printing.PolicyView{
			Heading:  policyHeading,
			Segments: printing.SplitEmphasis(d.Notes, ref.EmphasizedPhrases),
		},
		Payment: printing.PaymentView{
			AccountName:   ref.Bank.AccountName,
			AccountNumber: ref.Bank.AccountNumber,
			IFSC:          ref.Bank.IFSC,
			UPI:           ref.Bank.UPI,
		},
		Footer: printing.FooterView{
			Name:    issuer.Name,
			Address: issuer.Address(),
			TaxLine: "GST Number: " + issuer.GST,
			Contact: "Email: " + issuer.Email + " | Phone: " + issuer.Phone,
		},
		Theme: theme,
	}
}

// FileStem is the document filename without its extension
func FileStem(ref domain.Reference, d domain.Draft) string {
	return strings.TrimSuffix(domain.BuildFilename(ref.Issuer.FilePrefix, d.InvoiceNumber, d.Student.Name, "pdf"), ".pdf")
}
