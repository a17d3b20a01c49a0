package printing

// InvoiceView is the fully formatted invoice shared by every renderer backend.
// Renderers only place these values; they never compute or format money.
type InvoiceView struct {
	// FileStem is the filename without extension
	FileStem string `json:"fileStem"`

	Header  HeaderView  `json:"header"`
	Issuer  IssuerView  `json:"issuer"`
	BillTo  BillToView  `json:"billTo"`
	DueDate string      `json:"dueDate,omitempty"` // empty hides the callout
	Table   TableView   `json:"table"`
	Totals  TotalsView  `json:"totals"`
	Policy  PolicyView  `json:"policy"`
	Payment PaymentView `json:"payment"`
	Footer  FooterView  `json:"footer"`
	Theme   Theme       `json:"theme"`
}

// Filename returns the file name for the given output format
func (v *InvoiceView) Filename(f Format) string {
	return v.FileStem + "." + f.Extension()
}

// HeaderView is the top band
type HeaderView struct {
	Brand         string `json:"brand"`
	Subtitle      string `json:"subtitle"`
	Tagline       string `json:"tagline"`
	Title         string `json:"title"`
	InvoiceNumber string `json:"invoiceNumber"`
	IssueDate     string `json:"issueDate"`
}

// IssuerView is the left identity column
type IssuerView struct {
	Name         string   `json:"name"`
	AddressLines []string `json:"addressLines"`
	TaxLine      string   `json:"taxLine"`
}

// BillToView is the right identity column; optional fields are empty when absent
type BillToView struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// TableView holds the line items in entry order
type TableView struct {
	AmountHeader string    `json:"amountHeader"` // e.g. "Amount (EUR)"
	Rows         []RowView `json:"rows"`
}

// RowView is one rendered line item
type RowView struct {
	Description string `json:"description"`
	Level       string `json:"level"`
	LevelColor  RGB    `json:"levelColor"`
	Month       string `json:"month"`
	Batch       string `json:"batch"`
	Amount      string `json:"amount"` // symbol-prefixed, two decimals
	Shaded      bool   `json:"shaded"`
}

// TotalsView is the money summary
type TotalsView struct {
	Total         string `json:"total"`
	PayableNow    string `json:"payableNow"`
	Remaining     string `json:"remaining"`
	ShowRemaining bool   `json:"showRemaining"`
}

// PolicyView is the payment terms block
type PolicyView struct {
	Heading  string        `json:"heading"`
	Segments []TextSegment `json:"segments"`
}

// Text returns the policy text without emphasis markers
func (p PolicyView) Text() string {
	n := 0
	for _, s := range p.Segments {
		n += len(s.Text)
	}
	b := make([]byte, 0, n)
	for _, s := range p.Segments {
		b = append(b, s.Text...)
	}
	return string(b)
}

// PaymentView holds the bank transfer and UPI identifiers
type PaymentView struct {
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	IFSC          string `json:"ifsc"`
	UPI           string `json:"upi"`
}

// FooterView is the bottom band, one string per centred line
type FooterView struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	TaxLine string `json:"taxLine"`
	Contact string `json:"contact"`
}

// Theme carries the colours both backends paint with
type Theme struct {
	Brand     RGB `json:"brand"`     // header, table header, total, footer bands
	RowShade  RGB `json:"rowShade"`  // alternating row background
	InfoBox   RGB `json:"infoBox"`   // invoice number box
	Payable   RGB `json:"payable"`   // payable now figure
	Remaining RGB `json:"remaining"` // remaining amount figure
	Rule      RGB `json:"rule"`      // separator under the table
}

// DefaultTheme is the Plan Beta red palette
func DefaultTheme() Theme {
	return Theme{
		Brand:     RGB{220, 38, 38},
		RowShade:  RGB{249, 250, 251},
		InfoBox:   RGB{243, 244, 246},
		Payable:   RGB{22, 163, 74},
		Remaining: RGB{239, 68, 68},
		Rule:      RGB{200, 200, 200},
	}
}
