package invoice

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/theplanbeta/invoice/internal/domain/shared/valueobject"
)

// Color is a #rrggbb display colour
type Color string

// RGB splits the colour into channels. Malformed values yield black.
func (c Color) RGB() (r, g, b int) {
	s := strings.TrimPrefix(string(c), "#")
	if len(s) != 6 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}

// LevelPricing is the reference entry for one course level
type LevelPricing struct {
	Level  Level
	Label  string
	Color  Color
	FeeINR decimal.Decimal
	FeeEUR decimal.Decimal
}

// Fee returns the canonical fee in the given currency
func (p LevelPricing) Fee(c valueobject.Currency) decimal.Decimal {
	if c == valueobject.INR {
		return p.FeeINR
	}
	return p.FeeEUR
}

// PricingTable is the immutable level -> pricing lookup
type PricingTable struct {
	entries map[Level]LevelPricing
	order   []Level
}

// NewPricingTable builds a table from entries, keeping their order for display
func NewPricingTable(entries ...LevelPricing) (PricingTable, error) {
	t := PricingTable{entries: make(map[Level]LevelPricing, len(entries))}
	for _, e := range entries {
		if !e.Level.IsValid() {
			return PricingTable{}, fmt.Errorf("pricing table: unknown level %q", e.Level)
		}
		if e.FeeINR.IsNegative() || e.FeeEUR.IsNegative() {
			return PricingTable{}, fmt.Errorf("pricing table: negative fee for %s", e.Level)
		}
		if _, dup := t.entries[e.Level]; dup {
			return PricingTable{}, fmt.Errorf("pricing table: duplicate level %s", e.Level)
		}
		t.entries[e.Level] = e
		t.order = append(t.order, e.Level)
	}
	return t, nil
}

// Lookup returns the pricing for a level
func (t PricingTable) Lookup(l Level) (LevelPricing, bool) {
	p, ok := t.entries[l]
	return p, ok
}

// Fee returns the canonical fee of a level in a currency
func (t PricingTable) Fee(l Level, c valueobject.Currency) (decimal.Decimal, bool) {
	p, ok := t.entries[l]
	if !ok {
		return decimal.Zero, false
	}
	return p.Fee(c), true
}

// Color returns the badge colour of a level, black when unknown
func (t PricingTable) Color(l Level) Color {
	if p, ok := t.entries[l]; ok {
		return p.Color
	}
	return "#000000"
}

// Entries returns the table rows in display order
func (t PricingTable) Entries() []LevelPricing {
	out := make([]LevelPricing, 0, len(t.order))
	for _, l := range t.order {
		out = append(out, t.entries[l])
	}
	return out
}

// DefaultPricing returns the published course fees
func DefaultPricing() PricingTable {
	t, err := NewPricingTable(
		LevelPricing{Level: LevelA1, Label: "A1 - Beginner", Color: "#10b981",
			FeeINR: decimal.NewFromInt(14000), FeeEUR: decimal.NewFromInt(134)},
		LevelPricing{Level: LevelA1Hybrid, Label: "A1 - Hybrid", Color: "#14b8a6",
			FeeINR: decimal.NewFromInt(10000), FeeEUR: decimal.NewFromInt(100)},
		LevelPricing{Level: LevelA2, Label: "A2 - Elementary", Color: "#3b82f6",
			FeeINR: decimal.NewFromInt(16000), FeeEUR: decimal.NewFromInt(156)},
		LevelPricing{Level: LevelB1, Label: "B1 - Intermediate", Color: "#f59e0b",
			FeeINR: decimal.NewFromInt(18000), FeeEUR: decimal.NewFromInt(172)},
		LevelPricing{Level: LevelB2, Label: "B2 - Upper Intermediate", Color: "#8b5cf6",
			FeeINR: decimal.NewFromInt(22000), FeeEUR: decimal.NewFromInt(220)},
	)
	if err != nil {
		panic(err)
	}
	return t
}

// Issuer is the school's own identity as printed on every invoice
type Issuer struct {
	Brand        string // header wordmark
	Name         string
	Subtitle     string
	Tagline      string
	AddressLines []string
	GST          string
	Email        string
	Phone        string
	FilePrefix   string // leading token of generated filenames
}

// Address returns the postal address on one line
func (i Issuer) Address() string {
	return strings.Join(i.AddressLines, ", ")
}

// BankDetails are the fixed payment identifiers
type BankDetails struct {
	AccountName   string
	AccountNumber string
	IFSC          string
	UPI           string
}

// Reference bundles all static data an invoice is rendered with
type Reference struct {
	Issuer            Issuer
	Bank              BankDetails
	Pricing           PricingTable
	DefaultNotes      string
	EmphasizedPhrases []string
}

// DefaultNotes is the refund policy a new draft starts with
const DefaultNotes = "Payment due today. By making this payment, you acknowledge and accept our refund policy: " +
	"Once the first class of the batch has commenced, all fees are non-refundable regardless of attendance. " +
	"This policy exists because our small group batches begin with committed class sizes and instructor " +
	"compensation is allocated accordingly from the course fees. This term is binding and non-negotiable upon payment. " +
	"The remaining balance, if any, must be paid within 7 days from the first class date, irrespective of attendance."

// DefaultReference returns Plan Beta's reference data
func DefaultReference() Reference {
	return Reference{
		Issuer: Issuer{
			Brand:    "PLAN BETA",
			Name:     "Plan Beta School of German",
			Subtitle: "School of German",
			Tagline:  "Excellence in German Language Education",
			AddressLines: []string{
				"KRA A-23, Chattamby Swamy Nagar",
				"Kannammoola, Thiruvananthapuram",
				"Kerala 695011, India",
			},
			GST:        "32AJVPS3359N1ZB",
			Email:      "info@planbeta.in",
			Phone:      "+91 8547081550",
			FilePrefix: "PlanBeta",
		},
		Bank: BankDetails{
			AccountName:   "PLAN BETA",
			AccountNumber: "50200087416170",
			IFSC:          "HDFC0009459",
			UPI:           "7736638706@ybl",
		},
		Pricing:      DefaultPricing(),
		DefaultNotes: DefaultNotes,
		EmphasizedPhrases: []string{
			"non-refundable",
			"regardless of attendance",
			"binding and non-negotiable",
		},
	}
}
