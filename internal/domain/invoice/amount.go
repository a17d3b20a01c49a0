package invoice

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/theplanbeta/invoice/internal/domain/shared"
)

// Amount is a money figure exactly as the user typed it.
// It stays text so that blank and non-numeric input can be told apart from zero.
type Amount string

// AmountOf formats a decimal as amount text
func AmountOf(d decimal.Decimal) Amount {
	return Amount(d.String())
}

// IsBlank reports whether nothing was entered
func (a Amount) IsBlank() bool {
	return strings.TrimSpace(string(a)) == ""
}

// UnmarshalJSON accepts both JSON strings and bare numbers
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	switch {
	case s == "null":
		*a = ""
	case strings.HasPrefix(s, `"`):
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*a = Amount(v)
	default:
		*a = Amount(s)
	}
	return nil
}

var leadingNumber = regexp.MustCompile(`^([+-]?)(\d+(?:\.\d+)?|\.\d+)(?:[eE]([+-]?\d+))?`)

var exponentSuffix = regexp.MustCompile(`[eE]([+-]?\d+)$`)

// Rounding expands a decimal into all of its digits, so 1e999999999 or a
// number typed with a million places never finishes. Numbers are bounded in
// length, in exponent and in magnitude before any arithmetic.
const (
	maxNumberLength = 64
	maxExponent     = 18
)

// MaxAmount is the largest magnitude any amount may have
var MaxAmount = decimal.New(1, 15)

func exponentInRange(exp string) bool {
	digits := strings.TrimLeft(strings.TrimLeft(exp, "+-"), "0")
	if digits == "" {
		return true
	}
	if len(digits) > 2 {
		return false
	}
	n, _ := strconv.Atoi(digits)
	return n <= maxExponent
}

func inRange(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(MaxAmount)
}

// Decimal parses the longest numeric prefix of the text, the way browsers read
// number inputs: "134" is 134, "12abc" is 12 and anything without a leading
// number is 0. Values beyond MaxAmount, or written with an exponent above
// maxExponent, are 0 too. It never fails.
func (a Amount) Decimal() decimal.Decimal {
	s := strings.TrimSpace(string(a))
	m := leadingNumber.FindStringSubmatch(s)
	if m == nil || len(m[0]) > maxNumberLength || !exponentInRange(m[3]) {
		return decimal.Zero
	}
	num := m[0]
	if strings.HasPrefix(m[2], ".") {
		num = m[1] + "0" + num[len(m[1]):]
	}
	d, err := decimal.NewFromString(num)
	if err != nil || !inRange(d) {
		return decimal.Zero
	}
	return d
}

// StrictDecimal parses the whole text and rejects anything that is not a
// non-negative number. Blank input is zero.
func (a Amount) StrictDecimal() (decimal.Decimal, error) {
	s := strings.TrimSpace(string(a))
	if s == "" {
		return decimal.Zero, nil
	}
	if len(s) > maxNumberLength {
		return decimal.Zero, shared.NewDomainError(shared.ErrInvalidAmount.Code, "amount out of range: "+s[:maxNumberLength]+"...")
	}
	if m := exponentSuffix.FindStringSubmatch(s); m != nil && !exponentInRange(m[1]) {
		return decimal.Zero, shared.NewDomainError(shared.ErrInvalidAmount.Code, "amount out of range: "+s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, shared.NewDomainError(shared.ErrInvalidAmount.Code, "not a number: "+s)
	}
	if !inRange(d) {
		return decimal.Zero, shared.NewDomainError(shared.ErrInvalidAmount.Code, "amount out of range: "+s)
	}
	if d.IsNegative() {
		return decimal.Zero, shared.NewDomainError(shared.ErrInvalidAmount.Code, "negative amount: "+s)
	}
	return d, nil
}
