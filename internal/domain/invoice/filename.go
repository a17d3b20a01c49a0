package invoice

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/theplanbeta/invoice/internal/domain/shared"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// BuildFilename returns <prefix>_Invoice_<number>_<student_name>.<ext>
func BuildFilename(prefix, invoiceNumber, studentName, ext string) string {
	name := whitespaceRun.ReplaceAllString(studentName, "_")
	return fmt.Sprintf("%s_Invoice_%s_%s.%s", prefix, invoiceNumber, name, strings.TrimPrefix(ext, "."))
}

// ParsedFilename is what BuildFilename encoded
type ParsedFilename struct {
	InvoiceNumber string
	StudentName   string // whitespace runs come back as single spaces
	Ext           string
}

// ParseFilename reverses BuildFilename. The invoice number ends at the first
// underscore after the prefix, so numbers containing "_" do not round-trip.
func ParseFilename(prefix, filename string) (ParsedFilename, error) {
	head := prefix + "_Invoice_"
	if !strings.HasPrefix(filename, head) {
		return ParsedFilename{}, shared.ErrInvalidFilename
	}
	rest := strings.TrimPrefix(filename, head)

	dot := strings.LastIndex(rest, ".")
	if dot < 0 {
		return ParsedFilename{}, shared.ErrInvalidFilename
	}
	stem, ext := rest[:dot], rest[dot+1:]

	number, name, ok := strings.Cut(stem, "_")
	if !ok || number == "" {
		return ParsedFilename{}, shared.ErrInvalidFilename
	}
	return ParsedFilename{
		InvoiceNumber: number,
		StudentName:   strings.ReplaceAll(name, "_", " "),
		Ext:           ext,
	}, nil
}

// CollapseWhitespace is the form a student name takes after a filename round trip
func CollapseWhitespace(s string) string {
	return whitespaceRun.ReplaceAllString(s, " ")
}
