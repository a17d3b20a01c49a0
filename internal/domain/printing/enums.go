package printing

import (
	"fmt"
	"strings"
)

// Format is the output encoding of a rendered invoice
type Format string

const (
	FormatPDF     Format = "pdf"      // vector document drawn directly
	FormatHTMLPDF Format = "html-pdf" // HTML layout printed to PDF by the browser
	FormatPNG     Format = "png"      // HTML layout screenshot
	FormatJPEG    Format = "jpeg"
	FormatWebP    Format = "webp"
)

// IsValid checks if the Format is a valid value
func (f Format) IsValid() bool {
	switch f {
	case FormatPDF, FormatHTMLPDF, FormatPNG, FormatJPEG, FormatWebP:
		return true
	}
	return false
}

// String returns the string representation of Format
func (f Format) String() string {
	return string(f)
}

// IsRaster reports whether the format is an image of the HTML layout
func (f Format) IsRaster() bool {
	return f == FormatPNG || f == FormatJPEG || f == FormatWebP
}

// Extension returns the file extension without the dot
func (f Format) Extension() string {
	switch f {
	case FormatPDF, FormatHTMLPDF:
		return "pdf"
	case FormatJPEG:
		return "jpg"
	default:
		return string(f)
	}
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatPDF, FormatHTMLPDF:
		return "application/pdf"
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	case FormatWebP:
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

// ParseFormat parses a format name; "jpg" is accepted for JPEG
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "jpg" {
		f = FormatJPEG
	}
	if !f.IsValid() {
		return "", fmt.Errorf("unsupported format %q", s)
	}
	return f, nil
}

// AllFormats returns all valid Format values
func AllFormats() []Format {
	return []Format{FormatPDF, FormatHTMLPDF, FormatPNG, FormatJPEG, FormatWebP}
}

// PaperSize represents the paper size for printing
type PaperSize string

// PaperSizeA4 is the only sheet invoices are laid out for
const PaperSizeA4 PaperSize = "A4"

// Dimensions returns the paper dimensions in millimeters (width, height)
func (p PaperSize) Dimensions() (width, height int) {
	return 210, 297
}
