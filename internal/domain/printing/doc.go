// Package printing describes what a rendered invoice looks like independently of
// how it is drawn: output formats, paper geometry and the InvoiceView that every
// renderer backend consumes.
package printing
