package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/theplanbeta/invoice/internal/domain/invoice"
)

//go:embed templates/invoice_email.html
var templateFS embed.FS

var invoiceEmailTemplate = template.Must(template.ParseFS(templateFS, "templates/invoice_email.html"))

// InvoiceEmail is what a caller knows about one invoice to send
type InvoiceEmail struct {
	To            string
	StudentName   string
	InvoiceNumber string
	Filename      string
	PDF           []byte
	// Bcc receives a copy; usually the issuer's own mailbox
	Bcc []string
}

type invoiceEmailData struct {
	StudentName   string
	InvoiceNumber string
	IssuerName    string
	Tagline       string
	Address       string
	Email         string
	Phone         string
	GST           string
	Bank          invoice.BankDetails
}

// InvoiceSubject is the subject line for an invoice email
func InvoiceSubject(ref invoice.Reference, invoiceNumber string) string {
	return fmt.Sprintf("Invoice %s - %s", invoiceNumber, ref.Issuer.Name)
}

// NewInvoiceMessage composes the invoice email with its PDF attachment
func NewInvoiceMessage(ref invoice.Reference, e InvoiceEmail) (*Message, error) {
	data := invoiceEmailData{
		StudentName:   e.StudentName,
		InvoiceNumber: e.InvoiceNumber,
		IssuerName:    ref.Issuer.Name,
		Tagline:       ref.Issuer.Tagline,
		Address:       ref.Issuer.Address(),
		Email:         ref.Issuer.Email,
		Phone:         ref.Issuer.Phone,
		GST:           ref.Issuer.GST,
		Bank:          ref.Bank,
	}

	var body bytes.Buffer
	if err := invoiceEmailTemplate.Execute(&body, data); err != nil {
		return nil, &DeliveryError{Op: "compose", Err: err}
	}

	msg := &Message{
		To:       e.To,
		Bcc:      e.Bcc,
		Subject:  InvoiceSubject(ref, e.InvoiceNumber),
		HTMLBody: body.String(),
		Attachments: []Attachment{{
			Filename:    e.Filename,
			ContentType: "application/pdf",
			Data:        e.PDF,
		}},
	}
	if err := msg.validate(); err != nil {
		return nil, err
	}
	return msg, nil
}
