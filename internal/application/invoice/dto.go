package invoice

import (
	"fmt"
	"strings"

	domain "github.com/theplanbeta/invoice/internal/domain/invoice"
	"github.com/theplanbeta/invoice/internal/domain/shared"
	"github.com/theplanbeta/invoice/internal/domain/shared/valueobject"
)

// =============================================================================
// Draft DTOs
// =============================================================================

// DraftDTO is an invoice draft as sent by a client or read from a JSON file
type DraftDTO struct {
	InvoiceNumber string        `json:"invoiceNumber"`
	IssueDate     string        `json:"issueDate" binding:"omitempty,datetime=2006-01-02"`
	DueDate       string        `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
	Currency      string        `json:"currency" binding:"omitempty,currency"`
	Student       StudentDTO    `json:"student"`
	Items         []LineItemDTO `json:"items" binding:"required,min=1,dive"`
	PayableNow    domain.Amount `json:"payableNow"`
	Notes         *string       `json:"notes"`
}

// StudentDTO is the recipient block
type StudentDTO struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
}

// LineItemDTO is one course row
type LineItemDTO struct {
	Level       string        `json:"level" binding:"required,level"`
	Description string        `json:"description"`
	Month       string        `json:"month" binding:"omitempty,month"`
	Batch       string        `json:"batch" binding:"omitempty,batch"`
	Amount      domain.Amount `json:"amount"`
}

// ToDraft converts the DTO into a recomputed domain draft. Missing currency
// means EUR and missing notes mean the reference policy text.
func (d DraftDTO) ToDraft(ref domain.Reference) (domain.Draft, error) {
	currency := valueobject.DefaultCurrency
	if strings.TrimSpace(d.Currency) != "" {
		c, err := valueobject.ParseCurrency(d.Currency)
		if err != nil {
			return domain.Draft{}, shared.NewDomainError(shared.ErrInvalidCurrency.Code, err.Error())
		}
		currency = c
	}

	items := make([]domain.LineItem, len(d.Items))
	for i, it := range d.Items {
		level, err := domain.ParseLevel(it.Level)
		if err != nil {
			return domain.Draft{}, shared.NewDomainError(shared.ErrInvalidLevel.Code,
				fmt.Sprintf("course %d: %v", i+1, err))
		}
		item := domain.LineItem{
			Level:       level,
			Description: it.Description,
			Amount:      it.Amount,
		}
		if strings.TrimSpace(it.Month) != "" {
			if item.Month, err = domain.ParseMonth(it.Month); err != nil {
				return domain.Draft{}, shared.NewDomainError(shared.ErrInvalidInput.Code,
					fmt.Sprintf("course %d: %v", i+1, err))
			}
		}
		if strings.TrimSpace(it.Batch) != "" {
			if item.Batch, err = domain.ParseBatch(it.Batch); err != nil {
				return domain.Draft{}, shared.NewDomainError(shared.ErrInvalidInput.Code,
					fmt.Sprintf("course %d: %v", i+1, err))
			}
		}
		items[i] = item
	}

	notes := ref.DefaultNotes
	if d.Notes != nil {
		notes = *d.Notes
	}

	draft := domain.Draft{
		InvoiceNumber: strings.TrimSpace(d.InvoiceNumber),
		IssueDate:     d.IssueDate,
		DueDate:       d.DueDate,
		Currency:      currency,
		Student: domain.Student{
			Name:    d.Student.Name,
			Address: d.Student.Address,
			Email:   d.Student.Email,
			Phone:   d.Student.Phone,
		},
		Items:      items,
		PayableNow: d.PayableNow,
		Notes:      notes,
	}
	if err := draft.Validate(); err != nil {
		return domain.Draft{}, err
	}
	return domain.Recompute(draft), nil
}

// FromDraft converts a domain draft back to its wire form
func FromDraft(d domain.Draft) DraftDTO {
	items := make([]LineItemDTO, len(d.Items))
	for i, it := range d.Items {
		items[i] = LineItemDTO{
			Level:       string(it.Level),
			Description: it.Description,
			Month:       string(it.Month),
			Batch:       string(it.Batch),
			Amount:      it.Amount,
		}
	}
	notes := d.Notes
	return DraftDTO{
		InvoiceNumber: d.InvoiceNumber,
		IssueDate:     d.IssueDate,
		DueDate:       d.DueDate,
		Currency:      d.Currency.String(),
		Student: StudentDTO{
			Name:    d.Student.Name,
			Address: d.Student.Address,
			Email:   d.Student.Email,
			Phone:   d.Student.Phone,
		},
		Items:      items,
		PayableNow: d.PayableNow,
		Notes:      &notes,
	}
}

// =============================================================================
// Quote DTOs
// =============================================================================

// TotalsDTO is the money summary, formatted for display
type TotalsDTO struct {
	Currency        string `json:"currency"`
	Total           string `json:"total"`
	PayableNow      string `json:"payableNow"`
	RemainingAmount string `json:"remainingAmount"`
	ShowRemaining   bool   `json:"showRemaining"`
}

// QuoteResponse is a recomputed draft with its totals
type QuoteResponse struct {
	Draft       DraftDTO  `json:"draft"`
	Totals      TotalsDTO `json:"totals"`
	Submittable bool      `json:"submittable"`
	Filename    string    `json:"filename"`
}

// =============================================================================
// Edit DTOs
// =============================================================================

// Edit kinds accepted by EditOp
const (
	EditInvoiceNumber  = "invoice_number"
	EditIssueDate      = "issue_date"
	EditDueDate        = "due_date"
	EditCurrency       = "currency"
	EditStudentName    = "student_name"
	EditStudentAddress = "student_address"
	EditStudentEmail   = "student_email"
	EditStudentPhone   = "student_phone"
	EditLevel          = "level"
	EditDescription    = "description"
	EditMonth          = "month"
	EditBatch          = "batch"
	EditAmount         = "amount"
	EditAddItem        = "add_item"
	EditRemoveItem     = "remove_item"
	EditPayableNow     = "payable_now"
	EditNotes          = "notes"
)

// EditKinds lists every edit kind in form order
func EditKinds() []string {
	return []string{
		EditInvoiceNumber, EditIssueDate, EditDueDate, EditCurrency,
		EditStudentName, EditStudentAddress, EditStudentEmail, EditStudentPhone,
		EditLevel, EditDescription, EditMonth, EditBatch, EditAmount,
		EditAddItem, EditRemoveItem, EditPayableNow, EditNotes,
	}
}

// EditOp is one change made on the invoice form. Index is the zero-based
// course for item edits and is ignored otherwise.
type EditOp struct {
	Kind  string `json:"kind" binding:"required" example:"level"`
	Index int    `json:"index" binding:"min=0" example:"0"`
	Value string `json:"value" example:"B1"`
}

// EditRequest is the body of POST /api/v1/invoices/edit
type EditRequest struct {
	Draft DraftDTO `json:"draft"`
	Op    EditOp   `json:"op"`
}

// =============================================================================
// Generation DTOs
// =============================================================================

// GenerateRequest asks for one rendered document
type GenerateRequest struct {
	Draft  DraftDTO
	Format string // empty means the service default
	// Archive stores a copy when the service has storage configured
	Archive bool
}

// GenerateResponse is a rendered document
type GenerateResponse struct {
	Filename    string
	ContentType string
	Format      string
	Data        []byte
	PageCount   int
	StoredPath  string // empty when not archived
}

// =============================================================================
// Delivery DTOs
// =============================================================================

// SendInvoiceRequest is the body of POST /send-invoice
type SendInvoiceRequest struct {
	StudentEmail  string `json:"studentEmail" binding:"required,email"`
	StudentName   string `json:"studentName" binding:"required"`
	InvoiceNumber string `json:"invoiceNumber" binding:"required"`
	PDFBase64     string `json:"pdfBase64" binding:"required"`
}

// SendInvoiceResponse reports a successful delivery
type SendInvoiceResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DeliverRequest renders a draft as PDF and emails it to the student
type DeliverRequest struct {
	Draft DraftDTO
	// To overrides the student email on the draft
	To string
	// Save, when set, keeps a local copy of the document. It runs before
	// the email is attempted and returns where the copy went.
	Save func(doc *GenerateResponse) (string, error)
}

// DeliverResponse describes what happened to the document
type DeliverResponse struct {
	Document  *GenerateResponse
	SavedPath string
	Sent      bool
}
