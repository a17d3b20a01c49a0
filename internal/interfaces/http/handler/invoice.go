package handler

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	invoiceapp "github.com/theplanbeta/invoice/internal/application/invoice"
	domain "github.com/theplanbeta/invoice/internal/domain/invoice"
	"github.com/theplanbeta/invoice/internal/domain/shared"
	"github.com/theplanbeta/invoice/internal/domain/shared/valueobject"
	"github.com/theplanbeta/invoice/internal/infrastructure/logger"
	"github.com/theplanbeta/invoice/internal/interfaces/http/dto"
	"github.com/theplanbeta/invoice/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// InvoiceService is the application surface the HTTP layer needs
type InvoiceService interface {
	Reference() domain.Reference
	NewDraft() invoiceapp.DraftDTO
	Quote(ctx context.Context, req invoiceapp.DraftDTO) (*invoiceapp.QuoteResponse, error)
	Edit(ctx context.Context, req invoiceapp.EditRequest) (*invoiceapp.QuoteResponse, error)
	Generate(ctx context.Context, req invoiceapp.GenerateRequest) (*invoiceapp.GenerateResponse, error)
	SendInvoice(ctx context.Context, req invoiceapp.SendInvoiceRequest) (*invoiceapp.SendInvoiceResponse, error)
}

// InvoiceHandler serves the invoice form API and the legacy /send-invoice endpoint
type InvoiceHandler struct {
	BaseHandler
	service InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(service InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

// =============================================================================
// Request/Response Types
// =============================================================================

// RenderQuery holds the query parameters of the render endpoint
type RenderQuery struct {
	Format      string `form:"format" binding:"omitempty,format"`
	Disposition string `form:"disposition" binding:"omitempty,oneof=attachment inline"`
}

// LevelResponse is one row of the published price list
type LevelResponse struct {
	Level  string `json:"level" example:"A1"`
	Label  string `json:"label" example:"A1 - Beginner"`
	Color  string `json:"color" example:"#10b981"`
	FeeINR string `json:"feeINR" example:"14000.00"`
	FeeEUR string `json:"feeEUR" example:"134.00"`
}

// ReferenceResponse is the static data the invoice form is built from
type ReferenceResponse struct {
	Issuer       string          `json:"issuer"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	Currencies   []string        `json:"currencies"`
	Levels       []LevelResponse `json:"levels"`
	Months       []string        `json:"months"`
	Batches      []string        `json:"batches"`
	DefaultNotes string          `json:"defaultNotes"`
}

// SendInvoiceError is the flat error body of /send-invoice
type SendInvoiceError struct {
	Error   string `json:"error" example:"Missing required fields"`
	Details string `json:"details,omitempty"`
}

// Messages of the /send-invoice contract
const (
	msgMethodNotAllowed = "Method not allowed"
	msgMissingFields    = "Missing required fields"
	msgInvalidEmail     = "Invalid student email address"
	msgInvalidBody      = "Invalid request body"
	msgBodyTooLarge     = "Request body too large"
	msgSendFailed       = "Failed to send email"
)

// =============================================================================
// Invoice API
// =============================================================================

// GetReference godoc
// @ID           getInvoiceReference
// @Summary      Get form reference data
// @Description  Returns course levels with their fees, months, batches, currencies and the default policy text
// @Tags         invoices
// @Produce      json
// @Success      200 {object} APIResponse[ReferenceResponse]
// @Router       /api/v1/invoices/reference [get]
func (h *InvoiceHandler) GetReference(c *gin.Context) {
	ref := h.service.Reference()

	levels := make([]LevelResponse, 0, len(ref.Pricing.Entries()))
	for _, p := range ref.Pricing.Entries() {
		levels = append(levels, LevelResponse{
			Level:  p.Level.String(),
			Label:  p.Label,
			Color:  string(p.Color),
			FeeINR: p.FeeINR.StringFixed(2),
			FeeEUR: p.FeeEUR.StringFixed(2),
		})
	}
	months := make([]string, 0, 12)
	for _, m := range domain.AllMonths() {
		months = append(months, string(m))
	}

	h.Success(c, ReferenceResponse{
		Issuer:       ref.Issuer.Name,
		Email:        ref.Issuer.Email,
		Phone:        ref.Issuer.Phone,
		Currencies:   []string{valueobject.EUR.String(), valueobject.INR.String()},
		Levels:       levels,
		Months:       months,
		Batches:      []string{string(domain.BatchMorning), string(domain.BatchEvening)},
		DefaultNotes: ref.DefaultNotes,
	})
}

// GetDraft godoc
// @ID           getInvoiceDraft
// @Summary      Start a new invoice
// @Description  Returns the starting draft: a fresh invoice number, today's dates, EUR and one A1 course
// @Tags         invoices
// @Produce      json
// @Success      200 {object} APIResponse[invoice.DraftDTO]
// @Router       /api/v1/invoices/draft [get]
func (h *InvoiceHandler) GetDraft(c *gin.Context) {
	h.Success(c, h.service.NewDraft())
}

// Quote godoc
// @ID           quoteInvoice
// @Summary      Recompute a draft
// @Description  Recomputes totals and remaining amount and reports whether the draft can be generated
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body invoice.DraftDTO true "Invoice draft"
// @Success      200 {object} APIResponse[invoice.QuoteResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/invoices/quote [post]
func (h *InvoiceHandler) Quote(c *gin.Context) {
	var req invoiceapp.DraftDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.service.Quote(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Edit godoc
// @ID           editInvoice
// @Summary      Apply one form edit
// @Description  Applies a single change to a draft and returns the recomputed quote. Currency and level edits reprice from the fee table.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body invoice.EditRequest true "Draft and the edit to apply"
// @Success      200 {object} APIResponse[invoice.QuoteResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/invoices/edit [post]
func (h *InvoiceHandler) Edit(c *gin.Context) {
	var req invoiceapp.EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.service.Edit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Render godoc
// @ID           renderInvoice
// @Summary      Render a draft
// @Description  Returns the document bytes of a submittable draft as PDF, PNG, JPEG or WebP
// @Tags         invoices
// @Accept       json
// @Produce      application/pdf,image/png,image/jpeg,image/webp
// @Param        format      query string false "Output format" Enums(pdf, html-pdf, png, jpeg, webp)
// @Param        disposition query string false "Content disposition" Enums(attachment, inline)
// @Param        request     body  invoice.DraftDTO true "Invoice draft"
// @Success      200 {file}   binary
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /api/v1/invoices/render [post]
func (h *InvoiceHandler) Render(c *gin.Context) {
	var query RenderQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	var req invoiceapp.DraftDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	doc, err := h.service.Generate(c.Request.Context(), invoiceapp.GenerateRequest{
		Draft:  req,
		Format: query.Format,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	disposition := query.Disposition
	if disposition == "" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": doc.Filename}))
	c.Header("X-Page-Count", strconv.Itoa(doc.PageCount))
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}

// =============================================================================
// Legacy delivery endpoint
// =============================================================================

// SendInvoice emails an already rendered PDF. Errors use the flat
// {error, details} body existing form clients expect.
// @ID           sendInvoice
// @Summary      Email a rendered invoice
// @Description  Emails a base64 PDF to the student with a copy to the school. Served at the root path, outside /api/v1.
// @Tags         delivery
// @Accept       json
// @Produce      json
// @Param        request body invoice.SendInvoiceRequest true "Recipient and PDF"
// @Success      200 {object} invoice.SendInvoiceResponse
// @Failure      400 {object} SendInvoiceError
// @Failure      405 {object} SendInvoiceError
// @Failure      413 {object} SendInvoiceError
// @Failure      429 {object} SendInvoiceError
// @Failure      500 {object} SendInvoiceError
// @Router       /send-invoice [post]
func (h *InvoiceHandler) SendInvoice(c *gin.Context) {
	var req invoiceapp.SendInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		status, message := sendBindError(err)
		c.JSON(status, SendInvoiceError{Error: message})
		return
	}

	resp, err := h.service.SendInvoice(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, shared.ErrDeliveryRejected) {
			c.JSON(http.StatusBadRequest, SendInvoiceError{Error: msgMissingFields})
			return
		}
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			c.JSON(http.StatusBadRequest, SendInvoiceError{Error: domainErr.Message})
			return
		}

		_ = c.Error(err)
		logger.GetGinLogger(c).Error("invoice email failed",
			zap.String("invoice_number", req.InvoiceNumber), zap.Error(err))
		c.JSON(http.StatusInternalServerError, SendInvoiceError{Error: msgSendFailed, Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func sendBindError(err error) (int, string) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge, msgBodyTooLarge
	case middleware.HasTag(err, "required"):
		return http.StatusBadRequest, msgMissingFields
	case middleware.HasTag(err, "email"):
		return http.StatusBadRequest, msgInvalidEmail
	default:
		return http.StatusBadRequest, msgInvalidBody
	}
}

// =============================================================================
// Fallback handlers
// =============================================================================

// MethodNotAllowed answers a known path requested with the wrong method.
// API routes use the envelope, the legacy endpoint its flat body.
func (h *InvoiceHandler) MethodNotAllowed(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		h.Error(c, http.StatusMethodNotAllowed, dto.ErrCodeMethodNotAllowed, msgMethodNotAllowed)
		return
	}
	c.JSON(http.StatusMethodNotAllowed, SendInvoiceError{Error: msgMethodNotAllowed})
}

// NotFound answers paths no route matches
func (h *InvoiceHandler) NotFound(c *gin.Context) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, "Route not found")
}
