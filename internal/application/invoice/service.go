package invoice

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/theplanbeta/invoice/internal/domain/invoice"
	"github.com/theplanbeta/invoice/internal/domain/printing"
	"github.com/theplanbeta/invoice/internal/domain/shared"
	"github.com/theplanbeta/invoice/internal/infrastructure/logger"
	"github.com/theplanbeta/invoice/internal/infrastructure/mail"
	infra "github.com/theplanbeta/invoice/internal/infrastructure/printing"
	"github.com/theplanbeta/invoice/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// SendSuccessMessage is the message of a successful /send-invoice response
const SendSuccessMessage = "Invoice email sent successfully"

// InvoiceService turns drafts into documents and documents into emails
type InvoiceService struct {
	ref           domain.Reference
	theme         printing.Theme
	renderer      infra.Renderer
	sender        mail.Sender
	storage       infra.DocumentStorage
	defaultFormat printing.Format
	strictAmounts bool
	bcc           []string
	now           func() time.Time
	logger        *zap.Logger
}

// Option configures an InvoiceService
type Option func(*InvoiceService)

// WithReference replaces the built-in school reference data
func WithReference(ref domain.Reference) Option {
	return func(s *InvoiceService) { s.ref = ref }
}

// WithTheme replaces the document colours
func WithTheme(theme printing.Theme) Option {
	return func(s *InvoiceService) { s.theme = theme }
}

// WithStorage archives generated documents when requested
func WithStorage(storage infra.DocumentStorage) Option {
	return func(s *InvoiceService) { s.storage = storage }
}

// WithDefaultFormat sets the format used when a request names none
func WithDefaultFormat(f printing.Format) Option {
	return func(s *InvoiceService) {
		if f.IsValid() {
			s.defaultFormat = f
		}
	}
}

// WithStrictAmounts rejects amount text that does not parse in full
// instead of reading it as zero.
func WithStrictAmounts(strict bool) Option {
	return func(s *InvoiceService) { s.strictAmounts = strict }
}

// WithBcc sets the addresses copied on every invoice email.
// The issuer's own address is used when none are given.
func WithBcc(addrs ...string) Option {
	return func(s *InvoiceService) { s.bcc = addrs }
}

// WithClock overrides time.Now for new drafts
func WithClock(now func() time.Time) Option {
	return func(s *InvoiceService) { s.now = now }
}

// WithLogger sets the service logger
func WithLogger(l *zap.Logger) Option {
	return func(s *InvoiceService) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(renderer infra.Renderer, sender mail.Sender, opts ...Option) *InvoiceService {
	s := &InvoiceService{
		ref:           domain.DefaultReference(),
		theme:         printing.DefaultTheme(),
		renderer:      renderer,
		sender:        sender,
		defaultFormat: printing.FormatPDF,
		now:           time.Now,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if len(s.bcc) == 0 && s.ref.Issuer.Email != "" {
		s.bcc = []string{s.ref.Issuer.Email}
	}
	return s
}

// Reference returns the reference data documents are rendered with
func (s *InvoiceService) Reference() domain.Reference {
	return s.ref
}

// NewDraft returns the starting form state
func (s *InvoiceService) NewDraft() DraftDTO {
	return FromDraft(domain.NewDraft(s.now(), s.ref))
}

// Quote recomputes a draft and reports its totals and whether it can be generated
func (s *InvoiceService) Quote(ctx context.Context, req DraftDTO) (*QuoteResponse, error) {
	d, err := s.toDraft(req)
	if err != nil {
		return nil, err
	}
	return s.quote(d), nil
}

func (s *InvoiceService) quote(d domain.Draft) *QuoteResponse {
	totals := domain.ComputeTotals(d)
	return &QuoteResponse{
		Draft: FromDraft(d),
		Totals: TotalsDTO{
			Currency:        d.Currency.String(),
			Total:           totals.Total.Display(),
			PayableNow:      totals.PayableNow.Display(),
			RemainingAmount: totals.Remaining.Display(),
			ShowRemaining:   totals.ShowRemaining(),
		},
		Submittable: domain.IsSubmittable(d),
		Filename:    FileStem(s.ref, d) + "." + printing.FormatPDF.Extension(),
	}
}

// Generate renders a submittable draft. Nothing is archived unless the
// request asks for it and storage is configured.
func (s *InvoiceService) Generate(ctx context.Context, req GenerateRequest) (resp *GenerateResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "generate")
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	format := s.defaultFormat
	if req.Format != "" {
		f, err := printing.ParseFormat(req.Format)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_FORMAT", err.Error())
		}
		format = f
	}

	d, err := s.toDraft(req.Draft)
	if err != nil {
		return nil, err
	}
	if !domain.IsSubmittable(d) {
		return nil, shared.ErrNotSubmittable
	}

	ctx = logger.WithInvoiceNumber(ctx, d.InvoiceNumber)
	telemetry.SetAttributes(span,
		telemetry.SpanAttrInvoiceNumber, d.InvoiceNumber,
		telemetry.SpanAttrFormat, format.String())
	view := BuildView(d, s.ref, s.theme)

	result, err := s.renderer.Render(ctx, &infra.RenderRequest{View: view, Format: format})
	if err != nil {
		logger.WithLogger(ctx, s.logger).Error("invoice rendering failed",
			zap.String("format", format.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to render invoice: %w", err)
	}

	resp = &GenerateResponse{
		Filename:    view.Filename(result.Format),
		ContentType: result.ContentType(),
		Format:      result.Format.String(),
		Data:        result.Data,
		PageCount:   result.PageCount,
	}

	if req.Archive && s.storage != nil {
		stored, err := s.storage.Store(ctx, &infra.StoreRequest{
			Filename: resp.Filename,
			Data:     resp.Data,
			IssuedAt: issuedAt(d.IssueDate),
		})
		if err != nil {
			return nil, infra.NewRenderError(infra.ErrCodeStorageFailed, "failed to archive invoice", err)
		}
		resp.StoredPath = stored.Path
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrFilename, resp.Filename,
		telemetry.SpanAttrBytes, len(resp.Data),
		telemetry.SpanAttrPages, resp.PageCount)
	logger.WithLogger(ctx, s.logger).Info("invoice generated",
		zap.String("format", resp.Format),
		zap.String("filename", resp.Filename),
		zap.Int("bytes", len(resp.Data)),
		zap.Duration("render", result.RenderDuration))

	return resp, nil
}

// SendInvoice emails an already rendered PDF to the student, copying the
// issuer. The PDF may be plain base64 or a data: URL.
func (s *InvoiceService) SendInvoice(ctx context.Context, req SendInvoiceRequest) (*SendInvoiceResponse, error) {
	if strings.TrimSpace(req.StudentEmail) == "" || strings.TrimSpace(req.StudentName) == "" ||
		strings.TrimSpace(req.InvoiceNumber) == "" || strings.TrimSpace(req.PDFBase64) == "" {
		return nil, shared.ErrDeliveryRejected
	}

	pdf, err := DecodeDocument(req.PDFBase64)
	if err != nil {
		return nil, err
	}

	ctx = logger.WithInvoiceNumber(ctx, req.InvoiceNumber)
	filename := domain.BuildFilename(s.ref.Issuer.FilePrefix, req.InvoiceNumber, req.StudentName, printing.FormatPDF.Extension())
	if err := s.send(ctx, strings.TrimSpace(req.StudentEmail), req.StudentName, req.InvoiceNumber, filename, pdf); err != nil {
		return nil, err
	}

	return &SendInvoiceResponse{Success: true, Message: SendSuccessMessage}, nil
}

// Deliver renders the draft as a vector PDF, archives it when storage is
// configured, saves it through req.Save, then emails it. The document is
// written before any network call. A delivery failure still returns the
// document alongside the error so the caller can send it by hand.
func (s *InvoiceService) Deliver(ctx context.Context, req DeliverRequest) (*DeliverResponse, error) {
	doc, err := s.Generate(ctx, GenerateRequest{
		Draft:   req.Draft,
		Format:  printing.FormatPDF.String(),
		Archive: true,
	})
	if err != nil {
		return nil, err
	}
	resp := &DeliverResponse{Document: doc}

	if req.Save != nil {
		path, err := req.Save(doc)
		if err != nil {
			return resp, fmt.Errorf("failed to save invoice: %w", err)
		}
		resp.SavedPath = path
	}

	to := strings.TrimSpace(req.To)
	if to == "" {
		to = strings.TrimSpace(req.Draft.Student.Email)
	}
	if to == "" {
		return resp, shared.NewDomainError(shared.ErrDeliveryRejected.Code, "No recipient email address")
	}

	invoiceNumber := strings.TrimSpace(req.Draft.InvoiceNumber)
	ctx = logger.WithInvoiceNumber(ctx, invoiceNumber)
	if err := s.send(ctx, to, req.Draft.Student.Name, invoiceNumber, doc.Filename, doc.Data); err != nil {
		return resp, err
	}
	resp.Sent = true
	return resp, nil
}

func (s *InvoiceService) send(ctx context.Context, to, studentName, invoiceNumber, filename string, pdf []byte) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "send",
		telemetry.SpanAttrInvoiceNumber, invoiceNumber,
		telemetry.SpanAttrRecipient, recipientDomain(to),
		telemetry.SpanAttrBytes, len(pdf))
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	if s.sender == nil {
		return &mail.DeliveryError{Op: "send", Err: errors.New("no mail sender configured")}
	}

	msg, err := mail.NewInvoiceMessage(s.ref, mail.InvoiceEmail{
		To:            to,
		StudentName:   studentName,
		InvoiceNumber: invoiceNumber,
		Filename:      filename,
		PDF:           pdf,
		Bcc:           s.bcc,
	})
	if err != nil {
		return err
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		logger.WithLogger(ctx, s.logger).Error("invoice email failed",
			zap.String("to", to), zap.Error(err))
		return err
	}

	logger.WithLogger(ctx, s.logger).Info("invoice email sent",
		zap.String("to", to),
		zap.String("filename", filename))
	return nil
}

func (s *InvoiceService) toDraft(req DraftDTO) (domain.Draft, error) {
	d, err := req.ToDraft(s.ref)
	if err != nil {
		return domain.Draft{}, err
	}
	if err := s.checkAmounts(d); err != nil {
		return domain.Draft{}, err
	}
	return d, nil
}

func (s *InvoiceService) checkAmounts(d domain.Draft) error {
	if !s.strictAmounts {
		return nil
	}
	if err := d.ValidateAmounts(); err != nil {
		return shared.NewDomainError(shared.ErrInvalidAmount.Code, err.Error())
	}
	return nil
}

// DecodeDocument decodes base64 document bytes, accepting a data: URL prefix
func DecodeDocument(encoded string) ([]byte, error) {
	s := strings.TrimSpace(encoded)
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			s = s[i+1:]
		}
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "pdfBase64 is not valid base64")
	}
	if len(data) == 0 {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "pdfBase64 decodes to an empty document")
	}
	return data, nil
}

// recipientDomain keeps student addresses out of traces
func recipientDomain(addr string) string {
	if i := strings.LastIndex(addr, "@"); i >= 0 {
		return addr[i+1:]
	}
	return ""
}

func issuedAt(date string) time.Time {
	t, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return time.Time{}
	}
	return t
}
