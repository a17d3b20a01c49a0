package printing

import (
	"bytes"
	"context"
	"time"

	"github.com/theplanbeta/invoice/internal/domain/printing"
)

// RenderRequest contains the parameters for rendering an invoice
type RenderRequest struct {
	// View is the formatted invoice to draw
	View *printing.InvoiceView
	// Format selects the output encoding
	Format printing.Format
	// Timeout overrides the default rendering timeout
	Timeout time.Duration
}

// RenderResult contains the rendered document
type RenderResult struct {
	// Data is the raw file content
	Data []byte
	// Format is the encoding of Data
	Format printing.Format
	// PageCount is the number of pages (1 for images)
	PageCount int
	// RenderDuration is how long the rendering took
	RenderDuration time.Duration
}

// ContentType returns the MIME type of the result
func (r *RenderResult) ContentType() string {
	return r.Format.ContentType()
}

// Renderer draws an InvoiceView into document bytes
type Renderer interface {
	// Formats lists the output formats this renderer produces
	Formats() []printing.Format
	// Render draws the view in the requested format
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
}

// RenderError represents an error during rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout  = "RENDER_TIMEOUT"
	ErrCodeRenderFailed   = "RENDER_FAILED"
	ErrCodeInvalidHTML    = "INVALID_HTML"
	ErrCodeInvalidView    = "INVALID_VIEW"
	ErrCodeInvalidFormat  = "INVALID_FORMAT"
	ErrCodeTemplateFailed = "TEMPLATE_FAILED"
	ErrCodeEncodeFailed   = "ENCODE_FAILED"
	ErrCodeStorageFailed  = "STORAGE_FAILED"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// validateRequest performs the checks shared by every backend
func validateRequest(req *RenderRequest, supported []printing.Format) error {
	if req == nil {
		return NewRenderError(ErrCodeInvalidView, "render request is nil", nil)
	}
	if req.View == nil {
		return NewRenderError(ErrCodeInvalidView, "invoice view is nil", nil)
	}
	for _, f := range supported {
		if f == req.Format {
			return nil
		}
	}
	return NewRenderError(ErrCodeInvalidFormat, "unsupported format: "+string(req.Format), nil)
}

// estimatePageCount counts page objects in a PDF
func estimatePageCount(pdfData []byte) int {
	count := bytes.Count(pdfData, []byte("/Type /Page"))
	// "/Type /Pages" also matches the prefix above
	parentCount := bytes.Count(pdfData, []byte("/Type /Pages"))
	count = count - parentCount
	return max(count, 1)
}

// RendererSet dispatches each request to the backend that owns its format.
// The first backend registered for a format wins.
type RendererSet struct {
	byFormat map[printing.Format]Renderer
	formats  []printing.Format
}

// NewRendererSet combines backends into one Renderer
func NewRendererSet(renderers ...Renderer) *RendererSet {
	s := &RendererSet{byFormat: make(map[printing.Format]Renderer)}
	for _, r := range renderers {
		if r == nil {
			continue
		}
		for _, f := range r.Formats() {
			if _, taken := s.byFormat[f]; taken {
				continue
			}
			s.byFormat[f] = r
			s.formats = append(s.formats, f)
		}
	}
	return s
}

// Formats implements Renderer
func (s *RendererSet) Formats() []printing.Format {
	return append([]printing.Format(nil), s.formats...)
}

// Supports reports whether a backend is registered for f
func (s *RendererSet) Supports(f printing.Format) bool {
	_, ok := s.byFormat[f]
	return ok
}

// Render implements Renderer
func (s *RendererSet) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if err := validateRequest(req, s.formats); err != nil {
		return nil, err
	}
	return s.byFormat[req.Format].Render(ctx, req)
}

// Ensure RendererSet implements Renderer
var _ Renderer = (*RendererSet)(nil)
