package printing

import (
	"context"
	"errors"
	"time"

	"github.com/theplanbeta/invoice/internal/domain/printing"
	"go.uber.org/zap"
)

// HTMLRendererConfig wires the HTML backend
type HTMLRendererConfig struct {
	// Converter captures the document; required
	Converter HTMLConverter
	// Templates supplies the layout; defaults to the embedded templates
	Templates *TemplateStore
	// Engine binds the view; defaults to NewTemplateEngine()
	Engine *TemplateEngine
	// Encoder produces JPEG/WebP and downscales PNG
	Encoder *ImageEncoder
	// TemplateName selects the layout (default InvoiceTemplateA4)
	TemplateName string
	// Logger for operations
	Logger *zap.Logger
}

// HTMLRenderer lays the invoice out as HTML and captures it with a browser
type HTMLRenderer struct {
	converter    HTMLConverter
	templates    *TemplateStore
	engine       *TemplateEngine
	encoder      *ImageEncoder
	templateName string
	logger       *zap.Logger
}

// NewHTMLRenderer creates the HTML backend
func NewHTMLRenderer(config HTMLRendererConfig) (*HTMLRenderer, error) {
	if config.Converter == nil {
		return nil, errors.New("html renderer: converter is required")
	}
	if config.Templates == nil {
		store, err := NewTemplateStore(nil)
		if err != nil {
			return nil, err
		}
		config.Templates = store
	}
	if config.Engine == nil {
		config.Engine = NewTemplateEngine()
	}
	if config.Encoder == nil {
		config.Encoder = NewImageEncoder(ImageEncoderConfig{})
	}
	if config.TemplateName == "" {
		config.TemplateName = InvoiceTemplateA4
	}
	if _, ok := config.Templates.Get(config.TemplateName); !ok {
		return nil, errors.New("html renderer: unknown template " + config.TemplateName)
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &HTMLRenderer{
		converter:    config.Converter,
		templates:    config.Templates,
		engine:       config.Engine,
		encoder:      config.Encoder,
		templateName: config.TemplateName,
		logger:       logger,
	}, nil
}

// Formats implements Renderer
func (r *HTMLRenderer) Formats() []printing.Format {
	return []printing.Format{
		printing.FormatHTMLPDF,
		printing.FormatPNG,
		printing.FormatJPEG,
		printing.FormatWebP,
	}
}

// HTML returns the laid out document without capturing it
func (r *HTMLRenderer) HTML(ctx context.Context, view *printing.InvoiceView) (string, *StaticTemplate, error) {
	tmpl, ok := r.templates.Get(r.templateName)
	if !ok {
		return "", nil, NewRenderError(ErrCodeTemplateFailed, "template not found: "+r.templateName, nil)
	}
	result, err := r.engine.RenderInvoice(ctx, tmpl, view)
	if err != nil {
		return "", nil, err
	}
	return result.HTML, tmpl, nil
}

// Render implements Renderer
func (r *HTMLRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if err := validateRequest(req, r.Formats()); err != nil {
		return nil, err
	}

	startTime := time.Now()
	html, tmpl, err := r.HTML(ctx, req.View)
	if err != nil {
		return nil, err
	}

	opts := PageOptions{
		PaperSize: tmpl.PaperSize,
		Margins:   tmpl.Margins,
		Title:     req.View.FileStem,
		Timeout:   req.Timeout,
	}

	var data []byte
	pageCount := 1
	if req.Format == printing.FormatHTMLPDF {
		data, err = r.converter.ToPDF(ctx, html, opts)
		if err != nil {
			return nil, err
		}
		pageCount = estimatePageCount(data)
	} else {
		png, err := r.converter.ToPNG(ctx, html, opts)
		if err != nil {
			return nil, err
		}
		data, err = r.encoder.Encode(png, req.Format)
		if err != nil {
			return nil, err
		}
	}

	renderDuration := time.Since(startTime)
	r.logger.Info("HTML invoice rendered",
		zap.String("invoice", req.View.Header.InvoiceNumber),
		zap.String("format", req.Format.String()),
		zap.Int("bytes", len(data)),
		zap.Duration("duration", renderDuration))

	return &RenderResult{
		Data:           data,
		Format:         req.Format,
		PageCount:      pageCount,
		RenderDuration: renderDuration,
	}, nil
}

// Ensure HTMLRenderer implements Renderer
var _ Renderer = (*HTMLRenderer)(nil)
