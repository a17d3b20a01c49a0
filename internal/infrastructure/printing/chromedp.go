package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/theplanbeta/invoice/internal/domain/printing"
	"go.uber.org/zap"
)

const (
	defaultChromeTimeout = 30 * time.Second
	defaultScale         = 1.0
	defaultImageScale    = 2.0
	cssPixelsPerInch     = 96.0
)

// PageOptions describes the page an HTML document is captured on
type PageOptions struct {
	PaperSize printing.PaperSize
	Margins   printing.Margins
	Title     string
	// Timeout overrides the converter default
	Timeout time.Duration
}

// HTMLConverter turns a complete HTML document into PDF or PNG bytes
type HTMLConverter interface {
	ToPDF(ctx context.Context, html string, opts PageOptions) ([]byte, error)
	ToPNG(ctx context.Context, html string, opts PageOptions) ([]byte, error)
	Close() error
}

// ChromedpConfig contains configuration for the chromedp converter
type ChromedpConfig struct {
	// DefaultTimeout for rendering operations
	DefaultTimeout time.Duration
	// RemoteURL is the URL of a remote Chrome/Chromium instance (optional)
	// If empty, chromedp will launch a new browser instance
	RemoteURL string
	// ExecPath is the browser binary; empty uses chromedp's lookup
	ExecPath string
	// Headless mode (default: true)
	Headless bool
	// DisableGPU disables GPU hardware acceleration (default: true for server environments)
	DisableGPU bool
	// NoSandbox runs Chrome without sandbox (required for Docker/root)
	NoSandbox bool
	// Scale for PDF printing (default: 1.0)
	Scale float64
	// ImageScale is the device pixel ratio of screenshots (default: 2.0)
	ImageScale float64
	// Logger for debug output
	Logger *zap.Logger
}

// ChromedpConverter renders HTML using Chrome DevTools Protocol
type ChromedpConverter struct {
	config      *ChromedpConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpConverter creates a new chromedp-based converter
func NewChromedpConverter(config *ChromedpConfig) (*ChromedpConverter, error) {
	if config == nil {
		config = &ChromedpConfig{}
	}

	// Set defaults
	if config.DefaultTimeout == 0 {
		config.DefaultTimeout = defaultChromeTimeout
	}
	if config.Scale == 0 {
		config.Scale = defaultScale
	}
	if config.ImageScale == 0 {
		config.ImageScale = defaultImageScale
	}
	// Default to headless and disable GPU for server environments
	if !config.Headless {
		config.Headless = true
	}
	if !config.DisableGPU {
		config.DisableGPU = true
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &ChromedpConverter{
		config: config,
		logger: logger,
	}
	c.initAllocator()
	return c, nil
}

// initAllocator initializes the Chrome allocator
func (c *ChromedpConverter) initAllocator() {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", c.config.Headless),
		chromedp.Flag("disable-gpu", c.config.DisableGPU),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true), // Important for Docker
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		// Font rendering
		chromedp.Flag("font-render-hinting", "none"),
	)

	if c.config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	if c.config.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.config.ExecPath))
	}

	if c.config.RemoteURL != "" {
		c.allocCtx, c.allocCancel = chromedp.NewRemoteAllocator(context.Background(), c.config.RemoteURL)
	} else {
		c.allocCtx, c.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	}
}

// ToPDF prints the document with the page geometry from opts
func (c *ChromedpConverter) ToPDF(ctx context.Context, html string, opts PageOptions) ([]byte, error) {
	params := c.buildPrintParams(opts)

	var pdfData []byte
	err := c.run(ctx, html, opts, chromedp.ActionFunc(func(ctx context.Context) error {
		data, _, err := page.PrintToPDF().
			WithPrintBackground(params.printBackground).
			WithPaperWidth(params.paperWidth).
			WithPaperHeight(params.paperHeight).
			WithMarginTop(params.marginTop).
			WithMarginRight(params.marginRight).
			WithMarginBottom(params.marginBottom).
			WithMarginLeft(params.marginLeft).
			WithScale(params.scale).
			WithPreferCSSPageSize(true).
			Do(ctx)
		if err != nil {
			return err
		}
		pdfData = data
		return nil
	}))
	if err != nil {
		return nil, err
	}
	if len(pdfData) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}
	return pdfData, nil
}

// ToPNG captures the full page at the paper size in CSS pixels
func (c *ChromedpConverter) ToPNG(ctx context.Context, html string, opts PageOptions) ([]byte, error) {
	width, height := viewportSize(opts)

	var png []byte
	err := c.run(ctx, html, opts,
		chromedp.EmulateViewport(width, height),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, err := page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatPng).
				WithCaptureBeyondViewport(true).
				WithClip(&page.Viewport{
					X:      0,
					Y:      0,
					Width:  float64(width),
					Height: float64(height),
					Scale:  c.config.ImageScale,
				}).
				Do(ctx)
			if err != nil {
				return err
			}
			png = data
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	if len(png) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated screenshot is empty", nil)
	}
	return png, nil
}

// run loads html into a fresh tab and executes the capture actions
func (c *ChromedpConverter) run(ctx context.Context, html string, opts PageOptions, actions ...chromedp.Action) error {
	if strings.TrimSpace(html) == "" {
		return NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = c.config.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(c.allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			c.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()

	// Tie the tab to the caller's deadline
	stop := context.AfterFunc(ctx, browserCancel)
	defer stop()

	doc := buildCompleteHTML(html, opts.Title)
	steps := append([]chromedp.Action{
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, doc).Do(ctx)
		}),
	}, actions...)

	if err := chromedp.Run(browserCtx, steps...); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return NewRenderError(ErrCodeRenderTimeout,
				fmt.Sprintf("HTML rendering timed out after %v", timeout), err)
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return NewRenderError(ErrCodeRenderTimeout, "HTML rendering was cancelled", err)
		}

		c.logger.Error("chromedp rendering failed", zap.Error(err))
		return NewRenderError(ErrCodeRenderFailed, "chromedp execution failed: "+err.Error(), err)
	}
	return nil
}

// printParams holds the parameters for PDF printing
type printParams struct {
	paperWidth      float64
	paperHeight     float64
	marginTop       float64
	marginRight     float64
	marginBottom    float64
	marginLeft      float64
	scale           float64
	printBackground bool
}

// buildPrintParams constructs the print parameters from the page options
func (c *ChromedpConverter) buildPrintParams(opts PageOptions) *printParams {
	params := &printParams{
		scale:           c.config.Scale,
		printBackground: true,
	}

	// Paper size in inches (Chrome uses inches)
	width, height := opts.PaperSize.Dimensions()
	params.paperWidth = mmToInches(float64(width))
	params.paperHeight = mmToInches(float64(height))

	params.marginTop = mmToInches(float64(opts.Margins.Top))
	params.marginRight = mmToInches(float64(opts.Margins.Right))
	params.marginBottom = mmToInches(float64(opts.Margins.Bottom))
	params.marginLeft = mmToInches(float64(opts.Margins.Left))

	return params
}

// viewportSize returns the paper size in whole CSS pixels
func viewportSize(opts PageOptions) (int64, int64) {
	w, h := opts.PaperSize.Dimensions()
	return mmToPixels(float64(w)), mmToPixels(float64(h))
}

// buildCompleteHTML wraps a fragment in a document; full documents pass through
func buildCompleteHTML(html, title string) string {
	lower := strings.ToLower(html)
	if strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		return html
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html><html><head>")
	buf.WriteString("<meta charset=\"UTF-8\">")
	if title != "" {
		buf.WriteString("<title>")
		buf.WriteString(title)
		buf.WriteString("</title>")
	}
	buf.WriteString("</head><body>")
	buf.WriteString(html)
	buf.WriteString("</body></html>")

	return buf.String()
}

// Close releases resources held by the converter
func (c *ChromedpConverter) Close() error {
	if c.allocCancel != nil {
		c.allocCancel()
	}
	return nil
}

// mmToInches converts millimeters to inches
func mmToInches(mm float64) float64 {
	return mm / 25.4
}

// mmToPixels converts millimeters to CSS pixels, rounding up
func mmToPixels(mm float64) int64 {
	return int64(math.Ceil(mmToInches(mm) * cssPixelsPerInch))
}

// Ensure ChromedpConverter implements HTMLConverter
var _ HTMLConverter = (*ChromedpConverter)(nil)
