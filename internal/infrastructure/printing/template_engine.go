package printing

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"maps"
	"strconv"
	"strings"
	"time"

	"github.com/theplanbeta/invoice/internal/domain/printing"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TemplateEngine binds an InvoiceView to an HTML layout.
// It uses Go's html/template package with a few presentation helpers.
type TemplateEngine struct {
	funcMap template.FuncMap
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithFuncs adds or replaces template functions
func WithFuncs(funcs template.FuncMap) TemplateEngineOption {
	return func(e *TemplateEngine) {
		maps.Copy(e.funcMap, funcs)
	}
}

// NewTemplateEngine creates a new template engine with default configuration
func NewTemplateEngine(opts ...TemplateEngineOption) *TemplateEngine {
	e := &TemplateEngine{}

	e.funcMap = template.FuncMap{
		// Colours
		"rgb": rgbCSS,
		"hex": hexCSS,

		// Policy block geometry, the same as the vector layout
		"policyBottom":     func() template.CSS { return mmCSS(notesBottomLimit) },
		"policyLineHeight": func() template.CSS { return mmCSS(notesLineHeight) },

		// String utilities
		"upper":    strings.ToUpper,
		"lower":    strings.ToLower,
		"title":    titleCase,
		"trim":     strings.TrimSpace,
		"join":     strings.Join,
		"truncate": truncate,
		"default":  defaultString,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// RenderTemplateResult contains the rendered HTML output
type RenderTemplateResult struct {
	// HTML is the rendered HTML content
	HTML string
	// RenderDuration is how long the rendering took
	RenderDuration time.Duration
}

// RenderInvoice executes a layout against an invoice view
func (e *TemplateEngine) RenderInvoice(ctx context.Context, tmpl *StaticTemplate, view *printing.InvoiceView) (*RenderTemplateResult, error) {
	if tmpl == nil {
		return nil, NewRenderError(ErrCodeTemplateFailed, "template is nil", nil)
	}
	if view == nil {
		return nil, NewRenderError(ErrCodeInvalidView, "invoice view is nil", nil)
	}

	startTime := time.Now()
	html, err := e.RenderString(ctx, tmpl.Name, tmpl.Content, view)
	if err != nil {
		return nil, err
	}

	return &RenderTemplateResult{
		HTML:           html,
		RenderDuration: time.Since(startTime),
	}, nil
}

// RenderString renders a template string with the provided data
func (e *TemplateEngine) RenderString(ctx context.Context, name, content string, data any) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", NewRenderError(ErrCodeInvalidHTML, "template content is empty", nil)
	}

	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(content)
	if err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "failed to parse template", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "failed to execute template", err)
	}

	return buf.String(), nil
}

// GetFuncMap returns a copy of the template function map
func (e *TemplateEngine) GetFuncMap() template.FuncMap {
	funcMap := make(template.FuncMap, len(e.funcMap))
	maps.Copy(funcMap, e.funcMap)
	return funcMap
}

// =============================================================================
// Template Functions - Colours
// =============================================================================

// rgbCSS renders a colour as a CSS rgb() value
// Example: {220 38 38} -> "rgb(220, 38, 38)"
func rgbCSS(c printing.RGB) template.CSS {
	return template.CSS(fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B))
}

func mmCSS(v float64) template.CSS {
	return template.CSS(strconv.FormatFloat(v, 'f', -1, 64) + "mm")
}

// hexCSS renders a colour as a CSS hex value
func hexCSS(c printing.RGB) template.CSS {
	return template.CSS(c.Hex())
}

// =============================================================================
// Template Functions - String Utilities
// =============================================================================

// truncate truncates a string to max runes with optional suffix
// Uses rune count for proper UTF-8 handling
func truncate(s string, max int, suffix ...string) string {
	suf := "..."
	if len(suffix) > 0 {
		suf = suffix[0]
	}
	runes := []rune(s)
	sufRunes := []rune(suf)
	if len(runes) <= max {
		return s
	}
	if max <= len(sufRunes) {
		return string(sufRunes[:max])
	}
	return string(runes[:max-len(sufRunes)]) + suf
}

// titleCase converts string to title case using proper Unicode handling
func titleCase(s string) string {
	caser := cases.Title(language.English)
	return caser.String(s)
}

func defaultString(def, val string) string {
	if strings.TrimSpace(val) == "" {
		return def
	}
	return val
}
