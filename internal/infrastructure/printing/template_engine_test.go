package printing

import (
	"context"
	"html/template"
	"os"
	"path/filepath"
	"testing"

	"github.com/theplanbeta/invoice/internal/domain/printing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTemplateEngine(t *testing.T) {
	engine := NewTemplateEngine()
	funcMap := engine.GetFuncMap()

	for _, name := range []string{"rgb", "hex", "upper", "title", "truncate", "default"} {
		assert.NotNil(t, funcMap[name], name)
	}
}

func TestTemplateEngine_WithFuncs(t *testing.T) {
	engine := NewTemplateEngine(WithFuncs(template.FuncMap{
		"shout": func(s string) string { return s + "!" },
	}))

	out, err := engine.RenderString(context.Background(), "t", `{{shout .}}`, "hallo")
	require.NoError(t, err)
	assert.Equal(t, "hallo!", out)
}

func TestTemplateEngine_RenderString(t *testing.T) {
	engine := NewTemplateEngine()
	ctx := context.Background()

	tests := []struct {
		name     string
		content  string
		data     any
		want     string
		wantCode string
	}{
		{"simple", `Hello, {{.}}!`, "World", "Hello, World!", ""},
		{"escapes", `<p>{{.}}</p>`, "<b>", "<p>&lt;b&gt;</p>", ""},
		{"colour", `<div style="color: {{rgb .}}"></div>`, printing.RGB{R: 1, G: 2, B: 3},
			`<div style="color: rgb(1, 2, 3)"></div>`, ""},
		{"empty", "  ", nil, "", ErrCodeInvalidHTML},
		{"parse error", `{{.Name`, nil, "", ErrCodeTemplateFailed},
		{"exec error", `{{.Missing.Field}}`, struct{}{}, "", ErrCodeTemplateFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := engine.RenderString(ctx, tt.name, tt.content, tt.data)
			if tt.wantCode != "" {
				var renderErr *RenderError
				require.ErrorAs(t, err, &renderErr)
				assert.Equal(t, tt.wantCode, renderErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestTemplateEngine_RenderInvoice_Errors(t *testing.T) {
	engine := NewTemplateEngine()

	_, err := engine.RenderInvoice(context.Background(), nil, testView(true))
	assert.Error(t, err)

	_, err = engine.RenderInvoice(context.Background(), &StaticTemplate{Content: "x"}, nil)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidView, renderErr.Code)
}

func TestPolicyGeometryFuncs(t *testing.T) {
	funcs := NewTemplateEngine().GetFuncMap()
	assert.Equal(t, template.CSS("240mm"), funcs["policyBottom"].(func() template.CSS)())
	assert.Equal(t, template.CSS("4.5mm"), funcs["policyLineHeight"].(func() template.CSS)())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Deutsc...", truncate("Deutschkurs", 9))
	assert.Equal(t, "Mü…", truncate("Müller", 3, "…"))
	assert.Equal(t, "..", truncate("abcdef", 2))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Morning Batch", titleCase("morning batch"))
}

func TestDefaultString(t *testing.T) {
	assert.Equal(t, "n/a", defaultString("n/a", " "))
	assert.Equal(t, "x", defaultString("n/a", "x"))
}

func TestTemplateStore(t *testing.T) {
	t.Run("embedded", func(t *testing.T) {
		store, err := NewTemplateStore(nil)
		require.NoError(t, err)

		tmpl, ok := store.Get(InvoiceTemplateA4)
		require.True(t, ok)
		assert.False(t, tmpl.External)
		assert.Equal(t, printing.PaperSizeA4, tmpl.PaperSize)
		assert.Contains(t, tmpl.Content, "{{.Header.Brand}}")

		_, ok = store.Get("missing.html")
		assert.False(t, ok)
	})

	t.Run("external override", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, InvoiceTemplateA4), []byte("<p>{{.FileStem}}</p>"), 0o644))

		store, err := NewTemplateStore(&TemplateStoreConfig{ExternalDir: dir})
		require.NoError(t, err)

		tmpl, ok := store.Get(InvoiceTemplateA4)
		require.True(t, ok)
		assert.True(t, tmpl.External)
		assert.Equal(t, "<p>{{.FileStem}}</p>", tmpl.Content)
	})

	t.Run("missing external dir falls back", func(t *testing.T) {
		store, err := NewTemplateStore(&TemplateStoreConfig{ExternalDir: filepath.Join(t.TempDir(), "none")})
		require.NoError(t, err)
		tmpl, ok := store.Get(InvoiceTemplateA4)
		require.True(t, ok)
		assert.False(t, tmpl.External)
	})
}
