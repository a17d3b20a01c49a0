package printing

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/theplanbeta/invoice/internal/domain/printing"
)

//go:embed templates/*.html
var templateFS embed.FS

// InvoiceTemplateA4 is the file name of the built-in A4 invoice layout
const InvoiceTemplateA4 = "invoice_a4.html"

// DefaultTemplate describes a built-in HTML layout
type DefaultTemplate struct {
	Name        string
	Description string
	PaperSize   printing.PaperSize
	Margins     printing.Margins
	FilePath    string // Path within embed.FS
}

// GetDefaultTemplates returns the built-in template configurations
func GetDefaultTemplates() []DefaultTemplate {
	return []DefaultTemplate{
		{
			Name:        InvoiceTemplateA4,
			Description: "Single page A4 course fee invoice",
			PaperSize:   printing.PaperSizeA4,
			Margins:     printing.FullBleed(),
			FilePath:    "templates/" + InvoiceTemplateA4,
		},
	}
}

// LoadTemplateContent loads a template from the embedded filesystem
func LoadTemplateContent(path string) (string, error) {
	content, err := templateFS.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read embedded template %s: %w", path, err)
	}
	return string(content), nil
}

// TemplateStore holds the HTML layouts. Files in ExternalDir with the same
// name as a built-in template replace it.
type TemplateStore struct {
	externalDir string
	templates   map[string]StaticTemplate
	mu          sync.RWMutex
}

// StaticTemplate is a layout with its content loaded
type StaticTemplate struct {
	DefaultTemplate
	Content  string
	External bool
}

// TemplateStoreConfig configures the template store
type TemplateStoreConfig struct {
	// ExternalDir overrides built-in templates by file name.
	// If empty or a file is missing, embedded templates are used.
	ExternalDir string
}

// NewTemplateStore creates a new template store
func NewTemplateStore(config *TemplateStoreConfig) (*TemplateStore, error) {
	store := &TemplateStore{}
	if config != nil {
		store.externalDir = config.ExternalDir
	}
	if err := store.Reload(); err != nil {
		return nil, err
	}
	return store, nil
}

// Reload reads every template again
func (s *TemplateStore) Reload() error {
	defaults := GetDefaultTemplates()
	loaded := make(map[string]StaticTemplate, len(defaults))

	for _, dt := range defaults {
		content, external, err := s.loadTemplateContent(dt.FilePath)
		if err != nil {
			return fmt.Errorf("failed to load template %s: %w", dt.Name, err)
		}
		loaded[dt.Name] = StaticTemplate{DefaultTemplate: dt, Content: content, External: external}
	}

	s.mu.Lock()
	s.templates = loaded
	s.mu.Unlock()
	return nil
}

// loadTemplateContent loads template content from the external dir or embedded
func (s *TemplateStore) loadTemplateContent(embeddedPath string) (string, bool, error) {
	if s.externalDir != "" {
		externalPath := filepath.Join(s.externalDir, filepath.Base(embeddedPath))
		if content, err := os.ReadFile(externalPath); err == nil {
			return string(content), true, nil
		}
	}
	content, err := LoadTemplateContent(embeddedPath)
	return content, false, err
}

// Get returns a template by name
func (s *TemplateStore) Get(name string) (*StaticTemplate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.templates[name]
	if !ok {
		return nil, false
	}
	return &t, true
}
