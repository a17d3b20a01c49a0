package printing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DocumentStorage archives rendered invoices
type DocumentStorage interface {
	// Store saves a document and returns its relative path
	Store(ctx context.Context, req *StoreRequest) (*StoreResult, error)
	// Get retrieves a document by its relative path
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete removes a document
	Delete(ctx context.Context, path string) error
	// CleanupOlderThan removes documents older than the specified duration
	CleanupOlderThan(ctx context.Context, age time.Duration) (int, error)
}

// StoreRequest contains the parameters for storing a document
type StoreRequest struct {
	// Filename is the bare file name, e.g. PlanBeta_Invoice_INV-1_Anna.pdf
	Filename string
	// Data is the raw content
	Data []byte
	// IssuedAt picks the year/month directory; zero means now
	IssuedAt time.Time
}

// StoreResult contains the result of storing a document
type StoreResult struct {
	// Path is the storage path (relative to base)
	Path string
	// Size is the file size in bytes
	Size int64
}

// FileSystemStorageConfig contains configuration for file system storage
type FileSystemStorageConfig struct {
	// BasePath is the root directory
	// Default: ./invoices
	BasePath string
	// Flat stores files directly in BasePath instead of year/month folders
	Flat bool
	// Logger for operations
	Logger *zap.Logger
}

// FileSystemStorage stores documents on the local file system
type FileSystemStorage struct {
	config *FileSystemStorageConfig
	logger *zap.Logger
}

// NewFileSystemStorage creates a new file system based storage
func NewFileSystemStorage(config *FileSystemStorageConfig) (*FileSystemStorage, error) {
	if config == nil {
		config = &FileSystemStorageConfig{}
	}
	if config.BasePath == "" {
		config.BasePath = "./invoices"
	}

	// Ensure base directory exists
	if err := os.MkdirAll(config.BasePath, 0o755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed,
			fmt.Sprintf("failed to create storage directory: %s", config.BasePath), err)
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FileSystemStorage{
		config: config,
		logger: logger,
	}, nil
}

// Store writes a document.
// Path structure: {base}/{year}/{month}/{filename}, or {base}/{filename} when flat
func (s *FileSystemStorage) Store(ctx context.Context, req *StoreRequest) (*StoreResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "operation cancelled", err)
	}
	if req == nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "store request is nil", nil)
	}
	if !IsPlainFilename(req.Filename) {
		return nil, NewRenderError(ErrCodeStorageFailed, "invalid filename: "+req.Filename, nil)
	}
	if len(req.Data) == 0 {
		return nil, NewRenderError(ErrCodeStorageFailed, "document data is empty", nil)
	}

	relativePath := req.Filename
	if !s.config.Flat {
		issued := req.IssuedAt
		if issued.IsZero() {
			issued = time.Now()
		}
		relativePath = filepath.Join(
			fmt.Sprintf("%d", issued.Year()),
			fmt.Sprintf("%02d", issued.Month()),
			req.Filename,
		)
	}

	fullPath := filepath.Join(s.config.BasePath, relativePath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to create directory", err)
	}
	if err := os.WriteFile(fullPath, req.Data, 0o644); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to write document", err)
	}

	s.logger.Info("document stored",
		zap.String("path", fullPath),
		zap.Int("size", len(req.Data)))

	return &StoreResult{
		Path: filepath.ToSlash(relativePath),
		Size: int64(len(req.Data)),
	}, nil
}

// Get retrieves a document by its relative path
func (s *FileSystemStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "operation cancelled", err)
	}

	fullPath, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewRenderError(ErrCodeStorageFailed, "document not found", err)
		}
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to open document", err)
	}
	return file, nil
}

// Delete removes a document; deleting a missing document is not an error
func (s *FileSystemStorage) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return NewRenderError(ErrCodeStorageFailed, "operation cancelled", err)
	}

	fullPath, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return NewRenderError(ErrCodeStorageFailed, "failed to delete document", err)
	}

	s.logger.Info("document deleted", zap.String("path", path))
	return nil
}

// resolve maps a relative path under BasePath, rejecting traversal
func (s *FileSystemStorage) resolve(path string) (string, error) {
	cleanPath := filepath.Clean(path)
	if filepath.IsAbs(cleanPath) || containsDotDot(path) { // Check raw path for ".."
		s.logger.Warn("blocked potentially malicious path",
			zap.String("path", path),
			zap.String("cleanPath", cleanPath))
		return "", NewRenderError(ErrCodeStorageFailed, "invalid path", nil)
	}

	fullPath := filepath.Join(s.config.BasePath, cleanPath)

	absBase, err := filepath.Abs(s.config.BasePath)
	if err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "failed to resolve base path", err)
	}
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "failed to resolve file path", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		s.logger.Warn("path escape attempt blocked",
			zap.String("path", path),
			zap.String("absPath", absPath),
			zap.String("absBase", absBase))
		return "", NewRenderError(ErrCodeStorageFailed, "invalid path", nil)
	}
	return fullPath, nil
}

// CleanupOlderThan removes documents older than the specified duration
func (s *FileSystemStorage) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := time.Now().Add(-age)
	deletedCount := 0

	err := filepath.WalkDir(s.config.BasePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !isArchivedDocument(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err == nil {
				deletedCount++
				s.logger.Debug("deleted old document", zap.String("path", path))
			}
		}
		return nil
	})

	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return deletedCount, NewRenderError(ErrCodeStorageFailed, "cleanup walk failed", err)
	}

	s.logger.Info("cleanup completed",
		zap.Int("deleted", deletedCount),
		zap.Duration("age", age))

	return deletedCount, nil
}

// isArchivedDocument reports whether path has an output format extension
func isArchivedDocument(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".png", ".jpg", ".webp":
		return true
	}
	return false
}

// containsDotDot checks if a path contains ".." components
func containsDotDot(path string) bool {
	// Split on both separators before any normalization
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\' || r == filepath.Separator
	})
	return slices.Contains(parts, "..")
}

// IsPlainFilename reports whether name is a single path element that stays
// inside the directory it is joined to. Document names embed the invoice
// number as typed.
func IsPlainFilename(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

// Ensure FileSystemStorage implements DocumentStorage
var _ DocumentStorage = (*FileSystemStorage)(nil)
