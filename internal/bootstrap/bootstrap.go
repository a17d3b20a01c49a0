// Package bootstrap assembles the invoice service from configuration. The
// HTTP server and the invoicectl command share it.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/theplanbeta/invoice/internal/application/invoice"
	"github.com/theplanbeta/invoice/internal/domain/printing"
	"github.com/theplanbeta/invoice/internal/infrastructure/config"
	"github.com/theplanbeta/invoice/internal/infrastructure/logger"
	"github.com/theplanbeta/invoice/internal/infrastructure/mail"
	infra "github.com/theplanbeta/invoice/internal/infrastructure/printing"
	"github.com/theplanbeta/invoice/internal/infrastructure/storage"
	"github.com/theplanbeta/invoice/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// NewLogger creates the process logger from the log section
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(&logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.App.Name,
	})
}

// NewTracerProvider installs the global tracer provider from the telemetry
// section. A disabled section leaves the no-op provider in place.
func NewTracerProvider(ctx context.Context, cfg *config.Config, version string, log *zap.Logger) (*telemetry.TracerProvider, error) {
	return telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, logger.Named(log, "telemetry"))
}

// Renderers holds the configured backends. Close releases the browser when
// one was started.
type Renderers struct {
	*infra.RendererSet
	converter infra.HTMLConverter
}

// Close shuts down the headless browser, if any
func (r *Renderers) Close() error {
	if r.converter == nil {
		return nil
	}
	return r.converter.Close()
}

// NewRenderers builds the vector backend and, when Chrome is enabled, the
// HTML backend for html-pdf and image formats.
func NewRenderers(cfg config.RenderConfig, log *zap.Logger) (*Renderers, error) {
	vector := infra.NewVectorRenderer(&infra.VectorConfig{
		UnicodeFont:     cfg.UnicodeFont,
		UnicodeBoldFont: cfg.UnicodeBoldFont,
		CoreFonts:       cfg.CoreFonts,
		Logger:          logger.Named(log, "vector"),
	})
	if !cfg.Chrome.Enabled {
		return &Renderers{RendererSet: infra.NewRendererSet(vector)}, nil
	}

	converter, err := infra.NewChromedpConverter(&infra.ChromedpConfig{
		DefaultTimeout: cfg.Timeout,
		RemoteURL:      cfg.Chrome.RemoteURL,
		ExecPath:       cfg.Chrome.ExecPath,
		NoSandbox:      cfg.Chrome.NoSandbox,
		Scale:          cfg.Chrome.Scale,
		ImageScale:     cfg.Image.Scale,
		Logger:         logger.Named(log, "chromedp"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start chrome: %w", err)
	}

	templates, err := infra.NewTemplateStore(&infra.TemplateStoreConfig{ExternalDir: cfg.TemplateDir})
	if err != nil {
		_ = converter.Close()
		return nil, err
	}
	html, err := infra.NewHTMLRenderer(infra.HTMLRendererConfig{
		Converter: converter,
		Templates: templates,
		Encoder: infra.NewImageEncoder(infra.ImageEncoderConfig{
			MaxWidth:     cfg.Image.MaxWidth,
			JPEGQuality:  cfg.Image.JPEGQuality,
			WebPQuality:  float32(cfg.Image.WebPQuality),
			WebPLossless: cfg.Image.WebPLossless,
		}),
		Logger: logger.Named(log, "html"),
	})
	if err != nil {
		_ = converter.Close()
		return nil, err
	}

	return &Renderers{RendererSet: infra.NewRendererSet(vector, html), converter: converter}, nil
}

// NewSender creates the SMTP sender for the configured mailbox
func NewSender(cfg config.MailConfig, log *zap.Logger) (*mail.SMTPSender, error) {
	return mail.NewSMTPSender(mail.SMTPConfig{
		Host:        cfg.Host,
		Port:        cfg.Port,
		Username:    cfg.Username,
		Password:    cfg.Password,
		FromName:    cfg.FromName,
		FromAddress: cfg.From,
		TLS:         cfg.TLS,
		Timeout:     cfg.Timeout,
		Logger:      logger.Named(log, "smtp"),
	})
}

// NewStorage opens the configured archive: the S3 bucket when one is set,
// else the archive directory. It returns nil when archiving is off.
func NewStorage(cfg config.RenderConfig, log *zap.Logger) (infra.DocumentStorage, error) {
	if cfg.ArchiveS3.Bucket != "" {
		return storage.NewS3Storage(&cfg.ArchiveS3, storage.WithLogger(logger.Named(log, "archive")))
	}
	if cfg.ArchiveDir == "" {
		return nil, nil
	}
	return infra.NewFileSystemStorage(&infra.FileSystemStorageConfig{
		BasePath: cfg.ArchiveDir,
		Logger:   logger.Named(log, "archive"),
	})
}

// ServiceOptions returns the service options implied by cfg
func ServiceOptions(cfg *config.Config, log *zap.Logger) []invoice.Option {
	opts := []invoice.Option{
		invoice.WithStrictAmounts(cfg.Render.StrictAmounts),
		invoice.WithLogger(logger.Named(log, "invoice")),
	}
	if f, err := printing.ParseFormat(cfg.Render.DefaultFormat); err == nil {
		opts = append(opts, invoice.WithDefaultFormat(f))
	}
	if len(cfg.Mail.Bcc) > 0 {
		opts = append(opts, invoice.WithBcc(cfg.Mail.Bcc...))
	}
	return opts
}

// RetentionAge converts the configured retention to a duration; zero keeps
// documents forever.
func RetentionAge(cfg config.RenderConfig) time.Duration {
	return time.Duration(cfg.RetentionDays) * 24 * time.Hour
}
