package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theplanbeta/invoice/internal/application/invoice"
	"github.com/theplanbeta/invoice/internal/domain/printing"
	"github.com/theplanbeta/invoice/internal/infrastructure/config"
	infra "github.com/theplanbeta/invoice/internal/infrastructure/printing"
	"github.com/theplanbeta/invoice/internal/infrastructure/storage"
	"go.uber.org/zap/zaptest"
)

func TestNewLogger(t *testing.T) {
	log, err := NewLogger(&config.Config{
		App: config.AppConfig{Name: "planbeta-invoice"},
		Log: config.LogConfig{Level: "debug", Format: "json", Output: "stderr"},
	})
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestNewRenderers_VectorOnly(t *testing.T) {
	r, err := NewRenderers(config.RenderConfig{Timeout: time.Second}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Equal(t, []printing.Format{printing.FormatPDF}, r.Formats())
	assert.NoError(t, r.Close())
}

func TestNewSender(t *testing.T) {
	log := zaptest.NewLogger(t)

	t.Run("needs credentials", func(t *testing.T) {
		_, err := NewSender(config.MailConfig{Host: "smtp-mail.outlook.com", Port: 587}, log)
		require.Error(t, err)
	})

	t.Run("from defaults to the username", func(t *testing.T) {
		sender, err := NewSender(config.MailConfig{
			Host:     "smtp-mail.outlook.com",
			Port:     587,
			Username: "info@planbeta.in",
			Password: "app-password",
			TLS:      "mandatory",
		}, log)
		require.NoError(t, err)
		assert.Equal(t, "info@planbeta.in", sender.FromAddress())
	})
}

func TestNewStorage(t *testing.T) {
	log := zaptest.NewLogger(t)

	t.Run("archiving off", func(t *testing.T) {
		s, err := NewStorage(config.RenderConfig{}, log)
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("archive directory", func(t *testing.T) {
		s, err := NewStorage(config.RenderConfig{ArchiveDir: t.TempDir()}, log)
		require.NoError(t, err)
		assert.IsType(t, &infra.FileSystemStorage{}, s)
	})

	t.Run("bucket wins over directory", func(t *testing.T) {
		s, err := NewStorage(config.RenderConfig{
			ArchiveDir: t.TempDir(),
			ArchiveS3: config.ArchiveS3Config{
				Bucket:       "invoices",
				Endpoint:     "localhost:9000",
				AccessKey:    "minio",
				SecretKey:    "minio-secret",
				UsePathStyle: true,
			},
		}, log)
		require.NoError(t, err)
		assert.IsType(t, &storage.S3Storage{}, s)
	})
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), &config.Config{
		Telemetry: config.TelemetryConfig{ServiceName: "planbeta-invoice"},
	}, "test", zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestServiceOptions(t *testing.T) {
	log := zaptest.NewLogger(t)
	draft := invoice.DraftDTO{
		InvoiceNumber: "INV-20261016-0930",
		Currency:      "EUR",
		Items:         []invoice.LineItemDTO{{Level: "A1", Amount: "12abc"}},
	}

	t.Run("lenient amounts by default", func(t *testing.T) {
		cfg := &config.Config{Render: config.RenderConfig{DefaultFormat: "pdf"}}
		svc := invoice.NewInvoiceService(nil, nil, ServiceOptions(cfg, log)...)

		q, err := svc.Quote(context.Background(), draft)
		require.NoError(t, err)
		assert.Equal(t, "€12.00", q.Totals.Total)
	})

	t.Run("strict amounts", func(t *testing.T) {
		cfg := &config.Config{Render: config.RenderConfig{DefaultFormat: "pdf", StrictAmounts: true}}
		svc := invoice.NewInvoiceService(nil, nil, ServiceOptions(cfg, log)...)

		_, err := svc.Quote(context.Background(), draft)
		require.Error(t, err)
	})

	t.Run("bcc and format are optional", func(t *testing.T) {
		assert.Len(t, ServiceOptions(&config.Config{}, log), 2)
		assert.Len(t, ServiceOptions(&config.Config{
			Render: config.RenderConfig{DefaultFormat: "png"},
			Mail:   config.MailConfig{Bcc: []string{"accounts@planbeta.in"}},
		}, log), 4)
	})
}

func TestRetentionAge(t *testing.T) {
	assert.Equal(t, time.Duration(0), RetentionAge(config.RenderConfig{}))
	assert.Equal(t, 30*24*time.Hour, RetentionAge(config.RenderConfig{RetentionDays: 30}))
}
