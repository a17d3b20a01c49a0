package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"INVOICE_APP_NAME":                  os.Getenv("INVOICE_APP_NAME"),
		"INVOICE_APP_ENV":                   os.Getenv("INVOICE_APP_ENV"),
		"INVOICE_APP_PORT":                  os.Getenv("INVOICE_APP_PORT"),
		"INVOICE_MAIL_HOST":                 os.Getenv("INVOICE_MAIL_HOST"),
		"INVOICE_MAIL_PORT":                 os.Getenv("INVOICE_MAIL_PORT"),
		"INVOICE_MAIL_USERNAME":             os.Getenv("INVOICE_MAIL_USERNAME"),
		"INVOICE_MAIL_PASSWORD":             os.Getenv("INVOICE_MAIL_PASSWORD"),
		"INVOICE_MAIL_FROM":                 os.Getenv("INVOICE_MAIL_FROM"),
		"INVOICE_MAIL_TLS":                  os.Getenv("INVOICE_MAIL_TLS"),
		"INVOICE_RENDER_DEFAULT_FORMAT":     os.Getenv("INVOICE_RENDER_DEFAULT_FORMAT"),
		"INVOICE_RENDER_STRICT_AMOUNTS":     os.Getenv("INVOICE_RENDER_STRICT_AMOUNTS"),
		"INVOICE_RENDER_CORE_FONTS":         os.Getenv("INVOICE_RENDER_CORE_FONTS"),
		"INVOICE_RENDER_CHROME_ENABLED":     os.Getenv("INVOICE_RENDER_CHROME_ENABLED"),
		"INVOICE_RENDER_IMAGE_JPEG_QUALITY": os.Getenv("INVOICE_RENDER_IMAGE_JPEG_QUALITY"),
		"INVOICE_RENDER_RETENTION_DAYS":     os.Getenv("INVOICE_RENDER_RETENTION_DAYS"),
		"INVOICE_HTTP_CORS_ALLOW_ORIGINS":   os.Getenv("INVOICE_HTTP_CORS_ALLOW_ORIGINS"),
		"OUTLOOK_EMAIL":                     os.Getenv("OUTLOOK_EMAIL"),
		"OUTLOOK_PASSWORD":                  os.Getenv("OUTLOOK_PASSWORD"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	setMailbox := func() {
		os.Setenv("INVOICE_MAIL_USERNAME", "info@planbeta.in")
		os.Setenv("INVOICE_MAIL_PASSWORD", "app-password")
	}

	t.Run("fails without mailbox credentials", func(t *testing.T) {
		clearEnv()

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mail.username is required")
	})

	t.Run("fails without mailbox password", func(t *testing.T) {
		clearEnv()
		os.Setenv("INVOICE_MAIL_USERNAME", "info@planbeta.in")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mail.password is required")
	})

	t.Run("loads default values when only credentials are set", func(t *testing.T) {
		clearEnv()
		setMailbox()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "planbeta-invoice", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "smtp-mail.outlook.com", cfg.Mail.Host)
		assert.Equal(t, 587, cfg.Mail.Port)
		assert.Equal(t, "Plan Beta School of German", cfg.Mail.FromName)
		assert.Equal(t, "info@planbeta.in", cfg.Mail.From)
		assert.Equal(t, []string{"info@planbeta.in"}, cfg.Mail.Bcc)
		assert.Equal(t, "mandatory", cfg.Mail.TLS)
		assert.Equal(t, 30*time.Second, cfg.Mail.Timeout)
		assert.Equal(t, "pdf", cfg.Render.DefaultFormat)
		assert.False(t, cfg.Render.StrictAmounts)
		assert.False(t, cfg.Render.CoreFonts)
		assert.False(t, cfg.Render.Chrome.Enabled)
		assert.Equal(t, 2.0, cfg.Render.Image.Scale)
		assert.Equal(t, 95, cfg.Render.Image.JPEGQuality)
		assert.Equal(t, 90.0, cfg.Render.Image.WebPQuality)
	})

	t.Run("loads values from environment variables with INVOICE prefix", func(t *testing.T) {
		clearEnv()
		setMailbox()
		os.Setenv("INVOICE_APP_NAME", "test-app")
		os.Setenv("INVOICE_APP_ENV", "testing")
		os.Setenv("INVOICE_APP_PORT", "9000")
		os.Setenv("INVOICE_MAIL_HOST", "smtp.example.com")
		os.Setenv("INVOICE_MAIL_PORT", "2525")
		os.Setenv("INVOICE_MAIL_FROM", "billing@planbeta.in")
		os.Setenv("INVOICE_MAIL_TLS", "opportunistic")
		os.Setenv("INVOICE_RENDER_STRICT_AMOUNTS", "true")
		os.Setenv("INVOICE_RENDER_CORE_FONTS", "true")
		os.Setenv("INVOICE_RENDER_CHROME_ENABLED", "true")
		os.Setenv("INVOICE_RENDER_DEFAULT_FORMAT", "png")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "smtp.example.com", cfg.Mail.Host)
		assert.Equal(t, 2525, cfg.Mail.Port)
		assert.Equal(t, "billing@planbeta.in", cfg.Mail.From)
		assert.Equal(t, []string{"billing@planbeta.in"}, cfg.Mail.Bcc)
		assert.Equal(t, "opportunistic", cfg.Mail.TLS)
		assert.True(t, cfg.Render.StrictAmounts)
		assert.True(t, cfg.Render.CoreFonts)
		assert.True(t, cfg.Render.Chrome.Enabled)
		assert.Equal(t, "png", cfg.Render.DefaultFormat)
	})

	t.Run("accepts legacy mailbox variable names", func(t *testing.T) {
		clearEnv()
		os.Setenv("OUTLOOK_EMAIL", "legacy@planbeta.in")
		os.Setenv("OUTLOOK_PASSWORD", "legacy-password")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "legacy@planbeta.in", cfg.Mail.Username)
		assert.Equal(t, "legacy-password", cfg.Mail.Password)
	})

	t.Run("offline load does not need a mailbox", func(t *testing.T) {
		clearEnv()

		cfg, err := LoadOffline()
		require.NoError(t, err)
		assert.Empty(t, cfg.Mail.Username)
		assert.Empty(t, cfg.Mail.Bcc)
		assert.Equal(t, "pdf", cfg.Render.DefaultFormat)
	})

	t.Run("raster default format requires chrome", func(t *testing.T) {
		clearEnv()
		setMailbox()
		os.Setenv("INVOICE_RENDER_DEFAULT_FORMAT", "webp")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "render.chrome.enabled")
	})

	t.Run("rejects unknown TLS policy", func(t *testing.T) {
		clearEnv()
		setMailbox()
		os.Setenv("INVOICE_MAIL_TLS", "ssl")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mail.tls")
	})

	t.Run("rejects wildcard CORS in production", func(t *testing.T) {
		clearEnv()
		setMailbox()
		os.Setenv("INVOICE_APP_ENV", "production")
		os.Setenv("INVOICE_HTTP_CORS_ALLOW_ORIGINS", "*")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors_allow_origins")
	})

	t.Run("rejects out of range jpeg quality", func(t *testing.T) {
		clearEnv()
		setMailbox()
		os.Setenv("INVOICE_RENDER_IMAGE_JPEG_QUALITY", "101")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jpeg_quality")
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{Mail: MailConfig{Username: "u@planbeta.in", Password: "p"}}
		applyDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults are valid", func(c *Config) {}, ""},
		{"missing username", func(c *Config) { c.Mail.Username = "" }, "mail.username"},
		{"missing password", func(c *Config) { c.Mail.Password = "" }, "mail.password"},
		{"bad port", func(c *Config) { c.Mail.Port = 70000 }, "mail.port"},
		{"unknown format", func(c *Config) { c.Render.DefaultFormat = "gif" }, "default_format"},
		{"bucket without keys", func(c *Config) { c.Render.ArchiveS3.Bucket = "invoices" }, "archive_s3"},
		{"negative retention", func(c *Config) { c.Render.RetentionDays = -1 }, "retention_days"},
		{"webp quality out of range", func(c *Config) { c.Render.Image.WebPQuality = 150 }, "webp_quality"},
		{"sampling ratio above one", func(c *Config) { c.Telemetry.SamplingRatio = 1.5 }, "sampling_ratio"},
		{"plaintext smtp in production", func(c *Config) {
			c.App.Env = "production"
			c.Mail.TLS = "none"
		}, "mail.tls"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.validateMailbox()
			if err == nil {
				err = cfg.validate()
			}
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Mail: MailConfig{
			Username: "u@planbeta.in",
			From:     "billing@planbeta.in",
			Bcc:      []string{"archive@planbeta.in"},
			Port:     465,
		},
		Render: RenderConfig{DefaultFormat: "html-pdf"},
	}
	applyDefaults(cfg)

	assert.Equal(t, "billing@planbeta.in", cfg.Mail.From)
	assert.Equal(t, []string{"archive@planbeta.in"}, cfg.Mail.Bcc)
	assert.Equal(t, 465, cfg.Mail.Port)
	assert.Equal(t, "html-pdf", cfg.Render.DefaultFormat)
	assert.Equal(t, "planbeta-invoice", cfg.Telemetry.ServiceName)
	assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
	assert.True(t, (&Config{App: AppConfig{Env: "production"}}).IsProduction())
}
