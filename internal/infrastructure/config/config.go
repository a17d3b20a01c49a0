package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Mail      MailConfig
	Render    RenderConfig
	Telemetry TelemetryConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MaxHeaderBytes    int
	MaxBodySize       int64
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	CORSAllowOrigins  []string
	CORSAllowMethods  []string
	CORSAllowHeaders  []string
	TrustedProxies    []string
}

// MailConfig holds the outbound mailbox. Username and Password are required
// and have no defaults.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	FromName string
	From     string   // defaults to Username
	Bcc      []string // defaults to From
	TLS      string   // mandatory, opportunistic, none
	Timeout  time.Duration
}

// RenderConfig holds document rendering settings
type RenderConfig struct {
	DefaultFormat   string
	Timeout         time.Duration
	StrictAmounts   bool
	TemplateDir     string // optional HTML template overrides
	UnicodeFont     string // replaces the embedded TTF of the vector backend
	UnicodeBoldFont string
	CoreFonts       bool // Helvetica without ₹
	ArchiveDir      string // empty disables archiving
	ArchiveS3       ArchiveS3Config
	RetentionDays   int
	Chrome          ChromeConfig
	Image           ImageConfig
}

// ArchiveS3Config points the archive at an S3-compatible bucket. When Bucket
// is set it takes precedence over ArchiveDir.
type ArchiveS3Config struct {
	Bucket            string
	Prefix            string
	Endpoint          string // empty uses AWS
	Region            string
	AccessKey         string
	SecretKey         string
	UseSSL            bool
	UsePathStyle      bool // required by MinIO and most self-hosted services
	PresignExpiration time.Duration
}

// ChromeConfig holds headless browser settings
type ChromeConfig struct {
	Enabled   bool
	RemoteURL string
	ExecPath  string
	NoSandbox bool
	Scale     float64
}

// ImageConfig holds raster output settings
type ImageConfig struct {
	Scale        float64
	MaxWidth     int
	JPEGQuality  int
	WebPQuality  float64
	WebPLossless bool
}

// TelemetryConfig holds OpenTelemetry tracing settings
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string  // OTLP gRPC endpoint, e.g. "localhost:4317"
	SamplingRatio     float64 // 0.0-1.0
	ServiceName       string
	Insecure          bool // plaintext gRPC, development only
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with INVOICE_ prefix (e.g., INVOICE_MAIL_PASSWORD)
// 2. .env file in the working directory
// 3. config.toml
// 4. Built-in defaults
//
// The mailbox credentials have no defaults; Load fails without them.
func Load() (*Config, error) {
	return load(true)
}

// LoadOffline loads configuration for commands that render but never send
// mail, so missing mailbox credentials are not an error.
func LoadOffline() (*Config, error) {
	return load(false)
}

func load(requireMailbox bool) (*Config, error) {
	// A missing .env is normal; real environment variables win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config file settings
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	// Enable environment variable override
	v.SetEnvPrefix("INVOICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Mailbox variable names used by earlier deployments
	_ = v.BindEnv("mail.username", "INVOICE_MAIL_USERNAME", "OUTLOOK_EMAIL")
	_ = v.BindEnv("mail.password", "INVOICE_MAIL_PASSWORD", "OUTLOOK_PASSWORD")

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:       v.GetDuration("http.read_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
			ShutdownTimeout:   v.GetDuration("http.shutdown_timeout"),
			MaxHeaderBytes:    v.GetInt("http.max_header_bytes"),
			MaxBodySize:       v.GetInt64("http.max_body_size"),
			RateLimitEnabled:  v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
			CORSAllowOrigins:  v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:  v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:  v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:    v.GetStringSlice("http.trusted_proxies"),
		},
		Mail: MailConfig{
			Host:     v.GetString("mail.host"),
			Port:     v.GetInt("mail.port"),
			Username: v.GetString("mail.username"),
			Password: v.GetString("mail.password"),
			FromName: v.GetString("mail.from_name"),
			From:     v.GetString("mail.from"),
			Bcc:      v.GetStringSlice("mail.bcc"),
			TLS:      v.GetString("mail.tls"),
			Timeout:  v.GetDuration("mail.timeout"),
		},
		Render: RenderConfig{
			DefaultFormat:   v.GetString("render.default_format"),
			Timeout:         v.GetDuration("render.timeout"),
			StrictAmounts:   v.GetBool("render.strict_amounts"),
			TemplateDir:     v.GetString("render.template_dir"),
			UnicodeFont:     v.GetString("render.unicode_font"),
			UnicodeBoldFont: v.GetString("render.unicode_bold_font"),
			CoreFonts:       v.GetBool("render.core_fonts"),
			ArchiveDir:      v.GetString("render.archive_dir"),
			RetentionDays:   v.GetInt("render.retention_days"),
			ArchiveS3: ArchiveS3Config{
				Bucket:            v.GetString("render.archive_s3.bucket"),
				Prefix:            v.GetString("render.archive_s3.prefix"),
				Endpoint:          v.GetString("render.archive_s3.endpoint"),
				Region:            v.GetString("render.archive_s3.region"),
				AccessKey:         v.GetString("render.archive_s3.access_key"),
				SecretKey:         v.GetString("render.archive_s3.secret_key"),
				UseSSL:            v.GetBool("render.archive_s3.use_ssl"),
				UsePathStyle:      v.GetBool("render.archive_s3.use_path_style"),
				PresignExpiration: v.GetDuration("render.archive_s3.presign_expiration"),
			},
			Chrome: ChromeConfig{
				Enabled:   v.GetBool("render.chrome.enabled"),
				RemoteURL: v.GetString("render.chrome.remote_url"),
				ExecPath:  v.GetString("render.chrome.exec_path"),
				NoSandbox: v.GetBool("render.chrome.no_sandbox"),
				Scale:     v.GetFloat64("render.chrome.scale"),
			},
			Image: ImageConfig{
				Scale:        v.GetFloat64("render.image.scale"),
				MaxWidth:     v.GetInt("render.image.max_width"),
				JPEGQuality:  v.GetInt("render.image.jpeg_quality"),
				WebPQuality:  v.GetFloat64("render.image.webp_quality"),
				WebPLossless: v.GetBool("render.image.webp_lossless"),
			},
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
		},
	}

	// Apply defaults for empty values
	applyDefaults(cfg)

	if requireMailbox {
		if err := cfg.validateMailbox(); err != nil {
			return nil, err
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "planbeta-invoice"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		// Rendering through Chrome and the SMTP round trip both happen inside a request
		cfg.HTTP.WriteTimeout = 90 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 30 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 15 << 20 // base64 of a ~10MB document
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 20
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	// An empty origin list allows no cross-origin requests until configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Request-ID"}
	}

	if cfg.Mail.Host == "" {
		cfg.Mail.Host = "smtp-mail.outlook.com"
	}
	if cfg.Mail.Port == 0 {
		cfg.Mail.Port = 587
	}
	if cfg.Mail.FromName == "" {
		cfg.Mail.FromName = "Plan Beta School of German"
	}
	if cfg.Mail.From == "" {
		cfg.Mail.From = cfg.Mail.Username
	}
	if len(cfg.Mail.Bcc) == 0 && cfg.Mail.From != "" {
		cfg.Mail.Bcc = []string{cfg.Mail.From}
	}
	if cfg.Mail.TLS == "" {
		cfg.Mail.TLS = "mandatory"
	}
	if cfg.Mail.Timeout == 0 {
		cfg.Mail.Timeout = 30 * time.Second
	}

	if cfg.Render.DefaultFormat == "" {
		cfg.Render.DefaultFormat = "pdf"
	}
	if cfg.Render.Timeout == 0 {
		cfg.Render.Timeout = 30 * time.Second
	}
	if cfg.Render.Chrome.Scale == 0 {
		cfg.Render.Chrome.Scale = 1.0
	}
	if cfg.Render.Image.Scale == 0 {
		cfg.Render.Image.Scale = 2.0
	}
	if cfg.Render.Image.JPEGQuality == 0 {
		cfg.Render.Image.JPEGQuality = 95
	}
	if cfg.Render.Image.WebPQuality == 0 {
		cfg.Render.Image.WebPQuality = 90
	}

	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	// Zero means "not set"; sample everything unless a ratio is configured
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
}

// validateMailbox rejects a configuration without mailbox credentials
func (c *Config) validateMailbox() error {
	if c.Mail.Username == "" {
		return fmt.Errorf("mail.username is required (set INVOICE_MAIL_USERNAME)")
	}
	if c.Mail.Password == "" {
		return fmt.Errorf("mail.password is required (set INVOICE_MAIL_PASSWORD)")
	}
	return nil
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Mail.TLS {
	case "mandatory", "opportunistic", "none":
	default:
		return fmt.Errorf("mail.tls must be mandatory, opportunistic or none, got %q", c.Mail.TLS)
	}
	if c.Mail.Port <= 0 || c.Mail.Port > 65535 {
		return fmt.Errorf("mail.port must be between 1 and 65535, got %d", c.Mail.Port)
	}

	switch c.Render.DefaultFormat {
	case "pdf", "html-pdf", "png", "jpeg", "webp":
	default:
		return fmt.Errorf("render.default_format %q is not a supported format", c.Render.DefaultFormat)
	}
	if c.Render.DefaultFormat != "pdf" && !c.Render.Chrome.Enabled {
		return fmt.Errorf("render.default_format %q needs render.chrome.enabled", c.Render.DefaultFormat)
	}
	if c.Render.Image.JPEGQuality < 1 || c.Render.Image.JPEGQuality > 100 {
		return fmt.Errorf("render.image.jpeg_quality must be between 1 and 100, got %d", c.Render.Image.JPEGQuality)
	}
	if c.Render.Image.WebPQuality < 0 || c.Render.Image.WebPQuality > 100 {
		return fmt.Errorf("render.image.webp_quality must be between 0 and 100, got %f", c.Render.Image.WebPQuality)
	}
	if s3 := c.Render.ArchiveS3; s3.Bucket != "" && (s3.AccessKey == "" || s3.SecretKey == "") {
		return fmt.Errorf("render.archive_s3 needs access_key and secret_key when bucket is set")
	}
	if c.Render.RetentionDays < 0 {
		return fmt.Errorf("render.retention_days cannot be negative")
	}
	if c.Telemetry.SamplingRatio < 0 || c.Telemetry.SamplingRatio > 1 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if c.Mail.TLS == "none" {
			return fmt.Errorf("mail.tls cannot be 'none' in production")
		}
		// CORS must not use wildcard in production
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	return nil
}

// IsProduction reports whether the app runs with production settings
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
