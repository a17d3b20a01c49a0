package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/theplanbeta/invoice/internal/application/invoice"
	"github.com/theplanbeta/invoice/internal/bootstrap"
	"github.com/theplanbeta/invoice/internal/infrastructure/config"
	"github.com/theplanbeta/invoice/internal/infrastructure/logger"
	"github.com/theplanbeta/invoice/internal/interfaces/http/handler"
	"github.com/theplanbeta/invoice/internal/interfaces/http/middleware"
	"github.com/theplanbeta/invoice/internal/interfaces/http/router"
	"go.uber.org/zap"

	_ "github.com/theplanbeta/invoice/docs"
)

//	@title			Plan Beta Invoice API
//	@version		1.0
//	@description	Invoice form backend: pricing, document rendering and email delivery for Plan Beta School of German.

//	@contact.name	Plan Beta
//	@contact.url	https://planbeta.in
//	@contact.email	hello@planbeta.in

//	@host		localhost:8080
//	@BasePath	/

var version = "dev"

func main() {
	// No mailbox, no server: configuration errors end the process
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invoice-server: "+err.Error())
		os.Exit(1)
	}

	log, err := bootstrap.NewLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invoice-server: failed to initialize logger: "+err.Error())
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting invoice server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := bootstrap.NewTracerProvider(context.Background(), cfg, version, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	renderers, err := bootstrap.NewRenderers(cfg.Render, log)
	if err != nil {
		log.Fatal("Failed to initialize renderers", zap.Error(err))
	}
	defer func() {
		if err := renderers.Close(); err != nil {
			log.Error("Error closing renderer", zap.Error(err))
		}
	}()

	sender, err := bootstrap.NewSender(cfg.Mail, log)
	if err != nil {
		log.Fatal("Failed to initialize mail sender", zap.Error(err))
	}
	log.Info("Mailbox configured",
		zap.String("host", cfg.Mail.Host),
		zap.Int("port", cfg.Mail.Port),
		zap.String("from", sender.FromAddress()),
	)

	// Documents are returned to the caller and never archived by the server
	service := invoice.NewInvoiceService(renderers, sender, bootstrap.ServiceOptions(cfg, log)...)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine.Use(
		middleware.RequestID(),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tracerProvider.IsEnabled(),
		}),
		middleware.SpanEnricher(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORSWithConfig(corsCfg),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.Timeout(cfg.HTTP.WriteTimeout),
	)

	// Rate limit only the endpoint that sends mail
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	var sendLimit gin.HandlerFunc
	if cfg.HTTP.RateLimitEnabled {
		sendLimit = middleware.RateLimit(middleware.NewRateLimiter(ctx,
			cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow))
	}

	invoiceHandler := handler.NewInvoiceHandler(service)
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, renderers.Formats())

	router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithNoMethod(invoiceHandler.MethodNotAllowed),
		router.WithNoRoute(invoiceHandler.NotFound),
	).
		RegisterRoot(handler.HealthRoutes(systemHandler)).
		RegisterRoot(handler.DeliveryRoutes(invoiceHandler, sendLimit)).
		RegisterRoot(handler.SwaggerRoutes()).
		Register(handler.InvoiceRoutes(invoiceHandler)).
		Register(handler.SystemRoutes(systemHandler)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting",
			zap.String("addr", srv.Addr),
			zap.Any("formats", renderers.Formats()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
