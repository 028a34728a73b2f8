package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/auth"
	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/catalog"
	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/config"
	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/gateway"
	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/logging"
	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/metrics"
	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/orchestration"
	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/session"

	_ "github.com/bizmatters/agent-builder/omniverse-configurator/docs" // swagger docs
)

// @title Omniverse Configurator API
// @version 1.0
// @description Service configurator that turns a domain, service, stack, component and version
// @description selection into a generated multi-file project.
// @description
// @description Sessions hold the cascading selection and the generated files; every session route
// @description requires the bearer token returned when the session is created.

// @contact.name API Support
// @contact.email omniverse@devomniverse.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

// healthChecker is implemented by generators that can report their own health.
type healthChecker interface {
	IsHealthy(ctx context.Context) bool
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	shutdownTracer, err := initTracer()
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}

	cat := catalog.Default()
	if cfg.CatalogFile != "" {
		cat, err = catalog.LoadFile(cfg.CatalogFile)
		if err != nil {
			logger.Fatal("Failed to load catalog", zap.String("path", cfg.CatalogFile), zap.Error(err))
		}
		logger.Info("Loaded catalog", zap.String("path", cfg.CatalogFile))
	}

	generationMetrics, err := metrics.NewGenerationMetrics()
	if err != nil {
		logger.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	// Initialize orchestration layer
	var generator orchestration.Generator = orchestration.StaticGenerator{}
	if cfg.Gemini.APIKey != "" {
		generator, err = orchestration.NewGeminiClient(context.Background(), orchestration.GeminiConfig{
			APIKey:  cfg.Gemini.APIKey,
			Model:   cfg.Gemini.Model,
			BaseURL: cfg.Gemini.BaseURL,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Gemini client", zap.Error(err))
		}
		logger.Info("Using Gemini generator", zap.String("model", cfg.Gemini.Model))
	} else {
		logger.Warn("No Gemini API key configured, using the static generator")
	}
	orchestrationService := orchestration.NewService(generator, generationMetrics, logger)

	store := session.NewStore(cat, cfg.SessionTTL, session.Options{Logger: logger, Metrics: generationMetrics})
	go store.Start()
	defer store.Stop()

	jwtManager, err := auth.NewJWTManager(cfg.JWTSecret)
	if err != nil {
		logger.Fatal("Failed to initialize JWT manager", zap.Error(err))
	}

	// Initialize gateway layer
	gatewayHandler := gateway.NewHandler(cat, store, orchestrationService, jwtManager, cfg.TokenTTL, logger)
	events := gateway.NewEventStream(store, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logging.RequestLogger(logger))

	// Health checks MUST be at the root for the WebService standard
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	router.GET("/ready", func(c *gin.Context) {
		if hc, ok := generator.(healthChecker); ok && !hc.IsHealthy(c.Request.Context()) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"error":  "code generator circuit open",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "sessions": store.Len()})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	gatewayHandler.RegisterRoutes(api, events)

	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// Generation calls are synchronous and can take minutes.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting Omniverse Configurator API server", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := shutdownTracer(ctx); err != nil {
		logger.Warn("Failed to flush traces", zap.Error(err))
	}

	logger.Info("Server exited")
}

// initTracer initializes OpenTelemetry tracing
func initTracer() (func(context.Context) error, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
	)

	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}
