package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jonboulle/clockwork"

	httpapi "github.com/climatesense/climatesense/internal/api/http"
	"github.com/climatesense/climatesense/internal/config"
	"github.com/climatesense/climatesense/internal/directive"
	"github.com/climatesense/climatesense/internal/dispatch"
	"github.com/climatesense/climatesense/internal/enrich"
	"github.com/climatesense/climatesense/internal/fetch"
	"github.com/climatesense/climatesense/internal/location"
	"github.com/climatesense/climatesense/internal/news"
	"github.com/climatesense/climatesense/internal/observability"
	"github.com/climatesense/climatesense/internal/orchestrator"
	"github.com/climatesense/climatesense/internal/scheduler"
	"github.com/climatesense/climatesense/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	memStore := store.NewFileStore(cfg.MemoryFilePath, logger)
	directives := directive.NewFile(cfg.ControlFilePath, directive.Directive{Location: cfg.DefaultLocation.Key()}, logger)

	weatherClient := fetch.NewOpenWeatherClient(httpClient, cfg.OpenWeatherAPIKey)

	// The completion client degrades every enrichment stage to its fixed
	// fallback text when no API key is configured.
	gemini := enrich.NewGeminiClient(httpClient, cfg.GeminiAPIKey, cfg.GeminiModel)

	var newsSource news.Source
	if cfg.NewsAPIKey != "" {
		newsSource = news.NewNewsAPIClient(cfg.NewsAPIKey, httpClient)
	} else {
		newsSource = news.NewRSSSource()
	}

	resolver := location.NewResolver(cfg.GeocoderAPIKey, logger)

	dispatchers := []dispatch.Dispatcher{dispatch.NewConsoleBroadcaster(os.Stdout)}
	if cfg.AlertsViaKafka() {
		kafkaPublisher := dispatch.NewKafkaPublisher(cfg.AlertKafkaBrokers, cfg.AlertKafkaTopic, logger)
		defer kafkaPublisher.Close()
		dispatchers = append(dispatchers, kafkaPublisher)
	}

	orch := orchestrator.New(
		orchestrator.Config{
			CycleInterval: cfg.CycleInterval,
			PollInterval:  cfg.DirectivePollInterval,
			TrendWindow:   cfg.TrendWindow,
		},
		weatherClient,
		memStore,
		directives,
		resolver,
		newsSource,
		gemini,
		dispatchers,
		clockwork.NewRealClock(),
		metrics,
		logger,
	)

	// Periodic store maintenance, active only when retention is bounded.
	maintenance := scheduler.NewMaintenance(memStore, cfg.MaintenanceInterval, cfg.StoreMaxHistory, cfg.StoreMaxAge, logger)
	if err := maintenance.Start(); err != nil {
		log.Fatalf("failed to start maintenance scheduler: %v", err)
	}
	defer maintenance.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "climatesense",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})
	app.Use(fiberlogger.New())
	app.Use(recover.New())
	httpapi.RegisterRoutes(app, memStore, directives)

	metricsServer := observability.NewServer(cfg.MetricsAddr, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("api server stopped", "error", err)
		}
	}()
	go func() {
		if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server stopped", "error", err)
		}
	}()

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		orch.Run(ctx)
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during api shutdown", "error", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during metrics shutdown", "error", err)
	}

	select {
	case <-loopDone:
	case <-shutdownCtx.Done():
		logger.Warn("monitoring loop did not stop in time")
	}
}
