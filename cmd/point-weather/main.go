package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/point-weather/internal/api/http"
	"github.com/i474232898/point-weather/internal/config"
	"github.com/i474232898/point-weather/internal/earthengine"
	"github.com/i474232898/point-weather/internal/logging"
	"github.com/i474232898/point-weather/internal/scheduler"
	"github.com/i474232898/point-weather/internal/store"
	"github.com/i474232898/point-weather/internal/weather"
)

const serviceName = "point-weather"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logging.New(serviceName, cfg.Debug, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A failed init leaves eeClient nil; the server still starts and every
	// sample request reports the init failure.
	initCtx, cancelInit := context.WithTimeout(ctx, 30*time.Second)
	eeClient, err := earthengine.New(initCtx, earthengine.Config{
		Project:         cfg.EEProject,
		BaseURL:         cfg.EEBaseURL,
		CredentialsFile: cfg.CredentialsFile,
		Timeout:         cfg.HTTPTimeout,
	}, earthengine.WithLogger(zl.Named("earthengine")))
	cancelInit()
	if err != nil {
		zl.Error("earth engine init failed", zap.Error(err))
	}

	// In-memory sample cache with configured retention.
	memStore := store.NewMemoryStore(cfg.CacheMaxEntries, cfg.CacheTTL)

	var recorder weather.Recorder
	if cfg.BigQueryProject != "" {
		bq, err := store.NewBigQueryRecorder(ctx, cfg.BigQueryProject, cfg.BigQueryDataset, cfg.BigQueryTable, cfg.CredentialsFile)
		if err != nil {
			zl.Error("bigquery recorder disabled", zap.Error(err))
		} else {
			defer bq.Close()
			recorder = bq
		}
	}

	service := weather.NewService(eeClient, memStore, recorder, weather.ServiceConfig{
		Window: cfg.SampleWindow,
		Scale:  cfg.SampleScale,
	}, zl.Named("weather"))

	var geo scheduler.Geocoder
	if cfg.GeocoderAPIKey != "" {
		geo = scheduler.NewGoogleGeocoder(cfg.GeocoderAPIKey)
	}
	sched := scheduler.New(cfg.WarmLocations, cfg.WarmInterval, service, geo, zl)
	if err := sched.Start(); err != nil {
		zl.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.RequestTimeout + 10*time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "*",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":      "ok",
			"service":     serviceName,
			"earthEngine": eeClient != nil,
			"cached":      memStore.Len(),
		})
	})

	httpapi.RegisterRoutes(app, service, httpapi.Options{
		Logger:         zl.Named("http"),
		RequestTimeout: cfg.RequestTimeout,
	})

	go func() {
		zl.Info("listening", zap.String("port", cfg.Port))
		if err := app.Listen(":" + cfg.Port); err != nil {
			zl.Error("fiber server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		zl.Error("error during shutdown", zap.Error(err))
	}
}
