package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/time/rate"

	httpapi "github.com/i474232898/kachelmann-weather/internal/api/http"
	"github.com/i474232898/kachelmann-weather/internal/config"
	"github.com/i474232898/kachelmann-weather/internal/coordinator"
	"github.com/i474232898/kachelmann-weather/internal/kachelmann"
	"github.com/i474232898/kachelmann-weather/internal/scheduler"
	"github.com/i474232898/kachelmann-weather/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Shared HTTP client for all outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Burst of four lets one refresh cycle's fan-out through at once while
	// the sustained rate stays capped.
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), 4)

	api := kachelmann.New(kachelmann.Config{
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		HTTPClient: httpClient,
		Limiter:    limiter,
	})

	snapshots := store.NewSnapshotStore()

	coord := coordinator.New(api, snapshots, coordinator.Config{
		Latitude:        cfg.Latitude,
		Longitude:       cfg.Longitude,
		ForecastEnabled: cfg.ForecastEnabled,
	})

	// The first refresh runs inside Start; the process only comes up with
	// a snapshot already published.
	sched := scheduler.New(coord, cfg.FetchInterval)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "kachelmann-weather",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
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

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		status := "ok"
		if !coord.Healthy() {
			status = "degraded"
		}
		resp := fiber.Map{
			"status":  status,
			"service": "kachelmann-weather",
			"healthy": coord.Healthy(),
		}
		if snap, err := snapshots.Latest(); err == nil {
			resp["lastRefresh"] = snap.FetchedAt
		}
		return c.JSON(resp)
	})

	// API routes.
	httpapi.RegisterRoutes(app, coord)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
