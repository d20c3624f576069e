package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/weather-lookup/internal/api/http"
	"github.com/i474232898/weather-lookup/internal/cli"
	"github.com/i474232898/weather-lookup/internal/config"
	"github.com/i474232898/weather-lookup/internal/scheduler"
	"github.com/i474232898/weather-lookup/internal/store"
	"github.com/i474232898/weather-lookup/internal/weather"
	"github.com/i474232898/weather-lookup/internal/weather/providers"
)

func run() int {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		return 1
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	weatherClient := providers.NewOpenWeatherClient(httpClient, cfg.OpenWeatherAPIKey)
	imageClient := providers.NewUnsplashClient(httpClient, cfg.UnsplashAccessKey)

	newOrchestrator := func(opts ...weather.Option) (*weather.Orchestrator, error) {
		opts = append([]weather.Option{weather.WithBackdropQuery(cfg.BackdropQuery)}, opts...)
		return weather.NewOrchestrator(weatherClient, imageClient, opts...)
	}

	root := cli.New(cli.Deps{
		NewOrchestrator: newOrchestrator,
		Serve: func(cmd *cobra.Command) error {
			return serve(cmd.Context(), cfg, func() (*weather.Orchestrator, error) {
				return newOrchestrator()
			})
		},
	})

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		// A failed search already printed its message.
		if !errors.Is(err, cli.ErrQueryFailed) {
			slog.Error("command failed", slog.Any("error", err))
		}
		return 1
	}
	return 0
}

func serve(ctx context.Context, cfg *config.AppConfig, newOrchestrator httpapi.OrchestratorFactory) error {
	sessions := store.NewSessionStore(cfg.SessionMaxCount, cfg.SessionMaxAge)

	// Scheduler that periodically evicts idle sessions.
	sched := scheduler.New(sessions, cfg.SessionSweepInterval)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-lookup",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		// A search waits for two provider calls in a row.
		WriteTimeout: 2*cfg.HTTPTimeout + 5*time.Second,
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

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-lookup",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, sessions, newOrchestrator)

	listenErr := make(chan error, 1)
	go func() {
		slog.Info("http server listening", slog.String("port", cfg.Port))
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-listenErr:
		// Listen only returns before shutdown when the server could not start.
		if err == nil {
			err = errors.New("stopped unexpectedly")
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("error during shutdown", slog.Any("error", err))
	}
	return nil
}

func main() {
	os.Exit(run())
}
