package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"

	appLogger "github.com/cryptodeck/cryptodeck-api/app/logger"
	"github.com/cryptodeck/cryptodeck-api/app/observability/metrics"
	"github.com/cryptodeck/cryptodeck-api/app/tracer"
	"github.com/cryptodeck/cryptodeck-api/config"
	"github.com/cryptodeck/cryptodeck-api/internal/api/auth"
	"github.com/cryptodeck/cryptodeck-api/internal/api/coins"
	"github.com/cryptodeck/cryptodeck-api/internal/api/favorites"
	"github.com/cryptodeck/cryptodeck-api/internal/api/user"
	"github.com/cryptodeck/cryptodeck-api/internal/identity"
	api "github.com/cryptodeck/cryptodeck-api/internal/router"
)

func main() {
	// --- Initial Loading ---
	// Use standard log until slog is configured, in case godotenv fails
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	// --- Logger Setup ---
	logger := setupLogger()
	slog.SetDefault(logger)

	// --- Application Context & Shutdown ---
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Observability ---
	metricsHandler := tracer.InitTracingAndMetrics()
	metrics.InitAppMetrics()

	// --- Dependency Injection ---
	identityClient := identity.NewClient(cfg.Identity, logger)
	tokenCodec := auth.NewTokenCodec(cfg.JWT)
	gate := auth.NewGate(tokenCodec, identityClient, logger)

	userRepo := user.NewRepository(identityClient, logger)
	userService := user.NewService(userRepo, logger)
	userHandler := user.NewHandlerImpl(userService, logger)

	authService := auth.NewService(identityClient, userRepo, tokenCodec, cfg.Client.BaseURL, logger)
	authHandler := auth.NewHandlerImpl(authService, logger)

	favoritesRepo := favorites.NewRepository(identityClient, logger)
	favoritesService := favorites.NewService(favoritesRepo, logger)
	favoritesHandler := favorites.NewHandlerImpl(favoritesService, logger)

	provider := coins.NewProviderClient(cfg.Provider, logger)
	coinsService := coins.NewService(provider, logger)
	coinsHandler := coins.NewHandlerImpl(coinsService, logger)

	// --- Router Setup ---
	mainRouter := api.SetupRouter(&api.Config{
		AuthHandler:      authHandler,
		UserHandler:      userHandler,
		FavoritesHandler: favoritesHandler,
		CoinsHandler:     coinsHandler,
		Gate:             gate,
	})

	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(appLogger.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(cfg.Server.Timeout))
	router.Use(middleware.Compress(5, "application/json"))
	router.Mount("/", mainRouter)

	// --- HTTP Servers ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.HTTPPort),
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", metricsHandler)
	metricsSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.MetricsPort),
		Handler: metricsMux,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("Starting metrics server", slog.String("address", metricsSrv.Addr))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		logger.Info("Shutdown signal received, starting graceful shutdown...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
		}
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Metrics server graceful shutdown failed", slog.Any("error", err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Application shut down complete.")
}

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" { // Default to development if not set
		// Colored logs for development
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		// JSON logs for production, rotated on disk and mirrored to stdout
		fileLogger := &lumberjack.Logger{
			Filename:   filepath.Join("logs", "app.log"),
			MaxSize:    10, // Megabytes
			MaxBackups: 3,
			MaxAge:     28, // Days
			Compress:   true,
		}
		writer := io.MultiWriter(os.Stdout, fileLogger)
		jsonOpts := &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
		logger = slog.New(slog.NewJSONHandler(writer, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
