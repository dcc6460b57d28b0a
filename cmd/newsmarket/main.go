package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mgi25/news-market-game-updated/internal/config"
	"github.com/mgi25/news-market-game-updated/internal/domain"
	"github.com/mgi25/news-market-game-updated/internal/engine"
	"github.com/mgi25/news-market-game-updated/internal/handler"
	"github.com/mgi25/news-market-game-updated/internal/service"
	"github.com/mgi25/news-market-game-updated/internal/store"
)

func main() {
	healthcheck := flag.Bool("healthcheck", false, "Run health check against running server")
	flag.Parse()

	// Handle -healthcheck flag: HTTP GET to localhost:PORT/healthz, exit 0/1.
	if *healthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up slog logger with configured level.
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Load static game data.
	instruments, err := domain.LoadInstruments(cfg.CompaniesPath)
	if err != nil {
		logger.Error("failed to load instruments", slog.String("error", err.Error()))
		os.Exit(1)
	}
	catalogue, err := domain.LoadCatalogue(cfg.NewsPath)
	if err != nil {
		logger.Error("failed to load news catalogue", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("game data loaded",
		slog.Int("instruments", instruments.Len()),
		slog.Int("news_events", catalogue.Len()),
	)

	// Engine with its (optionally seeded) random source.
	eng := engine.New(cfg, instruments, engine.NewSource(cfg.Seed))

	// Stores and services. Random round selection gets its own entropy
	// source so it never consumes from a pinned engine seed.
	players := store.NewPlayerStore(cfg.StartCashCents)
	marketSvc := service.NewMarketService(eng, players, instruments)
	tradeSvc := service.NewTradeService(eng, players)
	adminSvc := service.NewAdminService(eng, players, catalogue, engine.NewSource(0), cfg.AdminPassword)

	// Router.
	router := handler.NewRouter(marketSvc, tradeSvc, adminSvc, logger)

	// Start the market tick loop with a cancellable context.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eng.Start(ctx)

	// Configure HTTP server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start HTTP server in a goroutine.
	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	// Graceful shutdown: stop HTTP server, cancel context (stops tick loop).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
	cancel()

	logger.Info("server stopped")
}
