package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/config"
	apphttp "fintrack/internal/http"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/suggest"
)

func main() {
	// Load .env for local development, ignore errors in production.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	repo, err := backend.CreateRepository(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize repository", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	logger.Info("Initialized persistence backend", "backend", cfg.DataBackend)

	// AMQP event bus is optional; without it the sheets mirror stays idle.
	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without event bus", "error", err)
		} else {
			publisher = client
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	ldg := ledger.New(ledger.Options{ExtendedTypes: cfg.ExtendedTypes})
	svc := services.NewLedgerService(ldg, repo, publisher)
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Error("Failed to close ledger service", "error", err)
		}
	}()

	if err := svc.Load(ctx); err != nil {
		logger.Error("Failed to restore ledger state", "error", err)
		os.Exit(1)
	}

	// Category suggestion is optional; it needs Gemini credentials.
	var suggester apphttp.Suggester
	if os.Getenv("GOOGLE_API_KEY") != "" || os.Getenv("GEMINI_API_KEY") != "" {
		s, err := suggest.NewSuggester(ctx, cfg.SuggestModel, cfg.SuggestTimeout)
		if err != nil {
			logger.Warn("Failed to initialize category suggester", "error", err)
		} else {
			suggester = s
			logger.Info("Initialized category suggester", "model", cfg.SuggestModel)
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, svc, suggester, logger)
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting fintrack server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
