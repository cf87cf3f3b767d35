package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/safar-ai/safar/internal/adapter/llm"
	"github.com/safar-ai/safar/internal/adapter/search"
	"github.com/safar-ai/safar/internal/config"
	"github.com/safar-ai/safar/internal/memory"
	"github.com/safar-ai/safar/internal/repository"
	"github.com/safar-ai/safar/internal/service"
	v1 "github.com/safar-ai/safar/internal/transport/http/v1"
	"github.com/safar-ai/safar/policy"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	logger.Info("starting safar",
		"port", cfg.HTTPPort,
		"database", cfg.DatabasePath,
		"model", cfg.GeminiModel)

	// Initialize store and session memory
	store, err := repository.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to initialize store", "error", err)
		os.Exit(1)
	}
	mem := memory.NewManager(store, cfg.MaxContextMessages, logger)
	defer mem.Close()

	// Initialize adapters
	llmClient := llm.NewReasoningClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.LLMTimeout)
	searchClient := search.NewSearcher(cfg.ExaBaseURL, cfg.ExaAPIKey, cfg.LLMTimeout)

	// Initialize booking policy engine
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	policyEngine, err := policy.NewEngine(rootCtx, policy.DefaultPolicy)
	if err != nil {
		logger.Error("failed to initialize policy engine", "error", err)
		os.Exit(1)
	}

	// Initialize service
	svc := service.New(mem, llmClient, searchClient, policyEngine, cfg, logger)

	// Background cleanup of idle sessions
	go svc.RunSessionCleanup(rootCtx)

	// Create Echo server
	server := echo.New()
	server.HideBanner = true

	// Middleware
	server.Use(middleware.Logger())
	server.Use(middleware.Recover())
	server.Use(middleware.CORS())

	// Register routes
	h := v1.NewHandler(svc)
	h.RegisterRoutes(server)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	logger.Info("API started", "port", cfg.HTTPPort)

	// Wait for interrupt signal
	<-rootCtx.Done()

	logger.Info("shutting down")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server gracefully", "error", err)
	}

	logger.Info("stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
