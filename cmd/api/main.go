package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/doreen/portfolio/cmd/mainconfig"
	"github.com/doreen/portfolio/internal/app/bootstrap"
	appconfig "github.com/doreen/portfolio/internal/config"
	"github.com/doreen/portfolio/internal/notify"
	"github.com/doreen/portfolio/pkg/logging"
)

func main() {
	// A local .env is optional; real deployments set the environment directly.
	envErr := godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	if envErr != nil && !os.IsNotExist(envErr) {
		logger.Warn("failed to read .env file", "error", envErr)
	}
	logger.Info("starting portfolio API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"email_provider", cfg.EmailProvider,
	)

	handler, err := buildHandler(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to build API", "error", err)
		os.Exit(1)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout(cfg),
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// writeTimeout leaves room for a full send attempt plus the reply.
func writeTimeout(cfg *appconfig.Config) time.Duration {
	const base = 15 * time.Second
	if d := cfg.EmailSendTimeout + 5*time.Second; d > base {
		return d
	}
	return base
}

func buildHandler(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (http.Handler, error) {
	var ses notify.SESAPI
	if bootstrap.NeedsSES(cfg) {
		client, err := mainconfig.NewSESClient(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		ses = client
	}
	return bootstrap.BuildAPI(cfg, ses, logger)
}
