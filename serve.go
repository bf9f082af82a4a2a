package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"SEO_Analysis/internal/config"
	"SEO_Analysis/internal/http"
	"SEO_Analysis/internal/logger"
	"SEO_Analysis/internal/models"
	"SEO_Analysis/internal/ratelimit"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the SEO analysis HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if port != "" {
				cfg.Port = port
			}
			return runServer(cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	return cmd
}

func runServer(cmd *cobra.Command, cfg *config.Config) error {
	appLogger, cleanup, err := initializeLogger(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	startupCtx := logger.EnsureLogEvent(context.Background())

	appLogger.LogInfo(startupCtx, logger.OpServerStart, "Starting SEO Analysis API", map[string]interface{}{
		"version": version,
		"config": map[string]interface{}{
			"port":                    cfg.Port,
			"cache_type":              cfg.CacheType,
			"cache_ttl":               cfg.CacheTTL.Seconds(),
			"log_sink":                cfg.LogSink,
			"provider_base_url":       cfg.ProviderBaseURL,
			"max_concurrent_keywords": cfg.MaxConcurrentKeywords,
		},
	})

	p, err := newPipeline(cfg, appLogger)
	if err != nil {
		appLogger.LogError(startupCtx, "cache_init", cfg.CacheType, "Failed to initialize pipeline", err, models.LogSeverityHigh, nil)
		return err
	}
	defer p.Close()

	rateLimiter := ratelimit.NewTwoTierRateLimiter(
		int64(cfg.GlobalRateLimitPerSec),
		int64(cfg.GlobalRateLimitPerSec),
		int64(cfg.PerIPRateLimitPerSec),
		int64(cfg.PerIPRateLimitPerSec),
	)

	handler := http.NewHandler(p.analysis, p.provider, appLogger)

	addr := ":" + cfg.Port
	server := http.NewServer(
		addr,
		handler,
		appLogger,
		rateLimiter,
		cfg.ServerReadTimeout,
		cfg.ServerWriteTimeout,
	)

	serveErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "SEO Analysis API listening on %s\n", addr)
	fmt.Fprintln(out, "Available endpoints:")
	fmt.Fprintln(out, "  GET  /health             - Health check")
	fmt.Fprintln(out, "  POST /api/analyze        - Analyze a customer site")
	fmt.Fprintln(out, "  GET  /api/provider/test  - Check the ranking provider")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		if err != nil {
			appLogger.LogError(startupCtx, logger.OpServerStart, "", "Server failed to start", err, models.LogSeverityHigh, map[string]interface{}{"addr": addr})
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-quit:
	}

	fmt.Fprintln(out, "Shutting down server...")

	ctx, cancel := context.WithTimeout(startupCtx, cfg.ServerShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.LogError(ctx, logger.OpServerShutdown, "", "Server shutdown error", err, models.LogSeverityMedium, nil)
		return fmt.Errorf("server shutdown: %w", err)
	}

	appLogger.LogInfo(ctx, logger.OpServerShutdown, "Server shutdown completed successfully", nil)
	return nil
}
