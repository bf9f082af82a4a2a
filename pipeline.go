package main

import (
	"fmt"

	"SEO_Analysis/internal/cache"
	"SEO_Analysis/internal/cache/providerCache"
	"SEO_Analysis/internal/config"
	"SEO_Analysis/internal/extraction"
	"SEO_Analysis/internal/logger"
	"SEO_Analysis/internal/provider"
	"SEO_Analysis/internal/ratelimit"
	"SEO_Analysis/internal/seoAnalysis"
)

// pipeline holds the wired services shared by serve and analyze
type pipeline struct {
	cache    cache.Service
	provider provider.Service
	analysis seoAnalysis.AnalysisService
}

func (p *pipeline) Close() error {
	return p.cache.Close()
}

// initializeLogger returns the configured sink and a cleanup for its resources
func initializeLogger(cfg *config.Config) (logger.Service, func(), error) {
	switch cfg.LogSink {
	case "stdout", "":
		appLogger, err := logger.NewZapLogger(false)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zap logger: %w", err)
		}
		return appLogger, func() { _ = appLogger.Close() }, nil
	case "database":
		db, err := logger.NewPostgresLogStore(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to log database: %w", err)
		}
		// DatabaseLogger.Close releases the store
		appLogger := logger.NewDatabaseLogger(db)
		return appLogger, func() { _ = appLogger.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported log sink: %s", cfg.LogSink)
	}
}

func initializeCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.CacheType {
	case "redis":
		return cache.NewRedisCache(cfg.RedisURL)
	case "postgres":
		return cache.NewPostgresCache(cfg.DatabaseURL)
	case "memory":
		return cache.NewMemoryCache(), nil
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.CacheType)
	}
}

func newPipeline(cfg *config.Config, appLogger logger.Service) (*pipeline, error) {
	backend, err := initializeCache(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	client := provider.NewDataForSEOClient(
		provider.Options{
			BaseURL:         cfg.ProviderBaseURL,
			Login:           cfg.ProviderLogin,
			Password:        cfg.ProviderPassword,
			Timeout:         cfg.ProviderTimeout,
			DefaultLocation: cfg.DefaultLocation,
			DefaultLanguage: cfg.DefaultLanguage,
		},
		providerCache.New(backend, appLogger, cfg.CacheTTL),
		ratelimit.NewSharedLimiter(int64(cfg.ProviderRateLimit)),
		appLogger,
	)

	return &pipeline{
		cache:    backend,
		provider: client,
		analysis: seoAnalysis.NewService(client, extraction.NewExtractor(), appLogger, cfg.MaxConcurrentKeywords),
	}, nil
}
