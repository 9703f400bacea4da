package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weatherfetcher/internal/cache"
	"weatherfetcher/internal/config"
	"weatherfetcher/internal/logger"
	"weatherfetcher/internal/server"
	"weatherfetcher/internal/service"
	"weatherfetcher/internal/sweeper"
	"weatherfetcher/internal/weather"
	"weatherfetcher/internal/weatherapi"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log := logger.Log.With().Str("service", "weatherfetcher").Logger()

	// Root ctx with signal cancellation
	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- Cache backend ----
	var store weather.Cache
	switch cfg.CacheBackend {
	case config.BackendRedis:
		redisCache, err := cache.NewRedis(cfg.RedisURL, cfg.CacheTTLDuration())
		if err != nil {
			log.Fatal().Err(err).Msg("redis connect failed")
		}
		defer redisCache.Close()
		store = redisCache
		log.Info().Msg("redis cache connected")
	default:
		memCache := cache.NewMemory(cfg.CacheTTLDuration(), cfg.CacheMaxEntries)
		store = memCache

		// Redis expires server-side; only the memory backend needs sweeping.
		sw := sweeper.New(memCache, cfg.CacheSweepIntervalDuration())
		if err := sw.Start(); err != nil {
			log.Fatal().Err(err).Msg("sweeper start failed")
		}
		defer sw.Stop()
		log.Info().Dur("ttl", cfg.CacheTTLDuration()).Msg("memory cache initialized")
	}

	// ---- Provider and use case ----
	provider := weatherapi.New(
		cfg.WeatherAPIKey,
		cfg.WeatherAPIBaseURL,
		cfg.RequestTimeoutDuration(),
		cfg.ProviderRPS,
	)
	svc := service.New(provider, store)

	// ---- Router ----
	handler := server.NewRouter(server.NewWeatherHandler(svc), cfg)

	// ---- HTTP server ----
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("provider", provider.Name()).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-rootCtx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("http server crashed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info().Msg("shutdown complete")
}
