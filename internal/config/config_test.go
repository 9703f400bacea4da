package config

import (
	"strings"
	"testing"
)

func TestLoadSuccess(t *testing.T) {
	t.Setenv("WEATHERAPI_API_KEY", "test-api-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.WeatherAPIKey != "test-api-key" {
		t.Errorf("expected api key %q, got %q", "test-api-key", cfg.WeatherAPIKey)
	}
	if cfg.WeatherAPIBaseURL != "https://api.weatherapi.com/v1" {
		t.Errorf("unexpected default base URL %q", cfg.WeatherAPIBaseURL)
	}
	if cfg.RequestTimeout != 10 {
		t.Errorf("expected default request timeout 10, got %d", cfg.RequestTimeout)
	}
	if cfg.CacheBackend != BackendMemory {
		t.Errorf("expected default cache backend %q, got %q", BackendMemory, cfg.CacheBackend)
	}
	if cfg.CacheTTL != 300 {
		t.Errorf("expected default cache TTL 300, got %d", cfg.CacheTTL)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("expected default http addr %q, got %q", ":8080", cfg.HTTPAddr)
	}
	if !cfg.RateLimitEnabled {
		t.Error("expected rate limiting enabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("WEATHERAPI_API_KEY", "test-api-key")
	t.Setenv("WEATHERAPI_BASE_URL", "http://localhost:9090/v1")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "3")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.WeatherAPIBaseURL != "http://localhost:9090/v1" {
		t.Errorf("unexpected base URL %q", cfg.WeatherAPIBaseURL)
	}
	if cfg.RequestTimeout != 3 {
		t.Errorf("expected request timeout 3, got %d", cfg.RequestTimeout)
	}
	if cfg.CacheBackend != BackendRedis {
		t.Errorf("expected cache backend %q, got %q", BackendRedis, cfg.CacheBackend)
	}
	if cfg.RedisURL != "redis://localhost:6379/1" {
		t.Errorf("unexpected redis URL %q", cfg.RedisURL)
	}
	if cfg.CacheTTL != 60 {
		t.Errorf("expected cache TTL 60, got %d", cfg.CacheTTL)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("expected log format json, got %q", cfg.LogFormat)
	}
}

func TestLoadMissingAPIKey(t *testing.T) {
	t.Setenv("WEATHERAPI_API_KEY", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected an error for missing API key")
	}
	if !strings.Contains(err.Error(), "WEATHERAPI_API_KEY") {
		t.Errorf("expected error to name WEATHERAPI_API_KEY, got %v", err)
	}
}

func TestLoadRedisBackendRequiresURL(t *testing.T) {
	t.Setenv("WEATHERAPI_API_KEY", "test-api-key")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_URL", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected an error for missing redis URL")
	}
	if !strings.Contains(err.Error(), "REDIS_URL") {
		t.Errorf("expected error to name REDIS_URL, got %v", err)
	}
}

func TestLoadInvalidBackend(t *testing.T) {
	t.Setenv("WEATHERAPI_API_KEY", "test-api-key")
	t.Setenv("CACHE_BACKEND", "memcached")

	_, err := Load()
	if err == nil {
		t.Fatal("expected an error for invalid cache backend")
	}
	if !strings.Contains(err.Error(), "CACHE_BACKEND") {
		t.Errorf("expected error to name CACHE_BACKEND, got %v", err)
	}
}

func TestLoadInvalidTimeout(t *testing.T) {
	t.Setenv("WEATHERAPI_API_KEY", "test-api-key")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "0")

	_, err := Load()
	if err == nil {
		t.Fatal("expected an error for non-positive timeout")
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := &Config{RequestTimeout: 10, CacheTTL: 300, CacheSweepInterval: 60}

	if got := cfg.RequestTimeoutDuration().Seconds(); got != 10 {
		t.Errorf("expected 10s request timeout, got %vs", got)
	}
	if got := cfg.CacheTTLDuration().Seconds(); got != 300 {
		t.Errorf("expected 300s cache TTL, got %vs", got)
	}
	if got := cfg.CacheSweepIntervalDuration().Seconds(); got != 60 {
		t.Errorf("expected 60s sweep interval, got %vs", got)
	}
}
