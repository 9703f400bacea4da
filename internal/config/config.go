package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cache backend selectors.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds all configuration for the weather fetcher service.
type Config struct {
	// Provider
	WeatherAPIKey     string  `mapstructure:"weatherapi_api_key"`
	WeatherAPIBaseURL string  `mapstructure:"weatherapi_base_url"`
	RequestTimeout    int     `mapstructure:"request_timeout_seconds"`
	ProviderRPS       float64 `mapstructure:"provider_rps"`

	// Cache
	CacheBackend       string `mapstructure:"cache_backend"`
	CacheTTL           int    `mapstructure:"cache_ttl_seconds"`
	CacheMaxEntries    int    `mapstructure:"cache_max_entries"`
	CacheSweepInterval int    `mapstructure:"cache_sweep_interval_seconds"`
	RedisURL           string `mapstructure:"redis_url"`

	// HTTP server
	HTTPAddr         string `mapstructure:"http_addr"`
	RateLimitEnabled bool   `mapstructure:"rate_limit_enabled"`
	RateLimitPerMin  int    `mapstructure:"rate_limit_per_min"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// RequestTimeoutDuration returns the per-call provider timeout.
func (c *Config) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// CacheTTLDuration returns the cache entry lifetime.
func (c *Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// CacheSweepIntervalDuration returns how often expired entries are swept.
func (c *Config) CacheSweepIntervalDuration() time.Duration {
	return time.Duration(c.CacheSweepInterval) * time.Second
}

// Load reads configuration from environment variables and optional config file.
// Environment variables take precedence over config file values.
//
// Expected environment variables:
//   - WEATHERAPI_API_KEY (required)
//   - WEATHERAPI_BASE_URL (optional, defaults to production)
//   - REQUEST_TIMEOUT_SECONDS (optional, default 10)
//   - CACHE_BACKEND (optional, "memory" or "redis", default "memory")
//   - CACHE_TTL_SECONDS (optional, default 300)
//   - REDIS_URL (required when CACHE_BACKEND=redis)
//   - HTTP_ADDR (optional, default ":8080")
func Load() (*Config, error) {
	v := viper.New()

	// Set up environment variable support
	v.SetEnvPrefix("") // No prefix, use full names
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("weatherapi_base_url", "https://api.weatherapi.com/v1")
	v.SetDefault("request_timeout_seconds", 10)
	v.SetDefault("provider_rps", 10.0)
	v.SetDefault("cache_backend", BackendMemory)
	v.SetDefault("cache_ttl_seconds", 300)
	v.SetDefault("cache_max_entries", 10000)
	v.SetDefault("cache_sweep_interval_seconds", 300)
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("rate_limit_enabled", true)
	v.SetDefault("rate_limit_per_min", 120)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	// Optionally read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.weatherfetcher")

	// Read config file (ignore if not found)
	_ = v.ReadInConfig()

	// Bind environment variables
	v.BindEnv("weatherapi_api_key", "WEATHERAPI_API_KEY")
	v.BindEnv("weatherapi_base_url", "WEATHERAPI_BASE_URL")
	v.BindEnv("request_timeout_seconds", "REQUEST_TIMEOUT_SECONDS")
	v.BindEnv("provider_rps", "PROVIDER_RPS")
	v.BindEnv("cache_backend", "CACHE_BACKEND")
	v.BindEnv("cache_ttl_seconds", "CACHE_TTL_SECONDS")
	v.BindEnv("cache_max_entries", "CACHE_MAX_ENTRIES")
	v.BindEnv("cache_sweep_interval_seconds", "CACHE_SWEEP_INTERVAL_SECONDS")
	v.BindEnv("redis_url", "REDIS_URL")
	v.BindEnv("http_addr", "HTTP_ADDR")
	v.BindEnv("rate_limit_enabled", "RATE_LIMIT_ENABLED")
	v.BindEnv("rate_limit_per_min", "RATE_LIMIT_PER_MIN")
	v.BindEnv("log_level", "LOG_LEVEL")
	v.BindEnv("log_format", "LOG_FORMAT")

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate required fields
	var missing []string
	if config.WeatherAPIKey == "" {
		missing = append(missing, "WEATHERAPI_API_KEY")
	}
	if config.CacheBackend == BackendRedis && config.RedisURL == "" {
		missing = append(missing, "REDIS_URL")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if config.CacheBackend != BackendMemory && config.CacheBackend != BackendRedis {
		return nil, fmt.Errorf("invalid CACHE_BACKEND %q: must be %q or %q",
			config.CacheBackend, BackendMemory, BackendRedis)
	}
	if config.RequestTimeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be positive, got %d", config.RequestTimeout)
	}
	if config.CacheTTL <= 0 {
		return nil, fmt.Errorf("CACHE_TTL_SECONDS must be positive, got %d", config.CacheTTL)
	}

	return config, nil
}
