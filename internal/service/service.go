package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	zlog "github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"weatherfetcher/internal/metrics"
	"weatherfetcher/internal/weather"
)

// Service is the retrieval use case: validation, cache lookup, coalesced
// provider fetch, cache population. It is the only entry point callers use
// to get weather data.
type Service struct {
	provider weather.Provider
	cache    weather.Cache
	group    singleflight.Group
}

// New creates a Service.
func New(provider weather.Provider, cache weather.Cache) *Service {
	return &Service{provider: provider, cache: cache}
}

// GetWeather returns the current weather for cityInput.
//
// Validation happens before any cache or network access. A live cache entry
// is returned as-is, FetchedAt included, so staleness stays observable. On a
// miss, concurrent callers for the same normalized key share one provider
// call; the result is cached only on success and the classified error is
// propagated untouched otherwise.
func (s *Service) GetWeather(ctx context.Context, cityInput string) (weather.Record, error) {
	city := strings.TrimSpace(cityInput)
	if city == "" {
		return weather.Record{}, weather.NewInvalidInput(
			"city name cannot be empty", map[string]string{"field": "city"})
	}
	if utf8.RuneCountInString(city) > weather.MaxCityLength {
		return weather.Record{}, weather.NewInvalidInput(
			fmt.Sprintf("city name cannot exceed %d characters", weather.MaxCityLength),
			map[string]string{"field": "city"})
	}

	key := weather.CacheKey(city)

	if rec, ok := s.cacheGet(ctx, key); ok {
		metrics.RecordCacheHit()
		zlog.Debug().Str("key", key).Msg("cache hit")
		return rec, nil
	}
	metrics.RecordCacheMiss()
	zlog.Debug().Str("key", key).Msg("cache miss")

	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		// Detach from the caller: a disconnecting caller must not cancel
		// the fetch other waiters share. The adapter bounds the call with
		// its own timeout.
		rec, err := s.provider.Fetch(context.WithoutCancel(ctx), city)
		if err != nil {
			metrics.RecordProviderRequest(string(weather.KindOf(err)))
			return weather.Record{}, err
		}
		metrics.RecordProviderRequest("success")

		s.cachePut(ctx, key, rec)
		return rec, nil
	})
	if shared {
		metrics.RecordCoalescedWait()
	}
	if err != nil {
		return weather.Record{}, err
	}
	return v.(weather.Record), nil
}

// cacheGet is best-effort: a failing cache backend degrades to a miss
// rather than failing the request.
func (s *Service) cacheGet(ctx context.Context, key string) (weather.Record, bool) {
	rec, found, err := s.cache.Get(ctx, key)
	if err != nil {
		zlog.Warn().Err(err).Str("key", key).Msg("cache get failed")
		return weather.Record{}, false
	}
	return rec, found
}

// cachePut is best-effort and detached from the caller's lifetime.
func (s *Service) cachePut(ctx context.Context, key string, rec weather.Record) {
	putCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	if err := s.cache.Put(putCtx, key, rec); err != nil {
		zlog.Warn().Err(err).Str("key", key).Msg("cache put failed")
	}
}
