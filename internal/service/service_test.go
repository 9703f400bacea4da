package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weatherfetcher/internal/cache"
	"weatherfetcher/internal/testutil"
	"weatherfetcher/internal/weather"
)

func TestGetWeatherInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		city string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"too long", strings.Repeat("a", 101)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &testutil.MockProvider{}
			mc := &testutil.MockCache{}
			svc := New(provider, mc)

			_, err := svc.GetWeather(context.Background(), tt.city)
			require.Error(t, err)
			assert.Equal(t, weather.KindInvalidInput, weather.KindOf(err))
			assert.Zero(t, provider.FetchCalls(), "invalid input must not reach the provider")
			assert.Zero(t, mc.GetCalls(), "invalid input must not touch the cache")
			assert.Zero(t, mc.PutCalls())
		})
	}
}

func TestGetWeatherLengthBoundary(t *testing.T) {
	provider := &testutil.MockProvider{}
	svc := New(provider, cache.NewMemory(time.Minute, 0))

	// 100 runes is allowed, multi-byte characters counted as one.
	_, err := svc.GetWeather(context.Background(), strings.Repeat("é", 100))
	require.NoError(t, err)
	assert.Equal(t, int64(1), provider.FetchCalls())
}

func TestGetWeatherCacheMissThenHit(t *testing.T) {
	ctx := context.Background()
	provider := &testutil.MockProvider{}
	svc := New(provider, cache.NewMemory(time.Minute, 0))

	first, err := svc.GetWeather(ctx, "London")
	require.NoError(t, err)
	require.Equal(t, int64(1), provider.FetchCalls())

	second, err := svc.GetWeather(ctx, "London")
	require.NoError(t, err)
	assert.Equal(t, int64(1), provider.FetchCalls(), "second call must be served from cache")
	assert.True(t, second.FetchedAt.Equal(first.FetchedAt), "cached record keeps its original fetch time")
	assert.Equal(t, first, second)
}

func TestGetWeatherKeyNormalization(t *testing.T) {
	ctx := context.Background()
	provider := &testutil.MockProvider{}
	svc := New(provider, cache.NewMemory(time.Minute, 0))

	_, err := svc.GetWeather(ctx, "  London  ")
	require.NoError(t, err)

	_, err = svc.GetWeather(ctx, "london")
	require.NoError(t, err)
	_, err = svc.GetWeather(ctx, "LONDON")
	require.NoError(t, err)

	assert.Equal(t, int64(1), provider.FetchCalls(), "case and whitespace variants share one cache entry")
}

func TestGetWeatherErrorNotCached(t *testing.T) {
	ctx := context.Background()
	fail := true
	provider := &testutil.MockProvider{
		FetchFunc: func(ctx context.Context, city string) (weather.Record, error) {
			if fail {
				return weather.Record{}, weather.NewUpstreamUnavailable(503)
			}
			return testutil.SampleRecord(city), nil
		},
	}
	svc := New(provider, cache.NewMemory(time.Minute, 0))

	_, err := svc.GetWeather(ctx, "London")
	require.Error(t, err)
	assert.Equal(t, weather.KindUpstreamUnavailable, weather.KindOf(err))

	fail = false
	_, err = svc.GetWeather(ctx, "London")
	require.NoError(t, err)
	assert.Equal(t, int64(2), provider.FetchCalls(), "a failed fetch must not populate the cache")
}

func TestGetWeatherProviderErrorPassedThrough(t *testing.T) {
	provErr := weather.NewUnknownCity("Atlantis")
	provider := &testutil.MockProvider{
		FetchFunc: func(ctx context.Context, city string) (weather.Record, error) {
			return weather.Record{}, provErr
		},
	}
	svc := New(provider, cache.NewMemory(time.Minute, 0))

	_, err := svc.GetWeather(context.Background(), "Atlantis")
	require.Error(t, err)
	assert.True(t, errors.Is(err, provErr), "classified error must propagate unchanged")
}

func TestGetWeatherCoalescing(t *testing.T) {
	provider := &testutil.MockProvider{
		FetchFunc: func(ctx context.Context, city string) (weather.Record, error) {
			time.Sleep(100 * time.Millisecond)
			return testutil.SampleRecord(city), nil
		},
	}
	svc := New(provider, cache.NewMemory(time.Minute, 0))

	const callers = 10
	var wg sync.WaitGroup
	records := make([]weather.Record, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			records[n], errs[n] = svc.GetWeather(context.Background(), "London")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), provider.FetchCalls(), "concurrent callers must share one provider call")
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, records[0], records[i], "all waiters receive the same record")
	}
}

func TestGetWeatherCoalescedError(t *testing.T) {
	provider := &testutil.MockProvider{
		FetchFunc: func(ctx context.Context, city string) (weather.Record, error) {
			time.Sleep(100 * time.Millisecond)
			return weather.Record{}, weather.NewTimeout(context.DeadlineExceeded)
		},
	}
	svc := New(provider, cache.NewMemory(time.Minute, 0))

	const callers = 5
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = svc.GetWeather(context.Background(), "London")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), provider.FetchCalls())
	for _, err := range errs {
		assert.Equal(t, weather.KindTimeout, weather.KindOf(err), "all waiters receive the classified error")
	}
}

func TestGetWeatherSurvivesCallerCancellation(t *testing.T) {
	release := make(chan struct{})
	provider := &testutil.MockProvider{
		FetchFunc: func(ctx context.Context, city string) (weather.Record, error) {
			select {
			case <-release:
				return testutil.SampleRecord(city), nil
			case <-ctx.Done():
				return weather.Record{}, weather.NewTimeout(ctx.Err())
			}
		},
	}
	svc := New(provider, cache.NewMemory(time.Minute, 0))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := svc.GetWeather(ctx, "London")
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	close(release)

	err := <-done
	require.NoError(t, err, "fetch is detached from the caller's context")
}

func TestGetWeatherCacheGetFailureDegradesToMiss(t *testing.T) {
	provider := &testutil.MockProvider{}
	mc := &testutil.MockCache{
		GetFunc: func(ctx context.Context, key string) (weather.Record, bool, error) {
			return weather.Record{}, false, errors.New("redis: connection refused")
		},
	}
	svc := New(provider, mc)

	rec, err := svc.GetWeather(context.Background(), "London")
	require.NoError(t, err, "a failing cache must not fail the request")
	assert.Equal(t, "London", rec.City)
	assert.Equal(t, int64(1), provider.FetchCalls())
}

func TestGetWeatherCachePutFailureIgnored(t *testing.T) {
	provider := &testutil.MockProvider{}
	mc := &testutil.MockCache{
		PutFunc: func(ctx context.Context, key string, rec weather.Record) error {
			return errors.New("redis: connection refused")
		},
	}
	svc := New(provider, mc)

	_, err := svc.GetWeather(context.Background(), "London")
	require.NoError(t, err)
	assert.Equal(t, int64(1), mc.PutCalls())
}
