package testutil

import (
	"context"
	"sync/atomic"
	"time"

	"weatherfetcher/internal/weather"
)

// MockProvider is a mock implementation of the weather.Provider interface
// for testing. It counts Fetch invocations so tests can assert how many
// outbound calls a scenario produced.
type MockProvider struct {
	FetchFunc func(ctx context.Context, city string) (weather.Record, error)
	fetches   atomic.Int64
}

// Fetch implements the Provider interface.
func (m *MockProvider) Fetch(ctx context.Context, city string) (weather.Record, error) {
	m.fetches.Add(1)
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, city)
	}
	return SampleRecord(city), nil
}

// Name implements the Provider interface.
func (m *MockProvider) Name() string {
	return "mock"
}

// FetchCalls returns how many times Fetch has been invoked.
func (m *MockProvider) FetchCalls() int64 {
	return m.fetches.Load()
}

// MockCache is a mock implementation of the weather.Cache interface for
// testing, with invocation counters.
type MockCache struct {
	GetFunc func(ctx context.Context, key string) (weather.Record, bool, error)
	PutFunc func(ctx context.Context, key string, rec weather.Record) error

	gets atomic.Int64
	puts atomic.Int64
}

// Get implements the Cache interface.
func (m *MockCache) Get(ctx context.Context, key string) (weather.Record, bool, error) {
	m.gets.Add(1)
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return weather.Record{}, false, nil
}

// Put implements the Cache interface.
func (m *MockCache) Put(ctx context.Context, key string, rec weather.Record) error {
	m.puts.Add(1)
	if m.PutFunc != nil {
		return m.PutFunc(ctx, key, rec)
	}
	return nil
}

// GetCalls returns how many times Get has been invoked.
func (m *MockCache) GetCalls() int64 { return m.gets.Load() }

// PutCalls returns how many times Put has been invoked.
func (m *MockCache) PutCalls() int64 { return m.puts.Load() }

// SampleRecord builds a valid record for the given city.
func SampleRecord(city string) weather.Record {
	return weather.Record{
		City:        city,
		Temperature: 18.5,
		Humidity:    62,
		WindSpeed:   14.2,
		Condition:   "Partly cloudy",
		FetchedAt:   time.Now().UTC(),
		Provider:    weather.ProviderName,
	}
}
