package weather

import (
	"fmt"
	"strings"
	"time"
)

// ProviderName identifies the external data source on every record.
const ProviderName = "weatherapi"

// MaxCityLength is the longest city input accepted, in runes.
const MaxCityLength = 100

// Record is the normalized weather shape returned to all callers,
// independent of the provider wire format.
type Record struct {
	// City is the canonical display name as resolved by the provider,
	// not necessarily the casing the caller sent in.
	City        string    `json:"city"`
	Temperature float64   `json:"temperature"` // degrees Celsius
	Humidity    int       `json:"humidity"`    // percent, 0-100
	WindSpeed   float64   `json:"wind_speed"`  // km/h, non-negative
	Condition   string    `json:"condition"`
	FetchedAt   time.Time `json:"fetched_at"` // UTC, set at fetch time
	Provider    string    `json:"provider"`
}

// Validate checks the provider contract on a fully constructed record.
// A violation here means the upstream payload was malformed, not that
// the caller did anything wrong.
func (r Record) Validate() error {
	if strings.TrimSpace(r.City) == "" {
		return fmt.Errorf("city name is empty")
	}
	if r.Humidity < 0 || r.Humidity > 100 {
		return fmt.Errorf("humidity %d outside [0,100]", r.Humidity)
	}
	if r.WindSpeed < 0 {
		return fmt.Errorf("wind speed %.1f is negative", r.WindSpeed)
	}
	if strings.TrimSpace(r.Condition) == "" {
		return fmt.Errorf("condition is empty")
	}
	if r.FetchedAt.IsZero() {
		return fmt.Errorf("fetched_at is zero")
	}
	return nil
}

// CacheKey derives the cache key for a city input: trimmed, case-folded,
// prefixed. "  London  " and "london" share one entry.
func CacheKey(city string) string {
	return "weather:" + strings.ToLower(strings.TrimSpace(city))
}
