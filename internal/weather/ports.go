package weather

import "context"

// Provider abstracts the external weather data source. Implementations are
// pure translation boundaries: one outbound call per Fetch, no caching and
// no retries beyond their own transport policy, and every failure mapped to
// exactly one taxonomy Error.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, city string) (Record, error)
}

// Cache is the contract the record store must satisfy. Get treats an entry
// older than its TTL as absent. Put overwrites unconditionally.
type Cache interface {
	Get(ctx context.Context, key string) (Record, bool, error)
	Put(ctx context.Context, key string, rec Record) error
}
