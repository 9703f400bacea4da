package cache

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"weatherfetcher/internal/weather"
)

const shardCount = 16

type entry struct {
	rec      weather.Record
	storedAt time.Time
}

type shard struct {
	mu   sync.RWMutex
	data map[string]entry
}

// Memory is a concurrency-safe in-memory record cache with passive TTL
// expiry. Keys are spread across shards so reads and writes for different
// keys do not contend on one lock. Entries are immutable once written; an
// entry older than the TTL is treated as absent at read time and reclaimed
// either by RemoveExpired or by the size bound.
type Memory struct {
	ttl        time.Duration
	maxEntries int // 0 = unbounded
	shards     [shardCount]*shard
}

// NewMemory creates a memory cache. maxEntries bounds total size across all
// shards; when a shard is full the oldest entry in it is evicted.
func NewMemory(ttl time.Duration, maxEntries int) *Memory {
	m := &Memory{ttl: ttl, maxEntries: maxEntries}
	for i := range m.shards {
		m.shards[i] = &shard{data: make(map[string]entry)}
	}
	return m
}

func (m *Memory) shardFor(key string) *shard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return m.shards[h.Sum32()%shardCount]
}

// Get returns the live record for key. An expired entry is reported as
// absent without being deleted; reclamation is the sweeper's job.
func (m *Memory) Get(ctx context.Context, key string) (weather.Record, bool, error) {
	s := m.shardFor(key)

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	if !ok {
		return weather.Record{}, false, nil
	}
	if m.ttl > 0 && time.Since(e.storedAt) > m.ttl {
		return weather.Record{}, false, nil
	}
	return e.rec, true, nil
}

// Put stores rec under key, overwriting any existing entry (last-write-wins).
func (m *Memory) Put(ctx context.Context, key string, rec weather.Record) error {
	s := m.shardFor(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[key]; !exists {
		m.evictIfFullLocked(s)
	}
	s.data[key] = entry{rec: rec, storedAt: time.Now()}
	return nil
}

// evictIfFullLocked enforces the per-shard share of the size bound. Expired
// entries go first; otherwise the oldest insertion is dropped.
func (m *Memory) evictIfFullLocked(s *shard) {
	if m.maxEntries <= 0 {
		return
	}
	perShard := m.maxEntries / shardCount
	if perShard < 1 {
		perShard = 1
	}
	if len(s.data) < perShard {
		return
	}

	var (
		oldestKey string
		oldestAt  time.Time
	)
	for k, e := range s.data {
		if m.ttl > 0 && time.Since(e.storedAt) > m.ttl {
			delete(s.data, k)
			return
		}
		if oldestKey == "" || e.storedAt.Before(oldestAt) {
			oldestKey = k
			oldestAt = e.storedAt
		}
	}
	delete(s.data, oldestKey)
}

// RemoveExpired deletes all expired entries and returns how many were removed.
func (m *Memory) RemoveExpired() int {
	if m.ttl <= 0 {
		return 0
	}

	removed := 0
	for _, s := range m.shards {
		s.mu.Lock()
		for k, e := range s.data {
			if time.Since(e.storedAt) > m.ttl {
				delete(s.data, k)
				removed++
			}
		}
		s.mu.Unlock()
	}
	return removed
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	n := 0
	for _, s := range m.shards {
		s.mu.RLock()
		n += len(s.data)
		s.mu.RUnlock()
	}
	return n
}
