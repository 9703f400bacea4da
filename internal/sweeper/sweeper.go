package sweeper

import (
	"time"

	"github.com/go-co-op/gocron"
	zlog "github.com/rs/zerolog/log"
)

// ExpiredRemover is the slice of the cache the sweeper needs. The memory
// backend implements it; redis expires server-side and needs no sweep.
type ExpiredRemover interface {
	RemoveExpired() int
}

// Sweeper periodically reclaims expired cache entries. Correctness does not
// depend on it (expiry is checked at read time); it only bounds memory.
type Sweeper struct {
	scheduler *gocron.Scheduler
	cache     ExpiredRemover
	interval  time.Duration
}

// New creates a Sweeper that runs every interval.
func New(cache ExpiredRemover, interval time.Duration) *Sweeper {
	return &Sweeper{
		scheduler: gocron.NewScheduler(time.UTC),
		cache:     cache,
		interval:  interval,
	}
}

// Start schedules the sweep job and starts the underlying scheduler.
func (s *Sweeper) Start() error {
	if s.interval <= 0 {
		zlog.Info().Msg("sweeper: disabled (no interval configured)")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		if removed := s.cache.RemoveExpired(); removed > 0 {
			zlog.Debug().Int("removed", removed).Msg("sweeper: reclaimed expired cache entries")
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future runs.
func (s *Sweeper) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
