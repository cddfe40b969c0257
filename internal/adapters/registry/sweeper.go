package registry

import (
	"GuildVerify/internal/core/ports"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Sweeper periodically expires pending requests older than a TTL.
type Sweeper struct {
	registry ports.VerificationRegistry
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	cron     *cron.Cron
	log      zerolog.Logger
}

// NewSweeper creates a sweeper. It does nothing until Start is called.
func NewSweeper(
	registry ports.VerificationRegistry,
	ttl time.Duration,
	interval time.Duration,
	baseLogger *zerolog.Logger,
) *Sweeper {
	return &Sweeper{
		registry: registry,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
		cron:     cron.New(),
		log:      baseLogger.With().Str("component", "registry_sweeper").Logger(),
	}
}

// Start schedules the sweep job on the cron runner.
func (s *Sweeper) Start() error {
	schedule := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(schedule, func() { s.Sweep() }); err != nil {
		return fmt.Errorf("schedule sweep %q: %w", schedule, err)
	}
	s.cron.Start()
	s.log.Info().Dur("ttl", s.ttl).Dur("interval", s.interval).Msg("Pending request sweeper started")
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("Pending request sweeper stopped")
}

// Sweep expires requests older than the TTL and returns how many were dropped.
func (s *Sweeper) Sweep() int {
	expired := s.registry.Expire(s.now().Add(-s.ttl))
	for _, req := range expired {
		s.log.Info().
			Str("request_id", req.ID).
			Str("username", req.Username).
			Time("created_at", req.CreatedAt).
			Msg("Pending verification request expired")
	}
	return len(expired)
}
