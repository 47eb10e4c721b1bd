package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aqi_predictor/internal/logger"

	"github.com/robfig/cron/v3"
)

const (
	defaultSweepSchedule = "@every 1m"
	defaultIdleTTL       = 30 * time.Minute
)

// SweeperService expires sessions that have been idle longer than idleTTL.
type SweeperService struct {
	sessions *SessionService
	sched    cron.Schedule
	expr     string
	idleTTL  time.Duration
	log      *logger.Logger
}

func NewSweeperService(sessions *SessionService, schedule string, idleTTL time.Duration, log *logger.Logger) (*SweeperService, error) {
	if sessions == nil {
		return nil, errors.New("sweeper needs a session store")
	}
	if schedule == "" {
		schedule = defaultSweepSchedule
	}
	if idleTTL <= 0 {
		idleTTL = defaultIdleTTL
	}
	sched, err := cron.ParseStandard(schedule)
	if err != nil {
		return nil, fmt.Errorf("parse sweep schedule %q: %w", schedule, err)
	}
	return &SweeperService{
		sessions: sessions,
		sched:    sched,
		expr:     schedule,
		idleTTL:  idleTTL,
		log:      logger.OrNop(log),
	}, nil
}

// Sweep runs one pass and returns the number of expired sessions.
func (s *SweeperService) Sweep(ctx context.Context) int {
	n := s.sessions.SweepIdle(ctx, s.idleTTL)
	if n > 0 {
		s.log.Infow("sessions_expired", "count", n, "idle_ttl", s.idleTTL.String())
	}
	return n
}

// Run blocks until ctx is canceled, sweeping on the configured schedule.
func (s *SweeperService) Run(ctx context.Context) {
	c := cron.New()
	c.Schedule(s.sched, cron.FuncJob(func() { s.Sweep(ctx) }))
	c.Start()
	s.log.Infow("sweeper_started", "schedule", s.expr, "idle_ttl", s.idleTTL.String())

	<-ctx.Done()
	<-c.Stop().Done()
	s.log.Infow("sweeper_stopped")
}
