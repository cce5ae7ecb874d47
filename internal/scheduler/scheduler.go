package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/afinewinecompany/auction-calculator/internal/logger"
	"github.com/afinewinecompany/auction-calculator/internal/service"
)

// Scheduler periodically revalues the player pool so adjusted values
// stay fresh even when no sync or sale event arrives for a while.
type Scheduler struct {
	s         gocron.Scheduler
	valuation *service.Valuation
	interval  time.Duration
}

func NewScheduler(valuation *service.Valuation, interval time.Duration) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:         s,
		valuation: valuation,
		interval:  interval,
	}, nil
}

func (s *Scheduler) Start() error {
	_, err := s.s.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.revalue),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule revalue job: %w", err)
	}

	s.s.Start()
	logger.Info("Revalue scheduler started", "interval", s.interval)
	return nil
}

func (s *Scheduler) revalue() {
	if _, err := s.valuation.Revalue(); err != nil {
		logger.Error("Scheduled revalue failed", "error", err)
	}
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}
