package usecase

import (
	"context"
	"log/slog"
	"time"

	"RatingActionTracker/internal/ports"
)

// Scheduler wires the interval driver with the tracker's refresh.
type Scheduler struct {
	driver  ports.Scheduler
	tracker *Tracker
	logger  *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring refreshes.
func NewScheduler(driver ports.Scheduler, tracker *Tracker, log *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, tracker: tracker, logger: log}
}

// Start registers the refresh job with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.tracker == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if _, err := s.tracker.Refresh(ctx); err != nil && s.logger != nil {
			s.logger.Error("scheduled refresh failed", "trigger", trigger.Format(time.RFC3339), "error", err)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
