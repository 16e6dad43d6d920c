package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const jobTimeout = 2 * time.Minute

// DailyReporter builds and publishes the summary for the current day.
type DailyReporter interface {
	RunDaily(ctx context.Context) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	reporter DailyReporter
	schedule string
	logger   *zap.Logger
}

// NewScheduler creates a scheduler whose cron expressions are evaluated in loc.
func NewScheduler(schedule string, loc *time.Location, reporter DailyReporter, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		reporter: reporter,
		schedule: schedule,
		logger:   logger,
	}
}

// Start registers the jobs and starts the cron runner.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.sendDailySummary); err != nil {
		return fmt.Errorf("schedule daily summary %q: %w", s.schedule, err)
	}

	s.logger.Info("starting scheduler", zap.String("daily_summary", s.schedule))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sendDailySummary() {
	s.logger.Info("generating daily summary")
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.reporter.RunDaily(ctx); err != nil {
		s.logger.Error("daily summary failed", zap.Error(err))
		return
	}
	s.logger.Info("daily summary sent successfully")
}
