package reminders

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jobtrack/jobtrack/internal/logger"
)

// Job is one reminder pass. *Runner implements it.
type Job interface {
	Run(ctx context.Context) ([]LeadResult, error)
}

// Scheduler runs a Job periodically in-process, for deployments without an
// external cron.
type Scheduler struct {
	job      Job
	interval time.Duration
	log      *zap.SugaredLogger
}

// NewScheduler creates a scheduler that runs job every interval.
func NewScheduler(job Job, interval time.Duration) *Scheduler {
	return &Scheduler{
		job:      job,
		interval: interval,
		log:      logger.Named("reminders.scheduler"),
	}
}

// Start runs the job once immediately and then on every tick until ctx is
// cancelled. Call in a goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	s.log.Infow("reminder scheduler started", "interval", s.interval.String())
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("reminder scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	results, err := s.job.Run(ctx)
	if err != nil {
		s.log.Errorw("reminder pass failed", logger.FieldError, err)
	}
	for _, res := range results {
		if res.Processed+res.Failed+res.Skipped == 0 {
			continue
		}
		s.log.Infow("reminder pass",
			"lead_hours", res.LeadHours,
			"processed", res.Processed,
			"skipped", res.Skipped,
			"failed", res.Failed,
		)
	}
}
