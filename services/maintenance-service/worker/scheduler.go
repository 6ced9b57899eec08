package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/yashrajoria/car-rental/backend/services/maintenance-service/services"
)

// Job is one scheduled unit of work.
type Job interface {
	Run(ctx context.Context) (*services.Result, error)
}

// Scheduler runs a Job every interval until its context ends. A failed run is
// logged and retried on the next tick.
type Scheduler struct {
	job      Job
	interval time.Duration
	logger   *zap.Logger
}

func NewScheduler(job Job, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{job: job, interval: interval, logger: logger}
}

func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Archive scheduler started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Archive scheduler stopped")
			return
		case <-ticker.C:
			if _, err := s.job.Run(ctx); err != nil {
				s.logger.Error("Scheduled archive failed", zap.Error(err))
			}
		}
	}
}
