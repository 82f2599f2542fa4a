package job

import (
	"go.uber.org/zap"

	"taskboard/internal/ratelimit"
)

// SweepJob evicts rate-limit state for clients that have gone idle.
type SweepJob struct {
	limiter *ratelimit.Limiter
	logger  *zap.Logger
}

// NewSweepJob creates a new SweepJob instance.
func NewSweepJob(limiter *ratelimit.Limiter, logger *zap.Logger) *SweepJob {
	return &SweepJob{
		limiter: limiter,
		logger:  logger,
	}
}

// Run executes one sweep pass. Implements cron.Job.
func (j *SweepJob) Run() {
	evicted := j.limiter.Sweep()
	if evicted > 0 {
		j.logger.Info("Rate limiter sweep completed",
			zap.Int("evicted", evicted),
			zap.Int("tracked", j.limiter.TrackedClients()),
		)
		return
	}
	j.logger.Debug("Rate limiter sweep found nothing to evict",
		zap.Int("tracked", j.limiter.TrackedClients()),
	)
}
