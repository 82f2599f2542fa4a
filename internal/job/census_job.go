package job

import (
	"context"

	"go.uber.org/zap"

	"taskboard/internal/metrics"
	"taskboard/internal/repository"
)

// CensusJob refreshes the boards-total gauge so it stays accurate even
// when no list traffic arrives.
type CensusJob struct {
	repo    repository.BoardRepository
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewCensusJob creates a new CensusJob instance.
func NewCensusJob(repo repository.BoardRepository, m *metrics.Metrics, logger *zap.Logger) *CensusJob {
	return &CensusJob{
		repo:    repo,
		metrics: m,
		logger:  logger,
	}
}

// Run counts the stored boards and updates the gauge. Implements cron.Job.
func (j *CensusJob) Run() {
	metas, err := j.repo.List(context.Background())
	if err != nil {
		j.logger.Error("Board census failed", zap.Error(err))
		return
	}

	j.metrics.SetBoardsTotal(int64(len(metas)))
	j.logger.Debug("Board census completed", zap.Int("boards", len(metas)))
}
