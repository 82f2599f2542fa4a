package repository

import (
	"context"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/metrics"
)

// instrumentedRepository decorates a BoardRepository with operation
// duration and error metrics.
type instrumentedRepository struct {
	inner BoardRepository
	m     *metrics.Metrics
}

// WithMetrics wraps a repository so every operation is timed and counted.
func WithMetrics(inner BoardRepository, m *metrics.Metrics) BoardRepository {
	return &instrumentedRepository{inner: inner, m: m}
}

func (r *instrumentedRepository) observe(op string, start time.Time, err error) {
	r.m.RecordStoreOp(op, time.Since(start), err)
}

func (r *instrumentedRepository) Load(ctx context.Context, boardID string) (*domain.Board, error) {
	start := time.Now()
	board, err := r.inner.Load(ctx, boardID)
	r.observe("load", start, err)
	return board, err
}

func (r *instrumentedRepository) Save(ctx context.Context, board *domain.Board, opTag string) error {
	start := time.Now()
	err := r.inner.Save(ctx, board, opTag)
	r.observe("save", start, err)
	return err
}

func (r *instrumentedRepository) List(ctx context.Context) ([]domain.BoardMeta, error) {
	start := time.Now()
	metas, err := r.inner.List(ctx)
	r.observe("list", start, err)
	if err == nil {
		r.m.SetBoardsTotal(int64(len(metas)))
	}
	return metas, err
}

func (r *instrumentedRepository) Create(ctx context.Context, name string) (*domain.BoardMeta, error) {
	start := time.Now()
	meta, err := r.inner.Create(ctx, name)
	r.observe("create", start, err)
	return meta, err
}

func (r *instrumentedRepository) Delete(ctx context.Context, boardID string) error {
	start := time.Now()
	err := r.inner.Delete(ctx, boardID)
	r.observe("delete", start, err)
	return err
}

func (r *instrumentedRepository) Archive(ctx context.Context, boardID string) error {
	start := time.Now()
	err := r.inner.Archive(ctx, boardID)
	r.observe("archive", start, err)
	return err
}

func (r *instrumentedRepository) Restore(ctx context.Context, archiveID string) (*domain.BoardMeta, error) {
	start := time.Now()
	meta, err := r.inner.Restore(ctx, archiveID)
	r.observe("restore", start, err)
	return meta, err
}

func (r *instrumentedRepository) ListArchives(ctx context.Context) ([]ArchiveMeta, error) {
	start := time.Now()
	metas, err := r.inner.ListArchives(ctx)
	r.observe("list_archives", start, err)
	return metas, err
}
