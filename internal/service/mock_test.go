package service

import (
	"context"

	"taskboard/internal/domain"
	"taskboard/internal/repository"
)

// mockRepository implements repository.BoardRepository with pluggable
// functions so each test wires only the calls it expects.
type mockRepository struct {
	LoadFunc         func(ctx context.Context, boardID string) (*domain.Board, error)
	SaveFunc         func(ctx context.Context, board *domain.Board, opTag string) error
	ListFunc         func(ctx context.Context) ([]domain.BoardMeta, error)
	CreateFunc       func(ctx context.Context, name string) (*domain.BoardMeta, error)
	DeleteFunc       func(ctx context.Context, boardID string) error
	ArchiveFunc      func(ctx context.Context, boardID string) error
	RestoreFunc      func(ctx context.Context, archiveID string) (*domain.BoardMeta, error)
	ListArchivesFunc func(ctx context.Context) ([]repository.ArchiveMeta, error)

	SaveCalls []string
}

func (m *mockRepository) Load(ctx context.Context, boardID string) (*domain.Board, error) {
	return m.LoadFunc(ctx, boardID)
}

func (m *mockRepository) Save(ctx context.Context, board *domain.Board, opTag string) error {
	m.SaveCalls = append(m.SaveCalls, opTag)
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, board, opTag)
	}
	return nil
}

func (m *mockRepository) List(ctx context.Context) ([]domain.BoardMeta, error) {
	return m.ListFunc(ctx)
}

func (m *mockRepository) Create(ctx context.Context, name string) (*domain.BoardMeta, error) {
	return m.CreateFunc(ctx, name)
}

func (m *mockRepository) Delete(ctx context.Context, boardID string) error {
	return m.DeleteFunc(ctx, boardID)
}

func (m *mockRepository) Archive(ctx context.Context, boardID string) error {
	return m.ArchiveFunc(ctx, boardID)
}

func (m *mockRepository) Restore(ctx context.Context, archiveID string) (*domain.BoardMeta, error) {
	return m.RestoreFunc(ctx, archiveID)
}

func (m *mockRepository) ListArchives(ctx context.Context) ([]repository.ArchiveMeta, error) {
	return m.ListArchivesFunc(ctx)
}
