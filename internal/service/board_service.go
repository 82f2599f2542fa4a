package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"taskboard/internal/domain"
	"taskboard/internal/dto"
	"taskboard/internal/events"
	"taskboard/internal/metrics"
	"taskboard/internal/position"
	"taskboard/internal/projection"
	"taskboard/internal/query"
	"taskboard/internal/ratelimit"
	"taskboard/internal/repository"
	"taskboard/internal/response"
	"taskboard/internal/validation"
)

// BoardService is the shared core behind the HTTP, CLI, and agent tool
// surfaces. All three must observe identical validation, position, and
// projection semantics, so this is the only place those rules live.
type BoardService interface {
	GetBoard(ctx context.Context, boardID string, shape projection.Shape, opts projection.Options) (any, error)
	ListBoards(ctx context.Context) ([]domain.BoardMeta, error)
	CreateBoard(ctx context.Context, req *dto.CreateBoardRequest) (*domain.BoardMeta, error)
	UpdateBoard(ctx context.Context, boardID string, req *dto.UpdateBoardRequest) (*domain.Board, error)
	DeleteBoard(ctx context.Context, boardID string) error
	ArchiveBoard(ctx context.Context, boardID string) error
	RestoreBoard(ctx context.Context, archiveID string) (*domain.BoardMeta, error)
	ListArchives(ctx context.Context) ([]repository.ArchiveMeta, error)

	CreateColumn(ctx context.Context, boardID string, req *dto.CreateColumnRequest) (*domain.Column, error)
	UpdateColumn(ctx context.Context, boardID, columnID string, req *dto.UpdateColumnRequest) (*domain.Column, error)
	DeleteColumn(ctx context.Context, boardID, columnID string, force bool) error

	GetCard(ctx context.Context, boardID, cardID string) (*dto.CardDetail, error)
	CreateCard(ctx context.Context, boardID string, req *dto.CreateCardRequest) (*domain.Card, error)
	UpdateCard(ctx context.Context, boardID, cardID string, req *dto.UpdateCardRequest) (*domain.Card, error)
	MoveCard(ctx context.Context, boardID, cardID string, req *dto.MoveCardRequest) (*domain.Card, error)
	DeleteCard(ctx context.Context, boardID, cardID string) error

	QueryCards(ctx context.Context, boardID string, opts query.Options) (*query.Result, error)
}

type clientIDKey struct{}

// WithClient attaches the calling-client identity to the context. Each
// surface sets this before calling into the service; admission control
// keys on it.
func WithClient(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, clientIDKey{}, clientID)
}

func clientID(ctx context.Context) string {
	if id, ok := ctx.Value(clientIDKey{}).(string); ok && id != "" {
		return id
	}
	return "local"
}

// boardServiceImpl is the implementation of BoardService.
type boardServiceImpl struct {
	repo      repository.BoardRepository
	limiter   *ratelimit.Limiter
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewBoardService creates the service. publisher and m may be nil-ish
// collaborators (events.Nop, metrics with a throwaway registry) for the
// CLI and for tests.
func NewBoardService(
	repo repository.BoardRepository,
	limiter *ratelimit.Limiter,
	publisher events.Publisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) BoardService {
	return &boardServiceImpl{
		repo:      repo,
		limiter:   limiter,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// admit gates the call through the rate limiter before it reaches the
// store.
func (s *boardServiceImpl) admit(ctx context.Context, class ratelimit.Class) error {
	if s.limiter == nil {
		return nil
	}
	if err := s.limiter.Admit(clientID(ctx), class); err != nil {
		if s.metrics != nil {
			s.metrics.RecordRateLimited(string(class))
		}
		return err
	}
	return nil
}

func (s *boardServiceImpl) publish(eventType, boardID, cardID string, data any) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(events.Event{
		Type:    eventType,
		BoardID: boardID,
		CardID:  cardID,
		At:      time.Now().UTC(),
		Data:    data,
	})
}

// GetBoard loads a board and renders it into the requested shape.
func (s *boardServiceImpl) GetBoard(ctx context.Context, boardID string, shape projection.Shape, opts projection.Options) (any, error) {
	if err := s.admit(ctx, ratelimit.ClassRead); err != nil {
		return nil, err
	}
	board, err := s.repo.Load(ctx, boardID)
	if err != nil {
		return nil, err
	}
	return projection.Project(board, shape, opts)
}

// ListBoards enumerates boards.
func (s *boardServiceImpl) ListBoards(ctx context.Context) ([]domain.BoardMeta, error) {
	if err := s.admit(ctx, ratelimit.ClassRead); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// CreateBoard creates a board with the default column set.
func (s *boardServiceImpl) CreateBoard(ctx context.Context, req *dto.CreateBoardRequest) (*domain.BoardMeta, error) {
	if err := s.admit(ctx, ratelimit.ClassWrite); err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, response.NewAppError(response.ErrCodeValidation, "board name is required", "")
	}
	meta, err := s.repo.Create(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	s.logger.Info("board created",
		zap.String("board_id", meta.ID),
		zap.String("name", meta.Name),
	)
	if s.metrics != nil {
		s.metrics.IncrementBoardCreated()
	}
	s.publish(events.TypeBoardUpdated, meta.ID, "", meta)
	return meta, nil
}

// UpdateBoard updates board metadata.
func (s *boardServiceImpl) UpdateBoard(ctx context.Context, boardID string, req *dto.UpdateBoardRequest) (*domain.Board, error) {
	if err := s.admit(ctx, ratelimit.ClassWrite); err != nil {
		return nil, err
	}
	board, err := s.repo.Load(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		board.Name = *req.Name
	}
	if req.Description != nil {
		board.Description = *req.Description
	}
	if err := validation.Err(validation.ValidateBoard(board)); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, board, "update-board"); err != nil {
		return nil, err
	}
	s.publish(events.TypeBoardUpdated, board.ID, "", nil)
	return board, nil
}

// DeleteBoard removes a board irreversibly.
func (s *boardServiceImpl) DeleteBoard(ctx context.Context, boardID string) error {
	if err := s.admit(ctx, ratelimit.ClassWrite); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, boardID); err != nil {
		return err
	}
	s.logger.Info("board deleted", zap.String("board_id", boardID))
	s.publish(events.TypeBoardUpdated, boardID, "", nil)
	return nil
}

// ArchiveBoard moves a board to the retained archive area.
func (s *boardServiceImpl) ArchiveBoard(ctx context.Context, boardID string) error {
	if err := s.admit(ctx, ratelimit.ClassWrite); err != nil {
		return err
	}
	if err := s.repo.Archive(ctx, boardID); err != nil {
		return err
	}
	s.publish(events.TypeBoardUpdated, boardID, "", nil)
	return nil
}

// RestoreBoard brings an archived board back.
func (s *boardServiceImpl) RestoreBoard(ctx context.Context, archiveID string) (*domain.BoardMeta, error) {
	if err := s.admit(ctx, ratelimit.ClassWrite); err != nil {
		return nil, err
	}
	meta, err := s.repo.Restore(ctx, archiveID)
	if err != nil {
		return nil, err
	}
	s.publish(events.TypeBoardUpdated, meta.ID, "", nil)
	return meta, nil
}

// ListArchives enumerates restorable archives.
func (s *boardServiceImpl) ListArchives(ctx context.Context) ([]repository.ArchiveMeta, error) {
	if err := s.admit(ctx, ratelimit.ClassRead); err != nil {
		return nil, err
	}
	return s.repo.ListArchives(ctx)
}

// CreateColumn appends a column to the board's column sequence.
func (s *boardServiceImpl) CreateColumn(ctx context.Context, boardID string, req *dto.CreateColumnRequest) (*domain.Column, error) {
	if err := s.admit(ctx, ratelimit.ClassWrite); err != nil {
		return nil, err
	}
	board, err := s.repo.Load(ctx, boardID)
	if err != nil {
		return nil, err
	}
	col := domain.NewColumn(req.Name)
	col.WIPLimit = req.WIPLimit
	if err := validation.Err(validation.ValidateColumn(&col)); err != nil {
		return nil, err
	}
	board.Columns = append(board.Columns, col)
	if err := s.repo.Save(ctx, board, "create-column"); err != nil {
		return nil, err
	}
	s.publish(events.TypeBoardUpdated, board.ID, "", nil)
	return &col, nil
}

// UpdateColumn updates column metadata.
func (s *boardServiceImpl) UpdateColumn(ctx context.Context, boardID, columnID string, req *dto.UpdateColumnRequest) (*domain.Column, error) {
	if err := s.admit(ctx, ratelimit.ClassWrite); err != nil {
		return nil, err
	}
	board, err := s.repo.Load(ctx, boardID)
	if err != nil {
		return nil, err
	}
	col := board.Column(columnID)
	if col == nil {
		return nil, response.NewAppError(response.ErrCodeNotFound, "column not found", columnID)
	}
	if req.Name != nil {
		col.Name = *req.Name
	}
	if req.WIPLimit != nil {
		col.WIPLimit = *req.WIPLimit
	}
	if err := validation.Err(validation.ValidateColumn(col)); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, board, "update-column"); err != nil {
		return nil, err
	}
	s.publish(events.TypeBoardUpdated, board.ID, "", nil)
	result := *col
	return &result, nil
}

// DeleteColumn removes a column. A non-empty column is refused unless
// force is set, in which case its cards are re-homed to the first
// remaining column.
func (s *boardServiceImpl) DeleteColumn(ctx context.Context, boardID, columnID string, force bool) error {
	if err := s.admit(ctx, ratelimit.ClassWrite); err != nil {
		return err
	}
	board, err := s.repo.Load(ctx, boardID)
	if err != nil {
		return err
	}
	if err := validation.EnsureCardFirst(board); err != nil {
		return err
	}
	idx := -1
	for i := range board.Columns {
		if board.Columns[i].ID == columnID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return response.NewAppError(response.ErrCodeNotFound, "column not found", columnID)
	}

	orphans := board.CardsInColumn(columnID)
	if len(orphans) > 0 && !force {
		return response.NewAppError(response.ErrCodeValidation,
			"column is not empty",
			"delete with force to re-home its cards to the first remaining column")
	}

	board.Columns = append(board.Columns[:idx], board.Columns[idx+1:]...)
	if len(orphans) > 0 {
		if len(board.Columns) == 0 {
			return response.NewAppError(response.ErrCodeValidation,
				"cannot delete the last column while cards remain", "")
		}
		// Re-homing goes through the allocator so it stays the single
		// writer of card positions.
		target := board.Columns[0].ID
		for _, card := range orphans {
			if err := position.Place(board, card.ID, target, position.Target{Kind: position.TargetLast}); err != nil {
				return err
			}
		}
	}

	if err := s.repo.Save(ctx, board, "delete-column"); err != nil {
		return err
	}
	s.publish(events.TypeBoardUpdated, board.ID, "", nil)
	return nil
}

// QueryCards runs the filter engine against a board.
func (s *boardServiceImpl) QueryCards(ctx context.Context, boardID string, opts query.Options) (*query.Result, error) {
	if err := s.admit(ctx, ratelimit.ClassRead); err != nil {
		return nil, err
	}
	board, err := s.repo.Load(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := validation.EnsureCardFirst(board); err != nil {
		return nil, err
	}
	return query.Apply(board, opts)
}
