package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"taskboard/internal/dependency"
	"taskboard/internal/domain"
	"taskboard/internal/dto"
	"taskboard/internal/events"
	"taskboard/internal/position"
	"taskboard/internal/projection"
	"taskboard/internal/ratelimit"
	"taskboard/internal/response"
	"taskboard/internal/validation"
)

// GetCard returns one card with its dependency relations resolved.
func (s *boardServiceImpl) GetCard(ctx context.Context, boardID, cardID string) (*dto.CardDetail, error) {
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
	card := board.Card(cardID)
	if card == nil {
		return nil, response.NewAppError(response.ErrCodeNotFound, "card not found", cardID)
	}
	return &dto.CardDetail{
		Card:      *card.Clone(),
		Relations: projection.Relations(board)[cardID],
	}, nil
}

// CreateCard validates, positions, and persists a new card. A failed
// validation or dependency check leaves the on-disk state untouched.
func (s *boardServiceImpl) CreateCard(ctx context.Context, boardID string, req *dto.CreateCardRequest) (*domain.Card, error) {
	if err := s.admit(ctx, ratelimit.ClassWrite); err != nil {
		return nil, err
	}
	board, err := s.repo.Load(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := validation.EnsureCardFirst(board); err != nil {
		return nil, err
	}
	if board.Column(req.ColumnID) == nil {
		return nil, response.NewAppError(response.ErrCodeNotFound, "column not found", req.ColumnID)
	}

	target, err := position.ParseTarget(req.Position)
	if err != nil {
		return nil, err
	}
	if target.Kind == position.TargetUp || target.Kind == position.TargetDown {
		return nil, response.NewAppError(response.ErrCodeValidation,
			"invalid position target",
			"up/down only apply to cards already in the destination column")
	}

	card := domain.NewCard(req.Title, req.ColumnID)
	card.Content = req.Content
	card.Subtasks = req.Subtasks
	card.Tags = req.Tags
	card.DependsOn = req.DependsOn
	card.Assignee = req.Assignee
	card.DueDate = req.DueDate
	card.Collapsed = req.Collapsed
	card.Position = len(board.CardsInColumn(req.ColumnID))

	if err := validation.Err(validation.ValidateCard(card)); err != nil {
		return nil, err
	}
	if err := dependency.Resolve(card.ID, card.DependsOn, board.Cards); err != nil {
		return nil, err
	}

	board.Cards = append(board.Cards, *card)
	if err := position.Place(board, card.ID, req.ColumnID, target); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, board, "create-card"); err != nil {
		return nil, err
	}

	saved := board.Card(card.ID)
	s.logger.Info("card created",
		zap.String("board_id", board.ID),
		zap.String("card_id", saved.ID),
		zap.String("column_id", saved.ColumnID),
		zap.Int("position", saved.Position),
	)
	if s.metrics != nil {
		s.metrics.IncrementCardCreated()
	}
	s.publish(events.TypeCardCreated, board.ID, saved.ID, saved)
	return saved.Clone(), nil
}

// UpdateCard changes card content. Column and position changes go through
// MoveCard so the allocator stays the only writer of positions.
func (s *boardServiceImpl) UpdateCard(ctx context.Context, boardID, cardID string, req *dto.UpdateCardRequest) (*domain.Card, error) {
	if err := s.admit(ctx, ratelimit.ClassWrite); err != nil {
		return nil, err
	}
	board, err := s.repo.Load(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := validation.EnsureCardFirst(board); err != nil {
		return nil, err
	}
	card := board.Card(cardID)
	if card == nil {
		return nil, response.NewAppError(response.ErrCodeNotFound, "card not found", cardID)
	}

	if req.Title != nil {
		card.Title = *req.Title
	}
	if req.Content != nil {
		card.Content = *req.Content
	}
	if req.Subtasks != nil {
		card.Subtasks = *req.Subtasks
	}
	if req.Tags != nil {
		card.Tags = *req.Tags
	}
	if req.DependsOn != nil {
		card.DependsOn = *req.DependsOn
	}
	if req.Assignee != nil {
		card.Assignee = *req.Assignee
	}
	if req.DueDate != nil {
		card.DueDate = req.DueDate
	}
	if req.ClearDue {
		card.DueDate = nil
	}
	if req.Collapsed != nil {
		card.Collapsed = *req.Collapsed
	}
	card.UpdatedAt = time.Now().UTC()

	if err := validation.Err(validation.ValidateCard(card)); err != nil {
		return nil, err
	}
	if err := dependency.Resolve(card.ID, card.DependsOn, board.Cards); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, board, "update-card"); err != nil {
		return nil, err
	}
	s.publish(events.TypeBoardUpdated, board.ID, "", nil)
	return board.Card(cardID).Clone(), nil
}

// MoveCard relocates a card within or across columns, renumbering every
// affected column to a dense 0..n-1 sequence.
func (s *boardServiceImpl) MoveCard(ctx context.Context, boardID, cardID string, req *dto.MoveCardRequest) (*domain.Card, error) {
	if err := s.admit(ctx, ratelimit.ClassWrite); err != nil {
		return nil, err
	}
	board, err := s.repo.Load(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := validation.EnsureCardFirst(board); err != nil {
		return nil, err
	}
	card := board.Card(cardID)
	if card == nil {
		return nil, response.NewAppError(response.ErrCodeNotFound, "card not found", cardID)
	}

	columnID := req.ColumnID
	if columnID == "" {
		columnID = card.ColumnID
	}
	target, err := position.ParseTarget(req.Position)
	if err != nil {
		return nil, err
	}
	if err := position.Place(board, cardID, columnID, target); err != nil {
		return nil, err
	}
	card.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, board, "move-card"); err != nil {
		return nil, err
	}

	moved := board.Card(cardID)
	s.logger.Info("card moved",
		zap.String("board_id", board.ID),
		zap.String("card_id", cardID),
		zap.String("column_id", moved.ColumnID),
		zap.Int("position", moved.Position),
	)
	s.publish(events.TypeCardMoved, board.ID, cardID, moved)
	return moved.Clone(), nil
}

// DeleteCard removes a card and compacts its former column's positions.
func (s *boardServiceImpl) DeleteCard(ctx context.Context, boardID, cardID string) error {
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
	for i := range board.Cards {
		if board.Cards[i].ID == cardID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return response.NewAppError(response.ErrCodeNotFound, "card not found", cardID)
	}
	columnID := board.Cards[idx].ColumnID
	board.Cards = append(board.Cards[:idx], board.Cards[idx+1:]...)
	position.Renumber(board, columnID)

	if err := s.repo.Save(ctx, board, "delete-card"); err != nil {
		return err
	}
	s.publish(events.TypeCardDeleted, board.ID, cardID, nil)
	return nil
}
