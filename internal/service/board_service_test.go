package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskboard/internal/domain"
	"taskboard/internal/dto"
	"taskboard/internal/events"
	"taskboard/internal/metrics"
	"taskboard/internal/query"
	"taskboard/internal/ratelimit"
	"taskboard/internal/response"
)

func newTestService(repo *mockRepository, limiter *ratelimit.Limiter) (BoardService, *events.Recorder) {
	recorder := &events.Recorder{}
	svc := NewBoardService(repo, limiter, recorder, metrics.NewWithRegistry(nil, nil), zap.NewNop())
	return svc, recorder
}

func demoBoard() *domain.Board {
	created := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	return &domain.Board{
		ID:   "board-1",
		Name: "Sprint",
		Columns: []domain.Column{
			{ID: "col-backlog", Name: "Backlog"},
			{ID: "col-doing", Name: "Doing"},
			{ID: "col-done", Name: "Done"},
		},
		Cards: []domain.Card{
			{ID: "card-a", Title: "Alpha", ColumnID: "col-backlog", Position: 0, CreatedAt: created, UpdatedAt: created},
			{ID: "card-b", Title: "Beta", ColumnID: "col-backlog", Position: 1, CreatedAt: created, UpdatedAt: created},
			{ID: "card-c", Title: "Gamma", ColumnID: "col-doing", Position: 0, CreatedAt: created, UpdatedAt: created},
		},
	}
}

func loadDemo(board *domain.Board) *mockRepository {
	return &mockRepository{
		LoadFunc: func(ctx context.Context, boardID string) (*domain.Board, error) {
			return board, nil
		},
	}
}

func TestCreateBoard(t *testing.T) {
	repo := &mockRepository{
		CreateFunc: func(ctx context.Context, name string) (*domain.BoardMeta, error) {
			return &domain.BoardMeta{ID: "new-id", Name: name}, nil
		},
	}
	svc, recorder := newTestService(repo, nil)

	meta, err := svc.CreateBoard(context.Background(), &dto.CreateBoardRequest{Name: "Roadmap"})
	require.NoError(t, err)
	assert.Equal(t, "new-id", meta.ID)
	assert.Equal(t, "Roadmap", meta.Name)

	require.Len(t, recorder.Events, 1)
	assert.Equal(t, events.TypeBoardUpdated, recorder.Events[0].Type)
	assert.Equal(t, "new-id", recorder.Events[0].BoardID)
}

func TestCreateBoardRequiresName(t *testing.T) {
	var created bool
	repo := &mockRepository{
		CreateFunc: func(ctx context.Context, name string) (*domain.BoardMeta, error) {
			created = true
			return nil, nil
		},
	}
	svc, _ := newTestService(repo, nil)

	_, err := svc.CreateBoard(context.Background(), &dto.CreateBoardRequest{})
	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, response.ErrCodeValidation, appErr.Code)
	assert.False(t, created)
}

func TestUpdateBoard(t *testing.T) {
	board := demoBoard()
	repo := loadDemo(board)
	svc, recorder := newTestService(repo, nil)

	name, desc := "Renamed", "Next iteration"
	updated, err := svc.UpdateBoard(context.Background(), "board-1", &dto.UpdateBoardRequest{
		Name:        &name,
		Description: &desc,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "Next iteration", updated.Description)
	assert.Equal(t, []string{"update-board"}, repo.SaveCalls)
	require.Len(t, recorder.Events, 1)
	assert.Equal(t, events.TypeBoardUpdated, recorder.Events[0].Type)
}

func TestDeleteColumnRefusesNonEmpty(t *testing.T) {
	board := demoBoard()
	repo := loadDemo(board)
	svc, _ := newTestService(repo, nil)

	err := svc.DeleteColumn(context.Background(), "board-1", "col-backlog", false)
	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, response.ErrCodeValidation, appErr.Code)
	assert.Empty(t, repo.SaveCalls)
	assert.Len(t, board.Columns, 3)
}

func TestDeleteColumnForceRehomesCards(t *testing.T) {
	board := demoBoard()
	repo := loadDemo(board)
	svc, _ := newTestService(repo, nil)

	// col-doing has one card; with force it lands after col-backlog's
	// existing cards.
	require.NoError(t, svc.DeleteColumn(context.Background(), "board-1", "col-doing", true))
	assert.Equal(t, []string{"delete-column"}, repo.SaveCalls)
	require.Len(t, board.Columns, 2)
	assert.Nil(t, board.Column("col-doing"))

	moved := board.Card("card-c")
	require.NotNil(t, moved)
	assert.Equal(t, "col-backlog", moved.ColumnID)
	assert.Equal(t, 2, moved.Position)
}

func TestDeleteColumnForceKeepsPositionsDense(t *testing.T) {
	board := demoBoard()
	repo := loadDemo(board)
	svc, _ := newTestService(repo, nil)

	// col-backlog's cards carry positions 0 and 1, colliding with
	// card-c's 0 in col-doing. Re-homing appends them after the
	// occupants and leaves one dense sequence.
	require.NoError(t, svc.DeleteColumn(context.Background(), "board-1", "col-backlog", true))

	doing := board.CardsInColumn("col-doing")
	require.Len(t, doing, 3)
	for i, card := range doing {
		assert.Equal(t, i, card.Position)
	}
	assert.Equal(t, "card-c", doing[0].ID)
	assert.Equal(t, "card-a", doing[1].ID)
	assert.Equal(t, "card-b", doing[2].ID)
}

func TestDeleteColumnUnknown(t *testing.T) {
	repo := loadDemo(demoBoard())
	svc, _ := newTestService(repo, nil)

	err := svc.DeleteColumn(context.Background(), "board-1", "col-nope", false)
	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, response.ErrCodeNotFound, appErr.Code)
}

func TestCreateColumn(t *testing.T) {
	board := demoBoard()
	repo := loadDemo(board)
	svc, _ := newTestService(repo, nil)

	col, err := svc.CreateColumn(context.Background(), "board-1", &dto.CreateColumnRequest{
		Name:     "Review",
		WIPLimit: 2,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, col.ID)
	assert.Equal(t, "Review", col.Name)
	assert.Equal(t, 2, col.WIPLimit)
	require.Len(t, board.Columns, 4)
	assert.Equal(t, "Review", board.Columns[3].Name)
}

func TestUpdateColumnUnknown(t *testing.T) {
	repo := loadDemo(demoBoard())
	svc, _ := newTestService(repo, nil)

	name := "X"
	_, err := svc.UpdateColumn(context.Background(), "board-1", "col-nope", &dto.UpdateColumnRequest{Name: &name})
	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, response.ErrCodeNotFound, appErr.Code)
}

func TestQueryCardsRefusesLegacyBoard(t *testing.T) {
	board := demoBoard()
	board.Cards = nil
	board.Columns[0].NestedCards = []domain.Card{{ID: "old", Title: "Old layout"}}
	repo := loadDemo(board)
	svc, _ := newTestService(repo, nil)

	_, err := svc.QueryCards(context.Background(), "board-1", query.Options{})
	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, response.ErrCodeFormatMismatch, appErr.Code)
}

func TestRateLimitedCallNeverReachesStore(t *testing.T) {
	var listed bool
	repo := &mockRepository{
		ListFunc: func(ctx context.Context) ([]domain.BoardMeta, error) {
			listed = true
			return nil, nil
		},
	}
	limiter := ratelimit.New(ratelimit.Config{
		Window:     time.Minute,
		ReadLimit:  1,
		WriteLimit: 1,
		MaxClients: 10,
	})
	svc, _ := newTestService(repo, limiter)
	ctx := WithClient(context.Background(), "agent-1")

	_, err := svc.ListBoards(ctx)
	require.NoError(t, err)

	_, err = svc.ListBoards(ctx)
	var rlErr *ratelimit.Error
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, ratelimit.ClassRead, rlErr.Class)

	listed = false
	_, err = svc.ListBoards(ctx)
	require.Error(t, err)
	assert.False(t, listed)
}

func TestRateLimitClientsAreIndependent(t *testing.T) {
	repo := &mockRepository{
		ListFunc: func(ctx context.Context) ([]domain.BoardMeta, error) {
			return nil, nil
		},
	}
	limiter := ratelimit.New(ratelimit.Config{
		Window:     time.Minute,
		ReadLimit:  1,
		WriteLimit: 1,
		MaxClients: 10,
	})
	svc, _ := newTestService(repo, limiter)

	_, err := svc.ListBoards(WithClient(context.Background(), "agent-1"))
	require.NoError(t, err)
	_, err = svc.ListBoards(WithClient(context.Background(), "agent-1"))
	require.Error(t, err)

	// A different client identity has its own window; no identity at all
	// falls back to the shared "local" one.
	_, err = svc.ListBoards(WithClient(context.Background(), "agent-2"))
	require.NoError(t, err)
	_, err = svc.ListBoards(context.Background())
	require.NoError(t, err)
}
