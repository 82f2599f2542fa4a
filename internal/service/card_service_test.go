package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/domain"
	"taskboard/internal/dto"
	"taskboard/internal/events"
	"taskboard/internal/response"
)

func TestCreateCardAtFirst(t *testing.T) {
	board := demoBoard()
	repo := loadDemo(board)
	svc, recorder := newTestService(repo, nil)

	card, err := svc.CreateCard(context.Background(), "board-1", &dto.CreateCardRequest{
		Title:    "Delta",
		ColumnID: "col-backlog",
		Position: "first",
		Tags:     []string{"urgent"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, card.ID)
	assert.Equal(t, "col-backlog", card.ColumnID)
	assert.Equal(t, 0, card.Position)
	assert.False(t, card.CreatedAt.IsZero())

	// The prior occupants shift down one slot each.
	assert.Equal(t, 1, board.Card("card-a").Position)
	assert.Equal(t, 2, board.Card("card-b").Position)
	assert.Equal(t, []string{"create-card"}, repo.SaveCalls)

	require.Len(t, recorder.Events, 1)
	assert.Equal(t, events.TypeCardCreated, recorder.Events[0].Type)
	assert.Equal(t, card.ID, recorder.Events[0].CardID)

	// The returned card is a clone, not board state.
	card.Title = "changed"
	assert.Equal(t, "Delta", board.Card(card.ID).Title)
}

func TestCreateCardDefaultsToLast(t *testing.T) {
	board := demoBoard()
	svc, _ := newTestService(loadDemo(board), nil)

	card, err := svc.CreateCard(context.Background(), "board-1", &dto.CreateCardRequest{
		Title:    "Delta",
		ColumnID: "col-backlog",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, card.Position)
}

func TestCreateCardUnknownColumn(t *testing.T) {
	repo := loadDemo(demoBoard())
	svc, _ := newTestService(repo, nil)

	_, err := svc.CreateCard(context.Background(), "board-1", &dto.CreateCardRequest{
		Title:    "Delta",
		ColumnID: "col-nope",
	})
	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, response.ErrCodeNotFound, appErr.Code)
	assert.Empty(t, repo.SaveCalls)
}

func TestCreateCardRejectsRelativeTarget(t *testing.T) {
	svc, _ := newTestService(loadDemo(demoBoard()), nil)

	_, err := svc.CreateCard(context.Background(), "board-1", &dto.CreateCardRequest{
		Title:    "Delta",
		ColumnID: "col-backlog",
		Position: "up",
	})
	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, response.ErrCodeValidation, appErr.Code)
}

func TestCreateCardMissingDependencyDoesNotPersist(t *testing.T) {
	board := demoBoard()
	repo := loadDemo(board)
	svc, recorder := newTestService(repo, nil)

	_, err := svc.CreateCard(context.Background(), "board-1", &dto.CreateCardRequest{
		Title:     "Delta",
		ColumnID:  "col-backlog",
		DependsOn: []string{"card-a", "ghost"},
	})
	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, response.ErrCodeDependency, appErr.Code)
	assert.Empty(t, repo.SaveCalls)
	assert.Empty(t, recorder.Events)
}

func TestUpdateCard(t *testing.T) {
	board := demoBoard()
	repo := loadDemo(board)
	svc, _ := newTestService(repo, nil)

	title := "Alpha, revised"
	collapsed := true
	card, err := svc.UpdateCard(context.Background(), "board-1", "card-a", &dto.UpdateCardRequest{
		Title:     &title,
		Collapsed: &collapsed,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alpha, revised", card.Title)
	assert.True(t, card.Collapsed)
	assert.Equal(t, []string{"update-card"}, repo.SaveCalls)

	// Untouched fields stay as they were.
	assert.Equal(t, "col-backlog", card.ColumnID)
	assert.Equal(t, 0, card.Position)
}

func TestUpdateCardDependencyRollback(t *testing.T) {
	board := demoBoard()
	repo := loadDemo(board)
	svc, _ := newTestService(repo, nil)

	deps := []string{"card-a"}
	_, err := svc.UpdateCard(context.Background(), "board-1", "card-a", &dto.UpdateCardRequest{
		DependsOn: &deps,
	})
	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, response.ErrCodeDependency, appErr.Code)
	assert.Empty(t, repo.SaveCalls)
}

func TestMoveCardAcrossColumns(t *testing.T) {
	board := demoBoard()
	repo := loadDemo(board)
	svc, recorder := newTestService(repo, nil)

	moved, err := svc.MoveCard(context.Background(), "board-1", "card-a", &dto.MoveCardRequest{
		ColumnID: "col-done",
		Position: "last",
	})
	require.NoError(t, err)
	assert.Equal(t, "col-done", moved.ColumnID)
	assert.Equal(t, 0, moved.Position)

	// The source column closes the gap.
	assert.Equal(t, 0, board.Card("card-b").Position)
	assert.Equal(t, []string{"move-card"}, repo.SaveCalls)

	require.Len(t, recorder.Events, 1)
	assert.Equal(t, events.TypeCardMoved, recorder.Events[0].Type)
	assert.Equal(t, "card-a", recorder.Events[0].CardID)
}

func TestMoveCardWithinColumn(t *testing.T) {
	board := demoBoard()
	svc, _ := newTestService(loadDemo(board), nil)

	moved, err := svc.MoveCard(context.Background(), "board-1", "card-b", &dto.MoveCardRequest{
		Position: "up",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, moved.Position)
	assert.Equal(t, 1, board.Card("card-a").Position)
}

func TestMoveCardUnknown(t *testing.T) {
	svc, _ := newTestService(loadDemo(demoBoard()), nil)

	_, err := svc.MoveCard(context.Background(), "board-1", "card-nope", &dto.MoveCardRequest{Position: "last"})
	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, response.ErrCodeNotFound, appErr.Code)
}

func TestDeleteCardCompactsColumn(t *testing.T) {
	board := demoBoard()
	repo := loadDemo(board)
	svc, recorder := newTestService(repo, nil)

	require.NoError(t, svc.DeleteCard(context.Background(), "board-1", "card-a"))
	assert.Nil(t, board.Card("card-a"))
	assert.Equal(t, 0, board.Card("card-b").Position)
	assert.Equal(t, []string{"delete-card"}, repo.SaveCalls)

	require.Len(t, recorder.Events, 1)
	assert.Equal(t, events.TypeCardDeleted, recorder.Events[0].Type)
}

func TestGetCardResolvesRelations(t *testing.T) {
	board := demoBoard()
	board.Card("card-b").DependsOn = []string{"card-a"}
	svc, _ := newTestService(loadDemo(board), nil)

	detail, err := svc.GetCard(context.Background(), "board-1", "card-b")
	require.NoError(t, err)
	assert.Equal(t, "Beta", detail.Card.Title)
	require.Len(t, detail.Relations.DependsOn, 1)
	assert.Equal(t, "Alpha", detail.Relations.DependsOn[0].Title)

	detail, err = svc.GetCard(context.Background(), "board-1", "card-a")
	require.NoError(t, err)
	require.Len(t, detail.Relations.Dependents, 1)
	assert.Equal(t, "card-b", detail.Relations.Dependents[0].ID)
}

func TestCardOperationsRefuseLegacyBoard(t *testing.T) {
	board := demoBoard()
	board.Cards = nil
	board.Columns[0].NestedCards = []domain.Card{{ID: "old", Title: "Old layout"}}
	repo := loadDemo(board)
	svc, _ := newTestService(repo, nil)

	_, err := svc.CreateCard(context.Background(), "board-1", &dto.CreateCardRequest{
		Title:    "Delta",
		ColumnID: "col-backlog",
	})
	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, response.ErrCodeFormatMismatch, appErr.Code)
	assert.Empty(t, repo.SaveCalls)
}
