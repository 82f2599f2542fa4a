package dto

import (
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/projection"
)

// CreateCardRequest adds a card to a column. Position accepts an absolute
// index or first/last; the relative up/down targets only apply to moves.
type CreateCardRequest struct {
	Title     string     `json:"title" binding:"required,min=1,max=200"`
	Content   string     `json:"content"`
	ColumnID  string     `json:"columnId" binding:"required"`
	Position  string     `json:"position"`
	Subtasks  []string   `json:"subtasks"`
	Tags      []string   `json:"tags"`
	DependsOn []string   `json:"dependsOn"`
	Assignee  string     `json:"assignee"`
	DueDate   *time.Time `json:"dueDate"`
	Collapsed bool       `json:"collapsed"`
}

// UpdateCardRequest updates card content. Column and position changes go
// through the move operation instead. All fields are optional; nil means
// "leave unchanged".
type UpdateCardRequest struct {
	Title     *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Content   *string    `json:"content"`
	Subtasks  *[]string  `json:"subtasks"`
	Tags      *[]string  `json:"tags"`
	DependsOn *[]string  `json:"dependsOn"`
	Assignee  *string    `json:"assignee"`
	DueDate   *time.Time `json:"dueDate"`
	Collapsed *bool      `json:"collapsed"`
	ClearDue  bool       `json:"clearDueDate"`
}

// MoveCardRequest moves a card within or across columns. Position accepts
// an absolute index, first/last, or up/down (same column only).
type MoveCardRequest struct {
	ColumnID string `json:"columnId"`
	Position string `json:"position" binding:"required"`
}

// CardDetail is the single-card view with dependency titles resolved.
type CardDetail struct {
	Card      domain.Card              `json:"card"`
	Relations projection.CardRelations `json:"relations"`
}

// QueryCardsRequest is the bound form of the card query parameters.
type QueryCardsRequest struct {
	ColumnID  string     `json:"columnId" form:"columnId"`
	Tags      []string   `json:"tags" form:"tags"`
	Assignee  string     `json:"assignee" form:"assignee"`
	DueAfter  *time.Time `json:"dueAfter" form:"dueAfter" time_format:"2006-01-02T15:04:05Z07:00"`
	DueBefore *time.Time `json:"dueBefore" form:"dueBefore" time_format:"2006-01-02T15:04:05Z07:00"`
	Search    string     `json:"search" form:"search"`
	SortBy    string     `json:"sortBy" form:"sortBy"`
	SortDesc  bool       `json:"sortDesc" form:"sortDesc"`
	Limit     int        `json:"limit" form:"limit"`
	Offset    int        `json:"offset" form:"offset"`
}
