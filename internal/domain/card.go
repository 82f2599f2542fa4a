package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SubtaskDonePrefix marks a completed subtask. Subtasks are plain strings;
// the leading checkmark is a convention, not a structured field.
const SubtaskDonePrefix = "✓ "

// Card is a unit of work on a board. Position is a dense zero-based rank
// within the owning column and is only ever written by the position
// allocator.
type Card struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content,omitempty"`
	ColumnID    string     `json:"columnId"`
	Position    int        `json:"position"`
	Collapsed   bool       `json:"collapsed,omitempty"`
	Subtasks    []string   `json:"subtasks,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	DependsOn   []string   `json:"dependsOn,omitempty"`
	Assignee    string     `json:"assignee,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewCard creates a card with a generated ID and creation timestamps.
// Position is left for the allocator to assign.
func NewCard(title, columnID string) *Card {
	now := time.Now().UTC()
	return &Card{
		ID:        uuid.NewString(),
		Title:     title,
		ColumnID:  columnID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SubtaskDone reports whether a subtask string carries the done marker.
func SubtaskDone(subtask string) bool {
	return strings.HasPrefix(subtask, SubtaskDonePrefix)
}

// SubtaskProgress returns done and total subtask counts.
func (c *Card) SubtaskProgress() (done, total int) {
	for _, s := range c.Subtasks {
		if SubtaskDone(s) {
			done++
		}
	}
	return done, len(c.Subtasks)
}

// Overdue reports whether the card has a due date in the past and is not
// completed.
func (c *Card) Overdue(now time.Time) bool {
	return c.DueDate != nil && c.DueDate.Before(now) && c.CompletedAt == nil
}

// Clone returns a deep copy of the card.
func (c *Card) Clone() *Card {
	clone := *c
	if c.Subtasks != nil {
		clone.Subtasks = append([]string(nil), c.Subtasks...)
	}
	if c.Tags != nil {
		clone.Tags = append([]string(nil), c.Tags...)
	}
	if c.DependsOn != nil {
		clone.DependsOn = append([]string(nil), c.DependsOn...)
	}
	if c.DueDate != nil {
		due := *c.DueDate
		clone.DueDate = &due
	}
	if c.CompletedAt != nil {
		at := *c.CompletedAt
		clone.CompletedAt = &at
	}
	return &clone
}
