package projection

import (
	"time"

	"taskboard/internal/domain"
)

// CompactBoard is the compact shape: the same entities as full with
// abbreviated keys and omitted null/empty fields, trading readability for
// size. Expand reverses the transform losslessly for the fields carried.
type CompactBoard struct {
	ID          string          `json:"i"`
	Name        string          `json:"n"`
	Description string          `json:"d,omitempty"`
	LastUpdated time.Time       `json:"u"`
	Columns     []CompactColumn `json:"cols"`
	Cards       []CompactCard   `json:"cards"`
}

// CompactColumn abbreviates a column.
type CompactColumn struct {
	ID       string `json:"i"`
	Name     string `json:"n"`
	WIPLimit int    `json:"w,omitempty"`
}

// CompactCard abbreviates a card. Position keeps its key even at zero:
// dropping it would make rank 0 indistinguishable from absent.
type CompactCard struct {
	ID          string     `json:"i"`
	Title       string     `json:"t"`
	Content     string     `json:"c,omitempty"`
	ColumnID    string     `json:"col"`
	Position    int        `json:"p"`
	Collapsed   bool       `json:"cl,omitempty"`
	Subtasks    []string   `json:"st,omitempty"`
	Tags        []string   `json:"tg,omitempty"`
	DependsOn   []string   `json:"dep,omitempty"`
	Assignee    string     `json:"a,omitempty"`
	DueDate     *time.Time `json:"due,omitempty"`
	CreatedAt   time.Time  `json:"ca"`
	UpdatedAt   time.Time  `json:"ua"`
	CompletedAt *time.Time `json:"done,omitempty"`
}

// Compact renders the compact shape of a board.
func Compact(board *domain.Board) *CompactBoard {
	out := &CompactBoard{
		ID:          board.ID,
		Name:        board.Name,
		Description: board.Description,
		LastUpdated: board.LastUpdated,
		Columns:     make([]CompactColumn, 0, len(board.Columns)),
		Cards:       make([]CompactCard, 0, len(board.Cards)),
	}
	for _, col := range board.Columns {
		out.Columns = append(out.Columns, CompactColumn{
			ID:       col.ID,
			Name:     col.Name,
			WIPLimit: col.WIPLimit,
		})
	}
	for i := range board.Cards {
		out.Cards = append(out.Cards, CompactCardOf(&board.Cards[i]))
	}
	return out
}

// CompactCardOf abbreviates one card.
func CompactCardOf(card *domain.Card) CompactCard {
	return CompactCard{
		ID:          card.ID,
		Title:       card.Title,
		Content:     card.Content,
		ColumnID:    card.ColumnID,
		Position:    card.Position,
		Collapsed:   card.Collapsed,
		Subtasks:    card.Subtasks,
		Tags:        card.Tags,
		DependsOn:   card.DependsOn,
		Assignee:    card.Assignee,
		DueDate:     card.DueDate,
		CreatedAt:   card.CreatedAt,
		UpdatedAt:   card.UpdatedAt,
		CompletedAt: card.CompletedAt,
	}
}

// Expand decodes a compact card back to canonical field names.
func (c CompactCard) Expand() domain.Card {
	return domain.Card{
		ID:          c.ID,
		Title:       c.Title,
		Content:     c.Content,
		ColumnID:    c.ColumnID,
		Position:    c.Position,
		Collapsed:   c.Collapsed,
		Subtasks:    c.Subtasks,
		Tags:        c.Tags,
		DependsOn:   c.DependsOn,
		Assignee:    c.Assignee,
		DueDate:     c.DueDate,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		CompletedAt: c.CompletedAt,
	}
}

// Expand decodes a compact board back to a card-first aggregate.
func (b *CompactBoard) Expand() *domain.Board {
	board := &domain.Board{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		LastUpdated: b.LastUpdated,
		Columns:     make([]domain.Column, 0, len(b.Columns)),
		Cards:       make([]domain.Card, 0, len(b.Cards)),
	}
	for _, col := range b.Columns {
		board.Columns = append(board.Columns, domain.Column{
			ID:       col.ID,
			Name:     col.Name,
			WIPLimit: col.WIPLimit,
		})
	}
	for _, card := range b.Cards {
		board.Cards = append(board.Cards, card.Expand())
	}
	return board
}
