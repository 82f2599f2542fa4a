// Package projection renders a board aggregate into one of several output
// shapes to bound payload size for token-conscious consumers. All shapes
// are read-side transforms; the source aggregate is never mutated.
package projection

import (
	"time"

	"taskboard/internal/dependency"
	"taskboard/internal/domain"
	"taskboard/internal/response"
)

// Shape names an output transform of a board.
type Shape string

const (
	ShapeFull      Shape = "full"
	ShapeSummary   Shape = "summary"
	ShapeCompact   Shape = "compact"
	ShapeCardsOnly Shape = "cards-only"
)

// ParseShape validates a format request parameter. Empty defaults to full.
func ParseShape(raw string) (Shape, error) {
	switch raw {
	case "":
		return ShapeFull, nil
	case string(ShapeFull), string(ShapeSummary), string(ShapeCompact), string(ShapeCardsOnly):
		return Shape(raw), nil
	}
	return "", response.NewAppError(response.ErrCodeValidation,
		"invalid format", raw+" is not one of full/summary/compact/cards-only")
}

// Options tune a projection. ColumnID filters cards-only output to a
// single column.
type Options struct {
	ColumnID string
}

// Project renders the board into the requested shape.
func Project(board *domain.Board, shape Shape, opts Options) (any, error) {
	switch shape {
	case ShapeFull:
		return board.Clone(), nil
	case ShapeSummary:
		return Summarize(board), nil
	case ShapeCompact:
		return Compact(board), nil
	case ShapeCardsOnly:
		return CardsOnly(board, opts.ColumnID)
	}
	return nil, response.NewAppError(response.ErrCodeValidation,
		"invalid format", string(shape))
}

// ColumnSummary is the per-column slice of a board summary.
type ColumnSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CardCount int    `json:"cardCount"`
	WIPLimit  int    `json:"wipLimit,omitempty"`
}

// Summary carries aggregate statistics only; no card bodies.
type Summary struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	LastUpdated     time.Time       `json:"last_updated"`
	Columns         []ColumnSummary `json:"columns"`
	TotalCards      int             `json:"totalCards"`
	CompletedCards  int             `json:"completedCards"`
	CompletionRatio float64         `json:"completionRatio"`
	OverdueCount    int             `json:"overdueCount"`
	SubtasksDone    int             `json:"subtasksDone"`
	SubtasksTotal   int             `json:"subtasksTotal"`
}

// Summarize computes the summary shape.
func Summarize(board *domain.Board) *Summary {
	now := time.Now().UTC()
	s := &Summary{
		ID:          board.ID,
		Name:        board.Name,
		LastUpdated: board.LastUpdated,
		Columns:     make([]ColumnSummary, 0, len(board.Columns)),
	}
	counts := make(map[string]int, len(board.Columns))
	for i := range board.Cards {
		card := &board.Cards[i]
		counts[card.ColumnID]++
		s.TotalCards++
		if card.CompletedAt != nil {
			s.CompletedCards++
		}
		if card.Overdue(now) {
			s.OverdueCount++
		}
		done, total := card.SubtaskProgress()
		s.SubtasksDone += done
		s.SubtasksTotal += total
	}
	for _, col := range board.Columns {
		s.Columns = append(s.Columns, ColumnSummary{
			ID:        col.ID,
			Name:      col.Name,
			CardCount: counts[col.ID],
			WIPLimit:  col.WIPLimit,
		})
	}
	if s.TotalCards > 0 {
		s.CompletionRatio = float64(s.CompletedCards) / float64(s.TotalCards)
	}
	return s
}

// CardsOnly returns a deep copy of the card array, optionally filtered to
// one column.
func CardsOnly(board *domain.Board, columnID string) ([]domain.Card, error) {
	if columnID != "" && board.Column(columnID) == nil {
		return nil, response.NewAppError(response.ErrCodeNotFound,
			"column not found", columnID)
	}
	cards := make([]domain.Card, 0, len(board.Cards))
	for i := range board.Cards {
		if columnID != "" && board.Cards[i].ColumnID != columnID {
			continue
		}
		cards = append(cards, *board.Cards[i].Clone())
	}
	return cards, nil
}

// CardRelations names the dependency edges around one card with resolved
// titles, so single-card views need no second scan of the board.
type CardRelations struct {
	DependsOn  []RelatedCard `json:"dependsOn,omitempty"`
	Dependents []RelatedCard `json:"dependents,omitempty"`
}

// RelatedCard is an id/title pair on a dependency edge.
type RelatedCard struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Relations builds the relation view for every card of the board using a
// single O(n) pass over the dependency graph.
func Relations(board *domain.Board) map[string]CardRelations {
	titles := dependency.TitleIndex(board.Cards)
	reverse := dependency.ReverseIndex(board.Cards)
	out := make(map[string]CardRelations, len(board.Cards))
	for i := range board.Cards {
		card := &board.Cards[i]
		rel := CardRelations{}
		for _, dep := range card.DependsOn {
			rel.DependsOn = append(rel.DependsOn, RelatedCard{ID: dep, Title: titles[dep]})
		}
		for _, dependent := range reverse[card.ID] {
			rel.Dependents = append(rel.Dependents, RelatedCard{ID: dependent, Title: titles[dependent]})
		}
		out[card.ID] = rel
	}
	return out
}
