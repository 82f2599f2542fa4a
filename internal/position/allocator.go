// Package position computes card insertion indexes and keeps every
// column's position sequence a dense 0..n-1 permutation. It is the only
// package allowed to write Card.Position.
package position

import (
	"fmt"
	"strconv"

	"taskboard/internal/domain"
	"taskboard/internal/response"
)

// Symbolic targets accepted alongside absolute indexes.
const (
	TargetFirst = "first"
	TargetLast  = "last"
	TargetUp    = "up"
	TargetDown  = "down"
)

// ParseTarget converts a request value into a Target. Accepted forms:
// a non-negative integer (possibly as a string), "first", "last", "up",
// "down". An empty value defaults to "last".
func ParseTarget(raw string) (Target, error) {
	switch raw {
	case "":
		return Target{Kind: TargetLast}, nil
	case TargetFirst, TargetLast, TargetUp, TargetDown:
		return Target{Kind: raw}, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return Target{}, response.NewAppError(response.ErrCodeValidation,
			"invalid position target",
			fmt.Sprintf("%q is not a non-negative integer or one of first/last/up/down", raw))
	}
	return Target{Kind: "index", Index: n}, nil
}

// IndexTarget builds an absolute-index target.
func IndexTarget(index int) Target {
	return Target{Kind: "index", Index: index}
}

// Target is a requested destination slot within a column.
type Target struct {
	Kind  string
	Index int
}

// Allocate resolves the target into an insertion index. count is the
// number of cards in the destination column excluding the card being
// placed; currentIndex is that card's current position in the column, or
// -1 when it comes from elsewhere.
//
// Relative targets (up/down) are only valid when currentIndex >= 0, i.e.
// the card already resides in the destination column; each moves exactly
// one slot and errors when no directional neighbor exists.
func Allocate(count int, target Target, currentIndex int) (int, error) {
	switch target.Kind {
	case TargetFirst:
		return 0, nil
	case TargetLast:
		return count, nil
	case TargetUp:
		if currentIndex < 0 {
			return 0, relativeOutsideColumn(target.Kind)
		}
		if currentIndex == 0 {
			return 0, response.NewAppError(response.ErrCodeValidation,
				"cannot move card up", "card is already first in its column")
		}
		return currentIndex - 1, nil
	case TargetDown:
		if currentIndex < 0 {
			return 0, relativeOutsideColumn(target.Kind)
		}
		if currentIndex >= count {
			return 0, response.NewAppError(response.ErrCodeValidation,
				"cannot move card down", "card is already last in its column")
		}
		return currentIndex + 1, nil
	case "index":
		// Absolute indexes are clamped to [0, count].
		idx := target.Index
		if idx > count {
			idx = count
		}
		return idx, nil
	default:
		return 0, response.NewAppError(response.ErrCodeValidation,
			"invalid position target", fmt.Sprintf("unknown target kind %q", target.Kind))
	}
}

func relativeOutsideColumn(kind string) error {
	return response.NewAppError(response.ErrCodeValidation,
		"invalid position target",
		fmt.Sprintf("%q is only valid when the card already resides in the destination column", kind))
}

// Place moves (or inserts) the card with cardID into columnID of the board
// at the requested target, then renumbers both affected columns to dense
// 0..n-1 sequences. When the resolved index collides with an existing
// card, the moved card is inserted before the occupant.
func Place(board *domain.Board, cardID, columnID string, target Target) error {
	card := board.Card(cardID)
	if card == nil {
		return response.NewAppError(response.ErrCodeNotFound,
			"card not found", cardID)
	}
	if board.Column(columnID) == nil {
		return response.NewAppError(response.ErrCodeNotFound,
			"column not found", columnID)
	}

	sourceColumn := card.ColumnID
	siblings := board.CardsInColumn(columnID)

	// Order of the destination column with the moved card taken out.
	rest := make([]*domain.Card, 0, len(siblings))
	currentIndex := -1
	for _, sibling := range siblings {
		if sibling.ID == cardID {
			currentIndex = sibling.Position
			continue
		}
		rest = append(rest, sibling)
	}
	idx, err := Allocate(len(rest), target, currentIndex)
	if err != nil {
		return err
	}
	if idx > len(rest) {
		idx = len(rest)
	}

	ordered := make([]*domain.Card, 0, len(rest)+1)
	ordered = append(ordered, rest[:idx]...)
	ordered = append(ordered, card)
	ordered = append(ordered, rest[idx:]...)

	card.ColumnID = columnID
	for i, c := range ordered {
		c.Position = i
	}

	if sourceColumn != columnID {
		Renumber(board, sourceColumn)
	}
	return nil
}

// Renumber compacts one column's positions to a dense 0..n-1 sequence,
// preserving the current relative order. Called after deletes and cross-
// column moves.
func Renumber(board *domain.Board, columnID string) {
	for i, card := range board.CardsInColumn(columnID) {
		card.Position = i
	}
}
