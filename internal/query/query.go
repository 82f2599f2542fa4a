// Package query filters, sorts, and paginates the cards of a board, and
// runs case-insensitive full-text search over titles, bodies, and
// subtasks.
package query

import (
	"sort"
	"strings"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/response"
)

// Sort fields accepted by Options.SortBy.
const (
	SortByPosition = "position"
	SortByCreated  = "created"
	SortByUpdated  = "updated"
	SortByTitle    = "title"
	SortByDueDate  = "dueDate"
)

// Options describe one card query. Zero values mean "no constraint";
// Limit <= 0 means no pagination.
type Options struct {
	ColumnID  string
	Tags      []string
	Assignee  string
	DueAfter  *time.Time
	DueBefore *time.Time
	Search    string
	SortBy    string
	SortDesc  bool
	Limit     int
	Offset    int
}

// Result is one page of matching cards plus the total match count before
// pagination.
type Result struct {
	Cards  []domain.Card `json:"cards"`
	Total  int           `json:"total"`
	Limit  int           `json:"limit,omitempty"`
	Offset int           `json:"offset,omitempty"`
}

// Apply runs the query against a board's cards. Cards are deep-copied so
// callers never alias the aggregate.
func Apply(board *domain.Board, opts Options) (*Result, error) {
	if err := validate(board, opts); err != nil {
		return nil, err
	}

	matched := make([]domain.Card, 0, len(board.Cards))
	for i := range board.Cards {
		card := &board.Cards[i]
		if !matches(card, opts) {
			continue
		}
		matched = append(matched, *card.Clone())
	}

	sortCards(matched, opts)

	result := &Result{Total: len(matched), Limit: opts.Limit, Offset: opts.Offset}
	if opts.Offset > 0 {
		if opts.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[opts.Offset:]
		}
	}
	if opts.Limit > 0 && len(matched) > opts.Limit {
		matched = matched[:opts.Limit]
	}
	result.Cards = matched
	if result.Cards == nil {
		result.Cards = []domain.Card{}
	}
	return result, nil
}

func validate(board *domain.Board, opts Options) error {
	if opts.ColumnID != "" && board.Column(opts.ColumnID) == nil {
		return response.NewAppError(response.ErrCodeNotFound,
			"column not found", opts.ColumnID)
	}
	switch opts.SortBy {
	case "", SortByPosition, SortByCreated, SortByUpdated, SortByTitle, SortByDueDate:
	default:
		return response.NewAppError(response.ErrCodeValidation,
			"invalid sort field",
			opts.SortBy+" is not one of position/created/updated/title/dueDate")
	}
	if opts.Offset < 0 {
		return response.NewAppError(response.ErrCodeValidation,
			"invalid offset", "offset must not be negative")
	}
	return nil
}

func matches(card *domain.Card, opts Options) bool {
	if opts.ColumnID != "" && card.ColumnID != opts.ColumnID {
		return false
	}
	if opts.Assignee != "" && !strings.EqualFold(card.Assignee, opts.Assignee) {
		return false
	}
	for _, want := range opts.Tags {
		if !hasTag(card, want) {
			return false
		}
	}
	if opts.DueAfter != nil {
		if card.DueDate == nil || card.DueDate.Before(*opts.DueAfter) {
			return false
		}
	}
	if opts.DueBefore != nil {
		if card.DueDate == nil || card.DueDate.After(*opts.DueBefore) {
			return false
		}
	}
	if opts.Search != "" && !matchesSearch(card, opts.Search) {
		return false
	}
	return true
}

func hasTag(card *domain.Card, want string) bool {
	for _, tag := range card.Tags {
		if strings.EqualFold(tag, want) {
			return true
		}
	}
	return false
}

func matchesSearch(card *domain.Card, term string) bool {
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(card.Title), term) {
		return true
	}
	if strings.Contains(strings.ToLower(card.Content), term) {
		return true
	}
	for _, subtask := range card.Subtasks {
		if strings.Contains(strings.ToLower(subtask), term) {
			return true
		}
	}
	return false
}

func sortCards(cards []domain.Card, opts Options) {
	less := lessFunc(opts.SortBy)
	sort.SliceStable(cards, func(i, j int) bool {
		if opts.SortDesc {
			i, j = j, i
		}
		return less(&cards[i], &cards[j])
	})
}

func lessFunc(sortBy string) func(a, b *domain.Card) bool {
	switch sortBy {
	case SortByCreated:
		return func(a, b *domain.Card) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortByUpdated:
		return func(a, b *domain.Card) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	case SortByTitle:
		return func(a, b *domain.Card) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case SortByDueDate:
		// Cards without a due date sort last.
		return func(a, b *domain.Card) bool {
			switch {
			case a.DueDate == nil:
				return false
			case b.DueDate == nil:
				return true
			default:
				return a.DueDate.Before(*b.DueDate)
			}
		}
	default:
		// Position order groups by column first so ranks don't interleave.
		return func(a, b *domain.Card) bool {
			if a.ColumnID != b.ColumnID {
				return a.ColumnID < b.ColumnID
			}
			return a.Position < b.Position
		}
	}
}
