// Package dependency validates cross-card dependsOn references within a
// board and provides a reverse lookup for read-side rendering.
package dependency

import (
	"taskboard/internal/domain"
	"taskboard/internal/response"
)

// Resolve confirms every identifier in deps resolves to an existing card
// of the board and is not the card itself. The first offending identifier
// is named in the returned DEPENDENCY_ERROR; dangling references are never
// silently dropped.
func Resolve(cardID string, deps []string, cards []domain.Card) error {
	if len(deps) == 0 {
		return nil
	}
	known := make(map[string]bool, len(cards))
	for i := range cards {
		known[cards[i].ID] = true
	}
	for _, dep := range deps {
		if dep == cardID {
			return response.NewAppError(response.ErrCodeDependency,
				"card cannot depend on itself", dep)
		}
		if !known[dep] {
			return response.NewAppError(response.ErrCodeDependency,
				"missing dependency", dep)
		}
	}
	return nil
}

// ReverseIndex maps card ID to the IDs of cards that depend on it. Built
// once per board in O(n) so the projector can render dependent lists
// without a second full scan per card.
func ReverseIndex(cards []domain.Card) map[string][]string {
	index := make(map[string][]string)
	for i := range cards {
		for _, dep := range cards[i].DependsOn {
			index[dep] = append(index[dep], cards[i].ID)
		}
	}
	return index
}

// TitleIndex maps card ID to title, used to render dependency titles in
// projections.
func TitleIndex(cards []domain.Card) map[string]string {
	index := make(map[string]string, len(cards))
	for i := range cards {
		index[cards[i].ID] = cards[i].Title
	}
	return index
}
