package domain

import (
	"time"

	"github.com/google/uuid"
)

// Layout identifies the storage layout of a board file.
type Layout string

const (
	// LayoutCardFirst is the current layout: cards live in a flat array and
	// reference their column through columnId.
	LayoutCardFirst Layout = "card-first"
	// LayoutLegacy is the older layout with cards nested inside column
	// objects. Card-level operations are refused against legacy boards.
	LayoutLegacy Layout = "legacy"
)

// Board is the aggregate root: an ordered set of columns plus the cards
// that reference them.
type Board struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Columns     []Column   `json:"columns"`
	Cards       []Card     `json:"cards"`
	LastUpdated time.Time  `json:"last_updated"`
	Archived    bool       `json:"archived,omitempty"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty"`
}

// BoardMeta is the listing view of a board: identity plus freshness.
type BoardMeta struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// NewBoard creates an empty card-first board with a generated ID.
func NewBoard(name string) *Board {
	return &Board{
		ID:          uuid.NewString(),
		Name:        name,
		Columns:     []Column{},
		Cards:       []Card{},
		LastUpdated: time.Now().UTC(),
	}
}

// Layout reports the detected storage layout. A board whose columns embed
// cards is legacy; everything else is card-first.
func (b *Board) Layout() Layout {
	for i := range b.Columns {
		if len(b.Columns[i].NestedCards) > 0 {
			return LayoutLegacy
		}
	}
	return LayoutCardFirst
}

// Column returns the column with the given ID, or nil.
func (b *Board) Column(columnID string) *Column {
	for i := range b.Columns {
		if b.Columns[i].ID == columnID {
			return &b.Columns[i]
		}
	}
	return nil
}

// ColumnByName returns the first column whose name matches exactly, or nil.
func (b *Board) ColumnByName(name string) *Column {
	for i := range b.Columns {
		if b.Columns[i].Name == name {
			return &b.Columns[i]
		}
	}
	return nil
}

// Card returns the card with the given ID, or nil.
func (b *Board) Card(cardID string) *Card {
	for i := range b.Cards {
		if b.Cards[i].ID == cardID {
			return &b.Cards[i]
		}
	}
	return nil
}

// CardsInColumn returns pointers to the cards of one column, sorted by
// position ascending.
func (b *Board) CardsInColumn(columnID string) []*Card {
	var cards []*Card
	for i := range b.Cards {
		if b.Cards[i].ColumnID == columnID {
			cards = append(cards, &b.Cards[i])
		}
	}
	for i := 1; i < len(cards); i++ {
		for j := i; j > 0 && cards[j-1].Position > cards[j].Position; j-- {
			cards[j-1], cards[j] = cards[j], cards[j-1]
		}
	}
	return cards
}

// Clone returns a deep copy of the board. Projections and backups operate
// on clones so read paths never alias mutable state.
func (b *Board) Clone() *Board {
	clone := *b
	clone.Columns = make([]Column, len(b.Columns))
	copy(clone.Columns, b.Columns)
	clone.Cards = make([]Card, len(b.Cards))
	for i := range b.Cards {
		clone.Cards[i] = *b.Cards[i].Clone()
	}
	if b.ArchivedAt != nil {
		at := *b.ArchivedAt
		clone.ArchivedAt = &at
	}
	return &clone
}
