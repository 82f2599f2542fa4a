package domain

import "github.com/google/uuid"

// Column is an ordered lane within a board. Order is the slice order on
// Board.Columns, persisted explicitly.
type Column struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	WIPLimit int    `json:"wipLimit,omitempty"`

	// NestedCards is only ever populated when decoding a legacy-layout
	// board file. Card-first boards never write it.
	NestedCards []Card `json:"cards,omitempty"`
}

// NewColumn creates a column with a generated ID.
func NewColumn(name string) Column {
	return Column{ID: uuid.NewString(), Name: name}
}
