// Package repository owns the on-disk representation of boards: one JSON
// file per board, timestamped backups before destructive writes, and an
// archive area for soft-deleted boards.
package repository

import (
	"context"
	"strings"

	"taskboard/internal/domain"
)

// BoardRepository is the persistence contract shared by every surface.
// All operations are blocking I/O from the caller's point of view; run
// them off latency-sensitive paths.
type BoardRepository interface {
	// Load reads a board aggregate. An empty id resolves to the configured
	// default board, bootstrapping it from the packaged template if the
	// file is absent.
	Load(ctx context.Context, boardID string) (*domain.Board, error)
	// Save persists the whole aggregate atomically. It stamps
	// last_updated, derives every card's completed_at, and snapshots the
	// pre-write state into a backup tagged with opTag.
	Save(ctx context.Context, board *domain.Board, opTag string) error
	// List enumerates boards, skipping unreadable files.
	List(ctx context.Context) ([]domain.BoardMeta, error)
	// Create makes a new board with the default column set.
	Create(ctx context.Context, name string) (*domain.BoardMeta, error)
	// Delete removes a board file irreversibly (a final backup is taken).
	Delete(ctx context.Context, boardID string) error
	// Archive moves a board into the retained archive area.
	Archive(ctx context.Context, boardID string) error
	// Restore brings an archived board back.
	Restore(ctx context.Context, archiveID string) (*domain.BoardMeta, error)
	// ListArchives enumerates restorable archives.
	ListArchives(ctx context.Context) ([]ArchiveMeta, error)
}

// ArchiveMeta identifies one archived board snapshot.
type ArchiveMeta struct {
	ArchiveID string `json:"archiveId"`
	BoardID   string `json:"boardId"`
	Name      string `json:"name"`
}

// DonePredicate decides whether a card currently sits in the terminal
// "done" column. It is injected rather than hard-coded so the business
// rule stays configurable; boards without a matching column simply never
// derive completed_at.
type DonePredicate func(board *domain.Board, card *domain.Card) bool

// DoneColumnByName builds the default predicate: the card's column name
// equals the configured terminal column name, case-insensitively.
func DoneColumnByName(name string) DonePredicate {
	return func(board *domain.Board, card *domain.Card) bool {
		col := board.Column(card.ColumnID)
		return col != nil && strings.EqualFold(col.Name, name)
	}
}
