package repository

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"go.uber.org/zap"

	"taskboard/internal/domain"
	"taskboard/internal/response"
	"taskboard/internal/validation"
)

//go:embed templates/default-board.json
var defaultBoardTemplate []byte

const (
	boardsDir   = "boards"
	backupsDir  = "backups"
	archivesDir = "archives"

	filePerm = 0o644
)

// fileBoardRepository is the file-per-board JSON implementation of
// BoardRepository. Single logical writer per board is assumed, not
// enforced: overlapping load-mutate-save cycles race and the later save
// wins.
type fileBoardRepository struct {
	dataDir      string
	defaultBoard string
	retention    int
	done         DonePredicate
	logger       *zap.Logger
	now          func() time.Time
	onRotateFail func()
}

// FileOption customizes a file repository.
type FileOption func(*fileBoardRepository)

// WithClock injects the time source, for tests.
func WithClock(now func() time.Time) FileOption {
	return func(r *fileBoardRepository) { r.now = now }
}

// WithRotationFailureHook is called whenever a backup rotation failure is
// swallowed, so callers can count them without rotation ever surfacing
// into the write path.
func WithRotationFailureHook(hook func()) FileOption {
	return func(r *fileBoardRepository) { r.onRotateFail = hook }
}

// NewFileRepository creates a repository rooted at dataDir. retention is
// the number of backups kept per board.
func NewFileRepository(dataDir, defaultBoard string, retention int, done DonePredicate, logger *zap.Logger, opts ...FileOption) (BoardRepository, error) {
	r := &fileBoardRepository{
		dataDir:      dataDir,
		defaultBoard: defaultBoard,
		retention:    retention,
		done:         done,
		logger:       logger,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	for _, dir := range []string{boardsDir, backupsDir, archivesDir} {
		if err := os.MkdirAll(filepath.Join(dataDir, dir), 0o755); err != nil {
			return nil, persistenceErr("creating data directory", err)
		}
	}
	return r, nil
}

func (r *fileBoardRepository) boardPath(boardID string) string {
	return filepath.Join(r.dataDir, boardsDir, boardID+".json")
}

func persistenceErr(action string, err error) error {
	return response.NewAppError(response.ErrCodePersistence, action+" failed", err.Error())
}

// Load implements BoardRepository.
func (r *fileBoardRepository) Load(ctx context.Context, boardID string) (*domain.Board, error) {
	if boardID == "" {
		boardID = r.defaultBoard
	}

	data, err := os.ReadFile(r.boardPath(boardID))
	if errors.Is(err, fs.ErrNotExist) {
		// File absent is not an error for the default board: bootstrap it
		// from the packaged starter template.
		if boardID == r.defaultBoard {
			return r.bootstrap(ctx, boardID)
		}
		return nil, response.NewAppError(response.ErrCodeNotFound, "board not found", boardID)
	}
	if err != nil {
		return nil, persistenceErr("reading board file", err)
	}

	var board domain.Board
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, decodeError(data, err)
	}
	return &board, nil
}

// decodeError diagnoses a failed board decode: when the file is valid
// JSON but a card record carries wrong field types, the error names the
// offending fields instead of the decoder's offset message.
func decodeError(data []byte, err error) error {
	var raw struct {
		Cards []map[string]any `json:"cards"`
	}
	if json.Unmarshal(data, &raw) == nil {
		var details []string
		for i, card := range raw.Cards {
			for _, v := range validation.CheckCardFields(card) {
				details = append(details, fmt.Sprintf("cards[%d].%s", i, v))
			}
		}
		if len(details) > 0 {
			return response.NewAppError(response.ErrCodeValidation,
				"board file contains malformed card records",
				strings.Join(details, "; "))
		}
	}
	return persistenceErr("decoding board file", err)
}

func (r *fileBoardRepository) bootstrap(ctx context.Context, boardID string) (*domain.Board, error) {
	var board domain.Board
	if err := json.Unmarshal(defaultBoardTemplate, &board); err != nil {
		return nil, persistenceErr("decoding packaged board template", err)
	}
	board.ID = boardID
	r.logger.Info("bootstrapping default board from template",
		zap.String("board_id", boardID),
	)
	if err := r.Save(ctx, &board, "bootstrap"); err != nil {
		return nil, err
	}
	return &board, nil
}

// Save implements BoardRepository. The write is atomic from the caller's
// point of view: a reader never observes a partially written file.
func (r *fileBoardRepository) Save(ctx context.Context, board *domain.Board, opTag string) error {
	if board == nil || board.ID == "" {
		return response.NewAppError(response.ErrCodeValidation, "board has no identifier", "")
	}

	path := r.boardPath(board.ID)
	r.backupAndRotate(board.ID, path, opTag)

	// last_updated strictly increases on every successful save; callers
	// never set it.
	now := r.now().UTC()
	if !now.After(board.LastUpdated) {
		now = board.LastUpdated.Add(time.Millisecond)
	}
	board.LastUpdated = now

	r.deriveCompletedAt(board, now)

	data, err := json.MarshalIndent(board, "", "  ")
	if err != nil {
		return persistenceErr("encoding board", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return persistenceErr("writing board file", err)
	}
	if err := os.Chmod(path, filePerm); err != nil {
		r.logger.Warn("failed to chmod board file", zap.Error(err))
	}
	return nil
}

// deriveCompletedAt applies the terminal-column rule: completed_at is set
// when a card sits in the done column and cleared when it leaves it.
func (r *fileBoardRepository) deriveCompletedAt(board *domain.Board, now time.Time) {
	if r.done == nil {
		return
	}
	for i := range board.Cards {
		card := &board.Cards[i]
		inDone := r.done(board, card)
		switch {
		case inDone && card.CompletedAt == nil:
			at := now
			card.CompletedAt = &at
		case !inDone && card.CompletedAt != nil:
			card.CompletedAt = nil
		}
	}
}

// List implements BoardRepository. Individual unreadable or corrupt board
// files are skipped with a log line rather than failing the listing.
func (r *fileBoardRepository) List(ctx context.Context) ([]domain.BoardMeta, error) {
	entries, err := os.ReadDir(filepath.Join(r.dataDir, boardsDir))
	if err != nil {
		return nil, persistenceErr("listing boards", err)
	}

	metas := make([]domain.BoardMeta, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(r.dataDir, boardsDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			r.logger.Warn("skipping unreadable board file",
				zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		var board domain.Board
		if err := json.Unmarshal(data, &board); err != nil {
			r.logger.Warn("skipping corrupt board file",
				zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		metas = append(metas, domain.BoardMeta{
			ID:          board.ID,
			Name:        board.Name,
			LastUpdated: board.LastUpdated,
		})
	}
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].LastUpdated.After(metas[j].LastUpdated)
	})
	return metas, nil
}

// Create implements BoardRepository.
func (r *fileBoardRepository) Create(ctx context.Context, name string) (*domain.BoardMeta, error) {
	board := domain.NewBoard(name)
	board.Columns = []domain.Column{
		domain.NewColumn("To Do"),
		domain.NewColumn("In Progress"),
		domain.NewColumn("Done"),
	}
	if err := r.Save(ctx, board, "create"); err != nil {
		return nil, err
	}
	return &domain.BoardMeta{
		ID:          board.ID,
		Name:        board.Name,
		LastUpdated: board.LastUpdated,
	}, nil
}

// Delete implements BoardRepository.
func (r *fileBoardRepository) Delete(ctx context.Context, boardID string) error {
	path := r.boardPath(boardID)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return response.NewAppError(response.ErrCodeNotFound, "board not found", boardID)
	}
	r.backupAndRotate(boardID, path, "delete")
	if err := os.Remove(path); err != nil {
		return persistenceErr("deleting board file", err)
	}
	return nil
}

// Archive implements BoardRepository: the board file moves to the archive
// area with a recorded archival timestamp.
func (r *fileBoardRepository) Archive(ctx context.Context, boardID string) error {
	board, err := r.Load(ctx, boardID)
	if err != nil {
		return err
	}
	now := r.now().UTC()
	board.Archived = true
	board.ArchivedAt = &now

	data, err := json.MarshalIndent(board, "", "  ")
	if err != nil {
		return persistenceErr("encoding board", err)
	}
	archiveID := fmt.Sprintf("%s_%s", boardID, fileStamp(now))
	archivePath := filepath.Join(r.dataDir, archivesDir, archiveID+".json")
	if err := atomic.WriteFile(archivePath, bytes.NewReader(data)); err != nil {
		return persistenceErr("writing archive file", err)
	}
	if err := os.Remove(r.boardPath(boardID)); err != nil {
		return persistenceErr("removing archived board file", err)
	}
	r.logger.Info("board archived",
		zap.String("board_id", boardID),
		zap.String("archive_id", archiveID),
	)
	return nil
}

// Restore implements BoardRepository.
func (r *fileBoardRepository) Restore(ctx context.Context, archiveID string) (*domain.BoardMeta, error) {
	archivePath := filepath.Join(r.dataDir, archivesDir, archiveID+".json")
	data, err := os.ReadFile(archivePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, response.NewAppError(response.ErrCodeNotFound, "archive not found", archiveID)
	}
	if err != nil {
		return nil, persistenceErr("reading archive file", err)
	}

	var board domain.Board
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, persistenceErr("decoding archive file", err)
	}
	board.Archived = false
	board.ArchivedAt = nil

	if err := r.Save(ctx, &board, "restore"); err != nil {
		return nil, err
	}
	if err := os.Remove(archivePath); err != nil {
		r.logger.Warn("failed to remove restored archive file",
			zap.String("archive_id", archiveID), zap.Error(err))
	}
	return &domain.BoardMeta{
		ID:          board.ID,
		Name:        board.Name,
		LastUpdated: board.LastUpdated,
	}, nil
}

// ListArchives implements BoardRepository.
func (r *fileBoardRepository) ListArchives(ctx context.Context) ([]ArchiveMeta, error) {
	entries, err := os.ReadDir(filepath.Join(r.dataDir, archivesDir))
	if err != nil {
		return nil, persistenceErr("listing archives", err)
	}
	metas := make([]ArchiveMeta, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		archiveID := strings.TrimSuffix(entry.Name(), ".json")
		data, err := os.ReadFile(filepath.Join(r.dataDir, archivesDir, entry.Name()))
		if err != nil {
			r.logger.Warn("skipping unreadable archive file",
				zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		var board domain.Board
		if err := json.Unmarshal(data, &board); err != nil {
			r.logger.Warn("skipping corrupt archive file",
				zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		metas = append(metas, ArchiveMeta{
			ArchiveID: archiveID,
			BoardID:   board.ID,
			Name:      board.Name,
		})
	}
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].ArchiveID > metas[j].ArchiveID
	})
	return metas, nil
}
