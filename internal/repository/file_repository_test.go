package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskboard/internal/domain"
	"taskboard/internal/response"
)

// tickingClock hands out strictly increasing timestamps so backup names
// never collide within a test.
type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTickingClock() *tickingClock {
	return &tickingClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newTestRepo(t *testing.T, opts ...FileOption) (BoardRepository, string) {
	t.Helper()
	dir := t.TempDir()
	opts = append([]FileOption{WithClock(newTickingClock().Now)}, opts...)
	repo, err := NewFileRepository(dir, "default", 10, DoneColumnByName("Done"), zap.NewNop(), opts...)
	require.NoError(t, err)
	return repo, dir
}

func testBoard(id string) *domain.Board {
	return &domain.Board{
		ID:   id,
		Name: "Sprint",
		Columns: []domain.Column{
			{ID: "col-todo", Name: "To Do"},
			{ID: "col-done", Name: "Done"},
		},
		Cards: []domain.Card{
			{ID: "card-1", Title: "Write parser", ColumnID: "col-todo", Position: 0},
		},
	}
}

func TestLoadBootstrapsDefaultBoard(t *testing.T) {
	repo, dir := newTestRepo(t)
	ctx := context.Background()

	board, err := repo.Load(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "default", board.ID)
	assert.NotEmpty(t, board.Columns)
	assert.FileExists(t, filepath.Join(dir, "boards", "default.json"))

	// A second load reads the persisted file, not the template again.
	again, err := repo.Load(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, board.LastUpdated, again.LastUpdated)
}

func TestLoadUnknownBoard(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.Load(context.Background(), "nope")
	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, response.ErrCodeNotFound, appErr.Code)
}

func TestLoadDiagnosesMalformedCardRecords(t *testing.T) {
	repo, dir := newTestRepo(t)

	// Valid JSON, wrong field types: the decode failure names the fields.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "boards", "bad.json"), []byte(`{
		"id": "bad",
		"name": "Bad board",
		"columns": [],
		"cards": [{"id": "c1", "title": 42, "position": "first"}]
	}`), 0o644))

	_, err := repo.Load(context.Background(), "bad")
	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, response.ErrCodeValidation, appErr.Code)
	assert.Contains(t, appErr.Details, "cards[0].title")
	assert.Contains(t, appErr.Details, "cards[0].position")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	board := testBoard("b1")
	require.NoError(t, repo.Save(ctx, board, "test"))

	loaded, err := repo.Load(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, board, loaded)
}

func TestSaveStampsMonotonicLastUpdated(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	board := testBoard("b1")
	require.NoError(t, repo.Save(ctx, board, "test"))
	first := board.LastUpdated
	assert.False(t, first.IsZero())

	require.NoError(t, repo.Save(ctx, board, "test"))
	assert.True(t, board.LastUpdated.After(first))
}

func TestSaveDerivesCompletedAt(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	board := testBoard("b1")
	require.NoError(t, repo.Save(ctx, board, "test"))
	assert.Nil(t, board.Cards[0].CompletedAt)

	// Entering the done column sets the stamp; the column is matched by
	// name, case-insensitively.
	board.Cards[0].ColumnID = "col-done"
	require.NoError(t, repo.Save(ctx, board, "test"))
	require.NotNil(t, board.Cards[0].CompletedAt)
	stamped := *board.Cards[0].CompletedAt

	// Staying in the done column keeps the original stamp.
	require.NoError(t, repo.Save(ctx, board, "test"))
	require.NotNil(t, board.Cards[0].CompletedAt)
	assert.Equal(t, stamped, *board.Cards[0].CompletedAt)

	// Leaving the done column clears it.
	board.Cards[0].ColumnID = "col-todo"
	require.NoError(t, repo.Save(ctx, board, "test"))
	assert.Nil(t, board.Cards[0].CompletedAt)
}

func TestResaveChangesOnlyLastUpdated(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	board := testBoard("b1")
	board.Cards = append(board.Cards, domain.Card{
		ID: "card-2", Title: "Ship it", ColumnID: "col-done", Position: 0,
	})
	require.NoError(t, repo.Save(ctx, board, "test"))

	first, err := repo.Load(ctx, "b1")
	require.NoError(t, err)
	require.NotNil(t, first.Cards[1].CompletedAt)
	snapshot := first.Clone()

	// Saving a freshly loaded board with no mutation in between moves
	// the freshness stamp and nothing else.
	require.NoError(t, repo.Save(ctx, first, "test"))
	second, err := repo.Load(ctx, "b1")
	require.NoError(t, err)

	assert.True(t, second.LastUpdated.After(snapshot.LastUpdated))
	second.LastUpdated = snapshot.LastUpdated
	assert.Equal(t, snapshot, second)
}

func TestSaveRejectsBoardWithoutID(t *testing.T) {
	repo, _ := newTestRepo(t)

	err := repo.Save(context.Background(), &domain.Board{}, "test")
	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, response.ErrCodeValidation, appErr.Code)
}

func backupNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(dir, "backups"))
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func TestSaveWritesTaggedBackups(t *testing.T) {
	repo, dir := newTestRepo(t)
	ctx := context.Background()

	board := testBoard("b1")
	// The first save has no prior file, so no backup is taken.
	require.NoError(t, repo.Save(ctx, board, "create"))
	assert.Empty(t, backupNames(t, dir))

	require.NoError(t, repo.Save(ctx, board, "card_move"))
	names := backupNames(t, dir)
	require.Len(t, names, 1)
	assert.True(t, strings.HasPrefix(names[0], "b1_"))
	assert.True(t, strings.HasSuffix(names[0], "_card_move.json"))
}

func TestBackupRotationKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileRepository(dir, "default", 3, nil, zap.NewNop(), WithClock(newTickingClock().Now))
	require.NoError(t, err)
	ctx := context.Background()

	board := testBoard("b1")
	for i := 0; i < 8; i++ {
		require.NoError(t, repo.Save(ctx, board, "test"))
	}

	names := backupNames(t, dir)
	require.Len(t, names, 3)

	// Stamps sort lexicographically, so the survivors are the three
	// largest names.
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}
}

func TestBackupRotationIsPerBoard(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileRepository(dir, "default", 2, nil, zap.NewNop(), WithClock(newTickingClock().Now))
	require.NoError(t, err)
	ctx := context.Background()

	a, b := testBoard("board-a"), testBoard("board-b")
	for i := 0; i < 4; i++ {
		require.NoError(t, repo.Save(ctx, a, "test"))
		require.NoError(t, repo.Save(ctx, b, "test"))
	}

	var forA, forB int
	for _, name := range backupNames(t, dir) {
		switch {
		case strings.HasPrefix(name, "board-a_"):
			forA++
		case strings.HasPrefix(name, "board-b_"):
			forB++
		}
	}
	assert.Equal(t, 2, forA)
	assert.Equal(t, 2, forB)
}

func TestBackupRotationIgnoresPrefixSiblings(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileRepository(dir, "default", 2, nil, zap.NewNop(), WithClock(newTickingClock().Now))
	require.NoError(t, err)
	ctx := context.Background()

	// "b1_notes" shares the filename prefix of "b1"; its backups must
	// never count against b1's retention.
	short, long := testBoard("b1"), testBoard("b1_notes")
	for i := 0; i < 4; i++ {
		require.NoError(t, repo.Save(ctx, long, "test"))
		require.NoError(t, repo.Save(ctx, short, "test"))
	}

	var forShort, forLong int
	for _, name := range backupNames(t, dir) {
		if strings.HasPrefix(name, "b1_notes_") {
			forLong++
		} else {
			forShort++
		}
	}
	assert.Equal(t, 2, forShort)
	assert.Equal(t, 2, forLong)
}

func TestBackupFailureNeverFailsSave(t *testing.T) {
	var failures int
	repo, dir := newTestRepo(t, WithRotationFailureHook(func() { failures++ }))
	ctx := context.Background()

	board := testBoard("b1")
	require.NoError(t, repo.Save(ctx, board, "test"))

	// Replacing the backups dir with a file makes every snapshot write
	// fail from here on.
	backups := filepath.Join(dir, "backups")
	require.NoError(t, os.RemoveAll(backups))
	require.NoError(t, os.WriteFile(backups, []byte("x"), 0o644))

	require.NoError(t, repo.Save(ctx, board, "test"))
	assert.Positive(t, failures)

	loaded, err := repo.Load(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, board.LastUpdated, loaded.LastUpdated)
}

func TestListSortsByFreshnessAndSkipsCorrupt(t *testing.T) {
	repo, dir := newTestRepo(t)
	ctx := context.Background()

	older := testBoard("older")
	require.NoError(t, repo.Save(ctx, older, "test"))
	newer := testBoard("newer")
	require.NoError(t, repo.Save(ctx, newer, "test"))

	// A corrupt file in the boards dir is skipped, not fatal.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "boards", "broken.json"), []byte("{not json"), 0o644))

	metas, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, "newer", metas[0].ID)
	assert.Equal(t, "older", metas[1].ID)
}

func TestCreateSeedsDefaultColumns(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	meta, err := repo.Create(ctx, "Fresh board")
	require.NoError(t, err)
	assert.NotEmpty(t, meta.ID)
	assert.Equal(t, "Fresh board", meta.Name)

	board, err := repo.Load(ctx, meta.ID)
	require.NoError(t, err)
	require.Len(t, board.Columns, 3)
	assert.Equal(t, "To Do", board.Columns[0].Name)
	assert.Equal(t, "In Progress", board.Columns[1].Name)
	assert.Equal(t, "Done", board.Columns[2].Name)
	assert.Empty(t, board.Cards)
}

func TestDeleteTakesFinalBackup(t *testing.T) {
	repo, dir := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testBoard("b1"), "test"))
	require.NoError(t, repo.Delete(ctx, "b1"))

	_, err := repo.Load(ctx, "b1")
	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, response.ErrCodeNotFound, appErr.Code)

	var deleteBackup bool
	for _, name := range backupNames(t, dir) {
		if strings.HasSuffix(name, "_delete.json") {
			deleteBackup = true
		}
	}
	assert.True(t, deleteBackup)

	err = repo.Delete(ctx, "b1")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, response.ErrCodeNotFound, appErr.Code)
}

func TestArchiveRestoreCycle(t *testing.T) {
	repo, dir := newTestRepo(t)
	ctx := context.Background()

	board := testBoard("b1")
	require.NoError(t, repo.Save(ctx, board, "test"))
	require.NoError(t, repo.Archive(ctx, "b1"))

	// The board file is gone; the archive area holds the snapshot.
	_, err := repo.Load(ctx, "b1")
	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, response.ErrCodeNotFound, appErr.Code)

	archives, err := repo.ListArchives(ctx)
	require.NoError(t, err)
	require.Len(t, archives, 1)
	assert.Equal(t, "b1", archives[0].BoardID)
	assert.Equal(t, "Sprint", archives[0].Name)

	meta, err := repo.Restore(ctx, archives[0].ArchiveID)
	require.NoError(t, err)
	assert.Equal(t, "b1", meta.ID)

	restored, err := repo.Load(ctx, "b1")
	require.NoError(t, err)
	assert.False(t, restored.Archived)
	assert.Nil(t, restored.ArchivedAt)
	assert.Equal(t, board.Cards, restored.Cards)

	// The consumed archive file is removed.
	archives, err = repo.ListArchives(ctx)
	require.NoError(t, err)
	assert.Empty(t, archives)
	assert.NoFileExists(t, filepath.Join(dir, "archives", meta.ID+".json"))
}

func TestRestoreUnknownArchive(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.Restore(context.Background(), "ghost_2025-01-01T00-00-00.000Z")
	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, response.ErrCodeNotFound, appErr.Code)
}
