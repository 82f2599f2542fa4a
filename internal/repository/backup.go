package repository

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// stampLayout is the filename-safe timestamp format. Lexicographic order
// of stamps equals chronological order, so a descending name sort yields
// most-recent-first.
const stampLayout = "2006-01-02T15-04-05.000Z"

func fileStamp(t time.Time) string {
	return t.UTC().Format(stampLayout)
}

// isBackupFor reports whether name is a backup of boardID by matching the
// full {id}_{stamp}_{tag}.json shape. A bare prefix check would let a
// board whose ID extends another's with an underscore-joined suffix count
// against the shorter ID's retention.
func isBackupFor(name, boardID string) bool {
	rest, ok := strings.CutPrefix(name, boardID+"_")
	if !ok || !strings.HasSuffix(rest, ".json") {
		return false
	}
	if len(rest) <= len(stampLayout) || rest[len(stampLayout)] != '_' {
		return false
	}
	_, err := time.Parse(stampLayout, rest[:len(stampLayout)])
	return err == nil
}

// backupAndRotate snapshots the current on-disk state of a board into a
// timestamped, operation-tagged backup, then prunes old backups down to
// the retention count. Backups protect the primary write, so every
// failure here is logged and swallowed, never surfaced to the caller.
func (r *fileBoardRepository) backupAndRotate(boardID, boardPath, opTag string) {
	data, err := os.ReadFile(boardPath)
	if errors.Is(err, fs.ErrNotExist) {
		return // nothing to snapshot
	}
	if err != nil {
		r.logger.Warn("backup skipped: could not read board file",
			zap.String("board_id", boardID), zap.Error(err))
		return
	}

	name := boardID + "_" + fileStamp(r.now()) + "_" + opTag + ".json"
	backupPath := filepath.Join(r.dataDir, backupsDir, name)
	if err := os.WriteFile(backupPath, data, filePerm); err != nil {
		r.logger.Warn("backup write failed",
			zap.String("board_id", boardID), zap.Error(err))
		r.rotateFailed()
		return
	}

	r.rotateBackups(boardID)
}

// rotateBackups keeps only the newest retention backups for one board,
// deleting older ones best-effort.
func (r *fileBoardRepository) rotateBackups(boardID string) {
	if r.retention <= 0 {
		return
	}
	dir := filepath.Join(r.dataDir, backupsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		r.logger.Warn("backup rotation failed: could not list backups",
			zap.String("board_id", boardID), zap.Error(err))
		r.rotateFailed()
		return
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if isBackupFor(entry.Name(), boardID) {
			names = append(names, entry.Name())
		}
	}
	if len(names) <= r.retention {
		return
	}

	// Descending name sort = most recent first.
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	for _, name := range names[r.retention:] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			r.logger.Warn("backup rotation failed to delete old backup",
				zap.String("file", name), zap.Error(err))
			r.rotateFailed()
		}
	}
}

func (r *fileBoardRepository) rotateFailed() {
	if r.onRotateFail != nil {
		r.onRotateFail()
	}
}
