package storage

import (
	"errors"
	"fmt"
	"os"
)

// historyFileSuffixes name the files SQLite keeps for a database in WAL mode.
var historyFileSuffixes = []string{"", "-wal", "-shm"}

// HistoryDiskUsage returns the combined size of a history database and its WAL and
// shared-memory files. Files that do not exist count as zero; in-memory databases
// report zero.
func HistoryDiskUsage(dbPath string) (int64, error) {
	if dbPath == "" || dbPath == ":memory:" {
		return 0, nil
	}
	var total int64
	for _, suffix := range historyFileSuffixes {
		info, err := os.Stat(dbPath + suffix)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("failed to stat history file: %w", err)
		}
		total += info.Size()
	}
	return total, nil
}

// DiskUsage returns the on-disk size of the history database.
func (s *SQLiteHistory) DiskUsage() (int64, error) {
	return HistoryDiskUsage(s.path)
}
