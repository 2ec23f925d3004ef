package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestHistoryDiskUsage(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "history.db")
	write := func(name, data string) {
		t.Helper()
		if err := os.WriteFile(name, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name  string
		setup func()
		want  int64
	}{
		{"missing database", func() {}, 0},
		{"database only", func() { write(db, "1234") }, 4},
		{"with wal", func() { write(db+"-wal", "56") }, 6},
		{"with wal and shm", func() { write(db+"-shm", "789") }, 9},
		{"unrelated files ignored", func() { write(filepath.Join(dir, "other.db"), "xxxxxxxx") }, 9},
	}
	for _, tt := range tests {
		tt.setup()
		got, err := HistoryDiskUsage(db)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%s: got %d bytes, want %d", tt.name, got, tt.want)
		}
	}

	for _, p := range []string{"", ":memory:"} {
		if got, err := HistoryDiskUsage(p); err != nil || got != 0 {
			t.Errorf("HistoryDiskUsage(%q) = %d, %v; want 0", p, got, err)
		}
	}
}

func TestSQLiteHistory_DiskUsage(t *testing.T) {
	store, err := NewSQLiteHistory(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if err := store.SaveResult(context.Background(), newResult("r1", "cat", time.Now())); err != nil {
		t.Fatal(err)
	}
	got, err := store.DiskUsage()
	if err != nil {
		t.Fatal(err)
	}
	if got <= 0 {
		t.Errorf("DiskUsage = %d, want a positive size after a write", got)
	}
}
