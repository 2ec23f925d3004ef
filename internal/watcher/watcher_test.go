package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/hyperjump/kotoba/internal/metrics"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) record(path string) {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.paths)
}

func waitFor(t *testing.T, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "embeddings.txt")
	if err := writeFile(target, "a,1\n"); err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	w := NewWatcher([]string{target}, rec.record, WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	before := testutil.ToFloat64(metrics.WatcherReloadsTotal)
	// a burst of writes settles into one reload
	for i := 0; i < 5; i++ {
		if err := writeFile(target, "a,1\nb,2\n"); err != nil {
			t.Fatal(err)
		}
	}
	if !waitFor(t, func() bool { return rec.count() >= 1 }) {
		t.Fatal("expected a reload after writing the watched file")
	}
	time.Sleep(200 * time.Millisecond)
	if n := rec.count(); n != 1 {
		t.Errorf("reloads = %d, want 1 for a debounced burst", n)
	}
	if got := testutil.ToFloat64(metrics.WatcherReloadsTotal) - before; got != 1 {
		t.Errorf("reload counter delta = %v, want 1", got)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	want, _ := filepath.Abs(target)
	if rec.paths[0] != filepath.Clean(want) {
		t.Errorf("reloaded %q, want %q", rec.paths[0], want)
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "embeddings.txt")
	if err := writeFile(target, "a,1\n"); err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	w := NewWatcher([]string{target}, rec.record, WithDebounce(20*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := writeFile(filepath.Join(dir, "other.txt"), "x"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)
	if n := rec.count(); n != 0 {
		t.Errorf("reloads = %d, want 0 for an unwatched file", n)
	}
}

func TestWatcher_ReloadsOnReplaceByRename(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "embeddings.txt")
	if err := writeFile(target, "a,1\n"); err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	w := NewWatcher([]string{target}, rec.record, WithDebounce(20*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	tmp := filepath.Join(dir, "embeddings.tmp")
	if err := writeFile(tmp, "a,1\nb,2\n"); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, target); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, func() bool { return rec.count() >= 1 }) {
		t.Error("expected a reload after replacing the watched file")
	}
}

func TestWatcher_AddRemoveFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")

	w := NewWatcher(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := w.AddFile(a); err != nil {
		t.Fatal(err)
	}
	if err := w.AddFile(b); err != nil {
		t.Fatal(err)
	}
	if err := w.AddFile(a); err != nil {
		t.Fatal(err)
	}
	if n := len(w.Files()); n != 2 {
		t.Errorf("Files() = %v, want 2 entries", w.Files())
	}
	if err := w.RemoveFile(a); err != nil {
		t.Fatal(err)
	}
	files := w.Files()
	wantB, _ := filepath.Abs(b)
	if len(files) != 1 || files[0] != wantB {
		t.Errorf("after remove: %v", files)
	}
	if err := w.RemoveFile(a); err != nil {
		t.Errorf("removing an unwatched file: %v", err)
	}
}

func TestWatcher_StartFailsForMissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope", "embeddings.txt")
	w := NewWatcher([]string{missing}, nil)
	if err := w.Start(context.Background()); err == nil {
		w.Stop()
		t.Fatal("expected error watching a file in a missing directory")
	}
	if n := len(w.Files()); n != 1 {
		t.Errorf("Files() = %v", w.Files())
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w := NewWatcher([]string{filepath.Join(t.TempDir(), "e.txt")}, nil)
	w.Stop()
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
}

func TestReloadFunc(t *testing.T) {
	var got []string
	ok := ReloadFunc(func(path string) (int, error) {
		got = append(got, path)
		return 1, nil
	}, nil)
	fail := ReloadFunc(func(path string) (int, error) {
		got = append(got, path)
		return 0, errors.New("bad row")
	}, nil)
	ok("/a")
	fail("/b")
	if len(got) != 2 || got[0] != "/a" || got[1] != "/b" {
		t.Errorf("loader calls = %v", got)
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}
