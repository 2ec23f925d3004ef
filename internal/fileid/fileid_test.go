package fileid

import (
	"strings"
	"testing"
	"time"
)

func TestSourceID(t *testing.T) {
	mod := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	id1 := SourceID("/data/words.txt", 120, mod)
	id2 := SourceID("/data/words.txt", 120, mod)
	if id1 != id2 {
		t.Errorf("same source should give same ID: %q vs %q", id1, id2)
	}
	if !strings.HasPrefix(id1, prefix) {
		t.Errorf("ID should have prefix %q: got %q", prefix, id1)
	}
	if len(id1) != len(prefix)+32 {
		t.Errorf("unexpected ID length: %q", id1)
	}
}

func TestSourceID_changes(t *testing.T) {
	mod := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	base := SourceID("/data/words.txt", 120, mod)

	tests := []struct {
		name string
		id   string
	}{
		{"different path", SourceID("/data/other.txt", 120, mod)},
		{"different size", SourceID("/data/words.txt", 121, mod)},
		{"different mod time", SourceID("/data/words.txt", 120, mod.Add(time.Second))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.id == base {
				t.Errorf("expected a different ID, got %q", tt.id)
			}
		})
	}
}

func TestSourceID_normalized(t *testing.T) {
	mod := time.Unix(0, 0)
	id1 := SourceID("/foo/bar.txt", 1, mod)
	id2 := SourceID("/foo/./bar.txt", 1, mod)
	id3 := SourceID("/foo/baz/../bar.txt", 1, mod)
	if id1 != id2 || id1 != id3 {
		t.Errorf("equivalent paths should match: %q %q %q", id1, id2, id3)
	}
}
