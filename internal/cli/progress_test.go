package cli

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestBar(t *testing.T) {
	tests := []struct {
		percent int
		done    int
	}{
		{0, 0},
		{50, 25},
		{100, 50},
		{150, 50},
		{-5, 0},
	}
	for _, tt := range tests {
		bar := Bar(tt.percent)
		if n := utf8.RuneCountInString(bar); n != progressCells+2 {
			t.Errorf("Bar(%d) has %d runes, want %d", tt.percent, n, progressCells+2)
		}
		if got := strings.Count(bar, progressDone); got != tt.done {
			t.Errorf("Bar(%d) done cells = %d, want %d", tt.percent, got, tt.done)
		}
	}
}

func TestProgress_redrawsOnPercentChange(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, "Loading")
	for row := 1; row <= 200; row++ {
		p.Update(row, 200)
	}
	p.Done()
	out := buf.String()
	if n := strings.Count(out, "\r"); n != 101 {
		t.Errorf("redraws = %d, want 101", n)
	}
	if !strings.HasSuffix(out, "100%\n") {
		t.Errorf("output should end with 100%% and a newline, got %q", out[len(out)-20:])
	}
}

func TestProgress_unknownTotal(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, "Loading")
	for row := 1; row <= 2*progressStep; row++ {
		p.Update(row, 0)
	}
	if !strings.Contains(buf.String(), "20000 rows") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestProgress_doneWithoutDrawing(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, "Loading")
	p.Done()
	if buf.Len() != 0 {
		t.Errorf("Done wrote %q without any update", buf.String())
	}
}
