package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

const (
	progressCells = 50
	progressDone  = "█"
	progressTodo  = "░"
	// rows between redraws when the total is unknown
	progressStep = 10000
)

// Progress draws a single-line terminal meter. Update matches the signature of
// embeddings.WithProgress.
type Progress struct {
	mu      sync.Mutex
	w       io.Writer
	label   string
	percent int
	drawn   bool
}

// NewProgress returns a meter that writes to w.
func NewProgress(w io.Writer, label string) *Progress {
	return &Progress{w: w, label: label, percent: -1}
}

// Update redraws the meter when the completed percentage changes.
func (p *Progress) Update(row, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if total <= 0 {
		if row%progressStep == 0 {
			fmt.Fprintf(p.w, "\r%s %d rows", p.label, row)
			p.drawn = true
		}
		return
	}
	if row > total {
		return
	}
	percent := 100 * row / total
	if percent == p.percent {
		return
	}
	p.percent = percent
	fmt.Fprintf(p.w, "\r%s %s %3d%%", p.label, Bar(percent), percent)
	p.drawn = true
}

// Done ends the meter line.
func (p *Progress) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.drawn {
		fmt.Fprintln(p.w)
		p.drawn = false
	}
	p.percent = -1
}

// Bar renders percent (0-100) as a bracketed bar of fixed width.
func Bar(percent int) string {
	percent = max(0, min(100, percent))
	done := progressCells * percent / 100
	return "[" + strings.Repeat(progressDone, done) + strings.Repeat(progressTodo, progressCells-done) + "]"
}
