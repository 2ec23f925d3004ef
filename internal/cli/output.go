// Package cli provides result writers and terminal helpers for kotoba.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/kotoba/internal/models"
)

// OutputFormat is the format results are written in.
type OutputFormat string

const (
	// OutputText is the human-readable block format (default).
	OutputText OutputFormat = "text"
	// OutputJSON is an indented JSON array of results.
	OutputJSON OutputFormat = "json"
	// OutputXLSX is a spreadsheet with one row per match. It can only be written to a file.
	OutputXLSX OutputFormat = "xlsx"
)

// ParseFormat resolves a format name. The empty string is text.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", OutputText:
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	case OutputXLSX:
		return OutputXLSX, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or xlsx)", s)
}

// Heading describes a result, e.g. "10 Scores/Words Similar to 'king' using COSINE_SIMILARITY:".
func Heading(res *models.RankedResult, includeScores bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d ", res.K)
	if includeScores {
		b.WriteString("Scores/")
	}
	if res.Dissimilar {
		b.WriteString("Words Dissimilar to '")
	} else {
		b.WriteString("Words Similar to '")
	}
	b.WriteString(res.Label)
	fmt.Fprintf(&b, "' using %s:", strings.ToUpper(res.Metric))
	return b.String()
}

// WriteResults writes results to w as text or JSON.
func WriteResults(w io.Writer, results []*models.RankedResult, format OutputFormat, includeScores bool) error {
	switch format {
	case OutputJSON:
		if results == nil {
			results = []*models.RankedResult{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case OutputXLSX:
		return fmt.Errorf("xlsx output needs a file path")
	default:
		for _, res := range results {
			if err := writeResultText(w, res, includeScores); err != nil {
				return err
			}
		}
		return nil
	}
}

func writeResultText(w io.Writer, res *models.RankedResult, includeScores bool) error {
	if _, err := fmt.Fprintln(w, Heading(res, includeScores)); err != nil {
		return err
	}
	for _, m := range res.Matches {
		if includeScores {
			if _, err := fmt.Fprintf(w, "%24.18f ", m.Score); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, m.Word); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// WriteItems writes a batch: successful items as results, failed items as an
// error line with any suggestions. Only the text format reports failures inline.
func WriteItems(w io.Writer, items []*models.BatchItem, format OutputFormat, includeScores bool) error {
	results := make([]*models.RankedResult, 0, len(items))
	for _, it := range items {
		if it.Result != nil {
			results = append(results, it.Result)
		}
	}
	if format != OutputText && format != "" {
		return WriteResults(w, results, format, includeScores)
	}
	for _, it := range items {
		if it.Result != nil {
			if err := writeResultText(w, it.Result, includeScores); err != nil {
				return err
			}
			continue
		}
		msg := it.Error
		if msg == "" && it.Err != nil {
			msg = it.Err.Error()
		}
		fmt.Fprintf(w, "'%s': %s\n", it.Label, msg)
		if len(it.Suggestions) > 0 {
			fmt.Fprintf(w, "Did you mean: %s?\n", strings.Join(it.Suggestions, ", "))
		}
		fmt.Fprintln(w)
	}
	return nil
}

// OpenOutput opens path for writing results, creating it and its directory when
// missing. With appendMode false the file is truncated.
func OpenOutput(path string, appendMode bool) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}
	return f, nil
}

// SaveResults writes results to the file at path in format.
func SaveResults(path string, results []*models.RankedResult, format OutputFormat, appendMode, includeScores bool) error {
	if len(results) == 0 {
		return nil
	}
	if format == OutputXLSX {
		return WriteXLSX(path, results, appendMode)
	}
	f, err := OpenOutput(path, appendMode)
	if err != nil {
		return err
	}
	if err := WriteResults(f, results, format, includeScores); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write results: %w", err)
	}
	return f.Close()
}
