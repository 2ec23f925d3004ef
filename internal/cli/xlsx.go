package cli

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/kotoba/internal/models"
)

// SheetName is the worksheet results are written to.
const SheetName = "Results"

var xlsxHeader = []interface{}{"id", "label", "metric", "direction", "rank", "word", "score", "created_at"}

// WriteXLSX writes one row per match to the Results sheet of the workbook at path.
// In append mode an existing workbook keeps its rows and new rows follow them.
func WriteXLSX(path string, results []*models.RankedResult, appendMode bool) error {
	f, err := openWorkbook(path, appendMode)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return fmt.Errorf("get rows for sheet %q: %w", SheetName, err)
	}
	next := len(rows) + 1
	if len(rows) == 0 {
		if err := setRow(f, next, xlsxHeader); err != nil {
			return err
		}
		next++
	}

	for _, res := range results {
		direction := "similar"
		if res.Dissimilar {
			direction = "dissimilar"
		}
		for i, m := range res.Matches {
			var score interface{}
			if !math.IsNaN(m.Score) && !math.IsInf(m.Score, 0) {
				score = m.Score
			}
			row := []interface{}{res.ID, res.Label, res.Metric, direction, i + 1, m.Word, score, res.CreatedAt.Format("2006-01-02 15:04:05")}
			if err := setRow(f, next, row); err != nil {
				return err
			}
			next++
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func openWorkbook(path string, appendMode bool) (*excelize.File, error) {
	if appendMode {
		f, err := excelize.OpenFile(path)
		if err == nil {
			if idx, err := f.GetSheetIndex(SheetName); err != nil || idx < 0 {
				if _, err := f.NewSheet(SheetName); err != nil {
					_ = f.Close()
					return nil, fmt.Errorf("add sheet %q: %w", SheetName, err)
				}
			}
			return f, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("open workbook: %w", err)
		}
	}
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	return f, nil
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
