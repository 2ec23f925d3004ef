package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/kotoba/internal/models"
)

// SQLiteHistory implements History using SQLite.
type SQLiteHistory struct {
	db   *sql.DB
	path string
}

// NewSQLiteHistory opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteHistory(dbPath string) (*SQLiteHistory, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteHistory{db: db, path: dbPath}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS results (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		metric TEXT NOT NULL,
		k INTEGER NOT NULL,
		dissimilar INTEGER NOT NULL DEFAULT 0,
		source_id TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_results_created_at ON results(created_at);

	CREATE TABLE IF NOT EXISTS result_matches (
		result_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		word TEXT NOT NULL,
		score REAL,
		PRIMARY KEY (result_id, position),
		FOREIGN KEY (result_id) REFERENCES results(id) ON DELETE CASCADE
	);
	`
	_, err := db.Exec(schema)
	return err
}

// SaveResult inserts a result and its matches in one transaction.
func (s *SQLiteHistory) SaveResult(ctx context.Context, r *models.RankedResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO results (id, label, metric, k, dissimilar, source_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Label, r.Metric, r.K, r.Dissimilar, r.SourceID, r.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert result: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO result_matches (result_id, position, word, score) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, m := range r.Matches {
		if _, err := stmt.ExecContext(ctx, r.ID, i, m.Word, scoreValue(m.Score)); err != nil {
			return fmt.Errorf("failed to insert match: %w", err)
		}
	}
	return tx.Commit()
}

// GetResult returns a result with its matches.
func (s *SQLiteHistory) GetResult(ctx context.Context, id string) (*models.RankedResult, error) {
	var r models.RankedResult
	var sourceID sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, label, metric, k, dissimilar, source_id, created_at
		 FROM results WHERE id = ?`, id,
	).Scan(&r.ID, &r.Label, &r.Metric, &r.K, &r.Dissimilar, &sourceID, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrResultNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	r.SourceID = sourceID.String

	if r.Matches, err = s.matches(ctx, r.ID); err != nil {
		return nil, err
	}
	return &r, nil
}

// ListResults returns results newest first with offset and limit.
func (s *SQLiteHistory) ListResults(ctx context.Context, offset, limit int) ([]*models.RankedResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, metric, k, dissimilar, source_id, created_at
		 FROM results ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}

	var results []*models.RankedResult
	for rows.Next() {
		var r models.RankedResult
		var sourceID sql.NullString
		if err := rows.Scan(&r.ID, &r.Label, &r.Metric, &r.K, &r.Dissimilar, &sourceID, &r.CreatedAt); err != nil {
			_ = rows.Close()
			return nil, err
		}
		r.SourceID = sourceID.String
		results = append(results, &r)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	// the single connection must be released before the match queries
	_ = rows.Close()

	for _, r := range results {
		if r.Matches, err = s.matches(ctx, r.ID); err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (s *SQLiteHistory) matches(ctx context.Context, resultID string) ([]models.Match, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT word, score FROM result_matches WHERE result_id = ? ORDER BY position`, resultID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Match{}
	for rows.Next() {
		var m models.Match
		var score sql.NullFloat64
		if err := rows.Scan(&m.Word, &score); err != nil {
			return nil, err
		}
		m.Score = math.NaN()
		if score.Valid {
			m.Score = score.Float64
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteResult removes a result and its matches.
func (s *SQLiteHistory) DeleteResult(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM result_matches WHERE result_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM results WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrResultNotFound, id)
	}
	return tx.Commit()
}

// CountResults returns the number of stored results.
func (s *SQLiteHistory) CountResults(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM results`).Scan(&n)
	return n, err
}

// Close closes the database.
func (s *SQLiteHistory) Close() error {
	return s.db.Close()
}

// scoreValue maps NaN, which SQLite cannot store, to NULL. Infinities are stored as REAL.
func scoreValue(f float64) interface{} {
	if math.IsNaN(f) {
		return nil
	}
	return f
}
