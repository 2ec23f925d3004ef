// Package storage persists completed rankings so they can be listed and replayed.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/kotoba/internal/models"
)

// ErrResultNotFound is returned when no stored result has the requested ID.
var ErrResultNotFound = errors.New("result not found")

// History defines result persistence operations.
type History interface {
	SaveResult(ctx context.Context, result *models.RankedResult) error
	GetResult(ctx context.Context, id string) (*models.RankedResult, error)
	// ListResults returns results newest first.
	ListResults(ctx context.Context, offset, limit int) ([]*models.RankedResult, error)
	DeleteResult(ctx context.Context, id string) error
	CountResults(ctx context.Context) (int64, error)

	Close() error
}
