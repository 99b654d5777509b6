package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/veritasedu/veritas/internal/app/models"
	"github.com/veritasedu/veritas/internal/pkg/apperrors"
	"github.com/veritasedu/veritas/internal/storage"
)

// ResultRepository handles the append-only exam result log.
type ResultRepository struct {
	store storage.EntityStore
}

// NewResultRepository creates a new ResultRepository
func NewResultRepository(store storage.EntityStore) *ResultRepository {
	return &ResultRepository{store: store}
}

// Append stores one completed exam attempt. Missing id and date are filled
// in; results are never mutated afterwards.
func (r *ResultRepository) Append(ctx context.Context, result models.StudentResult) error {
	if result.Score < 0 || result.Score > 100 {
		return fmt.Errorf("%w: score %.2f out of range", apperrors.ErrValidationFailed, result.Score)
	}
	if result.Violations < 0 {
		return fmt.Errorf("%w: negative violation count", apperrors.ErrValidationFailed)
	}

	if result.ID == "" {
		result.ID = uuid.New().String()
	}
	if result.Date == "" {
		result.Date = time.Now().UTC().Format(time.RFC3339)
	}

	return r.store.AppendResult(ctx, result)
}

// List returns all stored results.
func (r *ResultRepository) List(ctx context.Context) ([]models.StudentResult, error) {
	return r.store.ListResults(ctx)
}
