package repositories

import (
	"context"
	"fmt"

	"github.com/veritasedu/veritas/internal/app/models"
	"github.com/veritasedu/veritas/internal/pkg/apperrors"
	"github.com/veritasedu/veritas/internal/storage"
)

// ConfigRepository handles teacher exam configurations. At most one live
// config exists per (subject, bimester); writes replace any existing entry
// with the same key.
type ConfigRepository struct {
	store storage.EntityStore
}

// NewConfigRepository creates a new ConfigRepository
func NewConfigRepository(store storage.EntityStore) *ConfigRepository {
	return &ConfigRepository{store: store}
}

// Upsert stores a config by its natural key.
func (r *ConfigRepository) Upsert(ctx context.Context, cfg models.TeacherConfig) error {
	if !models.ValidSubject(cfg.Subject) {
		return fmt.Errorf("%w: unknown subject %q", apperrors.ErrValidationFailed, cfg.Subject)
	}
	if !models.ValidBimester(cfg.Bimester) {
		return fmt.Errorf("%w: unknown bimester %q", apperrors.ErrValidationFailed, cfg.Bimester)
	}

	return r.store.PutConfig(ctx, cfg)
}

// List returns all stored configs.
func (r *ConfigRepository) List(ctx context.Context) ([]models.TeacherConfig, error) {
	return r.store.ListConfigs(ctx)
}

// Get returns the config for a (subject, bimester) pair or ErrConfigNotFound.
func (r *ConfigRepository) Get(ctx context.Context, subject models.Subject, bimester models.Bimester) (*models.TeacherConfig, error) {
	configs, err := r.store.ListConfigs(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading configs: %w", err)
	}

	for i := range configs {
		if configs[i].Subject == subject && configs[i].Bimester == bimester {
			cfg := configs[i]
			return &cfg, nil
		}
	}

	return nil, apperrors.ErrConfigNotFound
}
