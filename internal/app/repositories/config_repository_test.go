package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/veritasedu/veritas/internal/app/models"
	"github.com/veritasedu/veritas/internal/pkg/apperrors"
)

func TestConfigUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewConfigRepository(newTestStore(t))

	cfg := models.TeacherConfig{
		Subject:        models.SubjectGeografia,
		Bimester:       models.Bimester1,
		Topics:         "Cartografia",
		IsActive:       true,
		LastModifiedBy: "prof.ana",
	}
	if err := repo.Upsert(ctx, cfg); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	// Re-upserting the same key replaces the entry instead of duplicating.
	cfg.Topics = "Cartografia e clima"
	cfg.IsActive = false
	if err := repo.Upsert(ctx, cfg); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	configs, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(configs) != 1 {
		t.Fatalf("got %d configs, want 1", len(configs))
	}
	if configs[0].Topics != "Cartografia e clima" || configs[0].IsActive {
		t.Fatalf("upsert did not replace, got %+v", configs[0])
	}

	tests := []struct {
		name string
		cfg  models.TeacherConfig
	}{
		{name: "unknown subject", cfg: models.TeacherConfig{Subject: "Química", Bimester: models.Bimester1}},
		{name: "unknown bimester", cfg: models.TeacherConfig{Subject: models.SubjectHistoria, Bimester: "5º Bimestre"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := repo.Upsert(ctx, tt.cfg); !errors.Is(err, apperrors.ErrValidationFailed) {
				t.Fatalf("Upsert() error = %v, want ErrValidationFailed", err)
			}
		})
	}
}

func TestConfigGet(t *testing.T) {
	ctx := context.Background()
	repo := NewConfigRepository(newTestStore(t))

	stored := models.TeacherConfig{
		Subject:  models.SubjectFilosofia,
		Bimester: models.Bimester2,
		Topics:   "Ética",
		IsActive: true,
	}
	if err := repo.Upsert(ctx, stored); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, err := repo.Get(ctx, models.SubjectFilosofia, models.Bimester2)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Topics != "Ética" {
		t.Fatalf("Get() = %+v", got)
	}

	if _, err := repo.Get(ctx, models.SubjectFilosofia, models.Bimester3); !errors.Is(err, apperrors.ErrConfigNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrConfigNotFound", err)
	}
}
