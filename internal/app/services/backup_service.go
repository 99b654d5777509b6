package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/veritasedu/veritas/internal/app/models"
	"github.com/veritasedu/veritas/internal/app/repositories"
	"github.com/veritasedu/veritas/internal/pkg/apperrors"
	"github.com/veritasedu/veritas/internal/pkg/logger"
)

// OfflineReporter exposes the arbiter's availability state to the snapshot
// header without coupling the codec to the storage package internals.
type OfflineReporter interface {
	IsOffline() bool
}

// Snapshot is the portable backup format: every entity collection plus
// provenance metadata.
type Snapshot struct {
	Users     []models.User          `json:"users"`
	Configs   []models.TeacherConfig `json:"configs"`
	Results   []models.StudentResult `json:"results"`
	Timestamp string                 `json:"timestamp"`
	Source    string                 `json:"source"` // "remote" or "local"
}

// BackupService serializes and replays the full entity set. All reads and
// writes go through the repositories, so import/export respects whichever
// backend is currently active.
type BackupService interface {
	Export(ctx context.Context) (string, error)
	Import(ctx context.Context, data string) bool
}

// backupServiceImpl implements the BackupService interface
type backupServiceImpl struct {
	repos  *repositories.Repositories
	status OfflineReporter
}

// NewBackupService creates a new backup service instance
func NewBackupService(repos *repositories.Repositories, status OfflineReporter) BackupService {
	return &backupServiceImpl{repos: repos, status: status}
}

// Export reads all collections and serializes them as one snapshot.
func (s *backupServiceImpl) Export(ctx context.Context) (string, error) {
	users, err := s.repos.UserRepository.ListUsers(ctx)
	if err != nil {
		return "", fmt.Errorf("error exporting users: %w", err)
	}
	configs, err := s.repos.ConfigRepository.List(ctx)
	if err != nil {
		return "", fmt.Errorf("error exporting configs: %w", err)
	}
	results, err := s.repos.ResultRepository.List(ctx)
	if err != nil {
		return "", fmt.Errorf("error exporting results: %w", err)
	}

	source := "remote"
	if s.status.IsOffline() {
		source = "local"
	}

	snapshot := Snapshot{
		Users:     users,
		Configs:   configs,
		Results:   results,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Source:    source,
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error encoding snapshot: %w", err)
	}
	return string(data), nil
}

// Import replays a snapshot through the repositories. A parse failure
// returns false with no side effects. Duplicate usernames are skipped so
// re-importing a snapshot stays idempotent for users; a failure on one user
// never aborts the remaining entries.
func (s *backupServiceImpl) Import(ctx context.Context, data string) bool {
	var snapshot Snapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		logger.Error().Err(err).Msg("Invalid backup file")
		return false
	}

	for _, user := range snapshot.Users {
		if err := s.repos.UserRepository.RestoreUser(ctx, user); err != nil {
			if !errors.Is(err, apperrors.ErrDuplicateUsername) {
				logger.Warn().Err(err).Str("username", user.Username).Msg("Skipping user during import")
			}
			continue
		}
	}
	for _, cfg := range snapshot.Configs {
		if err := s.repos.ConfigRepository.Upsert(ctx, cfg); err != nil {
			logger.Warn().Err(err).Str("subject", string(cfg.Subject)).Msg("Skipping config during import")
		}
	}
	for _, result := range snapshot.Results {
		if err := s.repos.ResultRepository.Append(ctx, result); err != nil {
			logger.Warn().Err(err).Str("id", result.ID).Msg("Skipping result during import")
		}
	}

	return true
}
