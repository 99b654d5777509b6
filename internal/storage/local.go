package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/veritasedu/veritas/internal/app/models"
	"github.com/veritasedu/veritas/internal/pkg/apperrors"
	"github.com/veritasedu/veritas/internal/pkg/logger"
)

var buckets = [][]byte{
	[]byte(RegionUsers),
	[]byte(RegionConfigs),
	[]byte(RegionResults),
}

// LocalStore persists entities in a bbolt file on the local device. It is
// always available and capacity-bounded; nothing here is shared across
// devices.
type LocalStore struct {
	db *bbolt.DB
}

// NewLocalStore opens (or creates) the bbolt database and its region buckets.
func NewLocalStore(path string) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create local store directory: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create local store buckets: %w", err)
	}

	return &LocalStore{db: db}, nil
}

// Close closes the underlying database file.
func (l *LocalStore) Close() {
	if err := l.db.Close(); err != nil {
		logger.Warn().Err(err).Msg("Error closing local store")
	}
}

func (l *LocalStore) put(region string, key string, entity interface{}) error {
	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to encode %s record: %w", region, err)
	}
	return l.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(region)).Put([]byte(key), data)
	})
}

func (l *LocalStore) forEach(region string, fn func(value []byte) error) error {
	return l.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(region)).ForEach(func(_, v []byte) error {
			return fn(v)
		})
	})
}

// ListUsers returns every locally stored user.
func (l *LocalStore) ListUsers(_ context.Context) ([]models.User, error) {
	users := []models.User{}
	err := l.forEach(RegionUsers, func(value []byte) error {
		var u models.User
		if err := json.Unmarshal(value, &u); err != nil {
			logger.Warn().Err(err).Msg("Skipping malformed local user record")
			return nil
		}
		users = append(users, u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// PutUser stores a user keyed by username.
func (l *LocalStore) PutUser(_ context.Context, user models.User) error {
	return l.put(RegionUsers, user.Username, user)
}

// UpdateUserPassword rewrites the stored record with the new password.
func (l *LocalStore) UpdateUserPassword(_ context.Context, username, password string) error {
	return l.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(RegionUsers))
		raw := bucket.Get([]byte(username))
		if raw == nil {
			return apperrors.ErrUserNotFound
		}

		var u models.User
		if err := json.Unmarshal(raw, &u); err != nil {
			return fmt.Errorf("failed to decode local user record: %w", err)
		}
		u.Password = password

		data, err := json.Marshal(u)
		if err != nil {
			return fmt.Errorf("failed to encode local user record: %w", err)
		}
		return bucket.Put([]byte(username), data)
	})
}

// DeleteUser removes a user record. Deleting a missing key is a no-op.
func (l *LocalStore) DeleteUser(_ context.Context, username string) error {
	return l.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(RegionUsers)).Delete([]byte(username))
	})
}

// ListConfigs returns every locally stored teacher config.
func (l *LocalStore) ListConfigs(_ context.Context) ([]models.TeacherConfig, error) {
	configs := []models.TeacherConfig{}
	err := l.forEach(RegionConfigs, func(value []byte) error {
		var c models.TeacherConfig
		if err := json.Unmarshal(value, &c); err != nil {
			logger.Warn().Err(err).Msg("Skipping malformed local config record")
			return nil
		}
		configs = append(configs, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return configs, nil
}

// PutConfig upserts a config keyed by its (subject, bimester) natural key.
func (l *LocalStore) PutConfig(_ context.Context, cfg models.TeacherConfig) error {
	return l.put(RegionConfigs, models.ConfigKey(cfg.Subject, cfg.Bimester), cfg)
}

// ListResults returns every locally stored exam result.
func (l *LocalStore) ListResults(_ context.Context) ([]models.StudentResult, error) {
	results := []models.StudentResult{}
	err := l.forEach(RegionResults, func(value []byte) error {
		var r models.StudentResult
		if err := json.Unmarshal(value, &r); err != nil {
			logger.Warn().Err(err).Msg("Skipping malformed local result record")
			return nil
		}
		results = append(results, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// AppendResult stores a result keyed by its id.
func (l *LocalStore) AppendResult(_ context.Context, result models.StudentResult) error {
	return l.put(RegionResults, result.ID, result)
}
