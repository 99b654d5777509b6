package storage

import (
	"context"

	"github.com/veritasedu/veritas/internal/app/models"
)

// EntityStore is the operation set both backends implement. The remote
// Postgres store and the local bbolt store are interchangeable behind it,
// which is what lets the arbiter fail over mid-call.
type EntityStore interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	PutUser(ctx context.Context, user models.User) error
	UpdateUserPassword(ctx context.Context, username, password string) error
	DeleteUser(ctx context.Context, username string) error

	ListConfigs(ctx context.Context) ([]models.TeacherConfig, error)
	PutConfig(ctx context.Context, cfg models.TeacherConfig) error

	ListResults(ctx context.Context) ([]models.StudentResult, error)
	AppendResult(ctx context.Context, result models.StudentResult) error
}

// Region names shared by both backends.
const (
	RegionUsers   = "users"
	RegionConfigs = "configs"
	RegionResults = "results"
)
