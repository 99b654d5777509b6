package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veritasedu/veritas/internal/app/models"
	"github.com/veritasedu/veritas/internal/config"
	"github.com/veritasedu/veritas/internal/pkg/apperrors"
	"github.com/veritasedu/veritas/internal/pkg/logger"
)

// RemoteStore persists entities in Postgres. Each region is a two-column
// table (natural key + JSONB document), mirroring the document layout the
// local store uses so snapshots stay backend-agnostic.
type RemoteStore struct {
	pool *pgxpool.Pool
	sb   squirrel.StatementBuilderType
}

// NewRemoteStore builds the Postgres-backed store. It does NOT ping: the
// arbiter's bounded startup probe decides availability, so an unreachable
// database must not block construction. A configuration parse failure is the
// only construction error, and the caller treats it as permanent local-only
// mode.
func NewRemoteStore(cfg *config.Config) (*RemoteStore, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.GetPostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgxpool config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)

	maxLifetime, err := time.ParseDuration(cfg.Database.ConnMaxLifetime)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection max lifetime: %w", err)
	}
	poolConfig.MaxConnLifetime = maxLifetime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}

	return &RemoteStore{
		pool: pool,
		sb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Close releases the connection pool.
func (r *RemoteStore) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}

// EnsureSchema creates the region tables if they are missing. Best effort at
// startup: if the database is unreachable, the arbiter probe will demote and
// the error is only logged.
func (r *RemoteStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (username TEXT PRIMARY KEY, doc JSONB NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS configs (key TEXT PRIMARY KEY, doc JSONB NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS results (id TEXT PRIMARY KEY, doc JSONB NOT NULL)`,
	}
	for _, stmt := range stmts {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return wrapRemoteErr("ensuring schema", err)
		}
	}
	return nil
}

// wrapRemoteErr tags provisioning failures (missing database or table) with
// ErrStoreNotProvisioned so RetryConnection can classify them. SQLSTATE
// 3D000 is invalid_catalog_name, 42P01 is undefined_table.
func wrapRemoteErr(action string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == "3D000" || pgErr.Code == "42P01") {
		return fmt.Errorf("%s: %w: %v", action, apperrors.ErrStoreNotProvisioned, err)
	}
	return fmt.Errorf("%s: %w", action, err)
}

func (r *RemoteStore) listDocs(ctx context.Context, table string) ([][]byte, error) {
	sql, args, err := r.sb.Select("doc").From(table).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query for %s: %w", table, err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapRemoteErr("listing "+table, err)
	}
	defer rows.Close()

	var docs [][]byte
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, wrapRemoteErr("scanning "+table, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapRemoteErr("iterating "+table, err)
	}
	return docs, nil
}

func (r *RemoteStore) upsertDoc(ctx context.Context, table, keyColumn, key string, entity interface{}) error {
	doc, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to encode %s document: %w", table, err)
	}

	sql, args, err := r.sb.Insert(table).
		Columns(keyColumn, "doc").
		Values(key, doc).
		Suffix(fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET doc = EXCLUDED.doc", keyColumn)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert query for %s: %w", table, err)
	}

	if _, err := r.pool.Exec(ctx, sql, args...); err != nil {
		return wrapRemoteErr("writing "+table, err)
	}
	return nil
}

// ListUsers returns every user document.
func (r *RemoteStore) ListUsers(ctx context.Context) ([]models.User, error) {
	docs, err := r.listDocs(ctx, RegionUsers)
	if err != nil {
		return nil, err
	}

	users := []models.User{}
	for _, doc := range docs {
		var u models.User
		if err := json.Unmarshal(doc, &u); err != nil {
			logger.Warn().Err(err).Msg("Skipping malformed user document")
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

// PutUser writes a user document keyed by username.
func (r *RemoteStore) PutUser(ctx context.Context, user models.User) error {
	return r.upsertDoc(ctx, RegionUsers, "username", user.Username, user)
}

// UpdateUserPassword replaces the password field inside the stored document.
func (r *RemoteStore) UpdateUserPassword(ctx context.Context, username, password string) error {
	sql, args, err := r.sb.Update(RegionUsers).
		Set("doc", squirrel.Expr("jsonb_set(doc, '{password}', to_jsonb(?::text))", password)).
		Where(squirrel.Eq{"username": username}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build password update query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return wrapRemoteErr("updating user password", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// DeleteUser removes a user document.
func (r *RemoteStore) DeleteUser(ctx context.Context, username string) error {
	sql, args, err := r.sb.Delete(RegionUsers).
		Where(squirrel.Eq{"username": username}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete user query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, sql, args...); err != nil {
		return wrapRemoteErr("deleting user", err)
	}
	return nil
}

// ListConfigs returns every teacher config document.
func (r *RemoteStore) ListConfigs(ctx context.Context) ([]models.TeacherConfig, error) {
	docs, err := r.listDocs(ctx, RegionConfigs)
	if err != nil {
		return nil, err
	}

	configs := []models.TeacherConfig{}
	for _, doc := range docs {
		var c models.TeacherConfig
		if err := json.Unmarshal(doc, &c); err != nil {
			logger.Warn().Err(err).Msg("Skipping malformed config document")
			continue
		}
		configs = append(configs, c)
	}
	return configs, nil
}

// PutConfig upserts a config document keyed by subject and bimester.
func (r *RemoteStore) PutConfig(ctx context.Context, cfg models.TeacherConfig) error {
	return r.upsertDoc(ctx, RegionConfigs, "key", models.ConfigKey(cfg.Subject, cfg.Bimester), cfg)
}

// ListResults returns every stored exam result.
func (r *RemoteStore) ListResults(ctx context.Context) ([]models.StudentResult, error) {
	docs, err := r.listDocs(ctx, RegionResults)
	if err != nil {
		return nil, err
	}

	results := []models.StudentResult{}
	for _, doc := range docs {
		var res models.StudentResult
		if err := json.Unmarshal(doc, &res); err != nil {
			logger.Warn().Err(err).Msg("Skipping malformed result document")
			continue
		}
		results = append(results, res)
	}
	return results, nil
}

// AppendResult stores a result document keyed by its caller-generated id.
func (r *RemoteStore) AppendResult(ctx context.Context, result models.StudentResult) error {
	return r.upsertDoc(ctx, RegionResults, "id", result.ID, result)
}
