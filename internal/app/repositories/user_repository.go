package repositories

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/veritasedu/veritas/internal/app/models"
	"github.com/veritasedu/veritas/internal/pkg/apperrors"
	"github.com/veritasedu/veritas/internal/pkg/auth"
	"github.com/veritasedu/veritas/internal/pkg/logger"
	"github.com/veritasedu/veritas/internal/storage"
)

// Default director created on first boot so the system is never without an
// administrator account.
const (
	DefaultDirectorUsername = "diretor"
	DefaultDirectorName     = "Diretor Geral"
	DefaultDirectorPassword = "Matuto@84"
)

// UserRepository enforces the user invariants (unique usernames, last
// director protection) over whichever backend the arbiter routes to.
type UserRepository struct {
	store  storage.EntityStore
	hasher auth.Hasher

	seedOnce sync.Once
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(store storage.EntityStore, hasher auth.Hasher) *UserRepository {
	return &UserRepository{store: store, hasher: hasher}
}

// ListUsers returns all visible users.
func (r *UserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	return r.store.ListUsers(ctx)
}

// CreateUser stores a new user. The duplicate check runs against whichever
// backend is currently authoritative; it is a best-effort guard, not a
// transactional guarantee.
func (r *UserRepository) CreateUser(ctx context.Context, user models.User) error {
	if strings.TrimSpace(user.Username) == "" {
		return fmt.Errorf("%w: username cannot be empty", apperrors.ErrValidationFailed)
	}
	if user.Role != models.RoleDirector && user.Role != models.RoleTeacher {
		return fmt.Errorf("%w: unknown role %q", apperrors.ErrValidationFailed, user.Role)
	}

	users, err := r.store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("error checking existing users: %w", err)
	}
	for _, existing := range users {
		if existing.Username == user.Username {
			return apperrors.ErrDuplicateUsername
		}
	}

	hashed, err := r.hasher.Hash(user.Password)
	if err != nil {
		return fmt.Errorf("error preparing password: %w", err)
	}
	user.Password = hashed

	return r.store.PutUser(ctx, user)
}

// RestoreUser stores a user whose password is already in stored form
// (snapshot import). Same duplicate guard as CreateUser, no re-hashing.
func (r *UserRepository) RestoreUser(ctx context.Context, user models.User) error {
	if strings.TrimSpace(user.Username) == "" {
		return fmt.Errorf("%w: username cannot be empty", apperrors.ErrValidationFailed)
	}

	users, err := r.store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("error checking existing users: %w", err)
	}
	for _, existing := range users {
		if existing.Username == user.Username {
			return apperrors.ErrDuplicateUsername
		}
	}

	return r.store.PutUser(ctx, user)
}

// UpdateUserPassword replaces the password after verifying the current one.
func (r *UserRepository) UpdateUserPassword(ctx context.Context, username, currentPass, newPass string) error {
	users, err := r.store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("error loading users: %w", err)
	}

	var target *models.User
	for i := range users {
		if users[i].Username == username {
			target = &users[i]
			break
		}
	}
	if target == nil {
		return apperrors.ErrUserNotFound
	}

	if !r.hasher.Verify(target.Password, currentPass) {
		return apperrors.ErrInvalidCredentials
	}

	hashed, err := r.hasher.Hash(newPass)
	if err != nil {
		return fmt.Errorf("error preparing password: %w", err)
	}

	return r.store.UpdateUserPassword(ctx, username, hashed)
}

// DeleteUser removes a user, refusing to remove the last director. Deleting
// an unknown username is a no-op, matching the write path of both backends.
func (r *UserRepository) DeleteUser(ctx context.Context, username string) error {
	users, err := r.store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("error loading users: %w", err)
	}

	var target *models.User
	directors := 0
	for i := range users {
		if users[i].Role == models.RoleDirector {
			directors++
		}
		if users[i].Username == username {
			target = &users[i]
		}
	}

	if target != nil && target.Role == models.RoleDirector && directors <= 1 {
		return apperrors.ErrLastDirector
	}

	return r.store.DeleteUser(ctx, username)
}

// Authenticate looks up a user by credentials. It returns (nil, nil) when no
// user matches; callers decide whether that is an error. The default
// director is seeded before the first lookup of the process.
func (r *UserRepository) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	r.seedOnce.Do(func() {
		if err := r.EnsureDefaultDirector(ctx); err != nil {
			logger.Error().Err(err).Msg("Failed to seed default director")
		}
	})

	users, err := r.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading users: %w", err)
	}

	for i := range users {
		if users[i].Username == username && r.hasher.Verify(users[i].Password, password) {
			user := users[i]
			return &user, nil
		}
	}

	return nil, nil
}

// EnsureDefaultDirector creates the seeded director account when the user
// collection is empty. Idempotent: it skips silently if any user exists.
func (r *UserRepository) EnsureDefaultDirector(ctx context.Context) error {
	users, err := r.store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("error checking users for seeding: %w", err)
	}
	if len(users) > 0 {
		return nil
	}

	hashed, err := r.hasher.Hash(DefaultDirectorPassword)
	if err != nil {
		return fmt.Errorf("error preparing seed password: %w", err)
	}

	director := models.User{
		Username: DefaultDirectorUsername,
		Name:     DefaultDirectorName,
		Password: hashed,
		Role:     models.RoleDirector,
	}

	if err := r.store.PutUser(ctx, director); err != nil {
		return fmt.Errorf("error creating default director: %w", err)
	}

	logger.Info().Str("username", DefaultDirectorUsername).Msg("Default director account created")
	return nil
}
