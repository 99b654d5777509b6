package repositories

import (
	"github.com/veritasedu/veritas/internal/pkg/auth"
	"github.com/veritasedu/veritas/internal/storage"
)

// Repositories contains all repository instances
type Repositories struct {
	UserRepository   *UserRepository
	ConfigRepository *ConfigRepository
	ResultRepository *ResultRepository
}

// NewRepositories creates all repositories over the given store (normally
// the arbiter, so every operation inherits the failover behavior).
func NewRepositories(store storage.EntityStore, hasher auth.Hasher) *Repositories {
	return &Repositories{
		UserRepository:   NewUserRepository(store, hasher),
		ConfigRepository: NewConfigRepository(store),
		ResultRepository: NewResultRepository(store),
	}
}
