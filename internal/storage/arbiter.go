package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/veritasedu/veritas/internal/app/models"
	"github.com/veritasedu/veritas/internal/pkg/apperrors"
	"github.com/veritasedu/veritas/internal/pkg/logger"
)

// State is the arbiter's availability state.
type State string

const (
	// StateAvailable means operations are routed to the remote store first.
	StateAvailable State = "AVAILABLE"
	// StateDemoted means only the local store is used until an explicit
	// RetryConnection succeeds.
	StateDemoted State = "DEMOTED"
)

// RetryResult reports the outcome of a manual reconnect attempt.
type RetryResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Arbiter routes every entity operation to the remote store while it is
// believed available and demotes to the local store on the first remote
// failure. Demotion is one-way: repeated successful local operations never
// re-promote, only RetryConnection can. A nil remote store puts the arbiter
// in permanent local-only mode.
//
// The availability flag is shared by every request goroutine, so it is
// guarded by a mutex.
type Arbiter struct {
	remote EntityStore
	local  EntityStore

	mu        sync.Mutex
	available bool

	probeTimeout time.Duration
}

// NewArbiter builds an arbiter and runs the startup connectivity probe,
// bounded by probeTimeout so an unreachable remote never blocks startup.
// Whichever of probe success, probe failure or timeout happens first decides
// the initial state.
func NewArbiter(ctx context.Context, remote, local EntityStore, probeTimeout time.Duration) *Arbiter {
	if probeTimeout <= 0 {
		probeTimeout = 2 * time.Second
	}

	a := &Arbiter{
		remote:       remote,
		local:        local,
		probeTimeout: probeTimeout,
	}

	if remote == nil {
		logger.Warn().Msg("No remote store configured, running in permanent local-only mode")
		return a
	}

	if err := a.probe(ctx); err != nil {
		logger.Warn().Err(err).Msg("Startup probe failed, starting in local-only mode")
		return a
	}

	a.mu.Lock()
	a.available = true
	a.mu.Unlock()
	logger.Info().Msg("Remote store reachable, starting in online mode")
	return a
}

// probe issues a lightweight read against the remote store.
func (a *Arbiter) probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.probeTimeout)
	defer cancel()
	_, err := a.remote.ListUsers(ctx)
	return err
}

func (a *Arbiter) remoteActive() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.available
}

// demote switches to local-only mode after a remote failure.
func (a *Arbiter) demote(err error) {
	a.mu.Lock()
	wasAvailable := a.available
	a.available = false
	a.mu.Unlock()

	if wasAvailable {
		logger.Warn().Err(err).Msg("Remote store failure, switching to local store")
	}
}

// IsOffline reports whether operations are currently served by the local
// store. Informational only: a demotion is not an error event.
func (a *Arbiter) IsOffline() bool {
	return !a.remoteActive()
}

// State returns the current availability state.
func (a *Arbiter) State() State {
	if a.remoteActive() {
		return StateAvailable
	}
	return StateDemoted
}

// RetryConnection optimistically re-promotes the remote store and probes it.
// This is the only path back to StateAvailable after a demotion; the arbiter
// never self-heals on a timer.
func (a *Arbiter) RetryConnection(ctx context.Context) RetryResult {
	if a.remote == nil {
		return RetryResult{Success: false, Error: "remote store not configured"}
	}

	a.mu.Lock()
	a.available = true
	a.mu.Unlock()

	if err := a.probe(ctx); err != nil {
		a.demote(err)
		if errors.Is(err, apperrors.ErrStoreNotProvisioned) {
			return RetryResult{Success: false, Error: "remote store not provisioned"}
		}
		return RetryResult{Success: false, Error: "remote store unreachable: " + err.Error()}
	}

	logger.Info().Msg("Remote store connection restored")
	return RetryResult{Success: true}
}

// exec runs op against the remote store when available; a remote failure
// demotes and the same op is replayed against the local store, so the call
// still completes. Once demoted, ops go straight to the local store.
func (a *Arbiter) exec(op func(store EntityStore) error) error {
	if a.remoteActive() {
		if err := op(a.remote); err != nil {
			a.demote(err)
		} else {
			return nil
		}
	}
	return op(a.local)
}

// ListUsers implements EntityStore.
func (a *Arbiter) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := a.exec(func(store EntityStore) error {
		var opErr error
		users, opErr = store.ListUsers(ctx)
		return opErr
	})
	return users, err
}

// PutUser implements EntityStore.
func (a *Arbiter) PutUser(ctx context.Context, user models.User) error {
	return a.exec(func(store EntityStore) error {
		return store.PutUser(ctx, user)
	})
}

// UpdateUserPassword implements EntityStore. ErrUserNotFound is a domain
// outcome, not a connectivity failure, so it bubbles without demoting.
func (a *Arbiter) UpdateUserPassword(ctx context.Context, username, password string) error {
	if a.remoteActive() {
		err := a.remote.UpdateUserPassword(ctx, username, password)
		if err == nil || errors.Is(err, apperrors.ErrUserNotFound) {
			return err
		}
		a.demote(err)
	}
	return a.local.UpdateUserPassword(ctx, username, password)
}

// DeleteUser implements EntityStore.
func (a *Arbiter) DeleteUser(ctx context.Context, username string) error {
	return a.exec(func(store EntityStore) error {
		return store.DeleteUser(ctx, username)
	})
}

// ListConfigs implements EntityStore.
func (a *Arbiter) ListConfigs(ctx context.Context) ([]models.TeacherConfig, error) {
	var configs []models.TeacherConfig
	err := a.exec(func(store EntityStore) error {
		var opErr error
		configs, opErr = store.ListConfigs(ctx)
		return opErr
	})
	return configs, err
}

// PutConfig implements EntityStore.
func (a *Arbiter) PutConfig(ctx context.Context, cfg models.TeacherConfig) error {
	return a.exec(func(store EntityStore) error {
		return store.PutConfig(ctx, cfg)
	})
}

// ListResults implements EntityStore.
func (a *Arbiter) ListResults(ctx context.Context) ([]models.StudentResult, error) {
	var results []models.StudentResult
	err := a.exec(func(store EntityStore) error {
		var opErr error
		results, opErr = store.ListResults(ctx)
		return opErr
	})
	return results, err
}

// AppendResult implements EntityStore.
func (a *Arbiter) AppendResult(ctx context.Context, result models.StudentResult) error {
	return a.exec(func(store EntityStore) error {
		return store.AppendResult(ctx, result)
	})
}
