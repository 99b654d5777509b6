package seed

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/veritasedu/veritas/internal/app/repositories"
)

// CreateDefaultData ensures the seeded director account exists so the
// system is never without an administrator. Safe to call on every boot; the
// repository skips silently when any user already exists.
func CreateDefaultData(ctx context.Context, repos *repositories.Repositories, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default director account...")

	if err := repos.UserRepository.EnsureDefaultDirector(ctx); err != nil {
		lgr.Error().Err(err).Msg("Error seeding default director")
		return err
	}

	return nil
}
