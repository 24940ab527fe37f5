package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/veloclub/veloclub/internal/app/models"
	appRepos "github.com/veloclub/veloclub/internal/app/repositories"
	"github.com/veloclub/veloclub/internal/config"
	"github.com/veloclub/veloclub/internal/pkg/apperrors"
	pkgAuth "github.com/veloclub/veloclub/internal/pkg/auth"
)

// CreateDefaultData creates the default admin account if it doesn't exist.
// Admin accounts sign in with email and password instead of a provider token,
// so the seeded account is the only way into a fresh installation.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	adminEmail := config.GetEnv("ADMIN_EMAIL", "admin@veloclub.app")
	adminPassword := config.GetEnv("ADMIN_PASSWORD", "ChangeMe123!")

	lgr.Info().Msg("Checking/Creating default admin account...")

	hash, err := pkgAuth.HashPassword(adminPassword)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing default admin password")
		return err
	}

	admin := &appModels.User{
		FullName:    "Platform Admin",
		FirebaseUID: "seed-admin",
		Email:       &adminEmail,
		Password:    &hash,
		RoleType:    appModels.RoleAdmin,
		IsVerified:  true,
	}

	_, err = userRepo.CreateUser(ctx, admin)
	switch {
	case err == nil:
		lgr.Info().Str("email", adminEmail).Msg("Default admin account created")
	case errors.Is(err, apperrors.ErrUserAlreadyExists),
		errors.Is(err, apperrors.ErrEmailAlreadyExists):
		lgr.Debug().Str("email", adminEmail).Msg("Default admin account already exists")
	default:
		lgr.Error().Err(err).Msg("Error creating default admin account")
		return err
	}

	return nil
}
