package migrate

import (
	"context"

	"github.com/leanchem/leanchem-backend/pkg/config"
	"github.com/leanchem/leanchem-backend/pkg/db"
	"github.com/leanchem/leanchem-backend/pkg/logger"
)

// MaybeRunDev applies migrations on startup in dev environments when the
// auto-migrate flag is set. Production runs the migrate binary explicitly.
func MaybeRunDev(ctx context.Context, log *logger.Logger, cfg *config.Config, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	log.Info(ctx, "running startup migrations")
	return Run(ctx, client, "up")
}
