package migrate

import (
	"context"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/leanchem/leanchem-backend/pkg/db"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Run applies pending migrations using the embedded SQL files.
// command is a goose command: up, down, status, version.
func Run(ctx context.Context, client *db.Client, command string, args ...string) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("accessing sql.DB: %w", err)
	}

	if err := goose.RunContext(ctx, command, sqlDB, "migrations", args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
