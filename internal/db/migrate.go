package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"storefront-be/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	ModeUp   = "up"
	ModeDown = "down"
)

var ErrUnknownMode = errors.New("unknown migration mode")

// Migrate applies (up) or rolls back one step (down) of the embedded migrations.
func Migrate(db *sql.DB, mode string) error {
	if mode != ModeUp && mode != ModeDown {
		return fmt.Errorf("%w: %s (use 'up' or 'down')", ErrUnknownMode, mode)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if mode == ModeUp {
		err = m.Up()
	} else {
		err = m.Steps(-1)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations %s: %w", mode, err)
	}

	version, dirty, _ := m.Version()
	logger.L().Info("migrations applied",
		zap.String("mode", mode),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}
