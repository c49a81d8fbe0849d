package main

import (
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"

	"storefront-be/internal/config"
	"storefront-be/internal/db"
	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	err := run(os.Args[1:], os.Stderr, func() (*sql.DB, error) {
		return db.NewDatabase(cfg)
	}, db.Migrate)
	if err != nil {
		logger.L().Fatal("migration failed", zap.Error(err))
	}
}

type opener func() (*sql.DB, error)

type migrator func(database *sql.DB, mode string) error

// run parses -mode and checks it before any connection is opened.
func run(args []string, stderr io.Writer, open opener, migrateFn migrator) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	mode := fs.String("mode", db.ModeUp, "migration mode: up or down")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *mode != db.ModeUp && *mode != db.ModeDown {
		return fmt.Errorf("%w: %s (use 'up' or 'down')", db.ErrUnknownMode, *mode)
	}

	database, err := open()
	if err != nil {
		return err
	}
	defer database.Close()

	return migrateFn(database, *mode)
}
