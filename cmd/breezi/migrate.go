package main

import (
	"github.com/spf13/cobra"

	"github.com/deppfellow/breezi/internal/config"
	"github.com/deppfellow/breezi/internal/database"
)

func runMigrate(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer a.loggerService.Shutdown()

	ctx := cmd.Context()

	if a.cfg.Database.Driver == config.DriverPostgres {
		return database.Migrate(ctx, &a.log, a.cfg)
	}

	// SQLite applies pending migrations on open.
	db, err := database.OpenSQLite(ctx, a.cfg.Database.Path, &a.log)
	if err != nil {
		return err
	}
	return db.Close()
}
