package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leadsite-api/internal/config"
	"github.com/leadsite-api/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the postgres schema",
	Long: `Apply or roll back the embedded postgres migrations.

Only needed with STORAGE_DRIVER=postgres; the JSON driver has no schema.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(db *database.DB) error {
			return db.RunMigrations()
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back all migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(db *database.DB) error {
			return db.MigrateDown()
		})
	},
}

var migrateGotoCmd = &cobra.Command{
	Use:   "goto <version>",
	Short: "Migrate up or down to a specific version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}
		return withDatabase(func(db *database.DB) error {
			return db.MigrateToVersion(uint(version))
		})
	},
}

func withDatabase(fn func(db *database.DB) error) error {
	if cfg.Storage.Driver != config.DriverPostgres {
		return errors.New("migrations require STORAGE_DRIVER=postgres")
	}

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	return fn(db)
}
