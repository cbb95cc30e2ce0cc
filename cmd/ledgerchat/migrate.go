package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fernwell/ledgerchat/internal/cli"
	"github.com/fernwell/ledgerchat/internal/config"
	"github.com/fernwell/ledgerchat/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

This command ensures your local database has all the required
tables and indexes for the application to function properly.`,
		RunE: runMigrate,
	}

	cmd.Flags().Bool("status", false, "Show current schema version without applying changes")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	statusOnly, _ := cmd.Flags().GetBool("status")

	settings, err := config.Load()
	if err != nil {
		return err
	}

	slog.Info("Opening database", "database", settings.DatabasePath)

	store, err := storage.NewSQLiteStorage(settings.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()

	if statusOnly {
		version, err := store.SchemaVersion(ctx)
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		fmt.Println(cli.FormatInfo(fmt.Sprintf("Schema version %d (latest is %d)", version, storage.ExpectedSchemaVersion)))
		return nil
	}

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Println(cli.FormatSuccess("Database is up to date"))
	return nil
}
