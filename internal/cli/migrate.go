package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/burphub/burphub/internal/adapters/sqlstore"
	"github.com/burphub/burphub/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [version]",
	Short: "Run database migrations",
	Long: `Run database migrations.

Without arguments, runs all pending migrations (up).
With a version number, migrates to that specific version (up or down as needed).

Examples:
  burphub migrate      # Run all pending migrations
  burphub migrate 1    # Migrate to version 1
  burphub migrate 0    # Rollback all migrations`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := sqlstore.Open(cfg.DatabaseURL, cfg.DatabaseAuthToken)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := migrate.EnsureMigrationsTable(ctx, db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, dirty, err := migrate.GetCurrentVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in dirty state at version %d, manual intervention required", currentVersion)
	}

	all, err := migrate.LoadMigrations(sqlstore.DialectOf(db))
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	fmt.Fprintf(out, "Current version: %d\n", currentVersion)

	if len(args) == 0 {
		applied, err := migrate.Up(ctx, db, out)
		if err != nil {
			return err
		}
		if applied == 0 {
			fmt.Fprintln(out, "No pending migrations")
		} else {
			fmt.Fprintf(out, "Applied %d migration(s)\n", applied)
		}
		return nil
	}

	targetVersion, err := strconv.Atoi(args[0])
	if err != nil || targetVersion < 0 {
		return fmt.Errorf("invalid version number: %s", args[0])
	}
	if latest := latestVersion(all); targetVersion > latest {
		return fmt.Errorf("version %d does not exist (latest is %d)", targetVersion, latest)
	}

	switch {
	case targetVersion > currentVersion:
		return migrate.MigrateUpTo(ctx, db, all, currentVersion, targetVersion, out)
	case targetVersion < currentVersion:
		return migrate.MigrateDownTo(ctx, db, all, currentVersion, targetVersion, out)
	default:
		fmt.Fprintln(out, "Already at target version")
		return nil
	}
}

func latestVersion(all []migrate.Migration) int {
	if len(all) == 0 {
		return 0
	}
	return all[len(all)-1].Version
}
