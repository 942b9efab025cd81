package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/burphub/burphub/internal/adapters/sqlstore"
	"github.com/burphub/burphub/migrations"
)

// Migration represents a single database migration with up and down SQL.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

var upPattern = regexp.MustCompile(`^(\d+)_(.+)\.up\.sql$`)

// EnsureMigrationsTable creates the schema_migrations table if it doesn't exist.
func EnsureMigrationsTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			dirty INTEGER NOT NULL DEFAULT 0
		)
	`)
	return err
}

// GetCurrentVersion returns the current migration version and dirty state.
func GetCurrentVersion(ctx context.Context, db *sql.DB) (int, bool, error) {
	var version int
	var dirty int

	err := db.QueryRowContext(ctx, `SELECT version, dirty FROM schema_migrations ORDER BY version DESC LIMIT 1`).Scan(&version, &dirty)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	return version, dirty == 1, nil
}

// SetVersion sets the migration version and dirty state.
func SetVersion(ctx context.Context, db *sql.DB, version int, dirty bool) error {
	dirtyInt := 0
	if dirty {
		dirtyInt = 1
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM schema_migrations`); err != nil {
		return err
	}

	if version > 0 {
		query := sqlstore.DialectOf(db).Rebind(`INSERT INTO schema_migrations (version, dirty) VALUES (?, ?)`)
		_, err := db.ExecContext(ctx, query, version, dirtyInt)
		return err
	}
	return nil
}

// LoadMigrations reads the embedded migration files for d sorted by version.
func LoadMigrations(d sqlstore.Dialect) ([]Migration, error) {
	sub, err := fs.Sub(migrations.FS, d.MigrationsDir())
	if err != nil {
		return nil, err
	}
	return loadFrom(sub)
}

func loadFrom(fsys fs.FS) ([]Migration, error) {
	var result []Migration

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		matches := upPattern.FindStringSubmatch(filepath.Base(path))
		if matches == nil {
			return nil
		}

		version, _ := strconv.Atoi(matches[1])
		name := matches[2]

		upSQL, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		downPath := strings.TrimSuffix(path, ".up.sql") + ".down.sql"
		downSQL, err := fs.ReadFile(fsys, downPath)
		if err != nil {
			downSQL = nil
		}

		result = append(result, Migration{
			Version: version,
			Name:    name,
			UpSQL:   string(upSQL),
			DownSQL: string(downSQL),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Version < result[j].Version
	})

	return result, nil
}

// RunMigration executes a single migration (up or down), reporting progress to out.
func RunMigration(ctx context.Context, db *sql.DB, m Migration, up bool, out io.Writer) error {
	direction := "up"
	sqlContent := m.UpSQL
	targetVersion := m.Version
	if !up {
		direction = "down"
		sqlContent = m.DownSQL
		targetVersion = m.Version - 1
	}

	fmt.Fprintf(out, "  %s %03d_%s...\n", direction, m.Version, m.Name)

	if err := SetVersion(ctx, db, m.Version, true); err != nil {
		return fmt.Errorf("failed to set dirty flag: %w", err)
	}

	for _, stmt := range SplitSQL(sqlContent) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute migration %d %s: %w\nSQL: %s", m.Version, direction, err, stmt)
		}
	}

	if err := SetVersion(ctx, db, targetVersion, false); err != nil {
		return fmt.Errorf("failed to clear dirty flag: %w", err)
	}

	return nil
}

// SplitSQL splits a SQL string by semicolons.
func SplitSQL(sql string) []string {
	return strings.Split(sql, ";")
}

// MigrateUpTo runs up migrations until targetVersion is reached.
func MigrateUpTo(ctx context.Context, db *sql.DB, all []Migration, currentVersion, targetVersion int, out io.Writer) error {
	fmt.Fprintf(out, "Migrating up to version %d...\n", targetVersion)

	for _, m := range all {
		if m.Version <= currentVersion {
			continue
		}
		if m.Version > targetVersion {
			break
		}
		if err := RunMigration(ctx, db, m, true, out); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "Migrated to version %d\n", targetVersion)
	return nil
}

// MigrateDownTo runs down migrations until targetVersion is reached.
func MigrateDownTo(ctx context.Context, db *sql.DB, all []Migration, currentVersion, targetVersion int, out io.Writer) error {
	fmt.Fprintf(out, "Migrating down to version %d...\n", targetVersion)

	for i := len(all) - 1; i >= 0; i-- {
		m := all[i]
		if m.Version > currentVersion {
			continue
		}
		if m.Version <= targetVersion {
			break
		}
		if m.DownSQL == "" {
			return fmt.Errorf("no down migration for version %d", m.Version)
		}
		if err := RunMigration(ctx, db, m, false, out); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "Migrated to version %d\n", targetVersion)
	return nil
}

// Up runs all pending migrations and returns how many were applied.
func Up(ctx context.Context, db *sql.DB, out io.Writer) (int, error) {
	if err := EnsureMigrationsTable(ctx, db); err != nil {
		return 0, fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, dirty, err := GetCurrentVersion(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	if dirty {
		return 0, fmt.Errorf("database is in dirty state at version %d", currentVersion)
	}

	all, err := LoadMigrations(sqlstore.DialectOf(db))
	if err != nil {
		return 0, fmt.Errorf("failed to load migrations: %w", err)
	}

	applied := 0
	for _, m := range all {
		if m.Version <= currentVersion {
			continue
		}
		if err := RunMigration(ctx, db, m, true, out); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

// RunAll runs all pending migrations without progress output.
func RunAll(ctx context.Context, db *sql.DB) error {
	_, err := Up(ctx, db, io.Discard)
	return err
}
