package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/tursodatabase/go-libsql"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverLibSQL   = "libsql"
	DriverPostgres = "postgres"
)

const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)&_txlock=immediate"

var remoteSchemes = []string{"libsql://", "https://", "http://", "wss://", "ws://"}

// Open connects to databaseURL and pings it.
//
// libsql, http(s) and ws(s) URLs go through the Turso libsql driver with
// authToken appended. postgres:// and postgresql:// URLs go through lib/pq
// unchanged. Anything else is treated as a local SQLite file (optionally
// prefixed with file: or sqlite:///) opened with the pure-Go driver.
func Open(databaseURL, authToken string) (*sql.DB, error) {
	driver, dsn, err := Resolve(databaseURL, authToken)
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		if err := ensureDir(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverLibSQL {
		// Turso aggressively closes idle streams, so avoid keeping idle
		// connections around between requests.
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(0)
		db.SetConnMaxLifetime(5 * time.Minute)
		db.SetConnMaxIdleTime(0)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Resolve maps a database URL to a registered driver name and its DSN.
func Resolve(databaseURL, authToken string) (driver, dsn string, err error) {
	u := strings.TrimSpace(databaseURL)
	if u == "" {
		return "", "", fmt.Errorf("database URL is empty")
	}

	for _, scheme := range remoteSchemes {
		if strings.HasPrefix(u, scheme) {
			if authToken != "" {
				u += querySep(u) + "authToken=" + authToken
			}
			return DriverLibSQL, u, nil
		}
	}

	if strings.HasPrefix(u, "postgres://") || strings.HasPrefix(u, "postgresql://") {
		return DriverPostgres, u, nil
	}

	u = strings.TrimPrefix(u, "sqlite:///")
	return DriverSQLite, u + querySep(u) + sqlitePragmas, nil
}

func querySep(u string) string {
	if strings.Contains(u, "?") {
		return "&"
	}
	return "?"
}

// ensureDir creates the parent directory of a SQLite file DSN.
func ensureDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.Index(path, "?"); i >= 0 {
		path = path[:i]
	}
	if path == "" || strings.Contains(path, ":memory:") || strings.HasPrefix(path, "mode=memory") {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	return nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// EnsureSingletons creates the streak and profile rows when missing.
func EnsureSingletons(ctx context.Context, db *sql.DB) error {
	d := DialectOf(db)
	if _, err := db.ExecContext(ctx,
		d.Rebind(`INSERT INTO streak_info (id, current_streak, longest_streak) VALUES (?, 0, 0) ON CONFLICT (id) DO NOTHING`),
		singletonID); err != nil {
		return fmt.Errorf("failed to initialize streak: %w", err)
	}
	if _, err := db.ExecContext(ctx,
		d.Rebind(`INSERT INTO user_profile (id, handle, bio, github) VALUES (?, '', '', '') ON CONFLICT (id) DO NOTHING`),
		singletonID); err != nil {
		return fmt.Errorf("failed to initialize profile: %w", err)
	}
	return nil
}
