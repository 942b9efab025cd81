package migrate

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/burphub/burphub/internal/adapters/sqlstore"
	_ "modernc.org/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n); err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	return n == 1
}

func TestLoadMigrations_Embedded(t *testing.T) {
	all, err := LoadMigrations(sqlstore.SQLite)
	if err != nil {
		t.Fatalf("LoadMigrations failed: %v", err)
	}
	if len(all) == 0 {
		t.Fatal("expected at least one migration")
	}
	if all[0].Version != 1 {
		t.Errorf("expected first version 1, got %d", all[0].Version)
	}
	for _, m := range all {
		if m.DownSQL == "" {
			t.Errorf("migration %d has no down SQL", m.Version)
		}
	}
}

func TestLoadMigrations_DialectsMatch(t *testing.T) {
	lite, err := LoadMigrations(sqlstore.SQLite)
	if err != nil {
		t.Fatalf("LoadMigrations(sqlite) failed: %v", err)
	}
	pg, err := LoadMigrations(sqlstore.Postgres)
	if err != nil {
		t.Fatalf("LoadMigrations(postgres) failed: %v", err)
	}
	if len(lite) != len(pg) {
		t.Fatalf("expected same number of migrations, got sqlite=%d postgres=%d", len(lite), len(pg))
	}
	for i := range lite {
		if lite[i].Version != pg[i].Version || lite[i].Name != pg[i].Name {
			t.Errorf("migration %d differs: sqlite %03d_%s, postgres %03d_%s",
				i, lite[i].Version, lite[i].Name, pg[i].Version, pg[i].Name)
		}
		if pg[i].DownSQL == "" {
			t.Errorf("postgres migration %d has no down SQL", pg[i].Version)
		}
		if strings.Contains(pg[i].UpSQL, "OR IGNORE") {
			t.Errorf("postgres migration %d uses SQLite-only syntax", pg[i].Version)
		}
	}
}

func TestLoadFrom_SortsAndPairs(t *testing.T) {
	fsys := fstest.MapFS{
		"002_second.up.sql":  {Data: []byte("CREATE TABLE b (id INTEGER)")},
		"001_first.up.sql":   {Data: []byte("CREATE TABLE a (id INTEGER)")},
		"001_first.down.sql": {Data: []byte("DROP TABLE a")},
		"README.md":          {Data: []byte("ignored")},
	}
	all, err := loadFrom(fsys)
	if err != nil {
		t.Fatalf("loadFrom failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(all))
	}
	if all[0].Name != "first" || all[1].Name != "second" {
		t.Errorf("unexpected order: %s, %s", all[0].Name, all[1].Name)
	}
	if all[0].DownSQL != "DROP TABLE a" {
		t.Errorf("expected paired down SQL, got %q", all[0].DownSQL)
	}
	if all[1].DownSQL != "" {
		t.Errorf("expected empty down SQL, got %q", all[1].DownSQL)
	}
}

func TestRunAll_CreatesSchemaAndSingletons(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	if err := RunAll(ctx, db); err != nil {
		t.Fatalf("RunAll failed: %v", err)
	}
	for _, table := range []string{"daily_stats", "streak_info", "user_profile"} {
		if !tableExists(t, db, table) {
			t.Errorf("expected table %s to exist", table)
		}
	}

	var streaks, profiles int
	_ = db.QueryRow(`SELECT COUNT(*) FROM streak_info`).Scan(&streaks)
	_ = db.QueryRow(`SELECT COUNT(*) FROM user_profile`).Scan(&profiles)
	if streaks != 1 || profiles != 1 {
		t.Errorf("expected one seeded row each, got streak=%d profile=%d", streaks, profiles)
	}

	// Idempotent
	if err := RunAll(ctx, db); err != nil {
		t.Fatalf("second RunAll failed: %v", err)
	}
	version, dirty, err := GetCurrentVersion(ctx, db)
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version < 1 || dirty {
		t.Errorf("expected clean version >= 1, got %d dirty=%v", version, dirty)
	}
}

func TestRunAll_SingletonCheckConstraint(t *testing.T) {
	db := openDB(t)
	if err := RunAll(context.Background(), db); err != nil {
		t.Fatalf("RunAll failed: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO streak_info (id) VALUES (2)`); err == nil {
		t.Error("expected a second streak row to be rejected")
	}
}

func TestMigrateDownTo_Zero(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	if err := RunAll(ctx, db); err != nil {
		t.Fatalf("RunAll failed: %v", err)
	}
	all, _ := LoadMigrations(sqlstore.SQLite)
	current, _, _ := GetCurrentVersion(ctx, db)

	var out bytes.Buffer
	if err := MigrateDownTo(ctx, db, all, current, 0, &out); err != nil {
		t.Fatalf("MigrateDownTo failed: %v", err)
	}
	if tableExists(t, db, "daily_stats") {
		t.Error("expected daily_stats to be dropped")
	}
	if !strings.Contains(out.String(), "down 001_initial_schema") {
		t.Errorf("expected progress output, got %q", out.String())
	}

	version, _, _ := GetCurrentVersion(ctx, db)
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}

	out.Reset()
	if err := MigrateUpTo(ctx, db, all, 0, current, &out); err != nil {
		t.Fatalf("MigrateUpTo failed: %v", err)
	}
	if !tableExists(t, db, "daily_stats") {
		t.Error("expected daily_stats to be recreated")
	}
}

func TestUp_RefusesDirtyDatabase(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	if err := EnsureMigrationsTable(ctx, db); err != nil {
		t.Fatalf("EnsureMigrationsTable failed: %v", err)
	}
	if err := SetVersion(ctx, db, 1, true); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	if _, err := Up(ctx, db, &bytes.Buffer{}); err == nil {
		t.Error("expected dirty database to be refused")
	}
}
