package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// setupCLI points the commands at a fresh database and resets flag state.
func setupCLI(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("DATABASE_URL", filepath.Join(dir, "cli.db"))
	t.Setenv("SYNC_API_KEY", "super-secret")
	t.Setenv("LOG_LEVEL", "error")

	configPath = ""
	exportFormat, exportOutput, exportSince = "json", "", ""
	return dir
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

const samplePayload = `{
	"daily_stats": {
		"2024-01-01": {"intercepted_requests": 5, "repeater_requests": 2, "session_minutes": 90},
		"2024-01-02": {"scanner_requests": 3, "session_minutes": 45}
	},
	"streak": {"current_streak": 2, "longest_streak": 9, "last_active_date": "2024-01-02"},
	"profile": {"handle": "h4x", "bio": "bug hunter"}
}`

func TestImportThenExport(t *testing.T) {
	dir := setupCLI(t)
	payload := filepath.Join(dir, "payload.json")
	if err := os.WriteFile(payload, []byte(samplePayload), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	out, err := runCLI(t, "", "import", payload)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(out, "Imported 2 day(s)") {
		t.Errorf("unexpected import output: %q", out)
	}

	out, err = runCLI(t, "", "export")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	for _, want := range []string{`"2024-01-01"`, `"intercepted_requests": 5`, `"longest_streak": 9`, `"handle": "h4x"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in export:\n%s", want, out)
		}
	}

	// The export is itself a valid import.
	setupCLI(t)
	if _, err := runCLI(t, out, "import", "-"); err != nil {
		t.Fatalf("re-import failed: %v", err)
	}
}

func TestExport_CSVSince(t *testing.T) {
	setupCLI(t)
	if _, err := runCLI(t, samplePayload, "import", "-"); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	out, err := runCLI(t, "", "export", "--format", "csv", "--since", "2024-01-02")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %q", out)
	}
	if !strings.HasPrefix(lines[0], "date,intercepted_requests") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[1] != "2024-01-02,0,0,0,3,0,0,0,0,0,0,0,45,0" {
		t.Errorf("unexpected row %q", lines[1])
	}
}

func TestExport_RejectsBadFlags(t *testing.T) {
	setupCLI(t)
	if _, err := runCLI(t, "", "export", "--format", "xml"); err == nil {
		t.Error("expected error for unsupported format")
	}
	setupCLI(t)
	if _, err := runCLI(t, "", "export", "--since", "yesterday"); err == nil {
		t.Error("expected error for bad since date")
	}
}

func TestImport_InvalidPayload(t *testing.T) {
	setupCLI(t)
	_, err := runCLI(t, `{"daily_stats":{"2024-13-01":{}}}`, "import", "-")
	if err == nil || !strings.Contains(err.Error(), "invalid payload") {
		t.Errorf("expected invalid payload error, got %v", err)
	}
}

func TestStatsCommand(t *testing.T) {
	setupCLI(t)
	if _, err := runCLI(t, samplePayload, "import", "-"); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	out, err := runCLI(t, "", "stats")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	for _, want := range []string{"h4x", "bug hunter", "2h 15m", "Last 30 days", "Repeater"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestMigrateCommand(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "", "migrate")
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if !strings.Contains(out, "Applied 1 migration(s)") {
		t.Errorf("unexpected output: %q", out)
	}

	out, err = runCLI(t, "", "migrate")
	if err != nil || !strings.Contains(out, "No pending migrations") {
		t.Errorf("expected no pending migrations, got %q (err %v)", out, err)
	}

	out, err = runCLI(t, "", "migrate", "0")
	if err != nil || !strings.Contains(out, "Migrated to version 0") {
		t.Errorf("expected rollback, got %q (err %v)", out, err)
	}

	if _, err := runCLI(t, "", "migrate", "99"); err == nil {
		t.Error("expected error for unknown version")
	}
	if _, err := runCLI(t, "", "migrate", "abc"); err == nil {
		t.Error("expected error for non-numeric version")
	}
}

func TestConfigCommand_MasksSecrets(t *testing.T) {
	setupCLI(t)
	out, err := runCLI(t, "", "config")
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	if strings.Contains(out, "super-secret") {
		t.Error("API key leaked in output")
	}
	if !strings.Contains(out, "sync_api_key:      ********") || !strings.Contains(out, "database_token:    (unset)") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"serve", "migrate", "stats", "import", "export", "config"}
	have := map[string]*cobra.Command{}
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = c
	}
	for _, name := range want {
		if have[name] == nil {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestAppContextClose_NilDB(t *testing.T) {
	a := &AppContext{}
	if err := a.Close(); err != nil {
		t.Errorf("Close() on nil DB should not error, got: %v", err)
	}
}
