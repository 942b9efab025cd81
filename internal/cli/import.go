package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/burphub/burphub/internal/ingest"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Apply a sync payload file to the store",
	Long: `Apply a sync payload file directly to the store.

The file uses the POST /api/sync body format. Use "-" to read from stdin.
No API key or rate limit applies.

Examples:
  burphub import backup.json
  burphub export | ssh host burphub import -`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	body, err := readInput(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}

	batch, err := ingest.DecodeBatch(body)
	if err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	ctx := context.Background()
	return withApp(ctx, func(app *AppContext) error {
		svc := ingest.NewService(app.Repos.Sync, nil, "", nil, app.Logger)
		result, err := svc.Apply(ctx, batch)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d day(s) (batch %s)\n", result.Synced, result.BatchID)
		return nil
	})
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
