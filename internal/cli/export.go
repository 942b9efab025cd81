package cli

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/burphub/burphub/internal/domain"
	"github.com/burphub/burphub/internal/ingest"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored data to JSON or CSV",
	Long: `Export every stored day.

JSON output is a sync payload, so it can be fed back with "burphub import".

Examples:
  burphub export --output backup.json
  burphub export --format csv --since 2024-01-01`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

// Flags
var (
	exportFormat string
	exportOutput string
	exportSince  string
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Output format: json, csv")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "Only export days on or after this date (YYYY-MM-DD)")
}

var csvHeader = []string{
	"date", "intercepted_requests", "repeater_requests", "intruder_requests",
	"scanner_requests", "spider_requests", "decoder_operations", "comparer_operations",
	"sequencer_operations", "extender_events", "target_additions", "logger_requests",
	"session_minutes", "sessions_count",
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != "json" && exportFormat != "csv" {
		return fmt.Errorf("unsupported format: %s (use json or csv)", exportFormat)
	}
	if exportSince != "" {
		if _, err := domain.ParseDate(exportSince); err != nil {
			return err
		}
	}

	ctx := context.Background()
	return withApp(ctx, func(app *AppContext) error {
		days, err := app.Repos.DailyStats.List(ctx, exportSince)
		if err != nil {
			return fmt.Errorf("failed to list daily stats: %w", err)
		}

		var out io.Writer = cmd.OutOrStdout()
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer func() { _ = f.Close() }()
			out = f
		}

		if exportFormat == "csv" {
			err = writeCSV(out, days)
		} else {
			err = writeBatch(ctx, out, app, days)
		}
		if err != nil {
			return err
		}

		if exportOutput != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d day(s) to %s\n", len(days), exportOutput)
		}
		return nil
	})
}

func writeBatch(ctx context.Context, w io.Writer, app *AppContext, days []domain.DailyStat) error {
	streak, err := app.Repos.Streak.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to get streak: %w", err)
	}
	profile, err := app.Repos.Profile.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to get profile: %w", err)
	}

	data, err := ingest.EncodeBatch(&domain.SyncBatch{DailyStats: days, Streak: streak, Profile: profile})
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, days []domain.DailyStat) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, d := range days {
		row := []string{d.Date}
		for _, n := range []int64{
			d.InterceptedRequests, d.RepeaterRequests, d.IntruderRequests,
			d.ScannerRequests, d.SpiderRequests, d.DecoderOperations, d.ComparerOperations,
			d.SequencerOperations, d.ExtenderEvents, d.TargetAdditions, d.LoggerRequests,
			d.SessionMinutes, d.SessionsCount,
		} {
			row = append(row, strconv.FormatInt(n, 10))
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
