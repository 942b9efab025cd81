package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/burphub/burphub/internal/domain"
	"github.com/burphub/burphub/internal/pkg/tui/components"
	"github.com/burphub/burphub/internal/pkg/tui/theme"
	"github.com/burphub/burphub/internal/stats"
	"github.com/burphub/burphub/internal/util"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the dashboard in the terminal",
	Long: `Show the same aggregates as GET /api/stats.

Examples:
  burphub stats`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	return withApp(ctx, func(app *AppContext) error {
		svc := stats.NewService(app.Repos.DailyStats, app.Repos.Streak, app.Repos.Profile, time.Now)
		d, err := svc.Dashboard(ctx)
		if err != nil {
			return fmt.Errorf("failed to build stats: %w", err)
		}
		renderStats(cmd.OutOrStdout(), d)
		return nil
	})
}

const barWidth = 24

func renderStats(w io.Writer, d *domain.Dashboard) {
	styles := theme.Default()

	title := "BurpHub"
	if d.Profile.Handle != "" {
		title = d.Profile.Handle
	}

	card := func(label, value string) string {
		content := lipgloss.JoinVertical(lipgloss.Left,
			styles.Muted.Render(label),
			styles.Value.Render(value),
		)
		return styles.Card.Render(content)
	}

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Today", util.FormatNumber(d.Today.Requests)),
		card("Streak", fmt.Sprintf("%d / %d", d.Streak.Current, d.Streak.Longest)),
		card("Requests", util.FormatNumber(d.Totals.Requests)),
		card("Time", util.FormatHoursMinutes(d.Totals.TimeHours, d.Totals.TimeMinutes)),
		card("Active days", fmt.Sprintf("%d", d.Totals.ActiveDays)),
	)

	rows := d.Tools.Rows()
	var peak int64
	for _, r := range rows {
		peak = max(peak, r.Count)
	}

	var tools strings.Builder
	for _, r := range rows {
		bar := components.Bar{Value: r.Count, Max: peak, Width: barWidth}
		fmt.Fprintf(&tools, "%s %s %s\n",
			styles.Body.Render(fmt.Sprintf("%-10s", r.Name)),
			bar.View(),
			styles.Muted.Render(util.FormatNumber(r.Count)),
		)
	}

	fmt.Fprintln(w, styles.Title.Render(title))
	if d.Profile.Bio != "" {
		fmt.Fprintln(w, styles.Muted.Render(d.Profile.Bio))
	}
	fmt.Fprintln(w, cards)
	fmt.Fprintln(w)
	fmt.Fprintln(w, styles.Subtitle.Render(fmt.Sprintf("Last %d days", domain.ToolWindowDays)))
	fmt.Fprint(w, tools.String())
}
