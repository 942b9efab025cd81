package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/burphub/burphub/internal/infrastructure/config"
)

var rootCmd = &cobra.Command{
	Use:   "burphub",
	Short: "Personal analytics dashboard for Burp Suite",
	Long: `burphub collects daily Burp Suite usage statistics posted by the BurpHub
extension and serves them as a dashboard: streaks, totals, a year-long
activity heatmap and a per-tool breakdown.`,
	SilenceUsage: true,
}

var configPath string

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to a TOML config file (default: $XDG_CONFIG_HOME/burphub/config.toml if present)")
}

// loadConfig reads configuration for the current invocation.
func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}
