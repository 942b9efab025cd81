package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration after merging defaults, the config file and
environment variables. Secrets are masked.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "port:              %d\n", cfg.Port)
	fmt.Fprintf(out, "database_url:      %s\n", cfg.DatabaseURL)
	fmt.Fprintf(out, "database_token:    %s\n", mask(cfg.DatabaseAuthToken))
	fmt.Fprintf(out, "sync_api_key:      %s\n", mask(cfg.SyncAPIKey))
	fmt.Fprintf(out, "rate_limit:        %d per %s\n", cfg.RateLimit, cfg.RateWindow)
	fmt.Fprintf(out, "trust_proxy:       %t\n", cfg.TrustProxy)
	fmt.Fprintf(out, "log_level:         %s\n", cfg.Level())
	fmt.Fprintf(out, "shutdown_timeout:  %s\n", cfg.ShutdownTimeout)
	fmt.Fprintf(out, "otel:              enabled=%t endpoint=%s insecure=%t\n",
		cfg.OTel.Enabled, cfg.OTel.Endpoint, cfg.OTel.Insecure)
	return nil
}

func mask(secret string) string {
	if secret == "" {
		return "(unset)"
	}
	return "********"
}
