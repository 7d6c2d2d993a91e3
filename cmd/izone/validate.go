package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/izone/config"
)

// validateCmd validates a config file without starting the server.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate an iZone configuration file without starting the server.

This command parses the YAML, expands environment variables, and builds
every widget. It's useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  izone validate -c config.yaml
  izone validate --config /etc/izone/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	widgets, err := config.BuildWidgets(cfg)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	source := "config"
	if len(cfg.Widgets) == 0 {
		source = "built-in"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Port:          %d\n", cfg.Port)
	fmt.Fprintf(out, "  Poll interval: %s\n", cfg.PollInterval.Duration())
	fmt.Fprintf(out, "  Widgets:       %d (%s)\n", len(widgets), source)
	for _, w := range widgets {
		fmt.Fprintf(out, "    - %s [%s] %s\n", w.Name(), w.Kind(), w.URL())
	}

	return nil
}
