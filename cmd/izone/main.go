// Package main is the entry point for the izone CLI.
//
// iZone can be run either as a library (SDK) or as a standalone binary
// with optional YAML configuration. This CLI provides the standalone binary
// approach.
//
// Usage:
//
//	izone serve                    # Start the dashboard with the built-in widgets
//	izone serve -c config.yaml     # Start the dashboard from a config file
//	izone watch                    # Show the widgets in the terminal
//	izone endpoints                # List the data sources
//	izone validate -c config.yaml  # Validate configuration
//	izone version                  # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "izone",
	Short: "A live dashboard of public data widgets",
	Long: `iZone is a live dashboard of public data widgets.

Each widget polls a public JSON API on a fixed interval and shows the
result as a tile: crypto prices, USD exchange rates and trending GitHub
repositories. Tiles update in the browser over Server-Sent Events.

Quick start:
  1. Run: izone serve
  2. Open http://localhost:8080 in your browser

Example config:
  port: 8080
  poll_interval: 10s
  widgets:
    - kind: crypto
    - kind: exchange
    - kind: repos`,
	// No Run/RunE means this just shows help when called without subcommands
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this izone binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "izone %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}
