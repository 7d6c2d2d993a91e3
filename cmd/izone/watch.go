package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/izone"
)

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\033[H\033[2J"

// watchCmd shows the widgets in the terminal.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show the widgets in the terminal",
	Long: `Poll every widget and redraw its tile in the terminal on each change.

No HTTP server is started. Failures are shown on the tile and retried on
the next poll. Press Ctrl+C to exit.

Example:
  izone watch
  izone watch -c config.yaml --width 120`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringP("config", "c", "", "path to config file")
	watchCmd.Flags().IntP("width", "w", 100, "terminal width in columns (0 stacks tiles)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	// only errors reach stderr so the redraws stay readable
	logger := newLogger(slog.LevelError)

	width, _ := cmd.Flags().GetInt("width")

	d, err := newDashboard(cmd, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	errChan := make(chan error, 1)
	go func() {
		errChan <- d.Watch(ctx, func(states []izone.WidgetState) {
			fmt.Fprint(out, clearScreen+izone.RenderTerminal(states, width)+"\n")
		})
	}()

	return waitForShutdown(ctx, errChan, logger)
}
