package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/izone"
	"github.com/jpalmerr/izone/config"
)

const (
	shutdownTimeout = 10 * time.Second
)

// newLogger creates a JSON logger for CLI use.
func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// loadConfig reads the file named by --config, or the built-in defaults
// when the flag is empty.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	if configFile == "" {
		return config.Parse(nil)
	}
	return config.Load(configFile)
}

// newDashboard builds a Dashboard from --config plus any extra options.
func newDashboard(cmd *cobra.Command, logger *slog.Logger, extra ...izone.Option) (*izone.Dashboard, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	opts, err := config.Options(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build widgets: %w", err)
	}
	opts = append(opts, izone.WithLogger(logger))
	opts = append(opts, extra...)

	d, err := izone.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard: %w", err)
	}

	logger.Info("config loaded", "widgets", len(d.Widgets()))
	return d, nil
}

// serveCmd starts the iZone dashboard server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server",
	Long: `Start the iZone dashboard server.

The server will:
  - Load configuration from the YAML file, if given
  - Start polling every widget's data source
  - Serve the dashboard UI on the configured port

Without a config file the three built-in widgets are served on port 8080.
The server runs until interrupted (Ctrl+C) or receives SIGTERM.

Example:
  izone serve
  izone serve -c config.yaml --port 9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("config", "c", "", "path to config file")
	serveCmd.Flags().IntP("port", "p", 0, "override the configured port")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger(slog.LevelInfo)

	var extra []izone.Option
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		extra = append(extra, izone.WithPort(port))
	}

	d, err := newDashboard(cmd, logger, extra...)
	if err != nil {
		return err
	}

	// set up context with signal handling - cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// start server - blocks until context cancelled
	errChan := make(chan error, 1)
	go func() {
		errChan <- d.Start(ctx)
	}()

	return waitForShutdown(ctx, errChan, logger)
}

// waitForShutdown waits for run to return, allowing shutdownTimeout after a
// signal before giving up.
func waitForShutdown(ctx context.Context, errChan <-chan error, logger *slog.Logger) error {
	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("shutdown complete")
		return nil

	case <-ctx.Done():
		// signal received, wait for graceful shutdown with timeout
		select {
		case err := <-errChan:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			logger.Info("shutdown complete")
			return nil
		case <-time.After(shutdownTimeout):
			logger.Warn("shutdown timed out",
				"timeout", shutdownTimeout.String(),
				"action", "forcing exit",
			)
			return nil
		}
	}
}
