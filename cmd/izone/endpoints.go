package main

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jpalmerr/izone"
	"github.com/jpalmerr/izone/config"
)

// endpointsCmd lists the data source of every widget.
var endpointsCmd = &cobra.Command{
	Use:   "endpoints",
	Short: "List the data sources used by the widgets",
	Long: `Print the API reference for the configured widgets: the HTTP method,
endpoint and a description of every data source.

Example:
  izone endpoints
  izone endpoints -c config.yaml --json`,
	RunE: runEndpoints,
}

func init() {
	rootCmd.AddCommand(endpointsCmd)

	endpointsCmd.Flags().StringP("config", "c", "", "path to config file")
	endpointsCmd.Flags().Bool("json", false, "print the reference as JSON")
}

func runEndpoints(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	widgets, err := config.BuildWidgets(cfg)
	if err != nil {
		return fmt.Errorf("failed to build widgets: %w", err)
	}

	entries := izone.Reference(widgets)
	out := cmd.OutOrStdout()

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	fmt.Fprintln(out, referenceTable(entries))
	return nil
}

// referenceTable renders entries as a bordered table.
func referenceTable(entries []izone.ReferenceEntry) string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("WIDGET", "METHOD", "ENDPOINT", "DESCRIPTION").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	for _, e := range entries {
		t.Row(e.Widget, e.Method, e.Endpoint, e.Description)
	}
	return t.Render()
}
