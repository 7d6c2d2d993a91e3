package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal renders tiles as bordered text boxes for a terminal.
type Terminal struct {
	Width int

	box     lipgloss.Style
	title   lipgloss.Style
	heading lipgloss.Style
	muted   lipgloss.Style
	danger  lipgloss.Style
	value   lipgloss.Style
}

// NewTerminal returns a renderer that lays tiles out side by side, wrapping
// to new rows when width is exhausted. A width of zero puts one tile per row.
func NewTerminal(width int) *Terminal {
	return &Terminal{
		Width: width,
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6c7086")).
			Padding(0, 1).
			Width(32),
		title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#cdd6f4")).
			Bold(true),
		heading: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#89b4fa")),
		muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7f849c")),
		danger: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f38ba8")).
			Bold(true),
		value: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a6e3a1")),
	}
}

// Render returns all tiles laid out as a grid.
func (t *Terminal) Render(tiles []Tile) string {
	boxes := make([]string, 0, len(tiles))
	for _, tile := range tiles {
		boxes = append(boxes, t.Tile(tile))
	}
	if len(boxes) == 0 {
		return ""
	}

	var rows []string
	var row []string
	rowWidth := 0
	for _, box := range boxes {
		w := lipgloss.Width(box)
		if len(row) > 0 && (t.Width <= 0 || rowWidth+w > t.Width) {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, rowWidth = nil, 0
		}
		row = append(row, box)
		rowWidth += w
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Tile returns one tile as a bordered box.
func (t *Terminal) Tile(tile Tile) string {
	lines := []string{t.title.Render(strings.TrimSpace(tile.Icon + " " + tile.Title))}
	if tile.Heading != "" {
		lines = append(lines, t.heading.Render(tile.Heading))
	}

	switch tile.State {
	case TileLoading:
		for i := 0; i < tile.Placeholders; i++ {
			lines = append(lines, t.muted.Render("░░░░░░░░░░░░░░░░"))
		}
	case TileError:
		lines = append(lines, t.danger.Render(tile.Message), t.muted.Render("retrying on next poll"))
	case TileReady:
		lines = append(lines, t.body(tile)...)
	default:
		lines = append(lines, t.muted.Render("waiting for data"))
	}

	return t.box.Render(strings.Join(lines, "\n"))
}

func (t *Terminal) body(tile Tile) []string {
	var lines []string
	for _, p := range tile.Prices {
		lines = append(lines, fmt.Sprintf("%-5s %s", p.Symbol, t.value.Render(p.Value)))
	}
	for _, r := range tile.Rates {
		lines = append(lines, fmt.Sprintf("%-5s %s", r.Code, t.value.Render(r.Value)))
	}
	for _, r := range tile.Repos {
		lines = append(lines, fmt.Sprintf("%s ★ %s", r.Name, t.value.Render(r.Stars)))
		if r.Description != "" {
			lines = append(lines, t.muted.Render(r.Description))
		}
	}
	if tile.Kind == KindRepos && len(tile.Repos) == 0 {
		lines = append(lines, t.muted.Render("no repositories"))
	}
	return lines
}
