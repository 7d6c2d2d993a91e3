// Package render turns widget states into tiles and draws them.
//
// [Build] maps a store.WidgetState to a [Tile], the format-independent view
// of one widget: a loading placeholder, an error with its message, or the
// kind-specific rows (prices, exchange rates, sampled repositories). [HTML]
// draws tiles and the full page from the embedded dashboard templates, and
// [Terminal] draws them as lipgloss boxes for the watch command.
package render
