package izone

import (
	"github.com/jpalmerr/izone/internal/render"
	"github.com/jpalmerr/izone/internal/store"
)

// RenderTerminal draws states as a grid of boxed tiles for a terminal of the
// given width in columns, using the same tile rules as the browser dashboard.
// A width of zero or less stacks the tiles vertically.
//
// It pairs with [Dashboard.Watch]:
//
//	d.Watch(ctx, func(states []izone.WidgetState) {
//	    fmt.Print("\033[H\033[2J" + izone.RenderTerminal(states, 100))
//	})
func RenderTerminal(states []WidgetState, width int) string {
	converted := make([]store.WidgetState, len(states))
	for i, s := range states {
		converted[i] = store.WidgetState{
			Name:      s.Name,
			Index:     i,
			Kind:      string(s.Kind),
			Title:     s.Title,
			Icon:      s.Icon,
			URL:       s.URL,
			Phase:     string(s.Phase),
			Data:      s.Data,
			DataID:    s.DataID,
			Loading:   s.Loading,
			UpdatedAt: s.UpdatedAt,
		}
		if s.Err != nil {
			converted[i].Error = &store.ErrorInfo{Message: s.Err.Error()}
		}
	}
	return render.NewTerminal(width).Render(render.BuildAll(converted))
}
