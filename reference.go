package izone

// ReferenceEntry documents the endpoint behind one widget.
type ReferenceEntry struct {
	Widget      string `json:"widget"`
	Method      string `json:"method"`
	Endpoint    string `json:"endpoint"`
	Description string `json:"description"`
	Example     string `json:"example"`
}

// Reference returns one entry per widget, in widget order. It depends only
// on the widgets' configuration, never on poll state.
func Reference(widgets []Widget) []ReferenceEntry {
	entries := make([]ReferenceEntry, len(widgets))
	for i, w := range widgets {
		entries[i] = ReferenceEntry{
			Widget:      w.Title(),
			Method:      w.Method(),
			Endpoint:    w.URL(),
			Description: w.Description(),
			Example:     w.URL(),
		}
	}
	return entries
}
