package izone

import (
	"errors"
	"time"
)

// Phase is the outcome of a widget's most recent state transition.
type Phase string

const (
	// PhaseIdle is the state before the first fetch starts.
	PhaseIdle Phase = "idle"

	// PhaseLoading means a fetch is in flight.
	PhaseLoading Phase = "loading"

	// PhaseSuccess means the latest completed fetch returned data.
	PhaseSuccess Phase = "success"

	// PhaseFailure means the latest completed fetch failed.
	PhaseFailure Phase = "failure"
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	return string(p)
}

// WidgetState is what a widget exposes to its consumers: its data, whether
// a fetch is loading and the last error. Use [Dashboard.Refetch] to trigger
// a fetch outside the polling cadence.
//
// Data is the decoded JSON document of the most recent successful fetch,
// with numbers as [encoding/json.Number]. It is kept while later fetches
// load or fail. Err is the most recent failure and is cleared by the next
// success.
type WidgetState struct {
	// Name is the widget's identifier.
	Name string

	// Kind is the payload shape of the widget.
	Kind Kind

	// Title is the heading shown on the widget's tile.
	Title string

	// Icon is the text or emoji shown above the title.
	Icon string

	// URL is the endpoint being polled.
	URL string

	// Phase is the outcome of the latest transition.
	Phase Phase

	// Data is the latest successful payload, or nil before the first one.
	Data any

	// Loading reports whether a fetch is in flight.
	Loading bool

	// Err is the latest failure, or nil.
	Err error

	// DataID identifies the payload in Data and changes with every
	// successful fetch. Empty before the first success.
	DataID string

	// UpdatedAt is when the state last changed.
	UpdatedAt time.Time
}

// ErrorMessage returns the text of Err, or "" when there is none.
func (s WidgetState) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

var (
	// ErrUnknownWidget is returned when a widget name is not configured.
	ErrUnknownWidget = errors.New("unknown widget")

	// ErrNotRunning is returned by [Dashboard.Refetch] when the dashboard
	// is not started.
	ErrNotRunning = errors.New("dashboard is not running")

	// ErrAlreadyRunning is returned when Start or Watch is called while the
	// dashboard is already running.
	ErrAlreadyRunning = errors.New("dashboard is already running")
)
