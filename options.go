package izone

import (
	"errors"
	"log/slog"
	"time"
)

// dashConfig holds mutable state during Dashboard construction.
type dashConfig struct {
	title           string
	widgets         []Widget
	pollingInterval time.Duration
	port            int
	revealStagger   time.Duration
	tickStagger     time.Duration
	logger          *slog.Logger
	stateCallbacks  []func(WidgetState)
}

// Option is a function that configures a [Dashboard] during construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
type Option func(*dashConfig) error

// WithWidget adds a single [Widget] to the dashboard.
//
// Can be called multiple times; tiles appear in the order widgets are added.
// When no widget is added, [New] uses [DefaultWidgets].
//
// Example:
//
//	d, err := izone.New(
//	    izone.WithWidget(w1),
//	    izone.WithWidget(w2),
//	)
func WithWidget(w Widget) Option {
	return func(cfg *dashConfig) error {
		cfg.widgets = append(cfg.widgets, w)
		return nil
	}
}

// WithWidgets adds multiple [Widget] values to the dashboard.
//
// Equivalent to calling [WithWidget] for each one.
func WithWidgets(widgets ...Widget) Option {
	return func(cfg *dashConfig) error {
		cfg.widgets = append(cfg.widgets, widgets...)
		return nil
	}
}

// WithPollingInterval sets how often every widget refetches its data.
//
// Each widget runs its own timer at this interval, started when the widget
// is activated. Failures retry at the same cadence. Defaults to 10 seconds.
//
// Returns an error if the duration is zero or negative.
func WithPollingInterval(d time.Duration) Option {
	return func(cfg *dashConfig) error {
		if d <= 0 {
			return errors.New("polling interval must be positive")
		}
		cfg.pollingInterval = d
		return nil
	}
}

// WithPort sets the HTTP port for the dashboard server.
//
// The dashboard UI and API will be available at http://localhost:<port>.
// Defaults to 8080 if not specified.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *dashConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithRevealStagger sets the delay between tiles fading in when the page
// loads: tile i appears after i times d. It does not affect fetch timing.
// Defaults to 200ms; zero reveals all tiles at once.
//
// Returns an error if the duration is negative.
func WithRevealStagger(d time.Duration) Option {
	return func(cfg *dashConfig) error {
		if d < 0 {
			return errors.New("reveal stagger cannot be negative")
		}
		cfg.revealStagger = d
		return nil
	}
}

// WithTickStagger offsets each widget's timer by its index times d, so
// widgets do not all refetch in the same instant. The first fetch of every
// widget still happens immediately. Defaults to zero.
//
// Returns an error if the duration is negative.
func WithTickStagger(d time.Duration) Option {
	return func(cfg *dashConfig) error {
		if d < 0 {
			return errors.New("tick stagger cannot be negative")
		}
		cfg.tickStagger = d
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the dashboard.
//
// If not specified, [slog.Default] is used.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
//	d, err := izone.New(izone.WithLogger(logger))
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *dashConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithStateCallback registers a function called on every widget state
// change: when a fetch starts, succeeds or fails.
//
// Multiple callbacks may be registered; they execute in registration order.
//
// Callbacks for one widget are invoked one at a time, in the order the
// changes happened; callbacks for different widgets may run concurrently.
// Callbacks must be non-blocking, since a slow callback delays the next
// state change of its widget. Panics are recovered and logged.
//
// A callback may call [Dashboard.Refetch] or [Dashboard.Reference]. Calling
// [Dashboard.Reconfigure] for the callback's own widget deadlocks.
//
// Example:
//
//	d, err := izone.New(
//	    izone.WithStateCallback(func(s izone.WidgetState) {
//	        if s.Phase == izone.PhaseFailure {
//	            log.Printf("%s failed: %v", s.Name, s.Err)
//	        }
//	    }),
//	)
//
// Nil callbacks are silently ignored.
func WithStateCallback(cb func(WidgetState)) Option {
	return func(cfg *dashConfig) error {
		if cb == nil {
			return nil
		}
		cfg.stateCallbacks = append(cfg.stateCallbacks, cb)
		return nil
	}
}

// WithTitle sets the dashboard title displayed in the browser tab and header.
//
// If not specified, defaults to "iZone".
func WithTitle(title string) Option {
	return func(cfg *dashConfig) error {
		cfg.title = title
		return nil
	}
}
