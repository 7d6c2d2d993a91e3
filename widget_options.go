package izone

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

// widgetConfig holds mutable state during widget construction.
type widgetConfig struct {
	name        string
	icon        string
	description string
	headers     map[string]string
	timeout     time.Duration
	method      string
}

// WidgetOption is a function that configures a [Widget] during construction.
//
// Options return an error if validation fails.
//
// Built-in options: [WithName], [WithIcon], [WithDescription], [WithHeaders],
// [WithTimeout], [WithMethod].
type WidgetOption func(*widgetConfig) error

// WithName sets the widget's identifier. Names may contain letters, digits,
// '-', '_' and '.', since they appear in URL paths.
//
// Returns an error for an empty name or one with other characters.
func WithName(name string) WidgetOption {
	return func(cfg *widgetConfig) error {
		if name == "" {
			return errors.New("widget name cannot be empty")
		}
		if strings.IndexFunc(name, func(r rune) bool {
			return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' || r == '.')
		}) >= 0 {
			return errors.New("widget name may only contain letters, digits, '-', '_' and '.': " + name)
		}
		cfg.name = name
		return nil
	}
}

// WithIcon sets the text or emoji shown above the widget's title.
func WithIcon(icon string) WidgetOption {
	return func(cfg *widgetConfig) error {
		cfg.icon = icon
		return nil
	}
}

// WithDescription sets the text shown for the widget's endpoint in the API
// reference panel.
func WithDescription(description string) WidgetOption {
	return func(cfg *widgetConfig) error {
		cfg.description = description
		return nil
	}
}

// WithHeaders adds custom HTTP headers to every fetch for this widget.
//
// Accepts variadic key-value pairs. The number of arguments must be even.
//
// Example:
//
//	w, err := izone.NewWidget(izone.KindRepos, "", url,
//	    izone.WithHeaders("Authorization", "Bearer "+token),
//	)
//
// Returns an error if an odd number of arguments is provided.
func WithHeaders(keyValues ...string) WidgetOption {
	return func(cfg *widgetConfig) error {
		if len(keyValues)%2 != 0 {
			return errors.New("WithHeaders requires an even number of arguments (key-value pairs)")
		}
		for i := 0; i < len(keyValues); i += 2 {
			cfg.headers[keyValues[i]] = keyValues[i+1]
		}
		return nil
	}
}

// WithTimeout bounds each fetch for this widget. A fetch that exceeds it
// fails with a network error and the widget shows its error state.
// Defaults to the dashboard's polling interval.
//
// Returns an error if the duration is zero or negative.
func WithTimeout(d time.Duration) WidgetOption {
	return func(cfg *widgetConfig) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		cfg.timeout = d
		return nil
	}
}

// WithMethod sets the HTTP method used to fetch the widget's data.
//
// Returns an error if the method is not GET or POST.
func WithMethod(method string) WidgetOption {
	return func(cfg *widgetConfig) error {
		switch method {
		case http.MethodGet, http.MethodPost:
			cfg.method = method
			return nil
		default:
			return errors.New("method must be GET or POST")
		}
	}
}
