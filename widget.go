package izone

import (
	"errors"
	"net/url"
	"time"
)

// Widget describes one dashboard tile and the JSON endpoint behind it.
//
// Widget is immutable after creation via [NewWidget]. All fields are private
// with getter methods that return copies of mutable data (maps), so a widget
// cannot be modified after construction.
//
// Widgets are configured using the functional options pattern with
// [WidgetOption] functions such as [WithName], [WithIcon], [WithDescription],
// [WithHeaders], [WithTimeout] and [WithMethod].
type Widget struct {
	name        string
	kind        Kind
	title       string
	icon        string
	url         string
	description string
	headers     map[string]string
	timeout     time.Duration
	method      string
}

// Name returns the widget's identifier, unique within a dashboard.
// It is used in API paths, logs and state callbacks.
func (w Widget) Name() string {
	return w.name
}

// Kind returns the payload shape the widget renders.
func (w Widget) Kind() Kind {
	return w.kind
}

// Title returns the heading shown on the widget's tile.
func (w Widget) Title() string {
	return w.title
}

// Icon returns the short text or emoji shown above the title.
func (w Widget) Icon() string {
	return w.icon
}

// URL returns the endpoint polled for the widget's data.
func (w Widget) URL() string {
	return w.url
}

// Description returns the reference-panel text for the widget's endpoint.
func (w Widget) Description() string {
	return w.description
}

// Headers returns a copy of the custom HTTP headers sent with every fetch.
// Returns nil if no custom headers are set.
func (w Widget) Headers() map[string]string {
	return copyMap(w.headers)
}

// Timeout returns the per-request timeout. Zero means the dashboard's
// polling interval is used.
func (w Widget) Timeout() time.Duration {
	return w.timeout
}

// Method returns the HTTP method, GET unless set via [WithMethod].
func (w Widget) Method() string {
	if w.method == "" {
		return "GET"
	}
	return w.method
}

// NewWidget creates a [Widget] of the given kind that polls rawURL.
//
// An empty title falls back to a default for the kind ("Crypto Prices",
// "Exchange Rates", "Trending GitHub Repos"). The name defaults to the kind
// and can be changed with [WithName] when a dashboard shows several widgets
// of one kind. The rawURL must be absolute with an http or https scheme.
//
// Example:
//
//	w, err := izone.NewWidget(izone.KindExchange, "Euro Rates",
//	    "https://api.frankfurter.app/latest?from=EUR",
//	    izone.WithName("eur"),
//	    izone.WithIcon("💶"),
//	)
func NewWidget(kind Kind, title, rawURL string, opts ...WidgetOption) (Widget, error) {
	if !kind.Valid() {
		return Widget{}, errors.New("unknown widget kind: " + string(kind))
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return Widget{}, errors.New("invalid URL: " + err.Error())
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return Widget{}, errors.New("URL must have a scheme (http:// or https://)")
	}
	if parsedURL.Host == "" {
		return Widget{}, errors.New("URL must have a host")
	}

	if title == "" {
		title = kind.defaultTitle()
	}

	cfg := &widgetConfig{
		name:    string(kind),
		headers: make(map[string]string),
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return Widget{}, err
		}
	}

	return Widget{
		name:        cfg.name,
		kind:        kind,
		title:       title,
		icon:        cfg.icon,
		url:         rawURL,
		description: cfg.description,
		headers:     cfg.headers,
		timeout:     cfg.timeout,
		method:      cfg.method,
	}, nil
}

// copyMap returns a shallow copy of the map.
func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
