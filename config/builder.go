package config

import (
	"sort"

	"github.com/jpalmerr/izone"
)

// BuildWidgets converts parsed configuration into SDK Widget values, in file
// order. Fields left empty take the built-in widget of the same kind. A
// config without widgets yields [izone.DefaultWidgets].
func BuildWidgets(cfg *Config) ([]izone.Widget, error) {
	if len(cfg.Widgets) == 0 {
		return izone.DefaultWidgets(), nil
	}

	widgets := make([]izone.Widget, 0, len(cfg.Widgets))
	for _, wc := range cfg.Widgets {
		w, err := buildWidget(wc)
		if err != nil {
			return nil, err
		}
		widgets = append(widgets, w)
	}
	return widgets, nil
}

// Options converts the whole configuration into dashboard options.
func Options(cfg *Config) ([]izone.Option, error) {
	widgets, err := BuildWidgets(cfg)
	if err != nil {
		return nil, err
	}

	opts := []izone.Option{
		izone.WithWidgets(widgets...),
		izone.WithTitle(cfg.Title),
		izone.WithPort(cfg.Port),
		izone.WithPollingInterval(cfg.PollInterval.Duration()),
		izone.WithTickStagger(cfg.TickStagger.Duration()),
	}
	if cfg.RevealStagger != nil {
		opts = append(opts, izone.WithRevealStagger(cfg.RevealStagger.Duration()))
	}
	return opts, nil
}

// buildWidget converts a single WidgetConfig to an SDK Widget.
func buildWidget(wc WidgetConfig) (izone.Widget, error) {
	kind, err := izone.ParseKind(wc.Kind)
	if err != nil {
		return izone.Widget{}, err
	}

	// zero when the kind has no built-in widget
	def, _ := izone.DefaultWidget(kind)

	rawURL := wc.URL
	if rawURL == "" {
		rawURL = def.URL()
	}
	icon := wc.Icon
	if icon == "" {
		icon = def.Icon()
	}
	description := wc.Description
	if description == "" && wc.URL == "" {
		description = def.Description()
	}

	opts := []izone.WidgetOption{
		izone.WithIcon(icon),
		izone.WithDescription(description),
	}

	if wc.Name != "" {
		opts = append(opts, izone.WithName(wc.Name))
	}

	if wc.Method != "" {
		opts = append(opts, izone.WithMethod(wc.Method))
	}

	if wc.Timeout != 0 {
		opts = append(opts, izone.WithTimeout(wc.Timeout.Duration()))
	}

	if len(wc.Headers) > 0 {
		opts = append(opts, izone.WithHeaders(mapToKeyValuePairs(wc.Headers)...))
	}

	return izone.NewWidget(kind, wc.Title, rawURL, opts...)
}

// mapToKeyValuePairs converts a map to a sorted slice of key-value pairs.
func mapToKeyValuePairs(m map[string]string) []string {
	// sort keys for deterministic ordering
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(m)*2)
	for _, k := range keys {
		pairs = append(pairs, k, m[k])
	}
	return pairs
}
