// Package config provides YAML configuration parsing for iZone.
//
// This package enables running iZone as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	title: Markets
//	port: 8080
//	poll_interval: 10s
//
//	widgets:
//	  - kind: crypto
//	  - kind: exchange
//	    url: ${RATES_URL:-https://api.frankfurter.app/latest?from=USD}
//	  - kind: repos
//	    name: trending
//	    headers:
//	      Authorization: Bearer ${GITHUB_TOKEN}
//
// A widget without a url uses the built-in endpoint of its kind. A file
// without widgets runs the three built-in widgets.
package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jpalmerr/izone"
)

// minPollInterval is the minimum allowed polling interval.
// This prevents accidental rate limiting by the public APIs.
const minPollInterval = 1 * time.Second

// Config is the root configuration structure for iZone.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Title is the dashboard title. Defaults to "iZone" if not set.
	Title string `yaml:"title"`

	// Port is the HTTP server port. Defaults to 8080.
	Port int `yaml:"port"`

	// PollInterval is the time between fetches of each widget.
	// Accepts duration strings like "10s", "1m", "500ms".
	// Defaults to 10s.
	PollInterval Duration `yaml:"poll_interval"`

	// RevealStagger is the delay between tiles fading in on page load.
	// Unset keeps the SDK default of 200ms.
	RevealStagger *Duration `yaml:"reveal_stagger"`

	// TickStagger offsets each widget's timer by its index times this value.
	TickStagger Duration `yaml:"tick_stagger"`

	// Widgets defines the tiles, in display order.
	Widgets []WidgetConfig `yaml:"widgets"`
}

// WidgetConfig defines a single widget.
type WidgetConfig struct {
	// Kind is the payload shape: crypto, exchange or repos (alias github).
	Kind string `yaml:"kind"`

	// Name identifies the widget in the API. Defaults to the kind.
	Name string `yaml:"name"`

	// Title is the tile heading. Defaults per kind.
	Title string `yaml:"title"`

	// URL is the endpoint to poll. Defaults to the built-in endpoint of
	// the kind. Supports environment variable substitution: ${VAR} or
	// ${VAR:-default}
	URL string `yaml:"url"`

	// Icon is the text or emoji shown above the title.
	Icon string `yaml:"icon"`

	// Description is shown in the API reference.
	Description string `yaml:"description"`

	// Method is the HTTP method (GET, POST). Defaults to GET.
	Method string `yaml:"method"`

	// Timeout is the request timeout. Defaults to the poll interval.
	Timeout Duration `yaml:"timeout"`

	// Headers are custom HTTP headers sent with each request.
	// Values support environment variable substitution.
	Headers map[string]string `yaml:"headers"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		varName := submatches[1]
		hasDefault := submatches[2] != ""

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return submatches[3]
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the file are expanded before parsing.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in URL and Header values.
// Defaults are applied for Port (8080) and PollInterval (10s).
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = Duration(10 * time.Second)
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.PollInterval.Duration() < minPollInterval {
		return fmt.Errorf("poll_interval must be at least %s, got %s", minPollInterval, c.PollInterval.Duration())
	}
	if c.RevealStagger != nil && c.RevealStagger.Duration() < 0 {
		return fmt.Errorf("reveal_stagger cannot be negative, got %s", c.RevealStagger.Duration())
	}
	if c.TickStagger.Duration() < 0 {
		return fmt.Errorf("tick_stagger cannot be negative, got %s", c.TickStagger.Duration())
	}

	names := make(map[string]int, len(c.Widgets))
	for i := range c.Widgets {
		w := &c.Widgets[i]

		if w.Kind == "" {
			return fmt.Errorf("widgets[%d]: kind is required", i)
		}
		kind, err := izone.ParseKind(w.Kind)
		if err != nil {
			return fmt.Errorf("widgets[%d]: %w", i, err)
		}
		w.Kind = kind.String()

		label := w.Name
		if label == "" {
			label = w.Kind
		}
		if prev, dup := names[label]; dup {
			return fmt.Errorf("widgets[%d] (%s): duplicate name, also used by widgets[%d]", i, label, prev)
		}
		names[label] = i

		if w.URL != "" {
			expanded, err := expandEnvVars(w.URL)
			if err != nil {
				return fmt.Errorf("widgets[%d] (%s): url: %w", i, label, err)
			}
			w.URL = expanded

			parsedURL, err := url.Parse(w.URL)
			if err != nil {
				return fmt.Errorf("widgets[%d] (%s): invalid url: %w", i, label, err)
			}
			if parsedURL.Scheme == "" {
				return fmt.Errorf("widgets[%d] (%s): url must have a scheme (http:// or https://)", i, label)
			}
			if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
				return fmt.Errorf("widgets[%d] (%s): url scheme must be http or https, got %q", i, label, parsedURL.Scheme)
			}
		}

		for k, v := range w.Headers {
			expanded, err := expandEnvVars(v)
			if err != nil {
				return fmt.Errorf("widgets[%d] (%s): headers[%s]: %w", i, label, k, err)
			}
			w.Headers[k] = expanded
		}

		if w.Method != "" && w.Method != "GET" && w.Method != "POST" {
			return fmt.Errorf("widgets[%d] (%s): method must be GET or POST", i, label)
		}

		if w.Timeout != 0 && w.Timeout.Duration() < time.Second {
			return fmt.Errorf("widgets[%d] (%s): timeout must be at least 1s if specified, got %s",
				i, label, w.Timeout.Duration())
		}
	}

	return nil
}
