package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jpalmerr/izone"
)

// executeCmd runs the root command with args and returns captured stdout
// and any error.
func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()

	return buf.String(), err
}

// writeConfig writes content to a temporary config file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return configPath
}

func TestRunValidate_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, `
port: 8080
poll_interval: 15s
widgets:
  - kind: crypto
  - kind: github
    name: trending
    url: https://api.example.com/search
`)

	output, err := executeCmd(t, "validate", "-c", configPath)
	if err != nil {
		t.Fatalf("validate command error = %v", err)
	}

	expectedPhrases := []string{
		"Config is valid!",
		"Port:          8080",
		"Poll interval: 15s",
		"Widgets:       2 (config)",
		"- crypto [crypto] " + izone.CryptoURL,
		"- trending [repos] https://api.example.com/search",
	}

	for _, phrase := range expectedPhrases {
		if !strings.Contains(output, phrase) {
			t.Errorf("output missing %q\nGot: %s", phrase, output)
		}
	}
}

func TestRunValidate_NoWidgetsUsesBuiltIn(t *testing.T) {
	configPath := writeConfig(t, "title: Markets\n")

	output, err := executeCmd(t, "validate", "-c", configPath)
	if err != nil {
		t.Fatalf("validate command error = %v", err)
	}
	if !strings.Contains(output, "Widgets:       3 (built-in)") {
		t.Errorf("output missing built-in widget count\nGot: %s", output)
	}
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	configPath := writeConfig(t, `
widgets:
  - url: https://example.com
`)

	_, err := executeCmd(t, "validate", "-c", configPath)
	if err == nil {
		t.Fatal("validate command expected error for invalid config, got nil")
	}

	if !strings.Contains(err.Error(), "kind is required") {
		t.Errorf("error should mention 'kind is required', got: %v", err)
	}
}

func TestRunValidate_MissingFile(t *testing.T) {
	_, err := executeCmd(t, "validate", "-c", "/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("validate command expected error for missing file, got nil")
	}

	if !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("error should mention 'failed to read', got: %v", err)
	}
}

func TestRunEndpoints_Table(t *testing.T) {
	output, err := executeCmd(t, "endpoints", "-c", "", "--json=false")
	if err != nil {
		t.Fatalf("endpoints command error = %v", err)
	}

	for _, want := range []string{"WIDGET", "METHOD", "Crypto Prices", "Exchange Rates", "Trending GitHub Repos", "GET"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q\nGot: %s", want, output)
		}
	}
}

func TestRunEndpoints_JSON(t *testing.T) {
	configPath := writeConfig(t, `
widgets:
  - kind: exchange
    title: FX
    url: https://rates.example.com/latest
    description: internal rates
`)

	output, err := executeCmd(t, "endpoints", "-c", configPath, "--json")
	if err != nil {
		t.Fatalf("endpoints command error = %v", err)
	}

	var entries []izone.ReferenceEntry
	if err := json.Unmarshal([]byte(output), &entries); err != nil {
		t.Fatalf("output is not JSON: %v\nGot: %s", err, output)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	want := izone.ReferenceEntry{
		Widget:      "FX",
		Method:      "GET",
		Endpoint:    "https://rates.example.com/latest",
		Description: "internal rates",
		Example:     "https://rates.example.com/latest",
	}
	if entries[0] != want {
		t.Errorf("entries[0] = %+v, want %+v", entries[0], want)
	}
}

func TestVersion(t *testing.T) {
	output, err := executeCmd(t, "version")
	if err != nil {
		t.Fatalf("version command error = %v", err)
	}
	if !strings.HasPrefix(output, "izone dev") {
		t.Errorf("output = %q, want prefix %q", output, "izone dev")
	}
}
