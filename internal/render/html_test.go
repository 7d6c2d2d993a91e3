package render

import (
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/jpalmerr/izone/dashboard"
	"github.com/jpalmerr/izone/internal/store"
)

func newTestHTML(t *testing.T) *HTML {
	t.Helper()
	h, err := NewHTML(dashboard.Assets, 200*time.Millisecond)
	if err != nil {
		t.Fatalf("NewHTML() error = %v", err)
	}
	return h
}

func TestHTML_Page(t *testing.T) {
	h := newTestHTML(t)

	tiles := BuildAll([]store.WidgetState{
		{Name: "crypto", Index: 0, Kind: KindCrypto, Title: "Crypto Prices", Data: decode(t, `{"bitcoin":{"usd":50000},"ethereum":{"usd":3000}}`)},
		{Name: "exchange", Index: 1, Kind: KindExchange, Title: "Exchange Rates", Loading: true},
		{Name: "repos", Index: 2, Kind: KindRepos, Title: "Trending GitHub Repos", Error: &store.ErrorInfo{Message: "Error: 403 - rate limited"}},
	})

	var buf strings.Builder
	err := h.Page(&buf, Page{
		Title: "My <Dashboard>",
		Tiles: tiles,
		Reference: []ReferenceRow{{
			Widget:   "Crypto Prices",
			Method:   "GET",
			Endpoint: "https://api.example.com/price",
			Example:  "https://api.example.com/price",
		}},
	})
	if err != nil {
		t.Fatalf("Page() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"My &lt;Dashboard&gt;",
		`id="tile-crypto"`,
		"$50,000",
		"$3,000",
		"Major Exchange Rates",
		"Error: 403 - rate limited",
		`data-refetch="repos"`,
		"animation-delay: 0ms",
		"animation-delay: 200ms",
		"animation-delay: 400ms",
		"https://api.example.com/price",
		"/api/sse",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Page() missing %q", want)
		}
	}
	if strings.Contains(out, "<Dashboard>") {
		t.Error("Page() did not escape title")
	}
}

func TestHTML_PageWithoutReferenceOmitsPanel(t *testing.T) {
	h := newTestHTML(t)

	var buf strings.Builder
	if err := h.Page(&buf, Page{Title: "iZone"}); err != nil {
		t.Fatalf("Page() error = %v", err)
	}
	if strings.Contains(buf.String(), "<details") {
		t.Error("Page() rendered reference panel with no entries")
	}
}

func TestHTML_Tile(t *testing.T) {
	h := newTestHTML(t)

	tests := []struct {
		name  string
		state store.WidgetState
		want  []string
	}{
		{
			name:  "rates",
			state: store.WidgetState{Name: "exchange", Kind: KindExchange, Data: decode(t, `{"rates":{"EUR":0.9}}`)},
			want:  []string{"EUR", "0.9", "GBP", "-"},
		},
		{
			name:  "error",
			state: store.WidgetState{Name: "crypto", Kind: KindCrypto, Error: &store.ErrorInfo{Message: `Error: 500 - <b>"bad"</b>`}},
			want:  []string{"Something went wrong", "&lt;b&gt;", `data-refetch="crypto"`, "Retry"},
		},
		{
			name:  "loading",
			state: store.WidgetState{Name: "exchange", Kind: KindExchange, Loading: true},
			want:  []string{"pulse", "Major Exchange Rates"},
		},
		{
			name:  "repos",
			state: store.WidgetState{Name: "repos", Kind: KindRepos, Data: decode(t, `{"items":[{"full_name":"a/one","html_url":"https://github.com/a/one","stargazers_count":1500}]}`)},
			want:  []string{"a/one", `href="https://github.com/a/one"`, "1,500"},
		},
		{
			name:  "idle",
			state: store.WidgetState{Name: "repos", Kind: KindRepos},
			want:  []string{"Waiting for data"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := h.Tile(Build(tt.state))
			if err != nil {
				t.Fatalf("Tile() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("Tile() = %s\nmissing %q", out, want)
				}
			}
		})
	}
}

func TestHTML_LoadingPlaceholderRows(t *testing.T) {
	h := newTestHTML(t)

	out, err := h.Tile(Build(store.WidgetState{Kind: KindExchange, Loading: true}))
	if err != nil {
		t.Fatalf("Tile() error = %v", err)
	}
	if got := strings.Count(out, `class="bar short"`); got != 5 {
		t.Errorf("placeholder rows = %d, want 5", got)
	}
}

func TestNewHTML_MissingTemplates(t *testing.T) {
	tests := map[string]fstest.MapFS{
		"no tile template": {
			"assets/index.html": {Data: []byte(`<html>{{.Title}}</html>`)},
		},
		"no page template": {
			"assets/other.html": {Data: []byte(`{{define "tile"}}x{{end}}`)},
		},
		"no templates": {
			"assets/readme.txt": {Data: []byte(`nothing`)},
		},
	}

	for name, fsys := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := NewHTML(fsys, 0); err == nil {
				t.Error("NewHTML() error = nil, want error")
			}
		})
	}
}
