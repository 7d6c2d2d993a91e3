// Package mock serves fake versions of the public APIs behind the built-in
// widgets, so the examples run offline and show every tile state.
//
// Prices drift on every request and roughly one request in ten fails with a
// 503 and a JSON error message.
package mock

import (
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"
)

// failureRate is the share of requests answered with a 503.
const failureRate = 0.1

// Paths served by [NewHandler].
const (
	CryptoPath   = "/crypto"
	ExchangePath = "/exchange"
	ReposPath    = "/repos"
)

type market struct {
	mu     sync.Mutex
	prices map[string]float64
	rates  map[string]float64
}

// NewHandler returns a handler for the crypto, exchange and repos paths.
func NewHandler() http.Handler {
	m := &market{
		prices: map[string]float64{"bitcoin": 64000, "ethereum": 3100},
		rates:  map[string]float64{"EUR": 0.92, "GBP": 0.79, "JPY": 151.2, "INR": 83.4, "ZAR": 18.6},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+CryptoPath, m.withFailures(m.crypto))
	mux.HandleFunc("GET "+ExchangePath, m.withFailures(m.exchange))
	mux.HandleFunc("GET "+ReposPath, m.withFailures(repos))
	return mux
}

// withFailures adds latency and occasional failures to h.
func (m *market) withFailures(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// simulate small latency variance
		time.Sleep(time.Duration(50+rand.IntN(250)) * time.Millisecond)

		if rand.Float64() < failureRate {
			slog.Info("mock failure", "path", r.URL.Path)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"message": "rate limit exceeded, try again shortly",
			})
			return
		}
		h(w, r)
	}
}

func (m *market) crypto(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	body := make(map[string]map[string]float64, len(m.prices))
	for id, p := range m.prices {
		p *= 1 + (rand.Float64()-0.5)/50
		m.prices[id] = p
		body[id] = map[string]float64{"usd": p}
	}
	m.mu.Unlock()

	writeJSON(w, http.StatusOK, body)
}

func (m *market) exchange(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	rates := make(map[string]float64, len(m.rates))
	for code, v := range m.rates {
		v *= 1 + (rand.Float64()-0.5)/200
		m.rates[code] = v
		rates[code] = v
	}
	m.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"amount": 1.0,
		"base":   "USD",
		"date":   time.Now().Format(time.DateOnly),
		"rates":  rates,
	})
}

type repo struct {
	FullName    string `json:"full_name"`
	HTMLURL     string `json:"html_url"`
	Description string `json:"description"`
	Stars       int    `json:"stargazers_count"`
}

var popular = []repo{
	{"golang/go", "https://github.com/golang/go", "The Go programming language", 125000},
	{"kubernetes/kubernetes", "https://github.com/kubernetes/kubernetes", "Production-Grade Container Scheduling and Management", 111000},
	{"spf13/cobra", "https://github.com/spf13/cobra", "A Commander for modern Go CLI interactions", 38000},
	{"charmbracelet/bubbletea", "https://github.com/charmbracelet/bubbletea", "A powerful little TUI framework", 28000},
	{"gohugoio/hugo", "https://github.com/gohugoio/hugo", "The world's fastest framework for building websites", 76000},
}

func repos(w http.ResponseWriter, r *http.Request) {
	items := make([]repo, len(popular))
	copy(items, popular)
	for i := range items {
		items[i].Stars += rand.IntN(50)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_count": len(items),
		"items":       items,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode mock response", "error", err)
	}
}
