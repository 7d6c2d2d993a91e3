package poller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxResponseBodySize = 1 << 20 // 1MB

// connection pooling limits; every widget reuses the same transport
const (
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultMaxConnsPerHost     = 10
	defaultIdleConnTimeout     = 60 * time.Second
)

// requestConfig holds per-request settings assembled from [RequestOption] values.
type requestConfig struct {
	method  string
	headers map[string]string
	timeout time.Duration
}

// RequestOption configures a single call to [Client.Request].
type RequestOption func(*requestConfig)

// WithMethod sets the HTTP method. Empty means GET.
func WithMethod(method string) RequestOption {
	return func(cfg *requestConfig) {
		cfg.method = method
	}
}

// WithHeader adds a single request header.
func WithHeader(key, value string) RequestOption {
	return func(cfg *requestConfig) {
		if cfg.headers == nil {
			cfg.headers = make(map[string]string)
		}
		cfg.headers[key] = value
	}
}

// WithHeaders adds every entry of headers to the request.
func WithHeaders(headers map[string]string) RequestOption {
	return func(cfg *requestConfig) {
		for k, v := range headers {
			WithHeader(k, v)(cfg)
		}
	}
}

// WithTimeout bounds the whole request, body read included.
// Zero leaves the request bounded only by the caller's context.
func WithTimeout(d time.Duration) RequestOption {
	return func(cfg *requestConfig) {
		cfg.timeout = d
	}
}

// Client is an HTTP client wrapper that fetches JSON documents.
//
// Client makes exactly one attempt per call and normalizes every failure into
// one of [NetworkError], [HTTPError] or [ParseError]. Timeouts are applied
// per request via context rather than globally, so widgets with different
// timeouts can share one connection pool. Response bodies are limited to 1MB.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new JSON [Client].
//
// Connection pooling configuration:
//   - MaxIdleConns: 100 total idle connections
//   - MaxIdleConnsPerHost: 10 idle connections per host
//   - MaxConnsPerHost: 10 concurrent connections per host
//   - IdleConnTimeout: 60 seconds before closing idle connections
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			// no default timeout - we use per-request timeouts via context
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				MaxConnsPerHost:     defaultMaxConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
		},
	}
}

// Request performs a single HTTP request and decodes the JSON response.
//
// On success the decoded document is returned unchanged: objects become
// map[string]any, arrays []any and numbers [json.Number], so the exact
// numeric text sent by the server is preserved. No schema is applied.
//
// Failures:
//   - the request could not be sent or the body could not be read: [*NetworkError]
//   - the status is not 2xx: [*HTTPError]; its message is "Error: <status>",
//     followed by " - <message>" when the body is a JSON object with a
//     non-empty "message" string
//   - the body of a 2xx response is not a single valid JSON value: [*ParseError]
func (c *Client) Request(ctx context.Context, url string, opts ...RequestOption) (any, error) {
	cfg := requestConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	method := cfg.method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	for key, value := range cfg.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{
			Status:  resp.StatusCode,
			Message: errorBodyMessage(body),
		}
	}

	value, err := decodeJSON(body)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return value, nil
}

// Close closes all idle connections in the client's connection pool.
//
// Safe to call multiple times. After Close, the client remains usable but
// new connections will be established as needed.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	if transport, ok := c.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}

// decodeJSON decodes exactly one JSON value from body.
func decodeJSON(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty response body")
		}
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON value")
	}
	return value, nil
}

// errorBodyMessage returns the "message" field of a JSON error body, or ""
// when the body is absent, unparsable, or carries no usable message.
func errorBodyMessage(body []byte) string {
	var payload struct {
		Message any `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	msg, _ := payload.Message.(string)
	return msg
}
