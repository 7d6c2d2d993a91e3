package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/jpalmerr/izone/internal/poller"
	"github.com/jpalmerr/izone/internal/render"
	"github.com/jpalmerr/izone/internal/store"
)

const (
	// sseWriteTimeout is the maximum time allowed for a single SSE write operation.
	// This prevents goroutine leaks when clients are slow or disconnected.
	// Must be <= shutdown timeout to ensure clean shutdown.
	sseWriteTimeout = 5 * time.Second

	// shutdownTimeout bounds graceful shutdown once the server context ends.
	shutdownTimeout = 5 * time.Second

	// defaultTitle is used when no custom title is configured.
	defaultTitle = "iZone"
)

// Refetcher triggers an immediate fetch for a named widget.
type Refetcher interface {
	Refetch(name string) error
}

// Option configures optional [Server] behaviour.
type Option func(*Server)

// WithRefetcher enables POST /api/widgets/{name}/refetch.
func WithRefetcher(r Refetcher) Option {
	return func(s *Server) {
		s.refetcher = r
	}
}

// WithReference sets the source of the rows served by GET /api/reference
// and shown in the page's reference panel. It is called on every request.
func WithReference(rows func() []render.ReferenceRow) Option {
	return func(s *Server) {
		s.reference = rows
	}
}

// Server handles HTTP requests for the iZone dashboard and API.
//
// Server provides these endpoints:
//   - GET /: Serves the rendered dashboard page
//   - GET /api/widgets: Returns all current widget states as JSON
//   - GET /api/widgets/{name}: Returns one widget state as JSON
//   - POST /api/widgets/{name}/refetch: Triggers an immediate fetch
//   - GET /api/reference: Returns the data-source reference as JSON
//   - GET /api/sse: Server-Sent Events stream of state and tile HTML
//
// The server is designed for graceful shutdown via context cancellation.
type Server struct {
	store      store.Store
	port       int
	httpServer *http.Server
	pages      *render.HTML
	title      string
	reference  func() []render.ReferenceRow
	refetcher  Refetcher
	logger     *slog.Logger
}

// NewServer creates a new HTTP [Server].
//
// Parameters:
//   - st: Store holding widget states
//   - port: TCP port to listen on
//   - pages: Renderer for the page and tile fragments (may be nil)
//   - title: Dashboard title (defaults to "iZone" if empty)
//   - logger: Logger for server events
//
// The server is not started until [Server.Start] is called.
func NewServer(st store.Store, port int, pages *render.HTML, title string, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		store:  st,
		port:   port,
		pages:  pages,
		title:  title,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the request router.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// API routes
	mux.HandleFunc("GET /api/widgets", s.handleWidgets)
	mux.HandleFunc("GET /api/widgets/{name}", s.handleWidget)
	mux.HandleFunc("POST /api/widgets/{name}/refetch", s.handleRefetch)
	mux.HandleFunc("GET /api/reference", s.handleReference)
	mux.HandleFunc("GET /api/sse", s.handleSSE)

	// serve the rendered page at root
	mux.HandleFunc("/", s.handleDashboard)

	return mux
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start is non-blocking and returns immediately after confirming the server
// is listening. The server will continue running until the context is
// cancelled, at which point it initiates a graceful shutdown with a 5-second
// timeout.
//
// Returns an error if the server fails to bind to the configured port.
func (s *Server) Start(ctx context.Context) error {
	// create listener first to verify port availability synchronously
	addr := fmt.Sprintf(":%d", s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", s.port, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// BaseContext derives all request contexts from the server context.
		// When ctx is cancelled, all request contexts are also cancelled,
		// enabling graceful shutdown of long-running handlers like SSE.
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", "error", err)
		}
	}()

	// shutdown on context cancellation
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	return nil
}

// handleDashboard serves the main dashboard page with the current tiles.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.pages == nil {
		http.Error(w, "Dashboard not found", http.StatusInternalServerError)
		return
	}

	title := s.title
	if title == "" {
		title = defaultTitle
	}

	// render to a buffer so a template failure still yields a clean 500
	var buf bytes.Buffer
	page := render.Page{
		Title:     title,
		Tiles:     render.BuildAll(s.store.GetAll()),
		Reference: s.referenceRows(),
	}
	if err := s.pages.Page(&buf, page); err != nil {
		s.logger.Error("failed to render dashboard", "error", err)
		http.Error(w, "Dashboard unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Error("failed to write dashboard response", "error", err)
	}
}

// handleWidgets returns all current widget states as JSON.
func (s *Server) handleWidgets(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.store.GetAll())
}

// handleWidget returns one widget state as JSON.
func (s *Server) handleWidget(w http.ResponseWriter, r *http.Request) {
	state, ok := s.store.Get(r.PathValue("name"))
	if !ok {
		http.Error(w, "Widget not found", http.StatusNotFound)
		return
	}
	s.writeJSON(w, state)
}

// handleReference returns the data-source reference as JSON.
func (s *Server) handleReference(w http.ResponseWriter, r *http.Request) {
	rows := s.referenceRows()
	if rows == nil {
		rows = []render.ReferenceRow{}
	}
	s.writeJSON(w, rows)
}

func (s *Server) referenceRows() []render.ReferenceRow {
	if s.reference == nil {
		return nil
	}
	return s.reference()
}

// handleRefetch triggers an out-of-band fetch and returns 202 Accepted. The
// result arrives through the store like any other update.
//
// A widget whose controller is not activated yet answers 503 with
// Retry-After; any other refusal is a 409.
func (s *Server) handleRefetch(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if _, ok := s.store.Get(name); !ok {
		http.Error(w, "Widget not found", http.StatusNotFound)
		return
	}

	if s.refetcher == nil {
		http.Error(w, "Refetch not available", http.StatusNotImplemented)
		return
	}

	if err := s.refetcher.Refetch(name); err != nil {
		if errors.Is(err, poller.ErrNotActive) {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "Widget is starting", http.StatusServiceUnavailable)
			return
		}
		s.logger.Warn("refetch rejected", "widget", name, "error", err)
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// tileEvent is one SSE message: the widget's state and its re-rendered tile
// body.
type tileEvent struct {
	State store.WidgetState `json:"state"`
	HTML  string            `json:"html"`
}

// encodeEvent builds the SSE payload for a state. A rendering failure is
// logged and sends the state with empty HTML.
func (s *Server) encodeEvent(state store.WidgetState) ([]byte, error) {
	event := tileEvent{State: state}
	if s.pages != nil {
		html, err := s.pages.Tile(render.Build(state))
		if err != nil {
			s.logger.Error("failed to render tile", "widget", state.Name, "error", err)
		} else {
			event.HTML = html
		}
	}
	return json.Marshal(event)
}

// handleSSE streams widget updates via Server-Sent Events.
//
// The handler uses write deadlines to prevent goroutine leaks when clients are
// slow or disconnected. Without deadlines, a blocked Fprintf call would prevent
// the handler from detecting context cancellation or channel closure.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	// check if flushing is supported
	if _, ok := w.(http.Flusher); !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	// ResponseController provides deadline-aware write and flush operations.
	rc := http.NewResponseController(w)

	// track if write deadlines are supported (may not be for some ResponseWriter impls)
	deadlinesSupported := true

	// writeAndFlush writes SSE data with a deadline to prevent blocking forever.
	writeAndFlush := func(data []byte) error {
		if deadlinesSupported {
			if err := rc.SetWriteDeadline(time.Now().Add(sseWriteTimeout)); err != nil {
				// deadline not supported by underlying connection, continue without
				s.logger.Warn("sse write deadlines not supported", "error", err)
				deadlinesSupported = false
			}
		}

		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return err
		}

		// ResponseController.Flush respects the write deadline
		return rc.Flush()
	}

	// set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// subscribe to store updates
	ch := s.store.Subscribe()
	defer s.store.Unsubscribe(ch)

	// send initial states (also protected by write deadline)
	for _, state := range s.store.GetAll() {
		data, err := s.encodeEvent(state)
		if err != nil {
			continue
		}
		if err := writeAndFlush(data); err != nil {
			return
		}
	}

	// stream updates
	for {
		select {
		case state, ok := <-ch:
			if !ok {
				return
			}
			data, err := s.encodeEvent(state)
			if err != nil {
				continue
			}
			if err := writeAndFlush(data); err != nil {
				return
			}

		case <-r.Context().Done():
			// request context is derived from server context via BaseContext,
			// so this fires on both client disconnect AND server shutdown
			return
		}
	}
}
