package izone

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jpalmerr/izone/dashboard"
	"github.com/jpalmerr/izone/internal/poller"
	"github.com/jpalmerr/izone/internal/render"
	"github.com/jpalmerr/izone/internal/server"
	"github.com/jpalmerr/izone/internal/store"
)

const (
	defaultPollingInterval = poller.DefaultInterval
	defaultPort            = 8080
	defaultRevealStagger   = 200 * time.Millisecond
)

// Dashboard runs one poll controller per widget and serves the results.
//
// Dashboard is created using [New] with functional options and started with
// [Dashboard.Start] (browser dashboard) or [Dashboard.Watch] (state stream
// without an HTTP server).
//
// The typical lifecycle is:
//
//	d, err := izone.New(izone.WithWidgets(izone.DefaultWidgets()...))
//	if err != nil {
//	    slog.Error("failed to create dashboard", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	d.Start(ctx) // blocks until context cancelled
//
// The caller controls the lifecycle via the context. Cancel the context to
// deactivate every widget and shut the server down.
type Dashboard struct {
	title           string
	widgets         []Widget
	pollingInterval time.Duration
	port            int
	revealStagger   time.Duration
	tickStagger     time.Duration
	logger          *slog.Logger
	stateCallbacks  []func(WidgetState)

	mu          sync.RWMutex
	controllers map[string]*poller.Controller
}

// New creates a new [Dashboard] with the given options.
//
// Defaults:
//   - Widgets: [DefaultWidgets]
//   - Polling interval: 10 seconds
//   - Port: 8080
//   - Reveal stagger: 200ms
//
// Returns an error if two widgets share a name or if any option is invalid.
//
// Example:
//
//	d, err := izone.New(
//	    izone.WithWidgets(izone.DefaultWidgets()...),
//	    izone.WithPollingInterval(30 * time.Second),
//	    izone.WithPort(9090),
//	)
func New(opts ...Option) (*Dashboard, error) {
	cfg := &dashConfig{
		pollingInterval: defaultPollingInterval,
		port:            defaultPort,
		revealStagger:   defaultRevealStagger,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if len(cfg.widgets) == 0 {
		cfg.widgets = DefaultWidgets()
	}

	// names key the store, the API paths and Refetch
	seen := make(map[string]bool, len(cfg.widgets))
	for _, w := range cfg.widgets {
		if w.name == "" {
			return nil, errors.New("widget must be created with NewWidget")
		}
		if seen[w.name] {
			return nil, fmt.Errorf("duplicate widget name: %q", w.name)
		}
		seen[w.name] = true
	}

	if cfg.port < 1 || cfg.port > 65535 {
		return nil, fmt.Errorf("port must be between 1 and 65535, got %d", cfg.port)
	}

	// default to slog.Default() if no logger provided
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Dashboard{
		title:           cfg.title,
		widgets:         cfg.widgets,
		pollingInterval: cfg.pollingInterval,
		port:            cfg.port,
		revealStagger:   cfg.revealStagger,
		tickStagger:     cfg.tickStagger,
		logger:          logger,
		stateCallbacks:  cfg.stateCallbacks,
	}, nil
}

// Start activates every widget and serves the dashboard.
//
// Start is a blocking call that runs until the provided context is cancelled.
// During execution:
//
//   - Every widget fetches immediately, then at the polling interval
//   - The HTTP server starts on the configured port
//   - Browsers receive each state change over Server-Sent Events
//   - The dashboard is available at http://localhost:<port>
//
// Returns nil on graceful shutdown. Returns an error if the HTTP server fails
// to start or the dashboard is already running.
func (d *Dashboard) Start(ctx context.Context) error {
	d.logger.Info("izone starting", "widget_count", len(d.widgets))
	d.logger.Info("polling configured", "interval", d.pollingInterval.String())
	d.logger.Info("dashboard available", "url", fmt.Sprintf("http://localhost:%d", d.port))

	// check if context already cancelled
	if ctx.Err() != nil {
		return nil
	}

	pages, err := render.NewHTML(dashboard.Assets, d.revealStagger)
	if err != nil {
		return fmt.Errorf("failed to load dashboard templates: %w", err)
	}

	st := store.NewMemoryStore()
	client := poller.NewClient()
	defer client.Close()

	controllers, err := d.prepare(st, client)
	if err != nil {
		return err
	}
	defer d.release()

	serverCtx, stopServer := context.WithCancel(ctx)
	defer stopServer()

	httpServer := server.NewServer(st, d.port, pages, d.title, d.logger,
		server.WithRefetcher(d),
		server.WithReference(d.referenceRows),
	)
	if err := httpServer.Start(serverCtx); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	err = d.run(ctx, controllers, nil)
	d.logger.Info("izone stopped")
	return err
}

// Watch activates every widget without an HTTP server and calls fn with the
// state of all widgets, in widget order, whenever any of them changes.
//
// fn is called once with the initial states and then from a single
// goroutine; changes that arrive while fn runs are coalesced into one call.
// Watch blocks until ctx is cancelled and returns nil on shutdown.
func (d *Dashboard) Watch(ctx context.Context, fn func([]WidgetState)) error {
	if fn == nil {
		return errors.New("watch callback cannot be nil")
	}
	if ctx.Err() != nil {
		return nil
	}

	st := store.NewMemoryStore()
	client := poller.NewClient()
	defer client.Close()

	controllers, err := d.prepare(st, client)
	if err != nil {
		return err
	}
	defer d.release()

	updates := st.Subscribe()
	defer st.Unsubscribe(updates)

	return d.run(ctx, controllers, func(ctx context.Context) error {
		fn(d.snapshot(controllers))
		for {
			select {
			case <-ctx.Done():
				return nil
			case _, ok := <-updates:
				if !ok {
					return nil
				}
				drain(updates)
				fn(d.snapshot(controllers))
			}
		}
	})
}

// Refetch triggers an immediate fetch for the named widget, regardless of a
// fetch already in flight. The outcome arrives like any scheduled one.
//
// Returns [ErrUnknownWidget] for a name that is not configured and
// [ErrNotRunning] when the dashboard is not started.
func (d *Dashboard) Refetch(name string) error {
	c, err := d.controller(name)
	if err != nil {
		return err
	}
	return c.Refetch()
}

// Reconfigure points the named widget at a new URL while the dashboard runs.
// The same URL is a no-op; a different one restarts the widget from loading
// with a fresh timer and discards results still in flight for the old URL.
// The tile and the reference panel both switch to the new URL.
func (d *Dashboard) Reconfigure(name, rawURL string) error {
	c, err := d.controller(name)
	if err != nil {
		return err
	}
	return c.Reconfigure(rawURL)
}

// Widgets returns a copy of the configured widgets.
func (d *Dashboard) Widgets() []Widget {
	cp := make([]Widget, len(d.widgets))
	copy(cp, d.widgets)
	return cp
}

// Title returns the configured dashboard title, or "" for the default.
func (d *Dashboard) Title() string {
	return d.title
}

// Port returns the configured HTTP port for the dashboard server.
func (d *Dashboard) Port() int {
	return d.port
}

// PollingInterval returns the configured interval between fetches.
func (d *Dashboard) PollingInterval() time.Duration {
	return d.pollingInterval
}

// Reference returns the endpoint documentation for the configured widgets.
// While the dashboard runs, each entry shows the URL its widget currently
// polls, so it follows [Dashboard.Reconfigure].
func (d *Dashboard) Reference() []ReferenceEntry {
	entries := Reference(d.widgets)

	d.mu.RLock()
	defer d.mu.RUnlock()
	for i, w := range d.widgets {
		c, ok := d.controllers[w.name]
		if !ok {
			continue
		}
		if u := c.URL(); u != "" {
			entries[i].Endpoint = u
			entries[i].Example = u
		}
	}
	return entries
}

// prepare builds one idle controller per widget, seeds the store and marks
// the dashboard as running.
func (d *Dashboard) prepare(st store.Store, fetcher poller.Fetcher) (map[string]*poller.Controller, error) {
	controllers := make(map[string]*poller.Controller, len(d.widgets))
	for i, w := range d.widgets {
		st.Update(storeState(i, w, poller.Snapshot{Name: w.name, URL: w.url, Phase: poller.PhaseIdle}))
		controllers[w.name] = d.newController(i, w, fetcher, st)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.controllers != nil {
		return nil, ErrAlreadyRunning
	}
	d.controllers = controllers
	return controllers, nil
}

// release marks the dashboard as stopped.
func (d *Dashboard) release() {
	d.mu.Lock()
	d.controllers = nil
	d.mu.Unlock()
}

// run activates every controller and blocks until ctx is done, then
// deactivates them and waits for their goroutines. consume, if set, runs
// alongside with the group's context.
func (d *Dashboard) run(ctx context.Context, controllers map[string]*poller.Controller, consume func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, w := range d.widgets {
		c := controllers[w.name]
		g.Go(func() error {
			// Reconfigure may have activated it already
			if err := c.Activate(gctx, w.url); err != nil && !errors.Is(err, poller.ErrActive) {
				return fmt.Errorf("activating widget %q: %w", w.name, err)
			}
			<-gctx.Done()
			c.Deactivate()
			c.Wait()
			return nil
		})
	}

	if consume != nil {
		g.Go(func() error {
			return consume(gctx)
		})
	}

	return g.Wait()
}

// newController wires a widget to a poll controller whose observer updates
// the store and runs the state callbacks.
func (d *Dashboard) newController(index int, w Widget, fetcher poller.Fetcher, st store.Store) *poller.Controller {
	timeout := w.timeout
	if timeout == 0 {
		timeout = d.pollingInterval
	}

	requestOpts := []poller.RequestOption{
		poller.WithMethod(w.Method()),
		poller.WithHeaders(w.Headers()),
		poller.WithTimeout(timeout),
	}

	return poller.NewController(w.name, fetcher,
		poller.WithInterval(d.pollingInterval),
		poller.WithPhaseOffset(time.Duration(index)*d.tickStagger),
		poller.WithRequestOptions(requestOpts...),
		poller.WithLogger(d.logger),
		poller.WithObserver(func(snap poller.Snapshot) {
			// store update first (callbacks fire after data is published)
			st.Update(storeState(index, w, snap))

			if len(d.stateCallbacks) > 0 {
				state := publicState(w, snap)
				for _, cb := range d.stateCallbacks {
					invokeCallbackSafe(cb, state, d.logger)
				}
			}
		}),
	)
}

func (d *Dashboard) controller(name string) (*poller.Controller, error) {
	d.mu.RLock()
	c, ok := d.controllers[name]
	d.mu.RUnlock()
	if ok {
		return c, nil
	}

	for _, w := range d.widgets {
		if w.name == name {
			return nil, ErrNotRunning
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownWidget, name)
}

// snapshot returns the current public state of every widget in widget order.
func (d *Dashboard) snapshot(controllers map[string]*poller.Controller) []WidgetState {
	states := make([]WidgetState, len(d.widgets))
	for i, w := range d.widgets {
		states[i] = publicState(w, controllers[w.name].Snapshot())
	}
	return states
}

func (d *Dashboard) referenceRows() []render.ReferenceRow {
	entries := d.Reference()
	rows := make([]render.ReferenceRow, len(entries))
	for i, e := range entries {
		rows[i] = render.ReferenceRow(e)
	}
	return rows
}

// drain discards updates already queued on ch.
func drain(ch <-chan store.WidgetState) {
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

// storeState converts a controller snapshot to the form served over HTTP.
func storeState(index int, w Widget, snap poller.Snapshot) store.WidgetState {
	state := store.WidgetState{
		Name:      w.name,
		Index:     index,
		Kind:      string(w.kind),
		Title:     w.title,
		Icon:      w.icon,
		URL:       snap.URL,
		Phase:     string(snap.Phase),
		Data:      snap.Data,
		Loading:   snap.Loading(),
		UpdatedAt: snap.UpdatedAt,
	}
	if snap.DataID != uuid.Nil {
		state.DataID = snap.DataID.String()
	}
	if snap.Err != nil {
		state.Error = &store.ErrorInfo{Message: snap.Err.Error()}
	}
	return state
}

// publicState converts a controller snapshot to the public API type.
func publicState(w Widget, snap poller.Snapshot) WidgetState {
	state := WidgetState{
		Name:      w.name,
		Kind:      w.kind,
		Title:     w.title,
		Icon:      w.icon,
		URL:       snap.URL,
		Phase:     Phase(snap.Phase),
		Data:      snap.Data,
		Loading:   snap.Loading(),
		Err:       snap.Err,
		UpdatedAt: snap.UpdatedAt,
	}
	if snap.DataID != uuid.Nil {
		state.DataID = snap.DataID.String()
	}
	if state.URL == "" {
		state.URL = w.url
	}
	return state
}

// invokeCallbackSafe calls a state callback with panic recovery.
// Panics are logged but do not propagate.
func invokeCallbackSafe(cb func(WidgetState), state WidgetState, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("state callback panicked",
				"panic", r,
				"widget", state.Name,
			)
		}
	}()
	cb(state)
}
