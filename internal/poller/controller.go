package poller

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultInterval is the time between scheduled fetches of one widget.
const DefaultInterval = 10 * time.Second

// Phase is the current outcome of a [Controller].
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseFailure Phase = "failure"
)

// Snapshot is a copy of a controller's state at one transition.
//
// Data holds the most recent successful payload and survives later Loading
// and Failure phases; it is shared, so observers must treat it as read-only.
// Err holds the most recent failure until a fetch succeeds. DataID changes
// every time a new payload arrives and is the zero UUID until the first
// success.
type Snapshot struct {
	Name      string
	URL       string
	Phase     Phase
	Data      any
	Err       error
	DataID    uuid.UUID
	UpdatedAt time.Time
}

// Loading reports whether a fetch is pending for the current state.
func (s Snapshot) Loading() bool {
	return s.Phase == PhaseLoading
}

// Fetcher issues a single request and returns the decoded JSON document.
// [*Client] implements Fetcher.
type Fetcher interface {
	Request(ctx context.Context, url string, opts ...RequestOption) (any, error)
}

type lifecycle int

const (
	lifecycleIdle lifecycle = iota
	lifecycleActive
	lifecycleDead
)

// ControllerOption configures a [Controller] during construction.
type ControllerOption func(*Controller)

// WithInterval sets the time between scheduled fetches. Non-positive values
// are ignored.
func WithInterval(d time.Duration) ControllerOption {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithPhaseOffset delays the first scheduled tick by d, shifting the whole
// tick phase. The immediate fetch on activation is not delayed.
func WithPhaseOffset(d time.Duration) ControllerOption {
	return func(c *Controller) {
		if d > 0 {
			c.phaseOffset = d
		}
	}
}

// WithObserver registers the single consumer notified on every transition.
//
// The observer is called synchronously, one call at a time, in the order the
// transitions happened. It may call Snapshot or Refetch; calling Activate,
// Reconfigure or Deactivate from inside the observer deadlocks.
func WithObserver(fn func(Snapshot)) ControllerOption {
	return func(c *Controller) {
		c.observer = fn
	}
}

// WithRequestOptions sets options passed to every fetch.
func WithRequestOptions(opts ...RequestOption) ControllerOption {
	return func(c *Controller) {
		c.requestOpts = append(c.requestOpts, opts...)
	}
}

// WithLogger sets the controller's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller owns the fetch/poll/retry lifecycle of one widget.
//
// After [Controller.Activate] it fetches immediately and then on every tick
// of a fixed interval. Fetches are never de-duplicated: a manual
// [Controller.Refetch] can overlap a scheduled one, and whichever completes
// last determines the visible state. Failures never stop the controller; the
// next tick or refetch tries again at the same cadence.
//
// Once [Controller.Deactivate] returns, no further state mutation or
// observer call happens. Results of fetches that complete later, or that
// belong to a URL replaced by [Controller.Reconfigure], are discarded.
//
// All methods are safe for concurrent use.
type Controller struct {
	name        string
	fetcher     Fetcher
	interval    time.Duration
	phaseOffset time.Duration
	requestOpts []RequestOption
	observer    func(Snapshot)
	logger      *slog.Logger

	mu        sync.Mutex
	lifecycle lifecycle
	parent    context.Context
	runCtx    context.Context
	cancel    context.CancelFunc
	gen       uint64
	snap      Snapshot

	// notifyMu is held across a mutation and its observer call so calls
	// keep the order of the mutations they report. Lock order is notifyMu
	// then mu; mu is never held while waiting for notifyMu.
	notifyMu sync.Mutex
	wg       sync.WaitGroup
}

// NewController creates an idle [Controller] for the widget called name.
func NewController(name string, fetcher Fetcher, opts ...ControllerOption) *Controller {
	c := &Controller{
		name:     name,
		fetcher:  fetcher,
		interval: DefaultInterval,
		logger:   slog.Default(),
		snap:     Snapshot{Name: name, Phase: PhaseIdle},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the widget name the controller was created for.
func (c *Controller) Name() string {
	return c.name
}

// Interval returns the time between scheduled fetches.
func (c *Controller) Interval() time.Duration {
	return c.interval
}

// Activate transitions to Loading, fetches rawURL immediately and starts the
// recurring timer.
//
// ctx bounds the controller's lifetime: cancelling it stops the timer and
// aborts in-flight requests, like Deactivate. Returns [ErrActive] when the
// controller is already running and [ErrDeactivated] after Deactivate.
func (c *Controller) Activate(ctx context.Context, rawURL string) error {
	if err := validateURL(rawURL); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	switch c.lifecycle {
	case lifecycleActive:
		c.mu.Unlock()
		return ErrActive
	case lifecycleDead:
		c.mu.Unlock()
		return ErrDeactivated
	}
	c.lifecycle = lifecycleActive
	c.parent = ctx
	c.startLocked(rawURL)
	snap := c.snap
	c.mu.Unlock()

	c.notify(snap)
	return nil
}

// Reconfigure points the controller at a new URL.
//
// If rawURL equals the current target this is a no-op. Otherwise the timer is
// restarted, results still in flight for the old URL are discarded, the
// outcome is reset and the cycle starts over from Loading. Reconfiguring an
// idle controller activates it.
func (c *Controller) Reconfigure(rawURL string) error {
	if err := validateURL(rawURL); err != nil {
		return err
	}

	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	switch c.lifecycle {
	case lifecycleDead:
		c.mu.Unlock()
		return ErrDeactivated
	case lifecycleIdle:
		c.lifecycle = lifecycleActive
		c.parent = context.Background()
	case lifecycleActive:
		if rawURL == c.snap.URL {
			c.mu.Unlock()
			return nil
		}
	}
	c.logger.Info("widget reconfigured", "widget", c.name, "url", rawURL)
	c.startLocked(rawURL)
	snap := c.snap
	c.mu.Unlock()

	c.notify(snap)
	return nil
}

// Refetch issues a fetch now, outside the timer cadence.
//
// A fetch already in flight is not cancelled or awaited. Returns
// [ErrNotActive] before activation and [ErrDeactivated] afterwards.
func (c *Controller) Refetch() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.lifecycle {
	case lifecycleIdle:
		return ErrNotActive
	case lifecycleDead:
		return ErrDeactivated
	}
	c.spawnLocked(true)
	return nil
}

// Deactivate cancels the timer and in-flight requests and marks the
// controller dead. Safe to call multiple times.
//
// When Deactivate returns, any observer call that was already running has
// finished and no new one will start.
func (c *Controller) Deactivate() {
	c.mu.Lock()
	if c.lifecycle == lifecycleDead {
		c.mu.Unlock()
		return
	}
	c.lifecycle = lifecycleDead
	c.gen++
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()

	// wait out a notification that passed the liveness check before we did
	c.notifyMu.Lock()
	c.notifyMu.Unlock()
}

// Wait blocks until the timer goroutine and every fetch goroutine have
// returned. Call it after Deactivate.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// URL returns the current target URL, or "" before activation.
func (c *Controller) URL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap.URL
}

// startLocked begins a new generation for rawURL: the previous timer and
// requests are cancelled, the outcome resets to Loading, the immediate
// fetch and the timer are launched. Caller holds c.mu.
func (c *Controller) startLocked(rawURL string) {
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	c.runCtx, c.cancel = context.WithCancel(c.parent)
	c.snap = Snapshot{
		Name:      c.name,
		URL:       rawURL,
		Phase:     PhaseLoading,
		UpdatedAt: time.Now(),
	}

	c.spawnLocked(false)

	c.wg.Add(1)
	go c.loop(c.runCtx, c.gen)
}

// spawnLocked launches one fetch for the current generation. Caller holds c.mu.
func (c *Controller) spawnLocked(markLoading bool) {
	c.wg.Add(1)
	go c.fetch(c.runCtx, c.gen, c.snap.URL, markLoading)
}

// loop triggers a fetch on every tick until ctx is cancelled.
func (c *Controller) loop(ctx context.Context, gen uint64) {
	defer c.wg.Done()

	if c.phaseOffset > 0 {
		offset := time.NewTimer(c.phaseOffset)
		select {
		case <-ctx.Done():
			offset.Stop()
			return
		case <-offset.C:
		}
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			if c.lifecycle != lifecycleActive || gen != c.gen {
				c.mu.Unlock()
				return
			}
			c.spawnLocked(true)
			c.mu.Unlock()
		}
	}
}

// fetch performs one request and records its outcome if the generation is
// still current.
func (c *Controller) fetch(ctx context.Context, gen uint64, target string, markLoading bool) {
	defer c.wg.Done()

	if markLoading {
		if !c.commit(ctx, gen, func(s *Snapshot) { s.Phase = PhaseLoading }) {
			return
		}
	}

	start := time.Now()
	data, err := c.fetcher.Request(ctx, target, c.requestOpts...)
	latency := time.Since(start)

	applied := c.commit(ctx, gen, func(s *Snapshot) {
		s.UpdatedAt = time.Now()
		if err != nil {
			s.Phase = PhaseFailure
			s.Err = err
			return
		}
		s.Phase = PhaseSuccess
		s.Data = data
		s.Err = nil
		s.DataID = uuid.New()
	})

	logAttrs := []any{
		"widget", c.name,
		"url", target,
		"latency_ms", latency.Milliseconds(),
	}
	switch {
	case !applied:
		c.logger.Debug("discarded stale fetch result", logAttrs...)
	case err != nil:
		c.logger.Warn("fetch failed", append(logAttrs, "error", err.Error())...)
	default:
		c.logger.Debug("fetch completed", logAttrs...)
	}
}

// commit applies mutate if the controller is alive and gen is current, then
// notifies the observer. It reports whether the mutation was applied.
func (c *Controller) commit(ctx context.Context, gen uint64, mutate func(*Snapshot)) bool {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	if c.lifecycle != lifecycleActive || gen != c.gen || ctx.Err() != nil {
		c.mu.Unlock()
		return false
	}
	mutate(&c.snap)
	snap := c.snap
	c.mu.Unlock()

	c.notify(snap)
	return true
}

// notify calls the observer with panic recovery.
// A panic is logged with a correlation ID and otherwise ignored.
func (c *Controller) notify(snap Snapshot) {
	if c.observer == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("observer panic",
				"correlation_id", uuid.NewString(),
				"widget", c.name,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	c.observer(snap)
}

// validateURL requires an absolute http or https URL.
func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL %q: scheme must be http or https", rawURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid URL %q: missing host", rawURL)
	}
	return nil
}
