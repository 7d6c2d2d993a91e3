package store

import "time"

// ErrorInfo is the error object exposed to the presentation layer.
type ErrorInfo struct {
	Message string `json:"message"`
}

// WidgetState is the current state of one widget in storage.
//
// WidgetState is the storage representation of a poll controller's outcome,
// shaped for JSON serialization (used by the REST API and SSE). It carries
// the presentation contract {data, loading, error} plus what a renderer
// needs to draw the tile. It is decoupled from the poller's types to allow
// independent evolution.
type WidgetState struct {
	// Name uniquely identifies the widget.
	Name string `json:"name"`

	// Index is the widget's position on the dashboard.
	Index int `json:"index"`

	// Kind is the widget kind ("crypto", "exchange", "repos").
	Kind string `json:"kind"`

	// Title is the widget's display title.
	Title string `json:"title"`

	// Icon is a short decorative glyph shown above the title.
	Icon string `json:"icon,omitempty"`

	// URL is the endpoint the widget polls.
	URL string `json:"url"`

	// Phase is the controller outcome ("idle", "loading", "success", "failure").
	Phase string `json:"phase"`

	// Data is the last successfully fetched JSON document, or nil.
	Data any `json:"data"`

	// DataID identifies the payload in Data; it changes with every new payload.
	DataID string `json:"data_id,omitempty"`

	// Loading is true while a fetch is pending.
	Loading bool `json:"loading"`

	// Error is set when the most recent fetch failed.
	Error *ErrorInfo `json:"error"`

	// UpdatedAt is the time of the last transition.
	UpdatedAt time.Time `json:"updated_at"`
}

// Store defines the interface for storing and subscribing to widget updates.
//
// Store implementations must be safe for concurrent access. The pub/sub
// mechanism allows real-time updates to be pushed to connected clients
// (e.g., via Server-Sent Events).
type Store interface {
	// Update stores a new widget state and notifies all subscribers.
	// The state is keyed by Name, so subsequent updates replace previous values.
	Update(state WidgetState)

	// Get returns the stored state for name.
	Get(name string) (WidgetState, bool)

	// GetAll returns all stored states ordered by Index, then Name.
	// The returned slice is a snapshot; modifications do not affect the store.
	GetAll() []WidgetState

	// Subscribe returns a channel that receives widget updates.
	// The returned channel has a buffer; slow consumers may miss updates.
	// Caller must call Unsubscribe when done to prevent resource leaks.
	Subscribe() <-chan WidgetState

	// Unsubscribe removes a subscription and closes the channel.
	// Safe to call with a channel that was already unsubscribed.
	Unsubscribe(ch <-chan WidgetState)
}
