// Package izone provides a live dashboard of public data widgets: crypto
// prices, exchange rates and trending GitHub repositories.
//
// Every widget owns a poll controller that fetches its URL as soon as the
// widget is activated and then on a fixed interval. Failures are shown on
// the widget's tile and retried on the next tick; a manual refetch is
// available at any time. The latest payload is kept while a fetch loads or
// fails, so tiles never go blank once they have data.
//
// # Quick Start
//
// Start the dashboard with the built-in widgets and graceful shutdown:
//
//	d, _ := izone.New()
//
//	// Set up graceful shutdown on SIGINT/SIGTERM
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	d.Start(ctx) // blocks until context is cancelled
//
// # Configuration
//
// iZone uses the functional options pattern for configuration:
//
//	d, err := izone.New(
//	    izone.WithWidgets(izone.DefaultWidgets()...),
//	    izone.WithPollingInterval(30 * time.Second),
//	    izone.WithPort(9090),
//	    izone.WithTitle("Markets"),
//	)
//
// Widgets can point at any endpoint that returns the payload shape of
// their [Kind]:
//
//	w, err := izone.NewWidget(izone.KindExchange, "Rates", "https://rates.internal/latest",
//	    izone.WithName("rates"),
//	    izone.WithHeaders("Authorization", "Bearer token"),
//	    izone.WithTimeout(5 * time.Second),
//	)
//
// # Widget Kinds
//
//   - [KindCrypto]: BTC and ETH prices in USD
//   - [KindExchange]: USD rates for EUR, GBP, JPY, INR and ZAR
//   - [KindRepos]: two repositories sampled from a GitHub search result
//
// # Architecture
//
// iZone consists of several internal packages (under internal/):
//
//   - internal/poller: Per-widget poll controllers and the HTTP JSON client
//   - internal/store: In-memory widget state with pub/sub for real-time updates
//   - internal/render: Tile view models, HTML templates and terminal output
//   - internal/server: HTTP server with REST API and Server-Sent Events
//   - dashboard: Embedded web UI assets
//
// The internal packages are not part of the public API and may change
// without notice.
package izone
