// Package server provides the HTTP server for the iZone dashboard and API.
//
// This package is internal to iZone and handles all HTTP concerns:
//
//   - Dashboard serving: Renders the page with the current tiles at "/"
//   - REST API: widget states at "/api/widgets", the data-source reference
//     at "/api/reference" and manual refetch at
//     "/api/widgets/{name}/refetch" (503 while the widget is still starting)
//   - Server-Sent Events: state plus re-rendered tile HTML at "/api/sse"
//
// The server supports graceful shutdown via context cancellation, with a
// 5-second timeout for in-flight requests.
//
// Users of the izone library should not need to interact with this package
// directly. The server is started automatically by [izone.Dashboard.Start].
package server
