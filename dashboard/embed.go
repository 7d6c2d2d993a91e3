// Package dashboard provides the embedded web UI templates for iZone.
//
// The templates are compiled into the binary with Go's embed directive, so
// a dashboard runs as a single binary with no external asset files.
//
// The render package parses these templates; the server package uses them to
// serve the page at "/" and to push re-rendered tiles over SSE.
package dashboard

import "embed"

// Assets is an embedded filesystem containing the dashboard templates.
//
// The filesystem structure is:
//
//	assets/
//	  index.html    - Page layout with inline CSS and the SSE client script
//	  tile.html     - The "tile" template, one widget body per state
//
//go:embed assets/*
var Assets embed.FS
