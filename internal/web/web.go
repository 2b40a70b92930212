// Package web implements the browser front end: a server-rendered page driven by HTMX.
//
// # Architecture
//
// Every visitor gets a session keyed by the [SessionCookie] cookie. A session owns one
// [state.State] and the cancel function of its latest search, both guarded by the session mutex.
// Handlers mutate the state through its operations and re-render a fragment of the page.
//
// Routes
//
//	GET  /               → full page
//	GET  /search?q=      → suggestion fragment; 204 when a newer search superseded this one
//	POST /select         → select suggestion (index, seq), re-render #app
//	POST /add            → select the first suggestion; 403 while unavailable
//	POST /delete         → remove a listed track (index); 403 without the admin code
//	POST /code           → submit the admin code
//	POST /sidebar        → toggle the admin panel
//	GET  /export?format= → playlist download; 403 without the admin code
//
// Templates
//
//   - index: layout and HTMX script
//   - app: header, admin panel, search box, listed music
//   - results: Add button and suggestions
//   - selection: listed music with m:ss durations
//   - sidebar: admin code field and export links
//
// Failed searches render an empty suggestion list. Errors are logged, never shown.
package web
