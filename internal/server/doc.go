// Package server provides HTTP routing, middleware, and the listener loop for the web front end.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns, so a request with the wrong
// method receives 405 from the mux itself.
//
// # Middleware
//
// [LoggingMiddleware] logs each request with its status and latency. [RecoverMiddleware] turns a panic
// into a 500 response so that one broken session cannot take the process down.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
//
// # Serving
//
// [Serve] binds the listener before reporting readiness, then blocks until its context is cancelled.
package server
