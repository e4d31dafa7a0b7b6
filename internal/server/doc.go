// Package server provides HTTP routing, middleware and the listener lifecycle for assetd.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] runs in the order it is added: the first middleware passed to [BasicRouter.Use] is outermost.
//
// The [BasicRouter] matches exact paths and treats "/" as the catch-all. Unlike [http.ServeMux] it never
// redirects unclean paths, so a request for "/../x" reaches the asset handler and is rejected there.
//
// # Middleware
//
//   - [RequestID] tags every response with an X-Request-ID header
//   - [AccessLog] writes one "<METHOD> <url> -> <status>" line per request and optionally persists a record
//   - [Recover] turns handler panics into a 500
//   - [RateLimit] applies a global token bucket when configured
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
//
// # Lifecycle
//
// [HTTPServer] owns the [http.Server], applies the configured timeouts and shuts down gracefully
// when its context ends.
package server
