// Package server provides HTTP routing, middleware, and the local share preview service.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Share Previews
//
// [PreviewHandler] serves read-only HTML pages for publicly shared snippets at /share/{id}.
//
// Lookups go through the vault service's public snippet endpoint, so private
// and deleted snippets render as 404 without leaking their existence.
// Successful lookups are memoized in an LRU cache sized for hot share links.
//
// # Current Usage
//
// The `snipvault share serve` command starts a [PreviewServer] on localhost so
// share links can be opened in a browser without the web frontend. The server
// shuts down gracefully when the command is interrupted.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
