// Package server provides the loopback HTTP server that completes browser OAuth flows for the CLI.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
// [RequestLogger] logs each request with charmbracelet/log.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback. It validates the state parameter
// (CSRF protection), exchanges the code through an [Exchanger] and delivers exactly one [OAuthResult].
// Later callbacks are rejected.
//
// # Callback Server
//
// [Start] binds the listener synchronously, so a port conflict is reported before the browser opens, and
// serves in the background until [CallbackServer.Shutdown].
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
