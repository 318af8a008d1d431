// Package server provides HTTP routing, middleware, sessions, and OAuth
// callback handling for the web and CLI surfaces.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
// [Middleware] wraps handlers in reverse order (last added executes first),
// following the standard Go pattern. The [BasicRouter] implementation uses
// [http.ServeMux] method-qualified patterns internally.
//
// # Sessions
//
// [Sessions] wraps a gorilla/sessions cookie store behind typed accessors
// for the two values the sync flow carries between requests: the Spotify
// token record and the cached cleaned-title list. Nothing else is persisted;
// both values die with the browser session.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback flow for
// the CLI: it validates the state parameter, exchanges the authorization
// code for tokens, and sends the result through a channel. It only processes
// one callback to prevent replay. The web surface handles its callback in
// internal/web instead, because the token lands in the cookie session there.
package server

import (
	"net/http"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers in the sync service.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}
