// package server contains the router, middleware and OAuth callback handling for the CLI
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler is an [http.Handler] that knows which paths it serves.
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

// CallbackServer is a short-lived HTTP server for OAuth redirects.
type CallbackServer struct {
	srv    *http.Server
	addr   string
	errs   chan error
	logger *log.Logger
}

// Start listens on addr and serves handler in the background.
func Start(addr string, handler http.Handler, logger *log.Logger) (*CallbackServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s := &CallbackServer{
		srv:    &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second},
		addr:   ln.Addr().String(),
		errs:   make(chan error, 1),
		logger: logger,
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errs <- err
		}
		close(s.errs)
	}()

	logger.Debug("callback server started", "addr", s.addr)
	return s, nil
}

// Addr returns the bound address, useful when started on port 0.
func (s *CallbackServer) Addr() string { return s.addr }

// Errors yields a serve error, if any, and is closed when the server stops.
func (s *CallbackServer) Errors() <-chan error { return s.errs }

// Shutdown stops the server, waiting up to five seconds for in-flight requests.
func (s *CallbackServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Warn("error shutting down server", "error", err)
	}
}
