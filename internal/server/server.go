// Package server runs the local HTTP server that receives OAuth redirects
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"playlistporter/internal/utils"

	"github.com/charmbracelet/log"
)

// Middleware wraps an http.Handler with additional behavior
type Middleware func(http.Handler) http.Handler

// Handler is an http.Handler that knows the paths it serves
type Handler interface {
	http.Handler
	Routes() []string
}

// Server serves registered handlers on a local listener until shut down
type Server struct {
	addr        string
	mux         *http.ServeMux
	middlewares []Middleware
	logger      *log.Logger

	srv *http.Server
	ln  net.Listener
}

// New creates a server for addr (host:port). Port 0 picks a free port.
func New(addr string, logger *log.Logger) *Server {
	return &Server{
		addr:   addr,
		mux:    http.NewServeMux(),
		logger: utils.OrDiscard(logger).With("component", "callback-server"),
	}
}

// Use adds middleware, applied in the order added
func (s *Server) Use(middleware ...Middleware) {
	s.middlewares = append(s.middlewares, middleware...)
}

// Handle registers every route of h
func (s *Server) Handle(h Handler) {
	var wrapped http.Handler = h
	for i := len(s.middlewares) - 1; i >= 0; i-- {
		wrapped = s.middlewares[i](wrapped)
	}
	for _, route := range h.Routes() {
		s.mux.Handle(route, wrapped)
	}
}

// Start binds the listener and serves in the background
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	s.ln = ln
	s.srv = &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("callback server stopped", "err", err)
		}
	}()

	s.logger.Debug("listening for OAuth callbacks", "addr", ln.Addr().String())
	return nil
}

// Addr is the bound address once started
func (s *Server) Addr() string {
	if s.ln == nil {
		return s.addr
	}
	return s.ln.Addr().String()
}

// Shutdown stops the server, waiting for in-flight callbacks
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// RequestLogger logs each request at debug level
func RequestLogger(logger *log.Logger) Middleware {
	logger = utils.OrDiscard(logger)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "took", time.Since(start))
		})
	}
}
