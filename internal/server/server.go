// Package server wraps http.Server with the timeouts and shutdown
// behavior the bridge needs. Start returns immediately; the caller owns
// the shutdown signal and deadline.
package server

import (
	"context"
	"net/http"
	"time"
)

// Server is the bridge's HTTP listener.
type Server struct {
	srv *http.Server
}

// New creates a server for the given handler on the given port.
func New(handler http.Handler, port string) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         ":" + port,
			Handler:      handler,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
	}
}

// Start begins serving in a goroutine and returns immediately.
func (s *Server) Start() error {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()
	return nil
}

// Shutdown stops the server, waiting for in-flight requests up to the
// context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
