package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Server runs the API until its context is cancelled.
type Server struct {
	srv             *http.Server
	logger          zerolog.Logger
	shutdownTimeout time.Duration
}

// NewServer creates a server for handler on addr.
func NewServer(addr string, handler http.Handler, shutdownTimeout time.Duration, logger zerolog.Logger) *Server {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger:          logger.With().Str("component", "http").Logger(),
		shutdownTimeout: shutdownTimeout,
	}
}

// Run listens on the configured address and shuts down gracefully when ctx
// is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on a pre-created listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("Starting HTTP server")
		errCh <- s.srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info().Msg("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
