// Package server implements the HTTP preview server of an image display.
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/BeatGlow/panel"
	"github.com/BeatGlow/panel/provider"
)

// Server serves an [panel.ImageDisplay] over HTTP.
type Server struct {
	e        *echo.Echo
	log      *log.Logger
	mu       sync.Mutex
	display  *panel.ImageDisplay
	revision *provider.Provider[int]
	started  time.Time
}

// New returns a server for d. A nil logger discards the request log.
func New(d *panel.ImageDisplay, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Server{
		e:       echo.New(),
		log:     logger,
		display: d,
		started: time.Now(),
	}
	s.revision = provider.New(func(rev int) {
		s.log.Debug("frame changed", "revision", rev)
	})

	s.e.HideBanner = true
	s.e.HidePort = true
	s.e.Use(RequestLogger(logger))
	registerRoutes(s.e, s)
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.e
}

// Revision returns the number of changes made to the frame since the server started.
func (s *Server) Revision() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision.Value()
}

// Serve accepts connections on l until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	s.e.Listener = l

	errs := make(chan error, 1)
	go func() {
		errs <- s.e.StartServer(s.e.Server)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.log.Info("preview server listening", "addr", l.Addr().String(), "display", s.display.String())
	return s.Serve(ctx, l)
}

// changed records a change of the frame.
func (s *Server) changed() {
	s.revision.Update(func(rev int) int { return rev + 1 })
}
