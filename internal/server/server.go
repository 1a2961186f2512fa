// Package server exposes a Monado connection over an HTTP JSON API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	libmonado "github.com/technobaboo/libmonado-go"
	"github.com/technobaboo/libmonado-go/internal/exporter"
)

// Server serves the API for one Monado connection.
type Server struct {
	m        *libmonado.Monado
	exporter *exporter.Exporter
	logger   *slog.Logger
}

// New returns a server for m. The exporter may be nil, in which case
// /metrics is not served.
func New(m *libmonado.Monado, exp *exporter.Exporter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{m: m, exporter: exp, logger: logger.With("module", "http")}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(s.loggingMiddleware)

	r.Get("/healthz", s.healthz)
	if s.exporter != nil {
		r.Method(http.MethodGet, "/metrics", s.exporter.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/snapshot", s.snapshot)

		r.Get("/clients", s.listClients)
		r.Post("/clients/{id}/primary", s.setClientPrimary)
		r.Post("/clients/{id}/focus", s.setClientFocused)
		r.Put("/clients/{id}/io", s.setClientIO)

		r.Get("/devices", s.listDevices)
		r.Get("/devices/{index}", s.getDevice)
		r.Put("/devices/{index}/brightness", s.setBrightness)
		r.Get("/roles/{role}", s.getRole)

		r.Get("/origins", s.listOrigins)
		r.Put("/origins/{id}/offset", s.setOriginOffset)
		r.Get("/spaces/{type}", s.getSpace)
		r.Put("/spaces/{type}", s.setSpace)
		r.Post("/recenter", s.recenter)

		r.Put("/chroma-key", s.setChromaKey)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "not_found", "no such route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
