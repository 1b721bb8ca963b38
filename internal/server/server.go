// =============================================================================
// Fixture Converter - HTTP Server
// =============================================================================
//
// This module serves the upload form and the two conversion endpoints.
//
// ROUTES:
//   GET  /                      Upload page
//   GET  /healthz               Liveness check
//   POST /api/convert/preview   Original and converted rows as JSON
//   POST /api/convert           Converted file download (CSV or XLSX)
//
// Every request is handled independently; the server keeps no state between
// requests beyond its read-only configuration.
//
// =============================================================================

package server

import (
	"context"
	"net"
	"net/http"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/wscc/fixture-converter/internal/config"
	"github.com/wscc/fixture-converter/internal/converter"
)

// Server is the HTTP front end of the converter.
type Server struct {
	cfg       *config.MainConfig
	converter *converter.Converter
	logger    zerolog.Logger
	handler   http.Handler
}

// New creates a Server from the loaded configuration.
func New(cfg *config.MainConfig, logger zerolog.Logger) *Server {
	s := &Server{
		cfg: cfg,
		converter: converter.New(converter.Options{
			ClubName: cfg.Conversion.ClubName,
			Strict:   cfg.Conversion.Strict,
		}),
		logger: logger,
	}
	s.handler = s.routes()
	return s
}

// Handler returns the root handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /api/convert/preview", s.handlePreview)
	mux.HandleFunc("POST /api/convert", s.handleConvert)

	return s.withRequestID(s.withAccessLog(s.withRecover(mux)))
}

// Run serves HTTP on the configured address until ctx is cancelled, then
// shuts down gracefully.
//
// PARAMETERS:
//   - ctx: Cancelling ctx starts the shutdown.
//
// RETURNS:
//   - nil after a clean shutdown, or the listen/serve error.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.ListenAddr)
	if err != nil {
		return errors.Errorf("failed to listen on %s: %w", s.cfg.Server.ListenAddr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return s.logger.WithContext(context.Background()) },
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()

		s.logger.Info().Msg("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Errorf("shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}
