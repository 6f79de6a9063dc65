package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"leagueforecast/internal/middleware"
	transport "leagueforecast/internal/transport/http"
)

// Server hosts the report API
type Server struct {
	env    *Environment
	server *http.Server
	logger *slog.Logger
}

// NewServer builds the router and HTTP server around store
func NewServer(env *Environment, store transport.Store) (*Server, error) {
	telemetry, err := middleware.NewOTelMiddleware(env.OTel.Tracer, env.OTel.Meter, env.Logger)
	if err != nil {
		return nil, err
	}

	var metrics http.Handler
	if env.OTel.Registry != nil {
		metrics = env.OTel.MetricsHandler()
	}

	cfg := env.Config.Server
	router := transport.NewRouter(transport.RouterDeps{
		Store:        store,
		Logger:       env.Logger,
		Version:      Version,
		Metrics:      metrics,
		Telemetry:    telemetry,
		RateLimit:    cfg.RateLimit,
		RateBurst:    cfg.RateBurst,
		Timeout:      cfg.RequestTimeout,
		IncludeStack: env.Config.Logging.Development,
	})

	return &Server{
		env: env,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		logger: env.Logger.With(slog.String("component", "server")),
	}, nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Run serves on the configured port until ctx is cancelled, then shuts down
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "report server listening", slog.String("address", ln.Addr().String()))
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down report server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.env.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return nil
}
