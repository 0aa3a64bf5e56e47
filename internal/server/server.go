// Package server exposes the wiki mirror over HTTP so the CLI (or any other
// client) can clone a wiki and read its pages.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quantmind-br/repotxt/internal/utils"
)

const shutdownTimeout = 5 * time.Second

// Options configures a Server
type Options struct {
	Port        int
	FrontendURL string
	Mirror      Mirror
	Logger      *utils.Logger
}

// Server is the wiki companion service
type Server struct {
	engine *gin.Engine
	addr   string
	logger *utils.Logger
}

// New builds the Gin engine with middleware and routes
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}
	logger = logger.WithComponent("server")

	engine := gin.New()
	engine.Use(gin.Recovery(), RequestLogger(logger), CORS(opts.FrontendURL))
	RegisterRoutes(engine, opts.Mirror, logger)

	return &Server{
		engine: engine,
		addr:   fmt.Sprintf(":%d", opts.Port),
		logger: logger,
	}
}

// Handler returns the HTTP handler of the service
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.addr
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.addr).Msg("Wiki service listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info().Msg("Shutting down wiki service")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
