package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server runs the HTTP API
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	logger          *zap.Logger
	errCh           chan error
	addr            net.Addr
}

// NewServer creates a new HTTP server around router
func NewServer(router *gin.Engine, listenAddress string, readTimeout, writeTimeout, shutdownTimeout time.Duration, logger *zap.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         listenAddress,
			Handler:      router,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		shutdownTimeout: shutdownTimeout,
		logger:          logger,
		errCh:           make(chan error, 1),
	}
}

// Start binds the listen address and serves in the background
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}

	s.addr = ln.Addr()
	s.logger.Info("Starting HTTP API", zap.String("address", s.addr.String()))

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", zap.Error(err))
			s.errCh <- err
		}
		close(s.errCh)
	}()

	return nil
}

// Addr returns the bound address once started
func (s *Server) Addr() string {
	if s.addr == nil {
		return s.httpServer.Addr
	}
	return s.addr.String()
}

// Errors reports a fatal serve error; it is closed when serving stops
func (s *Server) Errors() <-chan error {
	return s.errCh
}

// Stop gracefully shuts the server down, waiting up to the shutdown timeout for in-flight requests
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.logger.Info("Stopping HTTP API")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}
	return nil
}
