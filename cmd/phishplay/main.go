package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/phishplay/phishplay-backend/internal/core"
	"github.com/phishplay/phishplay-backend/internal/di"
	"github.com/phishplay/phishplay-backend/internal/ports"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	server ports.Server,
	dataset core.Dataset,
	scorer core.Scorer,
	progressRepo core.ProgressRepository,
) error {
	defer logger.Sync()

	logger.Info("Loaded scenario dataset", zap.Int("records", dataset.Size()))

	// Start the server
	if err := server.Start(); err != nil {
		logger.Error("Failed to start server", zap.Error(err))
		return err
	}

	var serveErr <-chan error
	if reporter, ok := server.(interface{ Errors() <-chan error }); ok {
		serveErr = reporter.Errors()
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigCh:
		logger.Info("Shutting down...", zap.String("signal", sig.String()))
	case err, ok := <-serveErr:
		if ok {
			runErr = err
		}
		logger.Info("Server stopped, shutting down...")
	}

	// Stop the server
	if err := server.Stop(); err != nil {
		logger.Error("Failed to stop server", zap.Error(err))
	}

	// Close any resources that need closing
	if closer, ok := scorer.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close scorer", zap.Error(err))
		}
	}

	// Stop the progress repository if needed
	if stopper, ok := progressRepo.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	logger.Info("Shutdown complete")
	return runErr
}
