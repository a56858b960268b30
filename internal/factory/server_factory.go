package factory

import (
	"fmt"

	"github.com/phishplay/phishplay-backend/internal/adapters/api"
	"github.com/phishplay/phishplay-backend/internal/config"
	"github.com/phishplay/phishplay-backend/internal/core"
	"github.com/phishplay/phishplay-backend/internal/observability"
	"github.com/phishplay/phishplay-backend/internal/ports"
	"go.uber.org/zap"
)

// ServerFactory creates the front-facing server based on configuration
type ServerFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewServerFactory creates a new server factory
func NewServerFactory(cfg *config.Config, logger *zap.Logger, metrics *observability.Metrics) *ServerFactory {
	return &ServerFactory{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
	}
}

// CreateServer creates the server named by server.type
func (f *ServerFactory) CreateServer(
	tracker *core.ProgressTracker,
	events *core.EventLogger,
	scoring *core.ScoringService,
) (ports.Server, error) {
	serverCfg, err := f.cfg.GetServer()
	if err != nil {
		return nil, err
	}

	switch serverCfg.Type {
	case "http":
		handler := api.NewHandler(tracker, events, scoring, f.metrics, f.logger)
		router := api.SetupRouter(handler, f.metrics, api.RouterOptions{
			CORSOrigins:    serverCfg.CORSOrigins,
			MetricsEnabled: serverCfg.MetricsEnabled,
		}, f.logger)

		return api.NewServer(
			router,
			serverCfg.ListenAddress,
			serverCfg.ReadTimeout,
			serverCfg.WriteTimeout,
			serverCfg.ShutdownTimeout,
			f.logger,
		), nil
	default:
		return nil, fmt.Errorf("unsupported server type: %s", serverCfg.Type)
	}
}
