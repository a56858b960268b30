package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/phishplay/phishplay-backend/internal/config"
	"github.com/phishplay/phishplay-backend/internal/core"
	"github.com/phishplay/phishplay-backend/internal/factory"
	"github.com/phishplay/phishplay-backend/internal/logging"
	"github.com/phishplay/phishplay-backend/internal/observability"
	"github.com/phishplay/phishplay-backend/internal/ports"
	"github.com/phishplay/phishplay-backend/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register metrics
	if err := container.Provide(observability.NewMetrics); err != nil {
		return nil, err
	}

	if err := provideCore(container); err != nil {
		return nil, err
	}

	// Register server
	if err := container.Provide(factory.NewServerFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(
		f *factory.ServerFactory,
		tracker *core.ProgressTracker,
		events *core.EventLogger,
		scoring *core.ScoringService,
	) (ports.Server, error) {
		return f.CreateServer(tracker, events, scoring)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// provideCore registers the factories, adapters and core services shared by the server and the CLI
func provideCore(container *dig.Container) error {
	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return err
	}

	// Register factories
	if err := container.Provide(factory.NewScorerFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewProgressFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewDatasetFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewEventsFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewMailerFactory); err != nil {
		return err
	}

	// Register adapters
	if err := container.Provide(func(f *factory.DatasetFactory) (core.Dataset, error) {
		return f.CreateDataset()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.ProgressFactory) (core.ProgressRepository, error) {
		return f.CreateProgressRepository()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.EventsFactory) (core.EventStore, error) {
		return f.CreateEventStore()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.ScorerFactory) (core.Scorer, error) {
		return f.CreateScorer()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.MailerFactory) core.Mailer {
		return f.CreateMailer()
	}); err != nil {
		return err
	}

	// Register core services
	if err := container.Provide(core.NewProgressTracker); err != nil {
		return err
	}
	if err := container.Provide(core.NewEventLogger); err != nil {
		return err
	}
	if err := container.Provide(func(scorer core.Scorer, logger *zap.Logger, cfg *config.Config) *core.ScoringService {
		return core.NewScoringService(scorer, logger, cfg.GetScoring().Threshold)
	}); err != nil {
		return err
	}

	return nil
}
