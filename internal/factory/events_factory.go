package factory

import (
	"github.com/phishplay/phishplay-backend/internal/adapters/eventlog"
	"github.com/phishplay/phishplay-backend/internal/config"
	"go.uber.org/zap"
)

// EventsFactory creates the event store
type EventsFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewEventsFactory creates a new events factory
func NewEventsFactory(cfg *config.Config, logger *zap.Logger) *EventsFactory {
	return &EventsFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateEventStore creates the CSV event store
func (f *EventsFactory) CreateEventStore() (*eventlog.CSVStore, error) {
	eventsCfg := f.cfg.GetEvents()
	return eventlog.NewCSVStore(eventsCfg.Path, eventsCfg.Fsync, f.logger)
}
