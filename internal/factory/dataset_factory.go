package factory

import (
	"github.com/phishplay/phishplay-backend/internal/adapters/dataset"
	"github.com/phishplay/phishplay-backend/internal/config"
	"go.uber.org/zap"
)

// DatasetFactory loads the scenario dataset named by configuration
type DatasetFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewDatasetFactory creates a new dataset factory
func NewDatasetFactory(cfg *config.Config, logger *zap.Logger) *DatasetFactory {
	return &DatasetFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateDataset loads and validates the configured dataset file
func (f *DatasetFactory) CreateDataset() (*dataset.Dataset, error) {
	datasetCfg := f.cfg.GetDataset()
	return dataset.LoadCSV(datasetCfg.Path, datasetCfg.DefaultTheme, f.logger)
}
