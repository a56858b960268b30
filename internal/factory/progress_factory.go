package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/phishplay/phishplay-backend/internal/adapters/progress"
	"github.com/phishplay/phishplay-backend/internal/config"
	"github.com/phishplay/phishplay-backend/internal/core"
	"go.uber.org/zap"
)

// ProgressFactory creates progress repositories based on configuration
type ProgressFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewProgressFactory creates a new progress factory
func NewProgressFactory(cfg *config.Config, logger *zap.Logger) *ProgressFactory {
	return &ProgressFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateProgressRepository creates a progress repository based on the configuration
func (f *ProgressFactory) CreateProgressRepository() (core.ProgressRepository, error) {
	progressCfg := f.cfg.GetProgress()

	switch progressCfg.Backend {
	case "memory":
		return progress.NewMemoryRepository(f.logger), nil
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(progressCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return progress.NewSQLiteRepository(progressCfg.SQLitePath, f.logger)
	case "mysql":
		return progress.NewMySQLRepository(progressCfg.MySQLDSN, f.logger)
	case "badger":
		return progress.NewBadgerRepository(progress.BadgerConfig{
			Path:       progressCfg.BadgerPath,
			SyncWrites: progressCfg.BadgerSyncWrites,
		}, f.logger)
	default:
		return nil, fmt.Errorf("unsupported progress backend: %s", progressCfg.Backend)
	}
}
