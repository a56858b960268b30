package factory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/phishplay/phishplay-backend/internal/adapters/keyword"
	"github.com/phishplay/phishplay-backend/internal/adapters/progress"
	"github.com/phishplay/phishplay-backend/internal/config"
	"github.com/phishplay/phishplay-backend/internal/core"
	"github.com/phishplay/phishplay-backend/internal/observability"
	"github.com/phishplay/phishplay-backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newConfig(settings map[string]interface{}) *config.Config {
	v := config.NewEmptyViper()
	for k, val := range settings {
		v.Set(k, val)
	}
	return config.NewFromViper(v)
}

func TestCreateProgressRepository(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		settings map[string]interface{}
		check    func(t *testing.T, repo core.ProgressRepository)
	}{
		{
			name:     "memory",
			settings: map[string]interface{}{"progress.backend": "memory"},
			check: func(t *testing.T, repo core.ProgressRepository) {
				assert.IsType(t, &progress.MemoryRepository{}, repo)
			},
		},
		{
			name: "sqlite",
			settings: map[string]interface{}{
				"progress.backend":     "sqlite",
				"progress.sqlite_path": filepath.Join(dir, "nested", "progress.db"),
			},
			check: func(t *testing.T, repo core.ProgressRepository) {
				assert.IsType(t, &progress.SQLiteRepository{}, repo)
				repo.(*progress.SQLiteRepository).Stop()
			},
		},
		{
			name: "badger",
			settings: map[string]interface{}{
				"progress.backend":     "badger",
				"progress.badger_path": filepath.Join(dir, "badger"),
			},
			check: func(t *testing.T, repo core.ProgressRepository) {
				assert.IsType(t, &progress.BadgerRepository{}, repo)
				repo.(*progress.BadgerRepository).Stop()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, err := NewProgressFactory(newConfig(tt.settings), zap.NewNop()).CreateProgressRepository()
			require.NoError(t, err)
			tt.check(t, repo)
		})
	}
}

func TestCreateProgressRepository_Unsupported(t *testing.T) {
	_, err := NewProgressFactory(newConfig(map[string]interface{}{"progress.backend": "redis"}), zap.NewNop()).
		CreateProgressRepository()
	assert.ErrorContains(t, err, "unsupported progress backend")
}

func TestCreateScorer(t *testing.T) {
	logger := zap.NewNop()
	tp := utils.NewTextProcessor(logger)

	scorer, err := NewScorerFactory(newConfig(nil), logger, tp).CreateScorer()
	require.NoError(t, err)
	assert.IsType(t, &keyword.Scorer{}, scorer)

	_, err = NewScorerFactory(newConfig(map[string]interface{}{"scoring.provider": "openai"}), logger, tp).CreateScorer()
	assert.ErrorContains(t, err, "API key is required")

	_, err = NewScorerFactory(newConfig(map[string]interface{}{"scoring.provider": "magic"}), logger, tp).CreateScorer()
	assert.ErrorContains(t, err, "unsupported scoring provider")
}

func TestCreateDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emails.csv")
	require.NoError(t, os.WriteFile(path, []byte("sender_email,body,difficulty,is_phishing\na@b.test,hi,easy,yes\n"), 0o644))

	ds, err := NewDatasetFactory(newConfig(map[string]interface{}{"dataset.path": path}), zap.NewNop()).CreateDataset()
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Size())
}

func TestCreateEventStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "events.csv")

	store, err := NewEventsFactory(newConfig(map[string]interface{}{"events.path": path}), zap.NewNop()).CreateEventStore()
	require.NoError(t, err)
	assert.Equal(t, path, store.Path())
}

func TestCreateMailer(t *testing.T) {
	m := NewMailerFactory(newConfig(nil), zap.NewNop()).CreateMailer()
	assert.NotNil(t, m)
}

func TestCreateServer(t *testing.T) {
	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	srv, err := NewServerFactory(newConfig(nil), logger, metrics).CreateServer(nil, nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, srv)

	_, err = NewServerFactory(newConfig(map[string]interface{}{"server.type": "grpc"}), logger, metrics).
		CreateServer(nil, nil, nil)
	assert.ErrorContains(t, err, "unsupported server type")
}
