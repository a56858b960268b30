package factory

import (
	"context"
	"fmt"

	"github.com/phishplay/phishplay-backend/internal/adapters/bedrock"
	"github.com/phishplay/phishplay-backend/internal/adapters/gemini"
	"github.com/phishplay/phishplay-backend/internal/adapters/keyword"
	"github.com/phishplay/phishplay-backend/internal/adapters/openai"
	"github.com/phishplay/phishplay-backend/internal/config"
	"github.com/phishplay/phishplay-backend/internal/core"
	"github.com/phishplay/phishplay-backend/internal/utils"
	"go.uber.org/zap"
)

// ScorerFactory creates scorers
type ScorerFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewScorerFactory creates a new scorer factory
func NewScorerFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *ScorerFactory {
	return &ScorerFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateScorer creates a new scorer based on the configuration
func (f *ScorerFactory) CreateScorer() (core.Scorer, error) {
	provider := f.cfg.GetScoring().Provider

	switch provider {
	case "keyword":
		return keyword.NewScorer(f.logger), nil
	case "openai":
		return openai.NewFactory(f.cfg.GetLLM("openai"), f.logger, f.textProcessor).CreateScorer()
	case "gemini":
		return gemini.NewFactory(f.cfg.GetLLM("gemini"), f.logger, f.textProcessor).CreateScorer(context.Background())
	case "bedrock":
		return bedrock.NewFactory(f.cfg.GetBedrock(), f.logger, f.textProcessor).CreateScorer(context.Background())
	default:
		return nil, fmt.Errorf("unsupported scoring provider: %s", provider)
	}
}
