package gemini

import (
	"context"
	"fmt"

	"github.com/phishplay/phishplay-backend/internal/config"
	"github.com/phishplay/phishplay-backend/internal/utils"
	"go.uber.org/zap"
)

// Factory creates new instances of GeminiScorer
type Factory struct {
	cfg           config.LLMConfig
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewFactory creates a new factory for GeminiScorer instances
func NewFactory(cfg config.LLMConfig, logger *zap.Logger, textProcessor *utils.TextProcessor) *Factory {
	return &Factory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateScorer creates a new GeminiScorer
func (f *Factory) CreateScorer(ctx context.Context) (*GeminiScorer, error) {
	if f.cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	return NewGeminiScorer(
		ctx,
		f.cfg.APIKey,
		f.cfg.ModelName,
		f.cfg.MaxTokens,
		f.cfg.Temperature,
		f.cfg.TopP,
		f.cfg.MaxBodySize,
		f.logger,
		f.textProcessor,
	)
}
