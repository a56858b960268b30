package openai

import (
	"fmt"

	"github.com/phishplay/phishplay-backend/internal/config"
	"github.com/phishplay/phishplay-backend/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Factory creates new instances of OpenAIScorer
type Factory struct {
	cfg           config.LLMConfig
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewFactory creates a new factory for OpenAIScorer instances
func NewFactory(cfg config.LLMConfig, logger *zap.Logger, textProcessor *utils.TextProcessor) *Factory {
	return &Factory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateScorer creates a new OpenAIScorer
func (f *Factory) CreateScorer() (*OpenAIScorer, error) {
	if f.cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	client := openai.NewClient(f.cfg.APIKey)

	return NewOpenAIScorer(
		client,
		f.cfg.ModelName,
		f.cfg.MaxTokens,
		f.cfg.Temperature,
		f.cfg.TopP,
		f.cfg.MaxBodySize,
		f.logger,
		f.textProcessor,
	), nil
}
