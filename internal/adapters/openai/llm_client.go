package openai

import (
	"context"
	"fmt"

	"github.com/phishplay/phishplay-backend/internal/adapters/llmscore"
	"github.com/phishplay/phishplay-backend/internal/core"
	"github.com/phishplay/phishplay-backend/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// chatCompleter is the slice of the OpenAI client the scorer needs
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIScorer is an implementation of the Scorer interface using OpenAI chat completions
type OpenAIScorer struct {
	client        chatCompleter
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

var _ core.Scorer = (*OpenAIScorer)(nil)

// NewOpenAIScorer creates a new OpenAI scorer
func NewOpenAIScorer(
	client chatCompleter,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *OpenAIScorer {
	return &OpenAIScorer{
		client:        client,
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// ScoreText asks the model to score text
func (c *OpenAIScorer) ScoreText(ctx context.Context, text string) (*core.ScoreResult, error) {
	prompt := llmscore.BuildPrompt(c.textProcessor.ProcessText(text, c.maxBodySize))

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: llmscore.SystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	result, err := llmscore.ParseReply(resp.Choices[0].Message.Content, c.modelName)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("OpenAI scored text",
		zap.String("completion_id", resp.ID),
		zap.Float64("score", result.Score))

	return result, nil
}
