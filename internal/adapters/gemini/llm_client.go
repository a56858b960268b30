package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/phishplay/phishplay-backend/internal/adapters/llmscore"
	"github.com/phishplay/phishplay-backend/internal/core"
	"github.com/phishplay/phishplay-backend/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// contentGenerator is satisfied by *genai.GenerativeModel
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiScorer is an implementation of the Scorer interface using Google Gemini
type GeminiScorer struct {
	client        *genai.Client
	model         contentGenerator
	modelName     string
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

var _ core.Scorer = (*GeminiScorer)(nil)

// NewGeminiScorer creates a new Gemini scorer
func NewGeminiScorer(
	ctx context.Context,
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) (*GeminiScorer, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.SystemInstruction = genai.NewUserContent(genai.Text(llmscore.SystemPrompt))
	model.ResponseMIMEType = "application/json"

	scorer := newGeminiScorer(model, modelName, maxBodySize, logger, textProcessor)
	scorer.client = client
	return scorer, nil
}

func newGeminiScorer(model contentGenerator, modelName string, maxBodySize int, logger *zap.Logger, textProcessor *utils.TextProcessor) *GeminiScorer {
	return &GeminiScorer{
		model:         model,
		modelName:     modelName,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// Close closes the Gemini client
func (c *GeminiScorer) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// ScoreText asks Gemini to score text
func (c *GeminiScorer) ScoreText(ctx context.Context, text string) (*core.ScoreResult, error) {
	prompt := llmscore.BuildPrompt(c.textProcessor.ProcessText(text, c.maxBodySize))

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	if sb.Len() == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	return llmscore.ParseReply(sb.String(), c.modelName)
}
