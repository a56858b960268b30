package openai

import (
	"context"
	"errors"
	"testing"

	"github.com/phishplay/phishplay-backend/internal/config"
	"github.com/phishplay/phishplay-backend/internal/utils"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockChatCompleter struct {
	mock.Mock
}

func (m *MockChatCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(openai.ChatCompletionResponse), args.Error(1)
}

func newTestScorer(client chatCompleter) *OpenAIScorer {
	logger := zap.NewNop()
	return NewOpenAIScorer(client, "gpt-test", 100, 0.1, 0.9, 64, logger, utils.NewTextProcessor(logger))
}

func TestScoreText(t *testing.T) {
	client := new(MockChatCompleter)
	reply := openai.ChatCompletionResponse{
		ID: "cmpl-1",
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: `{"score":0.8,"top_tokens":["verify"],"cues":{"urgency":true}}`}},
		},
	}
	client.On("CreateChatCompletion", mock.Anything, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
		return req.Model == "gpt-test" && len(req.Messages) == 2
	})).Return(reply, nil)

	result, err := newTestScorer(client).ScoreText(context.Background(), "please verify your account")
	require.NoError(t, err)

	assert.InDelta(t, 0.8, result.Score, 1e-9)
	assert.Equal(t, []string{"verify"}, result.TopTokens)
	assert.Equal(t, "gpt-test", result.ModelUsed)
	client.AssertExpectations(t)
}

func TestScoreText_Errors(t *testing.T) {
	t.Run("api failure", func(t *testing.T) {
		client := new(MockChatCompleter)
		client.On("CreateChatCompletion", mock.Anything, mock.Anything).
			Return(openai.ChatCompletionResponse{}, errors.New("rate limited"))

		_, err := newTestScorer(client).ScoreText(context.Background(), "x")
		assert.ErrorContains(t, err, "rate limited")
	})

	t.Run("no choices", func(t *testing.T) {
		client := new(MockChatCompleter)
		client.On("CreateChatCompletion", mock.Anything, mock.Anything).
			Return(openai.ChatCompletionResponse{}, nil)

		_, err := newTestScorer(client).ScoreText(context.Background(), "x")
		assert.ErrorContains(t, err, "empty response")
	})
}

func TestFactory_RequiresAPIKey(t *testing.T) {
	logger := zap.NewNop()
	_, err := NewFactory(config.LLMConfig{}, logger, utils.NewTextProcessor(logger)).CreateScorer()
	assert.Error(t, err)
}
