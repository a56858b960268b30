// Package llmscore holds the prompt and reply handling shared by the model-backed scorers.
package llmscore

import (
	"fmt"
	"strings"

	"github.com/phishplay/phishplay-backend/internal/core"
	"github.com/phishplay/phishplay-backend/internal/utils"
)

// SystemPrompt frames every scoring request
const SystemPrompt = "You are a phishing detection system. Respond only with JSON."

const promptFormat = `Analyze the following text and estimate how likely it is to be a phishing attempt.
Respond with a JSON object containing:
- score: number between 0 and 1 (higher means more likely phishing)
- top_tokens: array of up to 3 words from the text that most influenced the score
- cues: object with boolean fields urgency, link_mismatch, pii_request

Text:
%s

Respond only with the JSON object and nothing else.`

// Reply is the JSON shape requested from the model
type Reply struct {
	Score     float64         `json:"score"`
	TopTokens []string        `json:"top_tokens"`
	Cues      map[string]bool `json:"cues"`
}

// BuildPrompt renders the user prompt for already processed text
func BuildPrompt(text string) string {
	return fmt.Sprintf(promptFormat, text)
}

// ParseReply decodes a model reply into a ScoreResult, clamping the score to [0, 1]
func ParseReply(reply string, model string) (*core.ScoreResult, error) {
	var parsed Reply
	if err := utils.DecodeModelJSON(strings.TrimSpace(reply), &parsed); err != nil {
		return nil, err
	}

	score := parsed.Score
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	tokens := parsed.TopTokens
	if len(tokens) > 3 {
		tokens = tokens[:3]
	}

	return &core.ScoreResult{
		Score:     score,
		TopTokens: tokens,
		Cues:      parsed.Cues,
		ModelUsed: model,
	}, nil
}
