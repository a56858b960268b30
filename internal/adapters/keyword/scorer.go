package keyword

import (
	"context"
	"strings"

	"github.com/phishplay/phishplay-backend/internal/core"
	"go.uber.org/zap"
)

// Cue names reported by the keyword scorer
const (
	CueUrgency      = "urgency"
	CueLinkMismatch = "link_mismatch"
	CuePIIRequest   = "pii_request"
)

const (
	phishingScore = 0.9
	benignScore   = 0.1
	topTokenCount = 3
)

// Scorer is a keyword heuristic implementation of the Scorer interface.
// It is a placeholder for a trained model.
type Scorer struct {
	logger *zap.Logger
}

var _ core.Scorer = (*Scorer)(nil)

// NewScorer creates a new keyword scorer
func NewScorer(logger *zap.Logger) *Scorer {
	return &Scorer{logger: logger}
}

// ScoreText scores text by looking for a handful of phishing keywords
func (s *Scorer) ScoreText(ctx context.Context, text string) (*core.ScoreResult, error) {
	lower := strings.ToLower(text)

	score := benignScore
	if strings.Contains(lower, "verify") || strings.Contains(lower, "password") {
		score = phishingScore
	}

	tokens := strings.Fields(lower)
	if len(tokens) > topTokenCount {
		tokens = tokens[:topTokenCount]
	}

	return &core.ScoreResult{
		Score:     score,
		TopTokens: tokens,
		Cues: map[string]bool{
			CueUrgency:      strings.Contains(lower, "verify"),
			CueLinkMismatch: strings.Contains(lower, "http"),
			CuePIIRequest:   strings.Contains(lower, "password"),
		},
		ModelUsed: "keyword",
	}, nil
}
