package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ScoringService is the core service for phishing-likelihood scoring
type ScoringService struct {
	scorer    Scorer
	logger    *zap.Logger
	threshold float64
}

// NewScoringService creates a new scoring service
func NewScoringService(scorer Scorer, logger *zap.Logger, threshold float64) *ScoringService {
	return &ScoringService{
		scorer:    scorer,
		logger:    logger,
		threshold: threshold,
	}
}

// Score scores text and stamps the configured threshold on the result
func (s *ScoringService) Score(ctx context.Context, text string) (*ScoreResult, error) {
	start := time.Now()
	result, err := s.scorer.ScoreText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to score text: %w", err)
	}

	result.Threshold = s.threshold
	if result.Cues == nil {
		result.Cues = map[string]bool{}
	}
	if result.TopTokens == nil {
		result.TopTokens = []string{}
	}

	s.logger.Debug("Scored text",
		zap.Float64("score", result.Score),
		zap.String("model", result.ModelUsed),
		zap.Duration("duration", time.Since(start)))

	return result, nil
}

// IsPhishing determines whether a result crosses the threshold
func (s *ScoringService) IsPhishing(result *ScoreResult) bool {
	return result.Score >= s.threshold
}

// Threshold returns the configured threshold
func (s *ScoringService) Threshold() float64 {
	return s.threshold
}
