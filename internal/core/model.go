package core

import (
	"strings"
	"time"
)

// EmailRecord represents one simulated phishing (or legitimate) email from the scenario dataset
type EmailRecord struct {
	Index      int
	ID         string
	Theme      string
	Sender     string
	Subject    string
	Body       string
	Cues       []string
	Difficulty string
	IsPhishing bool
}

// EventSubmission is a user action as submitted by the client
type EventSubmission struct {
	UserID           string
	Action           string
	Score            float64
	MessageHash      string
	SelectedElements []string
}

// EventRecord is one row of the append-only interaction log
type EventRecord struct {
	Timestamp        time.Time
	UserID           string
	Action           string
	Score            float64
	MessageHash      string
	EventID          string
	SelectedElements []string
}

// ScoreResult represents the result of scoring free text for phishing likelihood
type ScoreResult struct {
	Score     float64
	TopTokens []string
	Cues      map[string]bool
	Threshold float64
	ModelUsed string
}

// CleanCues trims every cue and drops blank entries, preserving order
func CleanCues(cues []string) []string {
	cleaned := make([]string, 0, len(cues))
	for _, cue := range cues {
		cue = strings.TrimSpace(cue)
		if cue == "" {
			continue
		}
		cleaned = append(cleaned, cue)
	}
	return cleaned
}
