package cli

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/phishplay/phishplay-backend/internal/core"
)

// Presenter renders command results for a terminal
type Presenter struct {
	out     io.Writer
	verbose bool
}

// NewPresenter creates a new presenter writing to out
func NewPresenter(out io.Writer, verbose bool) *Presenter {
	return &Presenter{out: out, verbose: verbose}
}

// Score prints a scoring result
func (p *Presenter) Score(text string, result *core.ScoreResult, phishing bool, took time.Duration) {
	fmt.Fprintf(p.out, "\n=== Input ===\n")
	fmt.Fprintf(p.out, "Length: %d bytes\n", len(text))
	if p.verbose {
		preview := text
		if len(preview) > 500 {
			preview = preview[:500] + "..."
		}
		fmt.Fprintf(p.out, "\nPreview:\n%s\n", preview)
	}

	fmt.Fprintf(p.out, "\n=== Results ===\n")
	fmt.Fprintf(p.out, "Phishing: %t\n", phishing)
	fmt.Fprintf(p.out, "Score: %.4f (threshold %.2f)\n", result.Score, result.Threshold)
	fmt.Fprintf(p.out, "Top tokens: %v\n", result.TopTokens)

	cues := make([]string, 0, len(result.Cues))
	for name := range result.Cues {
		cues = append(cues, name)
	}
	sort.Strings(cues)
	for _, name := range cues {
		fmt.Fprintf(p.out, "  %-14s %t\n", name, result.Cues[name])
	}

	if result.ModelUsed != "" {
		fmt.Fprintf(p.out, "Model used: %s\n", result.ModelUsed)
	}
	fmt.Fprintf(p.out, "Processing time: %v\n", took)
}

// DatasetSummary prints the outcome of a dataset validation
func (p *Presenter) DatasetSummary(path string, size, phishing int, themes map[string]int) {
	fmt.Fprintf(p.out, "Dataset: %s\n", path)
	fmt.Fprintf(p.out, "Records: %d (%d phishing, %d legitimate)\n", size, phishing, size-phishing)

	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(p.out, "  %-20s %d\n", name, themes[name])
	}
}

// Delivered prints a delivery confirmation
func (p *Presenter) Delivered(to string, record core.EmailRecord) {
	fmt.Fprintf(p.out, "Delivered scenario %s (%q) to %s\n", record.ID, record.Subject, to)
}

// Event prints one event log row
func (p *Presenter) Event(e core.EventRecord) {
	fmt.Fprintf(p.out, "%s %-12s %-10s %.3f %s\n",
		e.Timestamp.Format(time.RFC3339), e.UserID, e.Action, e.Score, e.EventID[:min(12, len(e.EventID))])
}
