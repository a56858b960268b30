package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/phishplay/phishplay-backend/internal/adapters/cli"
	"github.com/phishplay/phishplay-backend/internal/adapters/eml"
	"github.com/phishplay/phishplay-backend/internal/adapters/eventlog"
	"github.com/phishplay/phishplay-backend/internal/config"
	"github.com/phishplay/phishplay-backend/internal/core"
	"github.com/phishplay/phishplay-backend/internal/di"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flags = &di.CLIFlags{}

	// score input flags
	inputFile string
	emlInput  bool

	// deliver flags
	deliverUser string
	deliverTo   string

	rootCmd = &cobra.Command{
		Use:           "phishplay-cli",
		Short:         "Operator tooling for the PhishPlay training backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	scoreCmd = &cobra.Command{
		Use:   "score [text]",
		Short: "Score text, a file, or a raw .eml message for phishing likelihood",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScore,
	}

	datasetCmd = &cobra.Command{
		Use:   "dataset",
		Short: "Inspect the scenario dataset",
	}
	datasetValidateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Load the configured dataset and report its contents",
		Args:  cobra.NoArgs,
		RunE:  runDatasetValidate,
	}

	deliverCmd = &cobra.Command{
		Use:   "deliver",
		Short: "Send a user's next scenario email to a real mailbox over SMTP",
		Args:  cobra.NoArgs,
		RunE:  runDeliver,
	}

	eventsCmd = &cobra.Command{
		Use:   "events",
		Short: "Print the recorded interaction events",
		Args:  cobra.NoArgs,
		RunE:  runEvents,
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.ConfigFile, "config", "", "Path to config file")
	pf.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	pf.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	pf.StringVar(&flags.DatasetPath, "dataset", "", "Scenario dataset CSV (overrides dataset.path)")
	pf.StringVar(&flags.ProgressBackend, "progress-backend", "", "Progress backend: memory, sqlite, mysql, badger")
	pf.StringVar(&flags.EventsPath, "events", "", "Event log CSV (overrides events.path)")

	sf := scoreCmd.Flags()
	sf.StringVar(&flags.Provider, "provider", "", "Scoring provider (keyword, openai, gemini, bedrock)")
	sf.Float64Var(&flags.Threshold, "threshold", 0, "Phishing threshold (overrides scoring.threshold)")
	sf.IntVar(&flags.MaxTokens, "max-tokens", 0, "Maximum tokens for LLM response")
	sf.Float64Var(&flags.Temperature, "temperature", 0, "Temperature for LLM generation")
	sf.Float64Var(&flags.TopP, "top-p", 0, "Top-p for LLM generation")
	sf.IntVar(&flags.MaxBodySize, "max-body-size", 0, "Maximum text size sent to the LLM")
	sf.StringVar(&flags.BedrockRegion, "bedrock-region", "", "AWS region for Bedrock")
	sf.StringVar(&flags.BedrockModelID, "bedrock-model", "", "Bedrock model ID")
	sf.StringVar(&flags.GeminiAPIKey, "gemini-api-key", "", "API key for Google Gemini")
	sf.StringVar(&flags.GeminiModelName, "gemini-model", "", "Gemini model name")
	sf.StringVar(&flags.OpenAIAPIKey, "openai-api-key", "", "API key for OpenAI")
	sf.StringVar(&flags.OpenAIModelName, "openai-model", "", "OpenAI model name")
	sf.StringVar(&inputFile, "file", "", "Read input from file instead of the argument or stdin")
	sf.BoolVar(&emlInput, "eml", false, "Treat input as a raw RFC 5322 message")

	df := deliverCmd.Flags()
	df.StringVar(&deliverUser, "user", "", "User whose next scenario is delivered")
	df.StringVar(&deliverTo, "to", "", "Recipient address (must be on delivery.allowed_domains)")
	_ = deliverCmd.MarkFlagRequired("user")
	_ = deliverCmd.MarkFlagRequired("to")

	datasetCmd.AddCommand(datasetValidateCmd)
	rootCmd.AddCommand(scoreCmd, datasetCmd, deliverCmd, eventsCmd)
}

// invoke builds the CLI container and runs fn with its dependencies
func invoke(fn interface{}) error {
	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		return fmt.Errorf("failed to build dependency container: %w", err)
	}

	defer func() {
		_ = container.Invoke(func(logger *zap.Logger) { _ = logger.Sync() })
	}()

	return container.Invoke(fn)
}

func runScore(cmd *cobra.Command, args []string) error {
	text, err := readScoreInput(args, inputFile, emlInput, cmd.InOrStdin())
	if err != nil {
		return err
	}

	return invoke(func(scoring *core.ScoringService, scorer core.Scorer, p *cli.Presenter) error {
		defer func() {
			if closer, ok := scorer.(interface{ Close() error }); ok {
				_ = closer.Close()
			}
		}()

		start := time.Now()
		result, err := scoring.Score(cmd.Context(), text)
		if err != nil {
			return err
		}

		p.Score(text, result, scoring.IsPhishing(result), time.Since(start))
		return nil
	})
}

// readScoreInput resolves the text to score from an argument, a file or stdin
func readScoreInput(args []string, file string, asEML bool, stdin io.Reader) (string, error) {
	var r io.Reader
	switch {
	case len(args) == 1 && file != "":
		return "", fmt.Errorf("pass either text or --file, not both")
	case len(args) == 1:
		r = strings.NewReader(args[0])
	case file != "":
		f, err := os.Open(file)
		if err != nil {
			return "", fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()
		r = f
	default:
		r = bufio.NewReader(stdin)
	}

	if asEML {
		msg, err := eml.Read(r)
		if err != nil {
			return "", err
		}
		return msg.Text(), nil
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	text := strings.TrimSpace(string(b))
	if text == "" {
		return "", fmt.Errorf("no text to score")
	}
	return text, nil
}

func runDatasetValidate(cmd *cobra.Command, args []string) error {
	return invoke(func(ds core.Dataset, cfg *config.Config, p *cli.Presenter) {
		phishing, themes := summarizeDataset(ds)
		p.DatasetSummary(cfg.GetDataset().Path, ds.Size(), phishing, themes)
	})
}

// summarizeDataset counts phishing records and records per theme
func summarizeDataset(ds core.Dataset) (int, map[string]int) {
	phishing := 0
	themes := make(map[string]int)
	for i := 0; i < ds.Size(); i++ {
		record, ok := ds.Get(i)
		if !ok {
			continue
		}
		if record.IsPhishing {
			phishing++
		}
		themes[record.Theme]++
	}
	return phishing, themes
}

func runDeliver(cmd *cobra.Command, args []string) error {
	return invoke(func(tracker *core.ProgressTracker, mailer core.Mailer, repo core.ProgressRepository, p *cli.Presenter) error {
		defer func() {
			if stopper, ok := repo.(interface{ Stop() }); ok {
				stopper.Stop()
			}
		}()

		record, err := deliverNext(cmd.Context(), tracker, mailer, deliverUser, deliverTo)
		if err != nil {
			return err
		}

		p.Delivered(deliverTo, record)
		return nil
	})
}

// deliverNext sends the user's next scenario to to. The recipient is checked
// before the cursor moves so a refused address leaves progress untouched.
func deliverNext(ctx context.Context, tracker *core.ProgressTracker, mailer core.Mailer, user, to string) (core.EmailRecord, error) {
	if err := mailer.CanDeliver(to); err != nil {
		return core.EmailRecord{}, err
	}

	record, err := tracker.NextFor(ctx, user)
	if err != nil {
		return core.EmailRecord{}, err
	}

	if err := mailer.Deliver(ctx, to, record); err != nil {
		return core.EmailRecord{}, err
	}

	return record, nil
}

func runEvents(cmd *cobra.Command, args []string) error {
	return invoke(func(cfg *config.Config, p *cli.Presenter) error {
		f, err := os.Open(cfg.GetEvents().Path)
		if err != nil {
			return fmt.Errorf("failed to open event log: %w", err)
		}
		defer f.Close()

		events, err := eventlog.ReadAll(f)
		if err != nil {
			return err
		}

		for _, e := range events {
			p.Event(e)
		}
		return nil
	})
}
