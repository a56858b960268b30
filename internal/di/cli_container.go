package di

import (
	"os"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/phishplay/phishplay-backend/internal/adapters/cli"
	"github.com/phishplay/phishplay-backend/internal/config"
	"github.com/phishplay/phishplay-backend/internal/logging"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Scoring flags
	Provider    string
	Threshold   float64
	MaxTokens   int
	Temperature float64
	TopP        float64
	MaxBodySize int

	// Bedrock flags
	BedrockRegion  string
	BedrockModelID string

	// Gemini flags
	GeminiAPIKey    string
	GeminiModelName string

	// OpenAI flags
	OpenAIAPIKey    string
	OpenAIModelName string

	// Data flags
	DatasetPath     string
	ProgressBackend string
	EventsPath      string

	// Output flags
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.NewFromFile(flags.ConfigFile)
			if err != nil {
				return nil, err
			}
			logger.Debug("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			applyFlags(cfg, flags)
			return cfg, nil
		}

		cfg, err := config.New()
		if err != nil {
			return nil, err
		}
		applyFlags(cfg, flags)
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	// Register presenter
	if err := container.Provide(func(flags *CLIFlags) *cli.Presenter {
		return cli.NewPresenter(os.Stdout, flags.Verbose)
	}); err != nil {
		return nil, err
	}

	if err := provideCore(container); err != nil {
		return nil, err
	}

	return container, nil
}

// applyFlags overrides configuration with the flags that were set
func applyFlags(cfg *config.Config, flags *CLIFlags) {
	v := cfg.GetViper()

	setString := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}

	setString("scoring.provider", flags.Provider)
	if flags.Threshold > 0 {
		v.Set("scoring.threshold", flags.Threshold)
	}

	setString("dataset.path", flags.DatasetPath)
	setString("progress.backend", flags.ProgressBackend)
	setString("events.path", flags.EventsPath)

	setString("bedrock.region", flags.BedrockRegion)
	setString("bedrock.model_id", flags.BedrockModelID)
	setString("gemini.api_key", flags.GeminiAPIKey)
	setString("gemini.model_name", flags.GeminiModelName)
	setString("openai.api_key", flags.OpenAIAPIKey)
	setString("openai.model_name", flags.OpenAIModelName)

	// Set generation settings for the selected provider
	provider := cfg.GetScoring().Provider
	switch provider {
	case "bedrock", "gemini", "openai":
		if flags.MaxTokens > 0 {
			v.Set(provider+".max_tokens", flags.MaxTokens)
		}
		if flags.Temperature > 0 {
			v.Set(provider+".temperature", flags.Temperature)
		}
		if flags.TopP > 0 {
			v.Set(provider+".top_p", flags.TopP)
		}
		if flags.MaxBodySize > 0 {
			v.Set(provider+".max_body_size", flags.MaxBodySize)
		}
	}
}
