package config

import (
	"fmt"
	"time"
)

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Type            string
	ListenAddress   string
	CORSOrigins     []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MetricsEnabled  bool
}

// DatasetConfig represents the scenario dataset configuration
type DatasetConfig struct {
	Path         string
	DefaultTheme string
}

// ProgressConfig represents the progress cursor storage configuration
type ProgressConfig struct {
	Backend          string
	SQLitePath       string
	MySQLDSN         string
	BadgerPath       string
	BadgerSyncWrites bool
}

// EventsConfig represents the event log configuration
type EventsConfig struct {
	Path  string
	Fsync bool
}

// ScoringConfig represents the scoring configuration
type ScoringConfig struct {
	Provider  string
	Threshold float64
}

// LLMConfig holds the settings shared by every LLM-backed scorer
type LLMConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// DeliveryConfig represents the SMTP delivery configuration
type DeliveryConfig struct {
	SMTPAddress    string
	Username       string
	Password       string
	EnvelopeFrom   string
	AllowedDomains []string
}

// GetServer returns the server configuration
func (c *Config) GetServer() (ServerConfig, error) {
	cfg := ServerConfig{
		Type:           c.GetString("server.type"),
		ListenAddress:  c.GetString("server.listen_address"),
		CORSOrigins:    c.GetStringSlice("server.cors_origins"),
		MetricsEnabled: c.GetBool("server.metrics_enabled"),
	}

	var err error
	if cfg.ReadTimeout, err = c.GetDuration("server.read_timeout"); err != nil {
		return cfg, fmt.Errorf("invalid server read timeout: %w", err)
	}
	if cfg.WriteTimeout, err = c.GetDuration("server.write_timeout"); err != nil {
		return cfg, fmt.Errorf("invalid server write timeout: %w", err)
	}
	if cfg.ShutdownTimeout, err = c.GetDuration("server.shutdown_timeout"); err != nil {
		return cfg, fmt.Errorf("invalid server shutdown timeout: %w", err)
	}

	return cfg, nil
}

// GetDataset returns the dataset configuration
func (c *Config) GetDataset() DatasetConfig {
	return DatasetConfig{
		Path:         c.GetString("dataset.path"),
		DefaultTheme: c.GetString("dataset.default_theme"),
	}
}

// GetProgress returns the progress storage configuration
func (c *Config) GetProgress() ProgressConfig {
	return ProgressConfig{
		Backend:          c.GetString("progress.backend"),
		SQLitePath:       c.GetString("progress.sqlite_path"),
		MySQLDSN:         c.GetString("progress.mysql_dsn"),
		BadgerPath:       c.GetString("progress.badger_path"),
		BadgerSyncWrites: c.GetBool("progress.badger_sync_writes"),
	}
}

// GetEvents returns the event log configuration
func (c *Config) GetEvents() EventsConfig {
	return EventsConfig{
		Path:  c.GetString("events.path"),
		Fsync: c.GetBool("events.fsync"),
	}
}

// GetScoring returns the scoring configuration
func (c *Config) GetScoring() ScoringConfig {
	return ScoringConfig{
		Provider:  c.GetString("scoring.provider"),
		Threshold: c.GetFloat64("scoring.threshold"),
	}
}

// GetLLM returns the configuration of a named LLM provider section ("openai" or "gemini")
func (c *Config) GetLLM(section string) LLMConfig {
	key := func(name string) string { return fmt.Sprintf("%s.%s", section, name) }
	return LLMConfig{
		APIKey:      c.GetString(key("api_key")),
		ModelName:   c.GetString(key("model_name")),
		MaxTokens:   c.GetInt(key("max_tokens")),
		Temperature: float32(c.GetFloat64(key("temperature"))),
		TopP:        float32(c.GetFloat64(key("top_p"))),
		MaxBodySize: c.GetInt(key("max_body_size")),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
		MaxBodySize: c.GetInt("bedrock.max_body_size"),
	}
}

// GetDelivery returns the SMTP delivery configuration
func (c *Config) GetDelivery() DeliveryConfig {
	return DeliveryConfig{
		SMTPAddress:    c.GetString("delivery.smtp_address"),
		Username:       c.GetString("delivery.username"),
		Password:       c.GetString("delivery.password"),
		EnvelopeFrom:   c.GetString("delivery.envelope_from"),
		AllowedDomains: c.GetStringSlice("delivery.allowed_domains"),
	}
}
