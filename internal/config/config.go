package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the broker tooling.
type Config struct {
	LogFormat string `validate:"oneof=text json console"`
	LogLevel  string `validate:"oneof=debug info warn error"`
	Relay     RelayConfig
}

// RelayConfig controls the watermill relay that mirrors fired topics.
type RelayConfig struct {
	Enabled      bool
	JournalTopic string `validate:"required_if=Enabled true"`
	Buffer       int64  `validate:"gte=0"`
}

const (
	DefaultLogFormat    = "text"
	DefaultLogLevel     = "info"
	DefaultJournalTopic = "broker.fired"
	DefaultRelayBuffer  = 64
)

// Default returns the configuration used when no environment is set.
func Default() *Config {
	return &Config{
		LogFormat: DefaultLogFormat,
		LogLevel:  DefaultLogLevel,
		Relay: RelayConfig{
			JournalTopic: DefaultJournalTopic,
			Buffer:       DefaultRelayBuffer,
		},
	}
}

// Load reads configuration from the environment, after loading a .env file
// if one exists, and validates it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}

	cfg := Default()
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("BROKER_RELAY_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("BROKER_RELAY_ENABLED: %w", err)
		}
		cfg.Relay.Enabled = enabled
	}
	if v, ok := os.LookupEnv("BROKER_RELAY_TOPIC"); ok {
		cfg.Relay.JournalTopic = v
	}
	if v := os.Getenv("BROKER_RELAY_BUFFER"); v != "" {
		buffer, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("BROKER_RELAY_BUFFER: %w", err)
		}
		cfg.Relay.Buffer = buffer
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks the configuration against its constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
