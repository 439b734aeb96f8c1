package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Config holds the application configuration.
type Config struct {
	ServerPort  int
	DatabaseURL string
	JWTSecret   string
	FrontendURL string

	HuggingFaceAPIKey  string
	HuggingFaceBaseURL string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	OCRAPIKey string
	OCRURL    string

	LocalModelDisabled  bool
	LocalModelStopwords string // Optional path to a newline separated stopword list

	OutboundRateLimit float64 // Requests per second towards third-party APIs, 0 for no limit

	LogLevel  string
	LogFormat string
}

// ErrMissingSecret is returned when a required secret is not configured.
var ErrMissingSecret = errors.New("missing required secret")

var defaults = map[string]any{
	"port":                 5000,
	"database_url":         "./notes.db",
	"frontend_url":         "http://localhost:3000",
	"huggingface_base_url": "https://api-inference.huggingface.co/models",
	"openai_model":         "gpt-4o-mini",
	"ocr_url":              "https://api.ocr.space/parse/image",
	"outbound_rate_limit":  5.0,
	"log_level":            "info",
	"log_format":           "console",
}

// Load loads configuration from an optional YAML file named by CONFIG_FILE,
// then overrides it with environment variables. Secrets have no defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to set default %s: %w", key, err)
		}
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// PORT -> port, JWT_SECRET -> jwt_secret. Empty variables are skipped so
	// they cannot blank out defaults or file values.
	if err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return strings.ToLower(key), value
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{
		ServerPort:          k.Int("port"),
		DatabaseURL:         k.String("database_url"),
		JWTSecret:           k.String("jwt_secret"),
		FrontendURL:         k.String("frontend_url"),
		HuggingFaceAPIKey:   k.String("huggingface_api_key"),
		HuggingFaceBaseURL:  strings.TrimRight(k.String("huggingface_base_url"), "/"),
		OpenAIAPIKey:        k.String("openai_api_key"),
		OpenAIModel:         k.String("openai_model"),
		OpenAIBaseURL:       k.String("openai_base_url"),
		OCRAPIKey:           k.String("ocr_api_key"),
		OCRURL:              k.String("ocr_url"),
		LocalModelDisabled:  k.Bool("local_model_disabled"),
		LocalModelStopwords: k.String("local_model_stopwords"),
		OutboundRateLimit:   k.Float64("outbound_rate_limit"),
		LogLevel:            k.String("log_level"),
		LogFormat:           k.String("log_format"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required values are present and sane.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("%w: JWT_SECRET", ErrMissingSecret)
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("invalid port %d", c.ServerPort)
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL must not be empty")
	}
	if c.OutboundRateLimit < 0 {
		return fmt.Errorf("invalid outbound rate limit %v", c.OutboundRateLimit)
	}
	return nil
}
