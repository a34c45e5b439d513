// Package config loads the settings of the example binaries from the
// environment and optional .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported chat providers.
const (
	ProviderMock      = "mock"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds the settings of a tool user run.
type Config struct {
	Provider        string
	Model           string
	OpenAIAPIKey    string
	AnthropicAPIKey string

	MaxSteps    int
	MaxDuration time.Duration

	Shell        string
	ShellTimeout time.Duration
	AutoApprove  bool

	LogLevel  string
	LogFormat string
}

// Default returns the settings used for unset variables.
func Default() Config {
	return Config{
		Provider:     ProviderMock,
		MaxSteps:     10,
		MaxDuration:  60 * time.Second,
		Shell:        "/bin/sh",
		ShellTimeout: 60 * time.Second,
		LogLevel:     "warn",
		LogFormat:    "text",
	}
}

// Load reads files into the process environment without overriding variables
// that are already set, then builds a Config from the environment. Missing
// files are skipped.
func Load(files ...string) (Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()
	var errs []error

	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	integer := func(key string, dst *int) {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = n
	}

	duration := func(key string, dst *time.Duration) {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = d
	}

	boolean := func(key string, dst *bool) {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = b
	}

	str("TOOLAGENT_PROVIDER", &cfg.Provider)
	str("TOOLAGENT_MODEL", &cfg.Model)
	str("OPENAI_API_KEY", &cfg.OpenAIAPIKey)
	str("ANTHROPIC_API_KEY", &cfg.AnthropicAPIKey)
	integer("TOOLAGENT_MAX_STEPS", &cfg.MaxSteps)
	duration("TOOLAGENT_MAX_DURATION", &cfg.MaxDuration)
	str("TOOLAGENT_SHELL", &cfg.Shell)
	duration("TOOLAGENT_SHELL_TIMEOUT", &cfg.ShellTimeout)
	boolean("TOOLAGENT_AUTO_APPROVE", &cfg.AutoApprove)
	str("TOOLAGENT_LOG_LEVEL", &cfg.LogLevel)
	str("TOOLAGENT_LOG_FORMAT", &cfg.LogFormat)

	cfg.Provider = strings.ToLower(cfg.Provider)

	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks provider credentials and budgets.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderMock:
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return errors.New("config: OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return errors.New("config: ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	default:
		return fmt.Errorf("config: unknown provider %q", c.Provider)
	}

	if c.MaxSteps < 0 {
		return fmt.Errorf("config: max steps must not be negative, got %d", c.MaxSteps)
	}

	return nil
}
