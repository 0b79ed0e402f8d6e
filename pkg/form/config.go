package form

import (
	"time"

	"github.com/dmitrymomot/formkit/pkg/config"
)

// Config holds form-wide settings. Values come from the environment through
// ConfigFromEnv or are set in code via options.
type Config struct {
	ValidateOnChange bool          `env:"FORM_VALIDATE_ON_CHANGE" envDefault:"true"`
	Debounce         time.Duration `env:"FORM_DEBOUNCE" envDefault:"100ms"`
	LogLevel         string        `env:"FORM_LOG_LEVEL" envDefault:"info"`
}

// DefaultConfig returns the settings used when no configuration is given.
func DefaultConfig() Config {
	return Config{
		ValidateOnChange: true,
		Debounce:         100 * time.Millisecond,
		LogLevel:         "info",
	}
}

// ConfigFromEnv loads Config from the environment and an optional .env file.
// The result is cached for the life of the process; see config.ResetCache.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}
