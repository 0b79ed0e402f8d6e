// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv for .env files and
// github.com/caarlos0/env/v11 for struct parsing:
//
//	type FormConfig struct {
//	    ValidateOnChange bool          `env:"FORM_VALIDATE_ON_CHANGE" envDefault:"true"`
//	    Debounce         time.Duration `env:"FORM_DEBOUNCE" envDefault:"100ms"`
//	}
//
//	var cfg FormConfig
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// Load caches each configuration type after the first successful parse.
// Parse skips the cache and always reads the current environment.
// LoadEnv reads one or more .env files; later files win.
//
// ResetCache and ForceReloadConfig exist for tests that change the
// environment between cases.
package config
