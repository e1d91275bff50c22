// Package config loads the gateway runtime configuration from the
// environment, an optional .env file and command line flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds all runtime configuration. Every field maps to one env var.
type Config struct {
	// Server
	Port int    `mapstructure:"PORT"`
	Env  string `mapstructure:"APP_ENV"`

	// Logging
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Tax authority (DCL)
	AADEBaseURL         string `mapstructure:"AADE_BASE_URL"`
	AADEUserID          string `mapstructure:"AADE_USER_ID"`
	AADESubscriptionKey string `mapstructure:"AADE_SUBSCRIPTION_KEY"`

	// Invoicing provider
	WrappBaseURL string `mapstructure:"WRAPP_BASE_URL"`
	WrappAPIKey  string `mapstructure:"WRAPP_API_KEY"`
	WrappEmail   string `mapstructure:"WRAPP_EMAIL"`
	WrappUserID  string `mapstructure:"WRAPP_USER_ID"`

	SentryDSN   string        `mapstructure:"SENTRY_DSN"`
	HTTPTimeout time.Duration `mapstructure:"HTTP_TIMEOUT"`
}

// New returns a viper instance bound to the environment with every key
// defaulted, so that AutomaticEnv picks each of them up on Unmarshal.
func New() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", 3000)
	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("AADE_BASE_URL", "https://mydataapidev.aade.gr/DCL")
	v.SetDefault("AADE_USER_ID", "")
	v.SetDefault("AADE_SUBSCRIPTION_KEY", "")
	v.SetDefault("WRAPP_BASE_URL", "https://wrapp.ai/api/v1")
	v.SetDefault("WRAPP_API_KEY", "")
	v.SetDefault("WRAPP_EMAIL", "")
	v.SetDefault("WRAPP_USER_ID", "")
	v.SetDefault("SENTRY_DSN", "")
	v.SetDefault("HTTP_TIMEOUT", 30*time.Second)

	return v
}

// LoadDotEnv loads the given .env files into the process environment.
// Missing files are ignored and variables already set are kept.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// Load decodes and validates the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return fmt.Errorf("APP_ENV must be %s or %s, got %q", EnvDevelopment, EnvProduction, c.Env)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

// IsProduction reports whether internal error details must be hidden
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Address is the HTTP listen address
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// MissingCredentials lists the upstream credentials that are not set. The
// server still starts; calls needing them fail upstream.
func (c *Config) MissingCredentials() []string {
	var missing []string
	if c.AADEUserID == "" {
		missing = append(missing, "AADE_USER_ID")
	}
	if c.AADESubscriptionKey == "" {
		missing = append(missing, "AADE_SUBSCRIPTION_KEY")
	}
	if c.WrappAPIKey == "" {
		missing = append(missing, "WRAPP_API_KEY")
	}
	if c.WrappEmail == "" && c.WrappUserID == "" {
		missing = append(missing, "WRAPP_EMAIL or WRAPP_USER_ID")
	}
	return missing
}
