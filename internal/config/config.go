// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"factuurscan/internal/extract"
	"factuurscan/internal/logger"
)

type Config struct {
	// Google Cloud Configuration (only needed for image input)
	GoogleCloudProject      string
	GoogleServiceAccountKey string

	// Extraction Configuration
	PrimaryLanguage   string
	SecondaryLanguage string
	DefaultTaxRate    string

	// HTTP Server Configuration
	ServerAddr string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		GoogleCloudProject:      getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleServiceAccountKey: getEnv("GOOGLE_SERVICE_ACCOUNT_KEY", ""),
		PrimaryLanguage:         getEnv("PRIMARY_LANGUAGE", "nl"),
		SecondaryLanguage:       getEnv("SECONDARY_LANGUAGE", "en"),
		DefaultTaxRate:          getEnv("DEFAULT_TAX_RATE", "21"),
		ServerAddr:              getEnv("SERVER_ADDR", ":8080"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogFormat:               getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:           getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:               getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if _, err := strconv.ParseFloat(strings.ReplaceAll(c.DefaultTaxRate, ",", "."), 64); err != nil {
		return fmt.Errorf("DEFAULT_TAX_RATE must be numeric: %w", err)
	}
	if len(c.PrimaryLanguage) != 2 {
		return fmt.Errorf("PRIMARY_LANGUAGE must be a two-letter code")
	}
	if len(c.SecondaryLanguage) != 2 {
		return fmt.Errorf("SECONDARY_LANGUAGE must be a two-letter code")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config.
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

// GetExtractorConfig returns an extraction configuration from the main
// config. Keyword sets stay at their built-in defaults; only the rate and
// languages are tunable from the environment.
func (c *Config) GetExtractorConfig() extract.Config {
	cfg := extract.DefaultConfig()
	cfg.PrimaryLanguage = c.PrimaryLanguage
	cfg.SecondaryLanguage = c.SecondaryLanguage
	rate, err := decimal.NewFromString(strings.ReplaceAll(c.DefaultTaxRate, ",", "."))
	if err == nil {
		cfg.DefaultTaxRate = rate
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
