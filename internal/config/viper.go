// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/Furkanturan8/rent-receipt-matcher/internal/matcher"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/validator"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Matching matcher.Config `mapstructure:"matching" yaml:"matching"`

	Validation struct {
		AmountTolerance       float64       `mapstructure:"amount_tolerance" yaml:"amount_tolerance"`
		AmountCutoff          float64       `mapstructure:"amount_cutoff" yaml:"amount_cutoff"`
		ContractExpiryWarning time.Duration `mapstructure:"contract_expiry_warning" yaml:"contract_expiry_warning"`
		MaxReceiptAge         time.Duration `mapstructure:"max_receipt_age" yaml:"max_receipt_age"`
	} `mapstructure:"validation" yaml:"validation"`

	Snapshot struct {
		Directory string `mapstructure:"directory" yaml:"directory"`
	} `mapstructure:"snapshot" yaml:"snapshot"`

	Keywords struct {
		// File optionally overrides the built-in address keyword tables.
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"keywords" yaml:"keywords"`

	Currency struct {
		Default string `mapstructure:"default" yaml:"default"`
	} `mapstructure:"currency" yaml:"currency"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.rent-receipt-matcher")
	v.AddConfigPath(".rent-receipt-matcher")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("RRM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Log the error but don't fail - continue with defaults and env vars
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Matching defaults mirror matcher.DefaultConfig
	v.SetDefault("matching.weights.iban", 95.0)
	v.SetDefault("matching.weights.amount", 85.0)
	v.SetDefault("matching.weights.name", 75.0)
	v.SetDefault("matching.weights.address", 70.0)
	v.SetDefault("matching.weights.sender", 60.0)
	v.SetDefault("matching.matched_threshold", 90.0)
	v.SetDefault("matching.review_threshold", 70.0)
	v.SetDefault("matching.amount_tolerance", 0.05)
	v.SetDefault("matching.amount_cutoff", 0.15)
	v.SetDefault("matching.partial_iban_score", 0.5)

	// Validation defaults
	v.SetDefault("validation.amount_tolerance", 0.05)
	v.SetDefault("validation.amount_cutoff", 0.15)
	v.SetDefault("validation.contract_expiry_warning", "720h")
	v.SetDefault("validation.max_receipt_age", "8760h")

	// Snapshot defaults
	v.SetDefault("snapshot.directory", "data")

	// Keyword defaults
	v.SetDefault("keywords.file", "")

	// Currency defaults
	v.SetDefault("currency.default", "TRY")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	// Validate matching weights and thresholds
	if err := config.Matching.Validate(); err != nil {
		return fmt.Errorf("matching: %w", err)
	}

	// Validate the amount tolerance band
	if config.Validation.AmountTolerance < 0 || config.Validation.AmountTolerance >= config.Validation.AmountCutoff {
		return fmt.Errorf("validation.amount_tolerance must be non-negative and below validation.amount_cutoff, got: %f and %f",
			config.Validation.AmountTolerance, config.Validation.AmountCutoff)
	}

	if config.Currency.Default == "" {
		return fmt.Errorf("currency.default must not be empty")
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

// ValidatorConfig projects the validation section into the validator's
// own config type.
func (c *Config) ValidatorConfig() validator.Config {
	return validator.Config{
		AmountTolerance:       c.Validation.AmountTolerance,
		AmountCutoff:          c.Validation.AmountCutoff,
		ContractExpiryWarning: c.Validation.ContractExpiryWarning,
		MaxReceiptAge:         c.Validation.MaxReceiptAge,
	}
}
