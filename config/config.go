// Package config holds the elderberry tool configuration file and
// builds loggers and validators from it.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/blockberries/elderberry/schema"
	"github.com/blockberries/elderberry/typesys"
	"github.com/blockberries/elderberry/validation"
)

// Config is an in memory representation of the configuration file.
type Config struct {
	Log        *LogConfig        `toml:"log"`
	Validation *ValidationConfig `toml:"validation"`
}

// LogConfig holds all configuration options related to logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
	// Encoding is "console" or "json".
	Encoding    string `toml:"encoding"`
	Development bool   `toml:"development"`
}

func newDefaultLogConfig() *LogConfig {
	return &LogConfig{
		Level:    "info",
		Encoding: "console",
	}
}

// ValidationConfig holds all configuration options related to
// validation.
type ValidationConfig struct {
	// Workers bounds batch validation parallelism. Zero means no bound.
	Workers int `toml:"workers"`
}

func newDefaultValidationConfig() *ValidationConfig {
	return &ValidationConfig{
		Workers: 4,
	}
}

// NewDefaultConfig returns a config object with all the fields filled out to
// their default values
func NewDefaultConfig() *Config {
	return &Config{
		Log:        newDefaultLogConfig(),
		Validation: newDefaultValidationConfig(),
	}
}

// WriteFile writes the config to the given filepath.
func (cfg *Config) WriteFile(file string) error {
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	if err := toml.NewEncoder(f).Encode(*cfg); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// ReadFile reads a config file from disk. Missing keys keep their
// default values.
func ReadFile(file string) (*Config, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := NewDefaultConfig()
	if _, err := toml.DecodeReader(f, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", file, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	return cfg, nil
}

// Validate checks option values.
func (cfg *Config) Validate() error {
	if _, err := zapcore.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch cfg.Log.Encoding {
	case "console", "json":
	default:
		return fmt.Errorf("log.encoding: unknown encoding %q", cfg.Log.Encoding)
	}
	if cfg.Validation.Workers < 0 {
		return fmt.Errorf("validation.workers: must not be negative, got %d", cfg.Validation.Workers)
	}
	return nil
}

// NewLogger builds a zap logger from the log section.
func (cfg *LogConfig) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = cfg.Encoding
	if cfg.Encoding == "console" {
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

// NewValidator builds a validator for s using the configured worker
// bound. A nil logger discards output.
func (cfg *ValidationConfig) NewValidator(s *schema.Schema, ts typesys.TypeSystem, logger *zap.Logger) *validation.Validator {
	return &validation.Validator{
		Schema:  s,
		Types:   ts,
		Logger:  logger,
		Workers: cfg.Workers,
	}
}
