// Package config builds process-wide infrastructure (the Zap logger) from
// the Viper settings loaded by the server package.
package config

import (
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogConfig is the "logging" configuration section.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// NewLogger creates a configured Zap logger from Viper settings.
// Reads "logging.level" (default "info") and "logging.format"
// (json or console; default "json").
func NewLogger(v *viper.Viper) (*zap.Logger, error) {
	return BuildLogger(LogConfig{
		Level:  v.GetString("logging.level"),
		Format: v.GetString("logging.format"),
	})
}

// BuildLogger creates a Zap logger from an explicit LogConfig.
func BuildLogger(lc LogConfig) (*zap.Logger, error) {
	level := lc.Level
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	switch lc.Format {
	case "console":
		cfg = zap.NewDevelopmentConfig()
	case "json", "":
		cfg = zap.NewProductionConfig()
		// Zabbix timestamps are wall-clock; keep log timestamps comparable.
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		return nil, fmt.Errorf("invalid log format %q: must be \"json\" or \"console\"", lc.Format)
	}

	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	return cfg.Build()
}
