// Package logging builds the categorised zap loggers used across ropewalk.
// Each subsystem gets a child logger named after its Category so that log
// lines can be filtered per subsystem.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot     Category = "boot"     // CLI startup, config loading
	CategoryParse    Category = "parse"    // Motion parsing
	CategorySimulate Category = "simulate" // Rope runs
	CategoryRender   Category = "render"   // Grid drawing
	CategoryWatch    Category = "watch"    // Input file watcher
)

// Options mirrors config.LoggingConfig to avoid an import cycle.
type Options struct {
	Level   string // debug, info, warn, error
	Format  string // json, console
	File    string // extra output path, empty for stderr only
	Verbose bool   // forces debug level
}

// New builds a root logger from opts.
func New(opts Options) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()

	level, err := parseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	switch strings.ToLower(opts.Format) {
	case "", "console", "text":
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	case "json":
		cfg.Encoding = "json"
	default:
		return nil, fmt.Errorf("unknown log format %q (valid: console, json)", opts.Format)
	}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		cfg.OutputPaths = append(cfg.OutputPaths, opts.File)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// For returns the child logger for a category. A nil parent yields a no-op logger.
func For(parent *zap.Logger, category Category) *zap.Logger {
	if parent == nil {
		return zap.NewNop()
	}
	return parent.Named(string(category))
}

func parseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}
