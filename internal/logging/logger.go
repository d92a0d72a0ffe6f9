// Package logging provides categorized logging for labelgen on top of zap.
// In the interactive form the terminal belongs to the UI, so logs go to a file
// and only when debug mode is on. Subcommands log to stderr.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot   Category = "boot"   // Startup, config, shutdown
	CategoryStore  Category = "store"  // LabelHistory reads and writes
	CategorySerial Category = "serial" // Serial allocation
	CategoryForm   Category = "form"   // Form actions and validation
)

// Options mirrors config.LoggingConfig to keep this package free of imports
// from the rest of the module.
type Options struct {
	Level     string
	File      string
	DebugMode bool
}

// Logger is a category-scoped printf-style logger.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
}

var (
	root      = zap.NewNop()
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
)

// ParseLevel converts a config level string to a zap level.
// An empty string means info.
func ParseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	if level == "warning" {
		level = "warn"
	}
	return zapcore.ParseLevel(level)
}

// NewFileLogger builds a JSON logger appending to path. With DebugMode off it
// returns a no-op logger and touches nothing on disk.
func NewFileLogger(opts Options) (*zap.Logger, error) {
	if !opts.DebugMode || opts.File == "" {
		return zap.NewNop(), nil
	}

	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(opts.File); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{opts.File}
	cfg.ErrorOutputPaths = []string{opts.File}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// NewConsoleLogger builds the stderr logger used by subcommands.
func NewConsoleLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// Initialize installs base as the root of every category logger.
// Passing nil resets to a no-op logger.
func Initialize(base *zap.Logger) {
	if base == nil {
		base = zap.NewNop()
	}

	loggersMu.Lock()
	root = base
	loggers = make(map[Category]*Logger)
	loggersMu.Unlock()
}

// Root returns the installed zap logger.
func Root() *zap.Logger {
	loggersMu.RLock()
	defer loggersMu.RUnlock()
	return root
}

// Sync flushes buffered entries.
func Sync() {
	_ = Root().Sync()
}

// Get returns (or creates) a logger for the given category.
func Get(category Category) *Logger {
	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()

	if l, ok := loggers[category]; ok {
		return l
	}
	l := &Logger{
		category: category,
		sugar:    root.Named(string(category)).Sugar(),
	}
	loggers[category] = l
	return l
}

// With returns a child logger carrying structured fields.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{
		category: l.category,
		sugar:    l.sugar.Desugar().With(fields...).Sugar(),
	}
}

func (l *Logger) Debug(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.sugar.Infof(format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.sugar.Warnf(format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }

// WithActionID scopes a category logger to one user action (a single label or
// a bulk batch) so its log lines can be correlated.
func WithActionID(category Category, actionID string) *Logger {
	return Get(category).With(zap.String("action_id", actionID))
}

// =============================================================================
// CATEGORY HELPERS
// =============================================================================

func Boot(format string, args ...interface{})      { Get(CategoryBoot).Info(format, args...) }
func BootDebug(format string, args ...interface{}) { Get(CategoryBoot).Debug(format, args...) }
func BootError(format string, args ...interface{}) { Get(CategoryBoot).Error(format, args...) }

func Store(format string, args ...interface{})      { Get(CategoryStore).Info(format, args...) }
func StoreDebug(format string, args ...interface{}) { Get(CategoryStore).Debug(format, args...) }
func StoreError(format string, args ...interface{}) { Get(CategoryStore).Error(format, args...) }

func SerialDebug(format string, args ...interface{}) { Get(CategorySerial).Debug(format, args...) }

func Form(format string, args ...interface{})      { Get(CategoryForm).Info(format, args...) }
func FormDebug(format string, args ...interface{}) { Get(CategoryForm).Debug(format, args...) }
func FormWarn(format string, args ...interface{})  { Get(CategoryForm).Warn(format, args...) }

// =============================================================================
// TIMING HELPERS
// =============================================================================

// Timer helps measure operation duration
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{
		category: category,
		op:       operation,
		start:    time.Now(),
	}
}

// Stop ends the timer and logs the duration
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold logs warning if duration exceeds threshold
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("%s took %v (threshold: %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}
