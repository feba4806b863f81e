// Package logging provides config-driven categorized logging for leadbrain.
// Each pipeline subsystem logs under its own category; output goes to a
// rotating file sink and, in verbose mode, to the console. Logging is
// controlled by the logging section of the config file - when debug_mode is
// false only warnings and errors are emitted.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Category represents a log category/subsystem.
type Category string

const (
	CategoryBoot     Category = "boot"     // Startup, config loading
	CategoryAPI      Category = "api"      // LLM API calls
	CategoryTrait    Category = "trait"    // Trait detection
	CategoryPlanner  Category = "planner"  // Campaign planning
	CategoryGen      Category = "gen"      // Message generation
	CategoryQuality  Category = "quality"  // Quality assessment
	CategoryCampaign Category = "campaign" // Orchestrator state machine
	CategoryMemory   Category = "memory"   // Memory manager
	CategoryStore    Category = "store"    // SQLite store operations
	CategoryBatch    Category = "batch"    // Batch runner
)

// Options controls logger construction. Zero value means warnings and
// errors to stderr only, no file output.
type Options struct {
	Dir        string          // Log directory; empty disables the file sink
	DebugMode  bool            // Enable debug-level output
	Console    bool            // Mirror to stderr at the configured level
	Categories map[string]bool // Per-category enablement; nil enables all
	MaxSizeMB  int             // Rotation size, default 20
	MaxBackups int             // Rotated files kept, default 3
}

var (
	mu      sync.RWMutex
	root    *zap.SugaredLogger
	loggers = make(map[Category]*zap.SugaredLogger)
	opts    Options
)

func init() {
	// Safe default until Initialize runs: warnings and errors to stderr.
	root = newConsoleLogger(zapcore.WarnLevel).Sugar()
}

// Initialize builds the shared logger from config. Call once at startup;
// later calls rebuild the sinks (used by tests).
func Initialize(o Options) error {
	level := zapcore.InfoLevel
	if o.DebugMode {
		level = zapcore.DebugLevel
	}

	var cores []zapcore.Core
	if o.Dir != "" {
		if err := os.MkdirAll(o.Dir, 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		maxSize := o.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 20
		}
		maxBackups := o.MaxBackups
		if maxBackups <= 0 {
			maxBackups = 3
		}
		sink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(o.Dir, "brain.log"),
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			Compress:   true,
		})
		enc := zap.NewProductionEncoderConfig()
		enc.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(enc), sink, level))
	}
	if o.Console {
		cores = append(cores, newConsoleCore(level))
	} else {
		// Warnings and errors always reach stderr so failures are visible
		// even with file logging disabled.
		cores = append(cores, newConsoleCore(zapcore.WarnLevel))
	}

	mu.Lock()
	defer mu.Unlock()
	opts = o
	root = zap.New(zapcore.NewTee(cores...)).Sugar()
	loggers = make(map[Category]*zap.SugaredLogger)
	return nil
}

func newConsoleCore(level zapcore.Level) zapcore.Core {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stderr), level)
}

func newConsoleLogger(level zapcore.Level) *zap.Logger {
	return zap.New(newConsoleCore(level))
}

// Get returns the logger for a category. Disabled categories get a no-op.
func Get(cat Category) *zap.SugaredLogger {
	mu.RLock()
	if l, ok := loggers[cat]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[cat]; ok {
		return l
	}
	var l *zap.SugaredLogger
	if opts.Categories != nil {
		if enabled, ok := opts.Categories[string(cat)]; ok && !enabled {
			l = zap.NewNop().Sugar()
		}
	}
	if l == nil {
		l = root.With("cat", string(cat))
	}
	loggers[cat] = l
	return l
}

// Sync flushes buffered log entries. Called on shutdown.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = root.Sync()
}
