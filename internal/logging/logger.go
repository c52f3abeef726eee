// Package logging provides config-driven categorized file-based logging for
// baristasim. Logs are written to .baristasim/logs/ with separate files per
// category. Logging is controlled by the logging section of
// .baristasim/config.yaml - when debug_mode is false, no logs are written.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Category represents a log category/subsystem.
type Category string

const (
	// CategoryBoot covers startup, config load, and wiring.
	CategoryBoot Category = "boot"
	// CategorySession covers the orchestrator state machine.
	CategorySession Category = "session"
	// CategoryTransition covers customer handoff and fade sequencing.
	CategoryTransition Category = "transition"
	// CategoryClassify covers complaint classification.
	CategoryClassify Category = "classify"
	// CategoryRespond covers response generation.
	CategoryRespond Category = "respond"
	// CategoryGate covers rate-limiter acquisitions.
	CategoryGate Category = "gate"
	// CategoryTranscript covers capture-buffer activity.
	CategoryTranscript Category = "transcript"
	// CategoryAgent covers the external agent service.
	CategoryAgent Category = "agent"
	// CategoryMetrics covers metrics recording and exposition.
	CategoryMetrics Category = "metrics"
)

// Options mirrors the logging section of the main config file.
// Kept local to avoid a circular import with internal/config.
type Options struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"`
	Categories map[string]bool `yaml:"categories"`
}

type configFile struct {
	Logging Options `yaml:"logging"`
}

// Log levels.
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Logger wraps a standard logger with category and file output.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	logsDir   string
	workspace string
	opts      Options
	optsMu    sync.RWMutex
	logLevel  int
)

// Initialize sets up the logging directory and loads config.
// Should be called once at startup with the workspace path.
func Initialize(ws string) error {
	if ws == "" {
		return fmt.Errorf("workspace path required")
	}

	workspace = ws
	logsDir = filepath.Join(workspace, ".baristasim", "logs")

	if err := loadOptions(); err != nil {
		fmt.Fprintf(os.Stderr, "[logging] Warning: could not load config: %v\n", err)
		opts.DebugMode = false
	}

	if !IsDebugMode() {
		return nil // Silent no-op in production mode
	}

	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	boot := Get(CategoryBoot)
	boot.Info("=== baristasim logging initialized ===")
	boot.Info("Workspace: %s", workspace)
	boot.Info("Logs directory: %s", logsDir)
	boot.Info("Log level: %s", opts.Level)

	return nil
}

// Configure applies options directly, bypassing the config file.
// Used by cmd after the main config is parsed, and by tests.
func Configure(ws string, o Options) {
	optsMu.Lock()
	workspace = ws
	logsDir = filepath.Join(workspace, ".baristasim", "logs")
	opts = o
	logLevel = parseLevel(o.Level)
	optsMu.Unlock()

	if o.DebugMode {
		_ = os.MkdirAll(logsDir, 0755)
	}
}

func loadOptions() error {
	optsMu.Lock()
	defer optsMu.Unlock()

	configPath := filepath.Join(workspace, ".baristasim", "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// No config = production mode (no logging)
			opts.DebugMode = false
			return nil
		}
		return err
	}

	var cf configFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	opts = cf.Logging
	logLevel = parseLevel(opts.Level)
	return nil
}

// ReloadConfig reloads the options from disk.
// Call this if config changes at runtime.
func ReloadConfig() error {
	return loadOptions()
}

func parseLevel(level string) int {
	switch level {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// IsDebugMode returns whether debug logging is enabled.
func IsDebugMode() bool {
	optsMu.RLock()
	defer optsMu.RUnlock()
	return opts.DebugMode
}

// IsCategoryEnabled returns whether a specific category is enabled.
func IsCategoryEnabled(category Category) bool {
	optsMu.RLock()
	defer optsMu.RUnlock()

	if !opts.DebugMode {
		return false
	}
	if opts.Categories == nil {
		return true // All enabled by default in debug mode
	}
	enabled, exists := opts.Categories[string(category)]
	if !exists {
		return true // Enable by default if not specified
	}
	return enabled
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if debug mode is disabled or the category is disabled.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) {
		return &Logger{category: category}
	}
	if logsDir == "" {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()

	// Double-check after acquiring write lock
	if l, ok := loggers[category]; ok {
		return l
	}

	// Create log file with date prefix for easy rotation
	date := time.Now().Format("2006-01-02")
	filename := fmt.Sprintf("%s_%s.log", date, category)
	logPath := filepath.Join(logsDir, filename)

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] Warning: could not open log file %s: %v\n", logPath, err)
		return &Logger{category: category}
	}

	l := &Logger{
		category: category,
		file:     file,
		logger:   log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
	loggers[category] = l
	return l
}

// Debug logs a debug message (only if level <= debug).
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelDebug {
		return
	}
	l.logger.Printf("[DEBUG] %s", fmt.Sprintf(format, args...))
}

// Info logs an informational message (only if level <= info).
func (l *Logger) Info(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelInfo {
		return
	}
	l.logger.Printf("[INFO] %s", fmt.Sprintf(format, args...))
}

// Warn logs a warning message (only if level <= warn).
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelWarn {
		return
	}
	l.logger.Printf("[WARN] %s", fmt.Sprintf(format, args...))
}

// Error logs an error message (always logged if logger exists).
func (l *Logger) Error(format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Printf("[ERROR] %s", fmt.Sprintf(format, args...))
}

// CloseAll closes all open log files (call at shutdown).
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	for _, l := range loggers {
		if l.file != nil {
			l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// =============================================================================
// CONVENIENCE FUNCTIONS - Quick logging without getting a logger first
// These are no-ops if the category is disabled
// =============================================================================

// Boot logs to the boot category.
func Boot(format string, args ...interface{}) {
	Get(CategoryBoot).Info(format, args...)
}

// Session logs to the session category.
func Session(format string, args ...interface{}) {
	Get(CategorySession).Info(format, args...)
}

// SessionDebug logs debug to the session category.
func SessionDebug(format string, args ...interface{}) {
	Get(CategorySession).Debug(format, args...)
}

// SessionWarn logs a warning to the session category.
func SessionWarn(format string, args ...interface{}) {
	Get(CategorySession).Warn(format, args...)
}

// Transition logs to the transition category.
func Transition(format string, args ...interface{}) {
	Get(CategoryTransition).Info(format, args...)
}

// Classify logs to the classify category.
func Classify(format string, args ...interface{}) {
	Get(CategoryClassify).Info(format, args...)
}

// ClassifyDebug logs debug to the classify category.
func ClassifyDebug(format string, args ...interface{}) {
	Get(CategoryClassify).Debug(format, args...)
}

// Respond logs to the respond category.
func Respond(format string, args ...interface{}) {
	Get(CategoryRespond).Info(format, args...)
}

// Gate logs to the gate category.
func Gate(format string, args ...interface{}) {
	Get(CategoryGate).Info(format, args...)
}

// GateDebug logs debug to the gate category.
func GateDebug(format string, args ...interface{}) {
	Get(CategoryGate).Debug(format, args...)
}

// Transcript logs to the transcript category.
func Transcript(format string, args ...interface{}) {
	Get(CategoryTranscript).Info(format, args...)
}

// TranscriptDebug logs debug to the transcript category.
func TranscriptDebug(format string, args ...interface{}) {
	Get(CategoryTranscript).Debug(format, args...)
}

// Agent logs to the agent category.
func Agent(format string, args ...interface{}) {
	Get(CategoryAgent).Info(format, args...)
}

// AgentWarn logs a warning to the agent category.
func AgentWarn(format string, args ...interface{}) {
	Get(CategoryAgent).Warn(format, args...)
}

// Metrics logs to the metrics category.
func Metrics(format string, args ...interface{}) {
	Get(CategoryMetrics).Info(format, args...)
}
