/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logger.go
Description: Logging for srccat. Wraps logrus with console and optional
timestamped file output in JSON, text or custom format, and adapts it to the
diagnostic Sink consumed by the classifier and the grammar inferrer.
*/

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/kleascm/srccat/pkg/interfaces"
	"github.com/sirupsen/logrus"
)

// LogLevel represents the logging level
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warn"
	LogLevelError   LogLevel = "error"
)

// LogFormat represents the logging format
type LogFormat string

const (
	LogFormatJSON   LogFormat = "json"
	LogFormatText   LogFormat = "text"
	LogFormatCustom LogFormat = "custom"
)

// FieldStage tags a log line with the pipeline stage that produced it
const FieldStage = "stage"

const logFilePattern = "srccat_*.log"

// LoggerConfig holds the configuration for the logger
type LoggerConfig struct {
	Level     LogLevel  `json:"level" mapstructure:"level"`
	Format    LogFormat `json:"format" mapstructure:"format"`
	OutputDir string    `json:"output_dir" mapstructure:"output_dir"` // Empty disables file output
	MaxFiles  int       `json:"max_files" mapstructure:"max_files"`
	Timestamp bool      `json:"timestamp" mapstructure:"timestamp"`
	Caller    bool      `json:"caller" mapstructure:"caller"`
	Colors    bool      `json:"colors" mapstructure:"colors"`
}

// DefaultLoggerConfig returns console-only custom logging at info level
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:     LogLevelInfo,
		Format:    LogFormatCustom,
		MaxFiles:  10,
		Timestamp: false,
		Colors:    true,
	}
}

// Validate checks the LoggerConfig for invalid values
func (c *LoggerConfig) Validate() error {
	if c.OutputDir != "" && c.MaxFiles <= 0 {
		return fmt.Errorf("max_files must be positive")
	}
	switch c.Format {
	case LogFormatJSON, LogFormatText, LogFormatCustom:
	default:
		return fmt.Errorf("unsupported log format: %s", c.Format)
	}
	switch c.Level {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
	default:
		return fmt.Errorf("unsupported log level: %s", c.Level)
	}
	return nil
}

// Logger provides logging for the CLI and the build pipeline
type Logger struct {
	config     *LoggerConfig
	logger     *logrus.Logger
	console    io.Writer
	fileHandle *os.File
	filePath   string
	startTime  time.Time
}

// NewLogger creates a logger writing to console and, if configured, a log file
func NewLogger(config *LoggerConfig) (*Logger, error) {
	return NewLoggerWithOutput(config, os.Stderr)
}

// NewLoggerWithOutput creates a logger whose console output goes to w
func NewLoggerWithOutput(config *LoggerConfig, w io.Writer) (*Logger, error) {
	if config == nil {
		config = DefaultLoggerConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logger config: %w", err)
	}

	l := &Logger{
		config:    config,
		logger:    logrus.New(),
		startTime: time.Now(),
	}
	l.console = w
	l.logger.SetOutput(w)

	if err := l.setup(w); err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}
	return l, nil
}

// setup configures the logger with the given configuration
func (l *Logger) setup(console io.Writer) error {
	level, err := logrus.ParseLevel(string(l.config.Level))
	// Set log level, falling back to info
	if err != nil {
		level = logrus.InfoLevel
	}
	l.logger.SetLevel(level)
	l.logger.SetReportCaller(l.config.Caller)

	// Set formatter
	if err := l.setFormatter(); err != nil {
		return err
	}

	// Add file output
	return l.setupFileOutput(console)
}

// setFormatter configures the log formatter
func (l *Logger) setFormatter() error {
	callerPrettyfier := func(f *runtime.Frame) (string, string) {
		return "", fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
	}

	switch l.config.Format {
	case LogFormatJSON:
		l.logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat:  time.RFC3339,
			DisableTimestamp: !l.config.Timestamp,
			CallerPrettyfier: callerPrettyfier,
		})
	case LogFormatText:
		l.logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:    l.config.Timestamp,
			DisableTimestamp: !l.config.Timestamp,
			TimestampFormat:  time.RFC3339,
			ForceColors:      l.config.Colors,
			DisableColors:    !l.config.Colors,
			CallerPrettyfier: callerPrettyfier,
		})
	case LogFormatCustom:
		l.logger.SetFormatter(&CustomFormatter{
			Timestamp: l.config.Timestamp,
			Caller:    l.config.Caller,
			Colors:    l.config.Colors,
		})
	default:
		return fmt.Errorf("unsupported log format: %s", l.config.Format)
	}
	return nil
}

// setupFileOutput tees log output into a timestamped file under OutputDir
func (l *Logger) setupFileOutput(console io.Writer) error {
	if l.config.OutputDir == "" {
		return nil
	}

	// Create log directory
	if err := os.MkdirAll(l.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	// Add timestamp to the file name
	timestamp := l.startTime.Format("2006-01-02_15-04-05.000")
	l.filePath = filepath.Join(l.config.OutputDir, fmt.Sprintf("srccat_%s.log", timestamp))

	file, err := os.OpenFile(l.filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	l.fileHandle = file

	// Write to both console and file
	l.logger.SetOutput(io.MultiWriter(console, file))

	l.logger.WithFields(logrus.Fields{
		"log_file": l.filePath,
		"level":    l.config.Level,
		"format":   l.config.Format,
	}).Debug("Logging initialized")
	return nil
}

// cleanup removes the oldest log files beyond MaxFiles
func (l *Logger) cleanup() error {
	if l.config.OutputDir == "" {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(l.config.OutputDir, logFilePattern))
	if err != nil {
		return err
	}
	if len(files) <= l.config.MaxFiles {
		return nil
	}

	// Names embed the start time, so lexical order is age order.
	sort.Strings(files)
	for _, f := range files[:len(files)-l.config.MaxFiles] {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// FilePath returns the current log file, or "" when logging to console only
func (l *Logger) FilePath() string {
	return l.filePath
}

// Close closes the log file and prunes old ones
func (l *Logger) Close() error {
	if l.fileHandle != nil {
		// Back to console only before the file goes away
		l.logger.SetOutput(l.console)
		err := l.fileHandle.Close()
		l.fileHandle = nil
		if err != nil {
			return fmt.Errorf("failed to close log file: %w", err)
		}
	}
	if err := l.cleanup(); err != nil {
		return fmt.Errorf("failed to cleanup log files: %w", err)
	}
	return nil
}

// GetLogger returns the underlying logrus logger
func (l *Logger) GetLogger() *logrus.Logger {
	return l.logger
}

// Stage returns an entry tagged with a pipeline stage
func (l *Logger) Stage(stage string) *logrus.Entry {
	return l.logger.WithField(FieldStage, stage)
}

// Sink returns a diagnostic sink for the given stage
func (l *Logger) Sink(stage string) interfaces.Sink {
	return NewSink(l.Stage(stage))
}

// LogCatalog logs a finished classification pass
func (l *Logger) LogCatalog(runID, root string, headers, sources, grammars int, duration time.Duration) {
	l.Stage("catalog").WithFields(logrus.Fields{
		"run_id":   runID,
		"root":     root,
		"headers":  headers,
		"sources":  sources,
		"grammars": grammars,
		"duration": duration,
	}).Info("Tree classified")
}

// LogInference logs the outputs declared for one grammar
func (l *Logger) LogInference(grammar string, outputs []string) {
	entry := l.Stage("emit").WithFields(logrus.Fields{
		"grammar": grammar,
		"outputs": outputs,
	})
	if len(outputs) == 0 {
		entry.Warn("Grammar declares no classes")
		return
	}
	entry.Info("Outputs declared")
}

// LogToolRun logs one grammar compiler invocation
func (l *Logger) LogToolRun(result *interfaces.ToolResult, missing []string) {
	entry := l.Stage("tool").WithFields(logrus.Fields{
		"source":    result.Source,
		"exit_code": result.ExitCode,
		"duration":  result.Duration,
	})
	if len(missing) > 0 {
		entry.WithField("missing", missing).Warn("Grammar compiler did not produce every declared output")
		return
	}
	entry.Info("Grammar compiled")
}

// sink adapts a logrus entry to interfaces.Sink
type sink struct {
	entry *logrus.Entry
}

// NewSink adapts a logrus logger or entry to the diagnostic Sink
func NewSink(entry *logrus.Entry) interfaces.Sink {
	return &sink{entry: entry}
}

func (s *sink) Info(msg string, fields map[string]interface{}) {
	s.entry.WithFields(fields).Info(msg)
}

func (s *sink) Warn(msg string, fields map[string]interface{}) {
	s.entry.WithFields(fields).Warn(msg)
}
