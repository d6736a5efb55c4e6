/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logger_test.go
Description: Tests for the logging system. Covers configuration validation,
formats, file output and pruning, stage tags and the Sink adapter.
*/

package logging_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kleascm/srccat/pkg/interfaces"
	"github.com/kleascm/srccat/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainConfig() *logging.LoggerConfig {
	return &logging.LoggerConfig{
		Level:  logging.LogLevelDebug,
		Format: logging.LogFormatCustom,
	}
}

// TestLoggerConfigValidate tests rejection of bad configurations
func TestLoggerConfigValidate(t *testing.T) {
	assert.NoError(t, logging.DefaultLoggerConfig().Validate())

	bad := plainConfig()
	bad.Format = "xml"
	assert.Error(t, bad.Validate())

	bad = plainConfig()
	bad.Level = "loud"
	assert.Error(t, bad.Validate())

	bad = plainConfig()
	bad.OutputDir = t.TempDir()
	bad.MaxFiles = 0
	assert.Error(t, bad.Validate())

	_, err := logging.NewLogger(bad)
	assert.Error(t, err)
}

// TestLogFormats tests that every format writes the message
func TestLogFormats(t *testing.T) {
	for _, format := range []logging.LogFormat{logging.LogFormatText, logging.LogFormatJSON, logging.LogFormatCustom} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			cfg := plainConfig()
			cfg.Format = format
			logger, err := logging.NewLoggerWithOutput(cfg, &buf)
			require.NoError(t, err)
			defer logger.Close()

			logger.GetLogger().WithField("number", 42).Info("Test message")
			assert.Contains(t, buf.String(), "Test message")
			assert.Contains(t, buf.String(), "42")
		})
	}
}

// TestCustomFormatterStage tests the stage tag and sorted fields
func TestCustomFormatterStage(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.NewLoggerWithOutput(plainConfig(), &buf)
	require.NoError(t, err)

	logger.Stage("catalog").WithField("b", 2).WithField("a", "x y").Info("Tree classified")
	assert.Equal(t, "INFO [CATALOG] Tree classified a=\"x y\" b=2\n", buf.String())
}

// TestSink tests the Sink adapter levels
func TestSink(t *testing.T) {
	var buf bytes.Buffer
	cfg := plainConfig()
	cfg.Level = logging.LogLevelWarning
	logger, err := logging.NewLoggerWithOutput(cfg, &buf)
	require.NoError(t, err)

	var sink interfaces.Sink = logger.Sink("catalog")
	sink.Info("C/C++ header file", map[string]interface{}{"path": "a.h"})
	assert.Empty(t, buf.String(), "info is below the configured level")

	sink.Warn("Ignoring unrecognized file", map[string]interface{}{"path": "notes.txt"})
	assert.Contains(t, buf.String(), "WARNING [CATALOG] Ignoring unrecognized file path=notes.txt")
}

// TestDomainLogging tests the pipeline helpers
func TestDomainLogging(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.NewLoggerWithOutput(plainConfig(), &buf)
	require.NoError(t, err)

	logger.LogCatalog("run-1", "src", 3, 2, 1, 15*time.Millisecond)
	logger.LogInference("Expr.g", nil)
	logger.LogInference("Expr.g", []string{"P.hpp", "P.cpp"})
	logger.LogToolRun(&interfaces.ToolResult{Source: "Expr.g"}, []string{"P.cpp"})

	out := buf.String()
	assert.Contains(t, out, "grammars=1")
	assert.Contains(t, out, "Grammar declares no classes")
	assert.Contains(t, out, "outputs=P.hpp,P.cpp")
	assert.Contains(t, out, "missing=P.cpp")
}

// TestFileOutputAndCleanup tests log files and pruning on Close
func TestFileOutputAndCleanup(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"srccat_2024-01-01_10-00-00.000.log",
		"srccat_2024-01-01_11-00-00.000.log",
		"srccat_2024-01-01_12-00-00.000.log",
		"srccat_2024-01-01_13-00-00.000.log",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	cfg := plainConfig()
	cfg.OutputDir = dir
	cfg.MaxFiles = 3
	var console bytes.Buffer
	logger, err := logging.NewLoggerWithOutput(cfg, &console)
	require.NoError(t, err)

	logger.GetLogger().Info("to both")
	current := logger.FilePath()
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(current)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to both")
	assert.Contains(t, console.String(), "to both")

	files, err := filepath.Glob(filepath.Join(dir, "srccat_*.log"))
	require.NoError(t, err)
	assert.Len(t, files, 3)
	assert.Contains(t, files, current)
	assert.NotContains(t, files, filepath.Join(dir, "srccat_2024-01-01_10-00-00.000.log"))
}
