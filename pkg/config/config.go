/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: config.go
Description: Configuration for srccat. Values come from command-line flags,
SRCCAT_* environment variables and an optional config file, merged by viper and
decoded into a Config.
*/

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kleascm/srccat/pkg/catalog"
	"github.com/kleascm/srccat/pkg/execution"
	"github.com/kleascm/srccat/pkg/logging"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable srccat reads
const EnvPrefix = "SRCCAT"

// AntlrConfig configures the external grammar compiler
type AntlrConfig struct {
	Command   string        `mapstructure:"command"`
	Args      []string      `mapstructure:"args"`
	Classpath string        `mapstructure:"classpath"`
	OutputDir string        `mapstructure:"output_dir"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// Config holds all srccat settings
type Config struct {
	Root     string        `mapstructure:"root"`
	Ignore   []string      `mapstructure:"ignore"`
	Verbose  bool          `mapstructure:"verbose"`
	Workers  int           `mapstructure:"workers"`
	Output   string        `mapstructure:"output"`
	Debounce time.Duration `mapstructure:"debounce"`

	Antlr AntlrConfig `mapstructure:"antlr"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	LogDir    string `mapstructure:"log_dir"`
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("root", ".")
	v.SetDefault("ignore", []string{})
	v.SetDefault("verbose", false)
	v.SetDefault("workers", 1)
	v.SetDefault("output", "json")
	v.SetDefault("debounce", 200*time.Millisecond)
	v.SetDefault("antlr.command", execution.DefaultCommand)
	v.SetDefault("antlr.args", execution.DefaultArgs)
	v.SetDefault("antlr.classpath", "")
	v.SetDefault("antlr.output_dir", "")
	v.SetDefault("antlr.timeout", execution.DefaultTimeout)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "custom")
	v.SetDefault("log_dir", "")
}

// Load reads the optional config file and the environment into a Config
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration, compiling ignore patterns early
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	switch c.Output {
	case "json", "yaml", "text":
	default:
		return fmt.Errorf("unsupported output format: %s", c.Output)
	}
	if _, err := catalog.CompilePatterns(c.Ignore); err != nil {
		return err
	}
	return c.LoggerConfig().Validate()
}

// LoggerConfig derives the logging configuration
func (c *Config) LoggerConfig() *logging.LoggerConfig {
	lc := logging.DefaultLoggerConfig()
	lc.Level = logging.LogLevel(c.LogLevel)
	lc.Format = logging.LogFormat(c.LogFormat)
	lc.OutputDir = c.LogDir
	return lc
}

// ClassifierOptions derives the classifier options
func (c *Config) ClassifierOptions() catalog.Options {
	return catalog.Options{
		IgnorePatterns: c.Ignore,
		Verbose:        c.Verbose,
		Workers:        c.Workers,
	}
}

// Runner builds the grammar compiler runner
func (c *Config) Runner() *execution.AntlrRunner {
	return &execution.AntlrRunner{
		Command:   c.Antlr.Command,
		Args:      c.Antlr.Args,
		Classpath: c.Antlr.Classpath,
		WorkDir:   c.Antlr.OutputDir,
		Timeout:   c.Antlr.Timeout,
	}
}
