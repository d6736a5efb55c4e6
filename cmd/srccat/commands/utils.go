/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared utilities for the srccat commands. Provides configuration
loading, logging setup and report output used across all command implementations.
*/

package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/kleascm/srccat/pkg/catalog"
	"github.com/kleascm/srccat/pkg/config"
	"github.com/kleascm/srccat/pkg/fstree"
	"github.com/kleascm/srccat/pkg/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// app carries the state shared by every command of one invocation
type app struct {
	viper      *viper.Viper
	configFile string
	config     *config.Config
	logger     *logging.Logger
}

// setup loads configuration and logging; it runs before every command
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.viper, a.configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.config = cfg

	logger, err := logging.NewLoggerWithOutput(cfg.LoggerConfig(), cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	a.logger = logger
	return nil
}

// teardown closes the logger
func (a *app) teardown() error {
	if a.logger == nil {
		return nil
	}
	return a.logger.Close()
}

// root picks the tree root from the arguments or the configuration
func (a *app) root(args []string) (string, error) {
	root := a.config.Root
	if len(args) > 0 {
		root = args[0]
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", root, err)
	}
	return abs, nil
}

// classifier builds a classifier over the host filesystem
func (a *app) classifier() (*catalog.Classifier, error) {
	return catalog.NewClassifier(fstree.NewOS(), a.logger.Sink("catalog"), a.config.ClassifierOptions())
}

// writeOutput renders v in the configured format; text falls back to render
func writeOutput(w io.Writer, format string, v interface{}, render func(io.Writer) error) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return render(w)
	}
}
