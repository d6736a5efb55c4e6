/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: root.go
Description: Command tree for srccat. Builds the cobra commands, binds their
flags to viper and shares configuration and logging between them.
*/

package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is the srccat release
const Version = "1.0.0"

// NewRootCmd builds the srccat command tree with its own configuration state
func NewRootCmd() *cobra.Command {
	a := &app{viper: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "srccat",
		Short: "srccat - source catalog and ANTLR output inference for C++ builds",
		Long: `srccat walks a source tree and sorts files into headers, sources and ANTLR
grammars for a C++ build, and predicts the files the ANTLR grammar compiler will
generate so the build can declare them before they exist.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Configuration file path")
	flags.String("log-level", "info", "Logging level (debug, info, warn, error)")
	flags.String("log-format", "custom", "Log format (text, json, custom)")
	flags.String("log-dir", "", "Also write logs to timestamped files in this directory")
	flags.StringP("output", "o", "json", "Report format (json, yaml, text)")
	flags.StringArrayP("ignore", "i", []string{}, "Regular expression of paths to skip (repeatable, taken verbatim)")
	flags.BoolP("verbose", "v", false, "Report every classification decision")
	flags.IntP("workers", "w", 1, "Goroutines used to walk subdirectories")

	a.viper.BindPFlag("log_level", flags.Lookup("log-level"))
	a.viper.BindPFlag("log_format", flags.Lookup("log-format"))
	a.viper.BindPFlag("log_dir", flags.Lookup("log-dir"))
	a.viper.BindPFlag("output", flags.Lookup("output"))
	a.viper.BindPFlag("ignore", flags.Lookup("ignore"))
	a.viper.BindPFlag("verbose", flags.Lookup("verbose"))
	a.viper.BindPFlag("workers", flags.Lookup("workers"))

	rootCmd.AddCommand(
		newCatalogCmd(a),
		newEmitCmd(a),
		newBuildCmd(a),
		newWatchCmd(a),
		newRulesCmd(),
	)
	return rootCmd
}
