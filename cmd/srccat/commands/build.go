/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: build.go
Description: build command. Classifies a tree, declares the outputs of every
grammar and runs the ANTLR grammar compiler on each of them.
*/

package commands

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/kleascm/srccat/pkg/build"
	"github.com/kleascm/srccat/pkg/utils"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newBuildCmd(a *app) *cobra.Command {
	buildCmd := &cobra.Command{
		Use:   "build [root]",
		Short: "Compile every grammar of a source tree with ANTLR",
		Long: `Classify a source tree, infer the outputs of each grammar and run the ANTLR
tool on it. Declared outputs that did not appear are reported. With --dry-run
only the plan is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(a, cmd, args)
		},
	}

	flags := buildCmd.Flags()
	flags.String("antlr-command", "java", "Executable used to run the grammar compiler")
	flags.StringSlice("antlr-args", []string{"antlr.Tool"}, "Arguments placed before the grammar path")
	flags.String("classpath", "", "CLASSPATH for the grammar compiler (default: inherited)")
	flags.String("out-dir", "", "Directory the grammar compiler writes to (default: the tree root)")
	flags.Duration("timeout", 0, "Per-grammar time limit (default 2m)")
	flags.Bool("dry-run", false, "Print the plan without running the compiler")
	flags.String("report-dir", "", "Also save the build report as JSON under this directory")

	a.viper.BindPFlag("antlr.command", flags.Lookup("antlr-command"))
	a.viper.BindPFlag("antlr.args", flags.Lookup("antlr-args"))
	a.viper.BindPFlag("antlr.classpath", flags.Lookup("classpath"))
	a.viper.BindPFlag("antlr.output_dir", flags.Lookup("out-dir"))
	a.viper.BindPFlag("antlr.timeout", flags.Lookup("timeout"))
	a.viper.BindPFlag("dry_run", flags.Lookup("dry-run"))
	a.viper.BindPFlag("report_dir", flags.Lookup("report-dir"))

	return buildCmd
}

func runBuild(a *app, cmd *cobra.Command, args []string) error {
	root, err := a.root(args)
	if err != nil {
		return err
	}
	classifier, err := a.classifier()
	if err != nil {
		return err
	}

	runner := a.config.Runner()
	if runner.WorkDir == "" {
		runner.WorkDir = root
	}
	outDir, err := filepath.Abs(runner.WorkDir)
	if err != nil {
		return err
	}
	runner.WorkDir = outDir

	pipeline := build.NewPipeline(classifier, runner, a.logger, afero.NewOsFs(), outDir)
	plan := pipeline.Plan(root)

	if !a.viper.GetBool("dry_run") {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := pipeline.Run(ctx, plan); err != nil {
			return err
		}
	}

	report := plan.Report()
	if dir := a.viper.GetString("report_dir"); dir != "" {
		path, err := utils.WriteReport(dir, "build", report.RunID, report)
		if err != nil {
			return err
		}
		a.logger.Stage("build").WithField("report", path).Info("Build report saved")
	}
	return writeOutput(cmd.OutOrStdout(), a.config.Output, report, func(w io.Writer) error {
		fmt.Fprintf(w, "run %s: %d headers, %d sources, %d grammars\n",
			report.RunID, len(report.Catalog.Headers), len(report.Catalog.Sources), len(report.Catalog.Grammars))
		for _, t := range report.Targets {
			fmt.Fprintf(w, "%s\n", t.Grammar)
			for _, o := range t.Outputs {
				fmt.Fprintf(w, "  -> %s\n", o)
			}
			for _, m := range t.Missing {
				fmt.Fprintf(w, "  !! missing %s\n", m)
			}
		}
		return nil
	})
}
