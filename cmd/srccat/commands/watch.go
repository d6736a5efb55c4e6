/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: watch.go
Description: watch command. Keeps re-classifying a source tree as it changes and
prints a new report after every burst of changes.
*/

package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/kleascm/srccat/pkg/catalog"
	"github.com/kleascm/srccat/pkg/watch"
	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	watchCmd := &cobra.Command{
		Use:   "watch [root]",
		Short: "Re-classify a source tree whenever it changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(a, cmd, args)
		},
	}
	watchCmd.Flags().Duration("debounce", watch.DefaultDebounce, "Quiet period before re-classifying")
	a.viper.BindPFlag("debounce", watchCmd.Flags().Lookup("debounce"))
	return watchCmd
}

func runWatch(a *app, cmd *cobra.Command, args []string) error {
	root, err := a.root(args)
	if err != nil {
		return err
	}
	classifier, err := a.classifier()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var writeErr error
	w, err := watch.New(watch.Config{
		Root:       root,
		Classifier: classifier,
		Debounce:   a.config.Debounce,
		Logger:     a.logger.Stage("watch"),
		OnChange: func(c *catalog.Catalog) {
			format := a.config.Output
			if format == "text" {
				format = "json"
			}
			if err := writeOutput(out, format, c.Paths(), nil); err != nil && writeErr == nil {
				writeErr = err
			}
		},
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := w.Run(ctx); err != nil {
		return err
	}
	return writeErr
}
