/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: catalog.go
Description: catalog and rules commands. Classifies a source tree and prints the
headers, sources and grammars found, or lists the classification rules.
*/

package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/kleascm/srccat/pkg/catalog"
	"github.com/spf13/cobra"
)

func newCatalogCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [root]",
		Short: "Classify the files of a source tree",
		Long: `Walk a source tree and sort every file into headers, sources or grammars.
Build files and editor temp files are skipped; anything unrecognized is reported
as a warning.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalog(a, cmd, args)
		},
	}
}

func runCatalog(a *app, cmd *cobra.Command, args []string) error {
	root, err := a.root(args)
	if err != nil {
		return err
	}
	classifier, err := a.classifier()
	if err != nil {
		return err
	}

	start := time.Now()
	cat := classifier.Classify(root)
	a.logger.LogCatalog(uuid.New().String(), root, len(cat.Headers), len(cat.Sources), len(cat.Grammars), time.Since(start))

	paths := cat.Paths()
	return writeOutput(cmd.OutOrStdout(), a.config.Output, paths, func(w io.Writer) error {
		for _, section := range []struct {
			name  string
			paths []string
		}{
			{"headers", paths.Headers},
			{"sources", paths.Sources},
			{"grammars", paths.Grammars},
		} {
			fmt.Fprintf(w, "%s (%d):\n", section.name, len(section.paths))
			for _, p := range section.paths {
				fmt.Fprintf(w, "  %s\n", p)
			}
		}
		return nil
	})
}

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the file classification rules in evaluation order",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			for i, r := range catalog.Rules() {
				bucket := r.Role.Bucket()
				if bucket == "" {
					bucket = "skipped"
				}
				fmt.Fprintf(w, "%d. %-20s %-36s -> %s\n", i+1, r.Role, r.Description, bucket)
			}
			fmt.Fprintf(w, "%d. %-20s %-36s -> warning\n", len(catalog.Rules())+1, catalog.RoleUnknown, "anything else")
		},
	}
}
