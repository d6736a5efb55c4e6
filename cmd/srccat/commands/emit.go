/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: emit.go
Description: emit command. Prints the files the ANTLR grammar compiler will
generate for the given grammars without running it.
*/

package commands

import (
	"fmt"
	"io"

	"github.com/kleascm/srccat/pkg/antlr"
	"github.com/kleascm/srccat/pkg/fstree"
	"github.com/kleascm/srccat/pkg/interfaces"
	"github.com/spf13/cobra"
)

func newEmitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "emit <grammar.g>...",
		Short: "Print the outputs ANTLR will generate for grammars",
		Long: `Scan grammar files for "class X extends Lexer|Parser|TreeParser" declarations
and print the C++ files the grammar compiler will write for them, in order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmit(a, cmd, args)
		},
	}
}

func runEmit(a *app, cmd *cobra.Command, args []string) error {
	tree := fstree.NewOS()
	sources := make([]interfaces.Source, 0, len(args))
	for _, path := range args {
		entry, err := tree.Open(path)
		if err != nil {
			return fmt.Errorf("grammar %s: %w", path, err)
		}
		if entry.IsDir() {
			return fmt.Errorf("grammar %s is a directory", path)
		}
		sources = append(sources, entry)
	}

	outputs := antlr.NewInferrer(a.logger.Sink("emit")).InferOutputs(sources)
	return writeOutput(cmd.OutOrStdout(), a.config.Output, outputs, func(w io.Writer) error {
		for _, o := range outputs {
			fmt.Fprintln(w, o)
		}
		return nil
	})
}
