package main

import (
	"fmt"

	"github.com/dhamidi/peg/ebnfpeg"
	"github.com/dhamidi/peg/lsp"
	"github.com/dhamidi/peg/peg"
	"github.com/spf13/cobra"
)

func newLSPCmd() *cobra.Command {
	var grammarFile string
	var startProduction string
	var skip string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start a Language Server Protocol server checking documents against a grammar",
		RunE: func(cmd *cobra.Command, args []string) error {
			rule, err := ebnfpeg.CompileFile(grammarFile, startProduction, ebnfpeg.WithSkip(skip))
			if err != nil {
				return fmt.Errorf("compile grammar: %w", err)
			}
			server := lsp.NewServer(version, peg.Compile(rule))
			return server.RunStdio()
		},
	}

	cmd.Flags().StringVarP(&grammarFile, "grammar", "g", "", "EBNF grammar file")
	cmd.Flags().StringVarP(&startProduction, "start", "s", "", "start production")
	cmd.Flags().StringVar(&skip, "skip", ebnfpeg.DefaultSkip, "regular expression skipped between tokens (empty to disable)")
	cmd.MarkFlagRequired("grammar")
	cmd.MarkFlagRequired("start")

	return cmd
}
