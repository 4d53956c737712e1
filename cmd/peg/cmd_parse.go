package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/peg/cst"
	"github.com/dhamidi/peg/ebnfpeg"
	"github.com/dhamidi/peg/format"
	"github.com/dhamidi/peg/peg"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var grammarFile string
	var startProduction string
	var skip string
	var partial bool
	var outputFormat string
	var includePositions bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a file with an EBNF grammar and dump the syntax tree",
		Long:  "Parse a file (or - for standard input) with an EBNF grammar and dump the syntax tree.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rule, err := ebnfpeg.CompileFile(grammarFile, startProduction, ebnfpeg.WithSkip(skip))
			if err != nil {
				return fmt.Errorf("compile grammar: %w", err)
			}

			data, err := readInput(args[0])
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			var opts []peg.Option
			if partial {
				opts = append(opts, peg.WithPartial())
			}
			v, err := peg.Compile(rule, opts...).Parse(string(data))
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			node := v.(*cst.Node)

			var encoder format.Encoder
			switch outputFormat {
			case "json":
				encoder = format.NewJSONEncoder(os.Stdout)
			case "tree":
				enc := format.NewTreeEncoder(os.Stdout)
				if !includePositions {
					enc = enc.WithoutPositions()
				}
				encoder = enc
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			if err := encoder.Encode(node); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&grammarFile, "grammar", "g", "", "EBNF grammar file")
	cmd.Flags().StringVarP(&startProduction, "start", "s", "", "start production")
	cmd.Flags().StringVar(&skip, "skip", ebnfpeg.DefaultSkip, "regular expression skipped between tokens (empty to disable)")
	cmd.Flags().BoolVar(&partial, "partial", false, "accept input with trailing unparsed text")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (tree, json)")
	cmd.Flags().BoolVar(&includePositions, "positions", true, "include positions in tree output")
	cmd.MarkFlagRequired("grammar")
	cmd.MarkFlagRequired("start")

	return cmd
}

func readInput(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}
