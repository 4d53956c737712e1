package main

import (
	"fmt"
	"os"
	"reflect"

	"github.com/dhamidi/peg/ebnfpeg"
	"github.com/spf13/cobra"
	"golang.org/x/exp/ebnf"
)

func newCheckCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:           "check <grammar>",
		Short:         "Parse and verify an EBNF grammar file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			f, err := os.Open(filename)
			if err != nil {
				return fmt.Errorf("open file: %w", err)
			}
			defer f.Close()

			grammar, err := ebnf.Parse(filename, f)
			if err != nil {
				printErrors(err)
				return err
			}

			if startProduction == "" {
				fmt.Printf("%s: %d productions\n", filename, len(grammar))
				return nil
			}

			if err := ebnf.Verify(grammar, startProduction); err != nil {
				printErrors(err)
				return err
			}

			if _, err := ebnfpeg.Compile(grammar, startProduction); err != nil {
				printErrors(err)
				return err
			}

			fmt.Printf("%s: %d productions, start %s ok\n", filename, len(grammar), startProduction)
			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "", "start production for verification (if empty, only checks syntax)")

	return cmd
}

// printErrors prints each error of an error list on its own line.
func printErrors(err error) {
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Println(v.Index(i).Interface())
		}
	} else {
		fmt.Println(err)
	}
}
