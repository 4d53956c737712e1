package main

import (
	"encoding/json"
	"fmt"

	pegjson "github.com/dhamidi/peg/grammars/json"
	"github.com/spf13/cobra"
)

func newJSONCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "json <file>",
		Short: "Validate a JSON file and pretty-print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			v, err := pegjson.Parse(string(data))
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			out, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	return cmd
}
