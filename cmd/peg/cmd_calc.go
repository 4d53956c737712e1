package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/peg/grammars/calc"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

func newCalcCmd() *cobra.Command {
	var showTree bool

	cmd := &cobra.Command{
		Use:   "calc [expression]",
		Short: "Evaluate an arithmetic expression, or start a calculator prompt",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return evalLine(cmd.OutOrStdout(), args[0], showTree)
			}
			return runCalcREPL(cmd.OutOrStdout(), showTree)
		},
	}

	cmd.Flags().BoolVar(&showTree, "tree", false, "print the parsed expression tree")

	return cmd
}

func evalLine(w io.Writer, text string, showTree bool) error {
	expr, err := calc.Parse(text)
	if err != nil {
		return err
	}
	if showTree {
		fmt.Fprintln(w, expr)
	}
	v, err := expr.Eval()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, strconv.FormatFloat(v, 'g', -1, 64))
	return nil
}

func runCalcREPL(w io.Writer, showTree bool) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		input, err := line.Prompt("calc> ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read line: %w", err)
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		if err := evalLine(w, input, showTree); err != nil {
			fmt.Fprintln(w, "error:", err)
		}
	}
}
