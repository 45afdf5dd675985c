package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/metaphox/mil-lang/ast"
	"github.com/metaphox/mil-lang/config"
	"github.com/metaphox/mil-lang/diag"
)

func newParseCmd(a *app) *cobra.Command {
	var whole bool

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse expressions and print their syntax trees",
		Long: `Parse reads a file (or standard input) and prints one tree per
expression. By default every line is a separate expression; with --whole
the input is one program of ';'-separated expressions.

Errors are reported with their location and parsing continues with the next
expression.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if whole {
				a.cfg.Mode = config.ModeWhole
			}
			in, name, closeFn, err := openInput(cmd, args)
			if err != nil {
				return err
			}
			defer closeFn()

			var failed int
			if a.cfg.Mode == config.ModeWhole {
				failed, err = a.parseWhole(cmd, in)
			} else {
				failed, err = a.parseLines(cmd, in)
			}
			if err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%s: %d expression(s) failed to parse", name, failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&whole, "whole", "w", false, "treat the input as one ';'-separated program")
	return cmd
}

// openInput opens the named file, or standard input when no file is given.
func openInput(cmd *cobra.Command, args []string) (io.Reader, string, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		return cmd.InOrStdin(), "<stdin>", func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, "", nil, err
	}
	return f, args[0], func() { f.Close() }, nil
}

// parseLines parses every input line on its own and returns how many failed.
func (a *app) parseLines(cmd *cobra.Command, in io.Reader) (int, error) {
	out := cmd.OutOrStdout()
	errOut := a.printer(cmd.ErrOrStderr())

	failed := 0
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := sc.Text()
		expr, err := a.parseOne(line)
		if err != nil {
			failed++
			errOut.PrintLine(lineNo, line, err)
			continue
		}
		if ast.IsEmpty(expr) {
			continue
		}
		text, err := a.render(expr)
		if err != nil {
			return failed, err
		}
		fmt.Fprintln(out, text)
	}
	return failed, sc.Err()
}

// parseWhole parses the entire input as one program.
func (a *app) parseWhole(cmd *cobra.Command, in io.Reader) (int, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return 0, err
	}
	src := string(data)
	exprs, perr := a.parseAll(src)
	for _, e := range exprs {
		text, err := a.render(e)
		if err != nil {
			return 0, err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
	}
	if perr != nil {
		a.printer(cmd.ErrOrStderr()).Print(src, perr)
		return len(diag.Flatten(perr)), nil
	}
	return 0, nil
}
