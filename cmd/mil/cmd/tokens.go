package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/metaphox/mil-lang/lexer"
)

func newTokensCmd(a *app) *cobra.Command {
	var positions bool

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Dump the token stream of a file",
		Long: `Tokens scans a file (or standard input) and prints one token per line.
Literal tokens are followed by their lexeme:

  IDENT -> name
  ASSIGN
  INT -> 42`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _, closeFn, err := openInput(cmd, args)
			if err != nil {
				return err
			}
			defer closeFn()

			data, err := io.ReadAll(in)
			if err != nil {
				return err
			}
			src := string(data)

			out := cmd.OutOrStdout()
			l := lexer.New(src)
			count := 0
			for tok := range l.Tokens() {
				count++
				if positions {
					fmt.Fprintf(out, "%d:%d ", tok.Line, tok.Col)
				}
				if tok.Type.IsLiteral() {
					fmt.Fprintf(out, "%s -> %s\n", tok.Type, l.Lexeme(tok))
				} else {
					fmt.Fprintln(out, tok.Type)
				}
			}
			a.log.Debug("scanned", "tokens", count)

			if err := l.Err(); err != nil {
				a.printer(cmd.ErrOrStderr()).Print(src, err)
				return fmt.Errorf("scanning stopped after %d token(s)", count)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&positions, "positions", "p", false, "prefix each token with line:col")
	return cmd
}
