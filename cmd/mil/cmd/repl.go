package cmd

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/metaphox/mil-lang/ast"
	"github.com/metaphox/mil-lang/diag"
	"github.com/metaphox/mil-lang/internal/repl"
)

func newReplCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Parse expressions interactively",
		Long: `Repl reads expressions from the terminal and shows their syntax tree.
When standard input is not a terminal it behaves like "mil parse".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(cmd.InOrStdin()) {
				failed, err := a.parseLines(cmd, cmd.InOrStdin())
				if err != nil {
					return err
				}
				if failed > 0 {
					return errors.New("some expressions failed to parse")
				}
				return nil
			}

			model := repl.New(repl.Config{
				Prompt:  a.cfg.REPL.Prompt,
				History: a.cfg.REPL.History,
			}, a.evalLine)
			prog := tea.NewProgram(model,
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err := prog.Run()
			return err
		},
	}
}

// evalLine parses one REPL line and renders the result. On failure the
// returned error's message is the formatted diagnostic.
func (a *app) evalLine(line string) (string, error) {
	expr, err := a.parseOne(line)
	if err != nil {
		var b strings.Builder
		diag.NewPrinter(&b, false).Print(line, err)
		return "", errors.New(strings.TrimRight(b.String(), "\n"))
	}
	if ast.IsEmpty(expr) {
		return "", nil
	}
	return a.render(expr)
}
