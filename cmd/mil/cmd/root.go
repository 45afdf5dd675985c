package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/metaphox/mil-lang/config"
	"github.com/metaphox/mil-lang/diag"
)

// app is the state shared by all subcommands of one invocation.
type app struct {
	cfgFile string
	verbose bool
	format  string

	cfg *config.Config
	log *log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "mil",
		Short: "Mil expression lexer and parser",
		Long: `mil tokenises and parses expressions of the Mil language and prints
the resulting syntax tree.

Commands:
  parse   - parse lines or whole files and print the trees
  tokens  - dump the token stream of a file
  repl    - interactive parse loop
  version - show version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./"+config.DefaultFile+")")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().StringVarP(&a.format, "format", "f", "", "output format: sexpr or yaml")

	root.AddCommand(
		newParseCmd(a),
		newTokensCmd(a),
		newReplCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the mil command line.
func Execute() error {
	root := newRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), err)
	}
	return err
}

// setup loads the configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.format != "" {
		cfg.Format = a.format
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	a.cfg = cfg
	a.log = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Prefix: "mil",
		Level:  level,
	})
	a.log.Debug("configuration loaded", "file", a.cfgFile, "format", cfg.Format, "mode", cfg.Mode)
	return nil
}

// printer returns a diagnostics printer for w, coloured according to the
// configuration.
func (a *app) printer(w io.Writer) *diag.Printer {
	return diag.NewPrinter(w, a.useColor(w))
}

func (a *app) useColor(w io.Writer) bool {
	switch a.cfg.Color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	return isTerminal(w)
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
