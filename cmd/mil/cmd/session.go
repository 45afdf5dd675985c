package cmd

import (
	"strings"

	"github.com/google/uuid"

	"github.com/metaphox/mil-lang/ast"
	"github.com/metaphox/mil-lang/config"
	"github.com/metaphox/mil-lang/lexer"
	"github.com/metaphox/mil-lang/parser"
	"github.com/metaphox/mil-lang/sexpr"
)

// newParser starts a parse session over src: a fresh lexer and parser pair,
// logged under its own session id.
func (a *app) newParser(src string) *parser.Parser {
	id := uuid.NewString()
	logger := a.log.With("session", id)
	logger.Debug("parse session", "bytes", len(src))
	return parser.New(lexer.New(src),
		parser.WithLogger(logger),
		parser.WithMaxDepth(a.cfg.MaxDepth),
	)
}

// parseOne parses a single expression, as typed on one input line.
func (a *app) parseOne(src string) (ast.Expression, error) {
	return a.newParser(src).Parse()
}

// parseAll parses a whole file of ';'-separated expressions.
func (a *app) parseAll(src string) ([]ast.Expression, error) {
	return a.newParser(src).ParseAll()
}

// render formats a tree in the configured output format.
func (a *app) render(e ast.Expression) (string, error) {
	if a.cfg.Format == config.FormatYAML {
		out, err := sexpr.YAML(e)
		if err != nil {
			return "", err
		}
		return strings.TrimRight(string(out), "\n"), nil
	}
	return sexpr.Format(e), nil
}
