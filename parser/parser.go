// Package parser implements the Mil expression parser.
//
// The parser pulls tokens from a [lexer.Lexer] one at a time and builds an
// [ast.Expression] by precedence climbing: each level of recursion accepts
// infix operators only at or above a minimum precedence, so binding strength
// and associativity come from a single table rather than a grammar rule per
// level.
//
// Usage:
//
//	p := parser.New(lexer.New(source))
//	expr, err := p.Parse()
//	if err != nil { ... }
//
// Errors are returned, never raised: a malformed expression yields a located
// *diag.Error (or a diag.List from ParseAll) and the caller can carry on with
// the next input.
package parser

import (
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/metaphox/mil-lang/ast"
	"github.com/metaphox/mil-lang/diag"
	"github.com/metaphox/mil-lang/lexer"
)

// DefaultMaxDepth bounds the recursion of a single parse.
const DefaultMaxDepth = 512

// Parser holds the state of one parse session. It owns its lexer; create a
// fresh pair for every input.
type Parser struct {
	l     *lexer.Lexer
	cur   ast.Token // current lookahead token
	prev  ast.Token // most recently consumed token
	atEnd bool      // the lexer has returned EOF

	depth    int
	maxDepth int
	log      *log.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger makes the parser trace its decisions at debug level.
func WithLogger(logger *log.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.log = logger
		}
	}
}

// WithMaxDepth limits how deeply expressions may nest before parsing fails.
func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxDepth = n
		}
	}
}

// New creates a Parser reading tokens from l and primes the lookahead.
func New(l *lexer.Lexer, opts ...Option) *Parser {
	p := &Parser{
		l:        l,
		maxDepth: DefaultMaxDepth,
		log:      log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.advance()
	return p
}

// ParseString parses a single expression from src.
func ParseString(src string, opts ...Option) (ast.Expression, error) {
	return New(lexer.New(src), opts...).Parse()
}

// Parse parses one expression, optionally followed by ';', and requires the
// input to end there. Input holding no tokens yields *ast.Empty and no error.
func (p *Parser) Parse() (ast.Expression, error) {
	if p.atEnd {
		if err := p.l.Err(); err != nil {
			return nil, err
		}
		return &ast.Empty{Token: p.cur}, nil
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.match(ast.SEMICOLON)
	if !p.atEnd {
		return nil, p.errorAt(p.cur, "unexpected token '%s' after expression", p.lexeme(p.cur))
	}
	if err := p.l.Err(); err != nil {
		return nil, err
	}
	return expr, nil
}

// ParseAll parses a sequence of expressions separated by ';', as found in a
// source file. After an error the parser skips to the next ';' and carries
// on, so one pass reports every malformed expression. The returned error is
// a diag.List, or nil.
func (p *Parser) ParseAll() ([]ast.Expression, error) {
	var (
		exprs []ast.Expression
		errs  diag.List
	)
	for !p.atEnd {
		if p.match(ast.SEMICOLON) {
			continue
		}
		expr, err := p.parseExpression()
		if err == nil {
			err = p.scanErr()
		}
		if err == nil && !p.atEnd && !p.match(ast.SEMICOLON) {
			err = p.errorAt(p.cur, "expected ';' got '%s'", p.lexeme(p.cur))
		}
		if err != nil {
			p.record(&errs, err)
			p.synchronize()
			continue
		}
		exprs = append(exprs, expr)
	}
	if err := p.l.Err(); err != nil {
		p.record(&errs, err)
	}
	return exprs, errs.Err()
}

// ── Internal token management ─────────────────────────────────────────────────

// advance consumes the current token and pulls the next one from the lexer.
// Once the lexer returns EOF the parser is at end and stays there.
func (p *Parser) advance() {
	p.prev = p.cur
	if p.atEnd {
		return
	}
	p.cur = p.l.NextToken()
	if p.cur.Type == ast.EOF {
		p.atEnd = true
	}
}

// match consumes the current token if it has type tt.
func (p *Parser) match(tt ast.TokenType) bool {
	if p.atEnd || p.cur.Type != tt {
		return false
	}
	p.advance()
	return true
}

// expect consumes a token of type tt or fails. spelling is the token's text
// for the error message.
func (p *Parser) expect(tt ast.TokenType, spelling string) error {
	if p.match(tt) {
		return nil
	}
	if err := p.scanErr(); err != nil {
		return err
	}
	return p.errorAt(p.cur, "expected '%s' got '%s'", spelling, p.lexeme(p.cur))
}

// synchronize skips past the next ';' (or to end of input). A ';' that was
// itself the offending token has already been consumed.
func (p *Parser) synchronize() {
	if p.prev.Type == ast.SEMICOLON {
		return
	}
	for !p.atEnd {
		tt := p.cur.Type
		p.advance()
		if tt == ast.SEMICOLON {
			return
		}
	}
}

// lexeme returns the text of tok, or "EOF" for the end marker.
func (p *Parser) lexeme(tok ast.Token) string {
	if tok.Type == ast.EOF {
		return "EOF"
	}
	return p.l.Lexeme(tok)
}

// scanErr returns the lexer's error once the token stream has stopped.
func (p *Parser) scanErr() error {
	if !p.atEnd {
		return nil
	}
	return p.l.Err()
}

func (p *Parser) errorAt(tok ast.Token, format string, args ...any) *diag.Error {
	return diag.Errorf(diag.Parse, tok.Line, tok.Col, format, args...)
}

// record adds err to errs unless it is already the last entry; the lexer's
// sticky error can surface both from a parse function and at end of input.
func (p *Parser) record(errs *diag.List, err error) {
	for _, e := range diag.Flatten(err) {
		if n := len(*errs); n > 0 && (*errs)[n-1] == e {
			continue
		}
		errs.Add(e)
	}
}

// ── Precedence climbing ───────────────────────────────────────────────────────

// parseExpression parses a full expression, assignment included.
func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parsePrecedence(precAssignment)
}

// parsePrecedence parses a primary expression followed by every infix
// operator whose precedence is at least minPrec.
func (p *Parser) parsePrecedence(minPrec Precedence) (ast.Expression, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		return nil, p.errorAt(p.cur, "expression nested too deeply")
	}

	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		prec := p.curPrecedence()
		if prec == precNone || prec < minPrec {
			break
		}
		op := p.cur
		p.log.Debug("infix", "op", p.lexeme(op), "prec", prec, "min", minPrec, "line", op.Line, "col", op.Col)
		p.advance()
		left, err = p.parseInfix(left, op, prec)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

// curPrecedence is the infix precedence of the lookahead, precNone at end.
func (p *Parser) curPrecedence() Precedence {
	if p.atEnd {
		return precNone
	}
	return precedenceOf(p.cur.Type)
}

// parseInfix builds the node for operator op, whose left operand is left.
// The operator token has already been consumed.
func (p *Parser) parseInfix(left ast.Expression, op ast.Token, prec Precedence) (ast.Expression, error) {
	switch op.Type {
	case ast.ASSIGN:
		target, ok := left.(*ast.Identifier)
		if !ok {
			return nil, p.errorAt(op, "invalid assignment target '%s'", left.String())
		}
		// Right-associative: a = b = c is a = (b = c).
		value, err := p.parsePrecedence(precAssignment)
		if err != nil {
			return nil, err
		}
		return &ast.Assign{Token: op, Name: target.Name, Value: value}, nil

	case ast.LPAREN:
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		return &ast.CallExpr{Token: op, Callee: left, Args: args}, nil

	case ast.DOT:
		if err := p.expect(ast.IDENT, "identifier"); err != nil {
			return nil, err
		}
		return &ast.FieldExpr{Token: op, Object: left, Field: p.l.Lexeme(p.prev)}, nil
	}

	rule, ok := infixRules[op.Type]
	if !ok {
		return nil, p.errorAt(op, "no infix rule for '%s'", p.lexeme(op))
	}
	right, err := p.parsePrecedence(prec + 1)
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpr{Token: op, Op: rule.op, Left: left, Right: right}, nil
}

// parseArgs parses a call's argument list. The '(' has been consumed; on
// return the ')' has been consumed too.
func (p *Parser) parseArgs() ([]ast.Expression, error) {
	var args []ast.Expression
	if p.match(ast.RPAREN) {
		return args, nil
	}
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.match(ast.COMMA) {
			continue
		}
		if err := p.expect(ast.RPAREN, ")"); err != nil {
			return nil, err
		}
		return args, nil
	}
}

// parsePrimary parses a literal, identifier, grouping or unary expression.
func (p *Parser) parsePrimary() (ast.Expression, error) {
	if p.atEnd {
		if err := p.l.Err(); err != nil {
			return nil, err
		}
		return nil, p.errorAt(p.cur, "unexpected end of input where an expression was expected")
	}

	p.advance()
	tok := p.prev
	text := p.l.Lexeme(tok)

	switch tok.Type {
	case ast.IDENT:
		return &ast.Identifier{Token: tok, Name: text}, nil

	case ast.INT:
		val, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, p.errorAt(tok, "integer literal %s out of range", text)
		}
		return &ast.IntLiteral{Token: tok, Value: val}, nil

	case ast.FLOAT:
		val, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, p.errorAt(tok, "float literal %s out of range", text)
		}
		return &ast.FloatLiteral{Token: tok, Value: val, Raw: text}, nil

	case ast.STRING:
		return &ast.StringLiteral{Token: tok, Value: text[1 : len(text)-1]}, nil

	case ast.CHAR:
		r, _ := utf8.DecodeRuneInString(text[1:])
		return &ast.CharLiteral{Token: tok, Value: r}, nil

	case ast.ATOM:
		return &ast.AtomLiteral{Token: tok, Name: text[1:]}, nil

	case ast.BUILTIN:
		return &ast.BuiltinLiteral{Token: tok, Name: text[1:]}, nil

	case ast.LPAREN:
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(ast.RPAREN, ")"); err != nil {
			return nil, err
		}
		return inner, nil

	case ast.MINUS, ast.BANG, ast.TILDE:
		right, err := p.parsePrecedence(precUnary)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Token: tok, Op: unaryOps[tok.Type], Right: right}, nil
	}

	return nil, p.errorAt(tok, "unexpected token '%s' where an expression was expected", text)
}
