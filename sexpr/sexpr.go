// Package sexpr reads the S-expression rendering of Mil expressions back
// into an [ast.Expression], and dumps trees as YAML.
//
// The textual form is the one produced by the String methods of package ast:
//
//	(+ a (* b c))   binary operator, exactly two operands
//	(- x)           unary operator (-, !, ~), exactly one operand
//	(= x 1)         assignment to a name
//	(. m f)         field access
//	(f a b)         call: any other head is the callee
//	()              the empty expression
//
// Atoms are lexed with the Mil lexer, so identifiers, numbers, strings,
// characters, :atoms and @builtins are spelled exactly as in source.
package sexpr

import (
	"strconv"
	"unicode/utf8"

	"github.com/metaphox/mil-lang/ast"
	"github.com/metaphox/mil-lang/diag"
	"github.com/metaphox/mil-lang/lexer"
)

var (
	binaryBySymbol = map[string]ast.BinaryOperator{}
	unaryBySymbol  = map[string]ast.UnaryOperator{}
)

func init() {
	for op := ast.BinaryOperator(0); op < ast.BinaryOperatorCount; op++ {
		binaryBySymbol[op.String()] = op
	}
	for op := ast.UnaryOperator(0); op < ast.UnaryOperatorCount; op++ {
		unaryBySymbol[op.String()] = op
	}
}

// Format renders e in S-expression form. A nil expression renders as ().
func Format(e ast.Expression) string {
	if e == nil {
		return "()"
	}
	return e.String()
}

// Parse reads exactly one S-expression from src. Blank input yields
// *ast.Empty.
func Parse(src string) (ast.Expression, error) {
	r := &reader{l: lexer.New(src)}
	r.advance()
	if r.cur.Type == ast.EOF {
		if err := r.l.Err(); err != nil {
			return nil, err
		}
		return &ast.Empty{Token: r.cur}, nil
	}
	e, err := r.read()
	if err != nil {
		return nil, err
	}
	if r.cur.Type != ast.EOF {
		return nil, r.errorAt(r.cur, "unexpected token '%s' after expression", r.text(r.cur))
	}
	if err := r.l.Err(); err != nil {
		return nil, err
	}
	return e, nil
}

type reader struct {
	l   *lexer.Lexer
	cur ast.Token
}

func (r *reader) advance() ast.Token {
	prev := r.cur
	r.cur = r.l.NextToken()
	return prev
}

func (r *reader) text(tok ast.Token) string {
	if tok.Type == ast.EOF {
		return "EOF"
	}
	return r.l.Lexeme(tok)
}

func (r *reader) errorAt(tok ast.Token, format string, args ...any) error {
	return diag.Errorf(diag.Parse, tok.Line, tok.Col, format, args...)
}

// eofErr reports running out of tokens, preferring the lexer's own error.
func (r *reader) eofErr() error {
	if err := r.l.Err(); err != nil {
		return err
	}
	return r.errorAt(r.cur, "unexpected end of input")
}

func (r *reader) read() (ast.Expression, error) {
	if r.cur.Type == ast.EOF {
		return nil, r.eofErr()
	}
	if r.cur.Type == ast.LPAREN {
		return r.readList()
	}
	tok := r.advance()
	text := r.l.Lexeme(tok)
	switch tok.Type {
	case ast.IDENT:
		return &ast.Identifier{Token: tok, Name: text}, nil
	case ast.INT:
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, r.errorAt(tok, "integer literal %s out of range", text)
		}
		return &ast.IntLiteral{Token: tok, Value: v}, nil
	case ast.FLOAT:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, r.errorAt(tok, "float literal %s out of range", text)
		}
		return &ast.FloatLiteral{Token: tok, Value: v, Raw: text}, nil
	case ast.STRING:
		return &ast.StringLiteral{Token: tok, Value: text[1 : len(text)-1]}, nil
	case ast.CHAR:
		c, _ := utf8.DecodeRuneInString(text[1:])
		return &ast.CharLiteral{Token: tok, Value: c}, nil
	case ast.ATOM:
		return &ast.AtomLiteral{Token: tok, Name: text[1:]}, nil
	case ast.BUILTIN:
		return &ast.BuiltinLiteral{Token: tok, Name: text[1:]}, nil
	}
	return nil, r.errorAt(tok, "unexpected token '%s'", text)
}

// readList reads a parenthesised form. The current token is '('.
func (r *reader) readList() (ast.Expression, error) {
	open := r.advance()
	if r.cur.Type == ast.RPAREN {
		r.advance()
		return &ast.Empty{Token: open}, nil
	}

	head := r.cur
	headText := r.text(head)
	switch {
	case head.Type == ast.ASSIGN:
		return r.readAssign()
	case head.Type == ast.DOT:
		return r.readField()
	case head.Type != ast.IDENT && head.Type != ast.LPAREN:
		if _, ok := binaryBySymbol[headText]; ok {
			return r.readOperator(head)
		}
		if _, ok := unaryBySymbol[headText]; ok {
			return r.readOperator(head)
		}
	}

	callee, err := r.read()
	if err != nil {
		return nil, err
	}
	args, err := r.readUntilClose()
	if err != nil {
		return nil, err
	}
	return &ast.CallExpr{Token: open, Callee: callee, Args: args}, nil
}

// readOperator reads the operands of a unary or binary operator form and
// picks the node from the operand count.
func (r *reader) readOperator(head ast.Token) (ast.Expression, error) {
	r.advance()
	sym := r.l.Lexeme(head)
	operands, err := r.readUntilClose()
	if err != nil {
		return nil, err
	}
	switch len(operands) {
	case 1:
		if op, ok := unaryBySymbol[sym]; ok {
			return &ast.UnaryExpr{Token: head, Op: op, Right: operands[0]}, nil
		}
	case 2:
		if op, ok := binaryBySymbol[sym]; ok {
			return &ast.BinaryExpr{Token: head, Op: op, Left: operands[0], Right: operands[1]}, nil
		}
	}
	return nil, r.errorAt(head, "operator '%s' does not take %d operand(s)", sym, len(operands))
}

func (r *reader) readAssign() (ast.Expression, error) {
	eq := r.advance()
	if r.cur.Type != ast.IDENT {
		return nil, r.errorAt(r.cur, "expected name got '%s'", r.text(r.cur))
	}
	name := r.l.Lexeme(r.advance())
	value, err := r.read()
	if err != nil {
		return nil, err
	}
	if err := r.close(); err != nil {
		return nil, err
	}
	return &ast.Assign{Token: eq, Name: name, Value: value}, nil
}

func (r *reader) readField() (ast.Expression, error) {
	dot := r.advance()
	obj, err := r.read()
	if err != nil {
		return nil, err
	}
	if r.cur.Type != ast.IDENT {
		return nil, r.errorAt(r.cur, "expected field name got '%s'", r.text(r.cur))
	}
	field := r.l.Lexeme(r.advance())
	if err := r.close(); err != nil {
		return nil, err
	}
	return &ast.FieldExpr{Token: dot, Object: obj, Field: field}, nil
}

// readUntilClose reads expressions up to and including the closing ')'.
func (r *reader) readUntilClose() ([]ast.Expression, error) {
	var out []ast.Expression
	for r.cur.Type != ast.RPAREN {
		if r.cur.Type == ast.EOF {
			return nil, r.eofErr()
		}
		e, err := r.read()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	r.advance()
	return out, nil
}

func (r *reader) close() error {
	if r.cur.Type == ast.RPAREN {
		r.advance()
		return nil
	}
	if r.cur.Type == ast.EOF {
		return r.eofErr()
	}
	return r.errorAt(r.cur, "expected ')' got '%s'", r.text(r.cur))
}
