// Package lexer implements the Mil tokeniser.
//
// The lexer converts Mil source text into a lazy stream of [ast.Token] values.
// Call [New] to create a lexer and then call [Lexer.NextToken] until it returns
// a token with Type == [ast.EOF], or range over [Lexer.Tokens].
//
// Design notes:
//   - Single pass over UTF-8 input, one rune at a time; the cursor never moves
//     backward.
//   - Tokens are spans: the lexeme is source[tok.Start:tok.End], nothing is
//     copied or allocated per token.
//   - Line and column are tracked for every token (1-based, columns in runes).
//   - Comments (// to end of line) are consumed silently.
//   - Multi-character operators (** == => != << <= >> >=) need one rune of
//     look-ahead and are resolved with match.
//   - The first scan error is sticky: the lexer records it, stops producing
//     tokens and returns EOF from then on. Callers tell a clean end of input
//     from an error stop with [Lexer.Failed] or [Lexer.Err].
package lexer

import (
	"iter"
	"unicode"
	"unicode/utf8"

	"github.com/metaphox/mil-lang/ast"
	"github.com/metaphox/mil-lang/diag"
)

// eof is returned by peek and advance once the input is exhausted.
const eof rune = -1

// Lexer holds all state required to tokenise a single Mil source string.
// Create one with [New]; never copy a Lexer after first use.
type Lexer struct {
	input string // the full source text
	pos   int    // byte offset of the next rune to read
	line  int    // line of the next rune
	col   int    // column of the next rune

	start    int // byte offset where the current token starts
	tokLine  int
	tokCol   int
	finished bool
	err      *diag.Error
}

// New creates a [Lexer] over input. Nothing is scanned until the first call
// to [Lexer.NextToken].
func New(input string) *Lexer {
	return &Lexer{
		input: input,
		line:  1,
		col:   1,
	}
}

// Source returns the text being scanned.
func (l *Lexer) Source() string { return l.input }

// Lexeme returns the source text of tok.
func (l *Lexer) Lexeme(tok ast.Token) string { return tok.Lexeme(l.input) }

// Failed reports whether a scan error has occurred. Once set it stays set.
func (l *Lexer) Failed() bool { return l.err != nil }

// Err returns the first scan error, or nil.
func (l *Lexer) Err() error {
	if l.err == nil {
		return nil
	}
	return l.err
}

// NextToken returns the next token from the input.
//
// Whitespace and comments are skipped before each token. When the input is
// exhausted, or after a scan error, NextToken returns an EOF token on every
// subsequent call.
func (l *Lexer) NextToken() ast.Token {
	if l.finished {
		return l.eofToken()
	}
	l.skipWhitespaceAndComments()

	l.start, l.tokLine, l.tokCol = l.pos, l.line, l.col

	c := l.advance()
	if c == eof {
		l.finished = true
		return l.eofToken()
	}

	switch {
	case isDigit(c):
		return l.readNumber()
	case isIdentStart(c):
		return l.readIdentifier()
	}

	switch c {
	// ── Single-character tokens ─────────────────────────────────────────────
	case '+':
		return l.makeToken(ast.PLUS)
	case '-':
		return l.makeToken(ast.MINUS)
	case '/':
		return l.makeToken(ast.SLASH)
	case '%':
		return l.makeToken(ast.PERCENT)
	case '&':
		return l.makeToken(ast.AMPERSAND)
	case '|':
		return l.makeToken(ast.BAR)
	case '^':
		return l.makeToken(ast.CARET)
	case '~':
		return l.makeToken(ast.TILDE)
	case '(':
		return l.makeToken(ast.LPAREN)
	case ')':
		return l.makeToken(ast.RPAREN)
	case '{':
		return l.makeToken(ast.LBRACE)
	case '}':
		return l.makeToken(ast.RBRACE)
	case '[':
		return l.makeToken(ast.LBRACKET)
	case ']':
		return l.makeToken(ast.RBRACKET)
	case ';':
		return l.makeToken(ast.SEMICOLON)
	case ',':
		return l.makeToken(ast.COMMA)
	case '.':
		return l.makeToken(ast.DOT)

	// ── Operators that may be one or two characters ─────────────────────────
	case '*':
		if l.match('*') {
			return l.makeToken(ast.POW)
		}
		return l.makeToken(ast.STAR)
	case '=':
		if l.match('=') {
			return l.makeToken(ast.EQ)
		}
		if l.match('>') {
			return l.makeToken(ast.FAT_ARROW)
		}
		return l.makeToken(ast.ASSIGN)
	case '!':
		if l.match('=') {
			return l.makeToken(ast.NEQ)
		}
		return l.makeToken(ast.BANG)
	case '<':
		if l.match('<') {
			return l.makeToken(ast.SHL)
		}
		if l.match('=') {
			return l.makeToken(ast.LTE)
		}
		return l.makeToken(ast.LT)
	case '>':
		if l.match('>') {
			return l.makeToken(ast.SHR)
		}
		if l.match('=') {
			return l.makeToken(ast.GTE)
		}
		return l.makeToken(ast.GT)

	// ── Literals with an opening marker ─────────────────────────────────────
	case '"':
		return l.readString()
	case '\'':
		return l.readChar()
	case ':':
		return l.readSigil(ast.ATOM, ':')
	case '@':
		return l.readSigil(ast.BUILTIN, '@')
	}

	return l.fail(l.tokLine, l.tokCol, "unexpected symbol '%c'", c)
}

// Tokens returns the remaining tokens as a lazy sequence. The sequence ends at
// end of input or at the first scan error; the EOF marker itself is not
// yielded. Like the lexer, it cannot be restarted once exhausted.
func (l *Lexer) Tokens() iter.Seq[ast.Token] {
	return func(yield func(ast.Token) bool) {
		for {
			tok := l.NextToken()
			if tok.Type == ast.EOF || !yield(tok) {
				return
			}
		}
	}
}

// Tokenize scans all of src and returns its tokens without the EOF marker.
// On a scan error the tokens before it are returned along with the error.
func Tokenize(src string) ([]ast.Token, error) {
	l := New(src)
	var toks []ast.Token
	for tok := range l.Tokens() {
		toks = append(toks, tok)
	}
	return toks, l.Err()
}

// ── Internal helpers ──────────────────────────────────────────────────────────

// advance consumes one rune and returns it, or eof at the end of input.
// Newlines bump the line counter and reset the column.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.input) {
		return eof
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

// peek returns the next rune without consuming it.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

// peekNext returns the rune after the next one without consuming anything.
func (l *Lexer) peekNext() rune {
	if l.pos >= len(l.input) {
		return eof
	}
	_, size := utf8.DecodeRuneInString(l.input[l.pos:])
	if l.pos+size >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos+size:])
	return r
}

// match consumes the next rune if it equals want.
func (l *Lexer) match(want rune) bool {
	if l.peek() != want {
		return false
	}
	l.advance()
	return true
}

// makeToken builds a token spanning from the token start to the cursor.
func (l *Lexer) makeToken(tt ast.TokenType) ast.Token {
	return ast.Token{Type: tt, Start: l.start, End: l.pos, Line: l.tokLine, Col: l.tokCol}
}

func (l *Lexer) eofToken() ast.Token {
	return ast.Token{Type: ast.EOF, Start: l.pos, End: l.pos, Line: l.line, Col: l.col}
}

// fail records a scan error at the given position, stops the lexer and
// returns EOF. Only the first error is kept.
func (l *Lexer) fail(line, col int, format string, args ...any) ast.Token {
	if l.err == nil {
		l.err = diag.Errorf(diag.Scan, line, col, format, args...)
	}
	l.finished = true
	return l.eofToken()
}

// skipWhitespaceAndComments advances past whitespace and line comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch l.peek() {
		case ' ', '\t', '\r', '\n':
			l.advance()
		case '/':
			if l.peekNext() != '/' {
				return // lone '/' is the division operator
			}
			for r := l.peek(); r != '\n' && r != eof; r = l.peek() {
				l.advance()
			}
		default:
			return
		}
	}
}

// readIdentifier scans the rest of an identifier and classifies it as a
// keyword or IDENT. The first rune has already been consumed.
func (l *Lexer) readIdentifier() ast.Token {
	for isIdentPart(l.peek()) {
		l.advance()
	}
	return l.makeToken(ast.LookupIdent(l.input[l.start:l.pos]))
}

// readNumber scans an INT or FLOAT. The first digit has already been
// consumed. A '.' directly after the digits must be followed by a digit.
func (l *Lexer) readNumber() ast.Token {
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() != '.' {
		return l.makeToken(ast.INT)
	}
	if !isDigit(l.peekNext()) {
		return l.fail(l.line, l.col, "expect digits after '.'")
	}
	l.advance() // consume '.'
	for isDigit(l.peek()) {
		l.advance()
	}
	return l.makeToken(ast.FLOAT)
}

// readString scans a double-quoted string. The opening '"' has already been
// consumed; the lexeme includes both quotes. Strings may span lines.
func (l *Lexer) readString() ast.Token {
	for {
		switch l.advance() {
		case '"':
			return l.makeToken(ast.STRING)
		case eof:
			return l.fail(l.tokLine, l.tokCol, "unterminated string")
		}
	}
}

// readChar scans a character literal: exactly one rune then a closing quote.
func (l *Lexer) readChar() ast.Token {
	switch l.peek() {
	case eof:
		return l.fail(l.line, l.col, "expected character got 'EOF'")
	case '\'':
		return l.fail(l.line, l.col, "empty character literal")
	}
	l.advance()
	if next := l.peek(); next != '\'' {
		line, col := l.line, l.col
		if next == eof {
			return l.fail(line, col, "expected ''' got 'EOF'")
		}
		return l.fail(line, col, "expected ''' got '%c'", next)
	}
	l.advance()
	return l.makeToken(ast.CHAR)
}

// readSigil scans an atom (:name) or builtin (@name). The sigil has already
// been consumed and must be followed by at least one identifier character.
func (l *Lexer) readSigil(tt ast.TokenType, sigil rune) ast.Token {
	if !isIdentPart(l.peek()) {
		return l.fail(l.tokLine, l.tokCol, "expected identifier after '%c'", sigil)
	}
	for isIdentPart(l.peek()) {
		l.advance()
	}
	return l.makeToken(tt)
}

// isIdentStart reports whether r may begin an identifier.
func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// isIdentPart reports whether r may continue an identifier.
func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}

// isDigit reports whether r is an ASCII decimal digit (0–9).
func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
