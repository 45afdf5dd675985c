// Package ast defines the token types and expression tree used by the Mil
// lexer and parser.
//
// Tokens are the smallest meaningful units of Mil source text. A token does not
// own its text: it records the byte span it was scanned from, and the lexeme is
// recovered by slicing the source with [Token.Lexeme]. Position is
// 1-based: the first character of the input is Line 1, Col 1.
package ast

// TokenType identifies the category of a scanned token.
type TokenType int

const (
	// ── Special ────────────────────────────────────────────────────────────────

	// ILLEGAL is the zero value. The lexer never emits it for well-formed input;
	// it is the "no token yet" state of the parser.
	ILLEGAL TokenType = iota
	// EOF marks the end of the token stream, either because the input was
	// exhausted or because the lexer stopped on a scan error.
	EOF

	// ── Literals ───────────────────────────────────────────────────────────────

	// IDENT is an identifier: a letter or '_' followed by letters, digits or '_'.
	IDENT
	// INT is a decimal integer literal: 0, 42.
	INT
	// FLOAT is a decimal literal with a fractional part: 3.14. A '.' must be
	// followed by at least one digit.
	FLOAT
	// STRING is a double-quoted literal. The lexeme includes both quotes.
	STRING
	// CHAR is a single-quoted literal holding exactly one character: 'a'.
	CHAR
	// ATOM is a ':'-prefixed name: :ok
	ATOM
	// BUILTIN is an '@'-prefixed name: @print
	BUILTIN

	// ── Keywords ───────────────────────────────────────────────────────────────

	FN
	MOD
	AND
	OR
	XOR
	WHILE
	FOR
	IF
	ELSE

	// ── Operators ───────────────────────────────────────────────────────────────

	PLUS      // +
	MINUS     // -
	STAR      // *
	SLASH     // /
	PERCENT   // %
	POW       // **
	ASSIGN    // =
	EQ        // ==
	NEQ       // !=
	LT        // <
	GT        // >
	LTE       // <=
	GTE       // >=
	SHL       // <<
	SHR       // >>
	AMPERSAND // &
	BAR       // |
	CARET     // ^
	TILDE     // ~
	BANG      // !
	FAT_ARROW // =>

	// ── Delimiters ──────────────────────────────────────────────────────────────

	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]
	SEMICOLON // ;
	COMMA     // ,
	DOT       // .

	tokenTypeCount
)

var tokenNames = [tokenTypeCount]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	IDENT:   "IDENT",
	INT:     "INT",
	FLOAT:   "FLOAT",
	STRING:  "STRING",
	CHAR:    "CHAR",
	ATOM:    "ATOM",
	BUILTIN: "BUILTIN",

	FN:    "FN",
	MOD:   "MOD",
	AND:   "AND",
	OR:    "OR",
	XOR:   "XOR",
	WHILE: "WHILE",
	FOR:   "FOR",
	IF:    "IF",
	ELSE:  "ELSE",

	PLUS:      "PLUS",
	MINUS:     "MINUS",
	STAR:      "STAR",
	SLASH:     "SLASH",
	PERCENT:   "PERCENT",
	POW:       "POW",
	ASSIGN:    "ASSIGN",
	EQ:        "EQ",
	NEQ:       "NEQ",
	LT:        "LT",
	GT:        "GT",
	LTE:       "LTE",
	GTE:       "GTE",
	SHL:       "SHL",
	SHR:       "SHR",
	AMPERSAND: "AMPERSAND",
	BAR:       "BAR",
	CARET:     "CARET",
	TILDE:     "TILDE",
	BANG:      "BANG",
	FAT_ARROW: "FAT_ARROW",

	LPAREN:    "LPAREN",
	RPAREN:    "RPAREN",
	LBRACE:    "LBRACE",
	RBRACE:    "RBRACE",
	LBRACKET:  "LBRACKET",
	RBRACKET:  "RBRACKET",
	SEMICOLON: "SEMICOLON",
	COMMA:     "COMMA",
	DOT:       "DOT",
}

// String returns the upper-case name of the token type, e.g. "LTE".
func (tt TokenType) String() string {
	if tt < 0 || tt >= tokenTypeCount || tokenNames[tt] == "" {
		return "TokenType(?)"
	}
	return tokenNames[tt]
}

// IsLiteral reports whether tokens of this type carry a value in their lexeme.
func (tt TokenType) IsLiteral() bool {
	return tt >= IDENT && tt <= BUILTIN
}

// keywords maps the literal text of every Mil keyword to its TokenType.
// The lexer consults this map when it finishes scanning an identifier.
var keywords = map[string]TokenType{
	"fn":    FN,
	"mod":   MOD,
	"and":   AND,
	"or":    OR,
	"xor":   XOR,
	"while": WHILE,
	"for":   FOR,
	"if":    IF,
	"else":  ELSE,
}

// LookupIdent checks whether ident is a reserved keyword and returns the
// corresponding TokenType. Matching is exact and case-sensitive; anything
// else is IDENT.
func LookupIdent(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return IDENT
}

// Token is a single lexical unit produced by the Mil lexer.
//
// Start and End are byte offsets into the source the token was scanned from;
// the lexeme is source[Start:End]. Line and Col locate the first character.
type Token struct {
	Type  TokenType
	Start int
	End   int
	Line  int
	Col   int
}

// Lexeme returns the exact text of the token within src, which must be the
// same source the token was scanned from.
func (t Token) Lexeme(src string) string {
	return src[t.Start:t.End]
}

// Len returns the lexeme length in bytes.
func (t Token) Len() int { return t.End - t.Start }

// String returns the token type name. Use Lexeme for the source text.
func (t Token) String() string {
	return t.Type.String()
}
