package parser

import (
	"fmt"

	"github.com/metaphox/mil-lang/ast"
)

// ── Operator precedence ───────────────────────────────────────────────────────

// Precedence is the binding strength of an infix operator. Higher binds
// tighter.
type Precedence int

// Precedence levels, ordered from lowest to highest.
const (
	precNone       Precedence = iota // not an infix operator
	precAssignment                   // =
	precOr                           // or xor
	precAnd                          // and
	precEquality                     // == !=
	precComparison                   // < > <= >=
	precTerm                         // + -
	precFactor                       // * / % mod ** << >> & | ^
	precUnary                        // -x !x ~x
	precCall                         // f(...) a.b
	precPrimary                      // literals and identifiers
)

var precedenceNames = [...]string{
	precNone:       "none",
	precAssignment: "assignment",
	precOr:         "or",
	precAnd:        "and",
	precEquality:   "equality",
	precComparison: "comparison",
	precTerm:       "term",
	precFactor:     "factor",
	precUnary:      "unary",
	precCall:       "call",
	precPrimary:    "primary",
}

func (p Precedence) String() string {
	if p < 0 || int(p) >= len(precedenceNames) {
		return fmt.Sprintf("Precedence(%d)", int(p))
	}
	return precedenceNames[p]
}

// infixRule pairs an operator token with its precedence and the node it
// builds. Every binary operator is left-associative.
type infixRule struct {
	prec Precedence
	op   ast.BinaryOperator
}

// infixRules is the single table from binary-operator tokens to precedence
// and AST operator. init checks that it covers every ast.BinaryOperator
// exactly once.
var infixRules = map[ast.TokenType]infixRule{
	ast.OR:  {precOr, ast.Or},
	ast.XOR: {precOr, ast.Xor},
	ast.AND: {precAnd, ast.And},

	ast.EQ:  {precEquality, ast.Equal},
	ast.NEQ: {precEquality, ast.NotEqual},

	ast.LT:  {precComparison, ast.Less},
	ast.GT:  {precComparison, ast.Greater},
	ast.LTE: {precComparison, ast.LessEqual},
	ast.GTE: {precComparison, ast.GreaterEqual},

	ast.PLUS:  {precTerm, ast.Add},
	ast.MINUS: {precTerm, ast.Sub},

	ast.STAR:      {precFactor, ast.Mul},
	ast.SLASH:     {precFactor, ast.Div},
	ast.PERCENT:   {precFactor, ast.Rem},
	ast.MOD:       {precFactor, ast.Mod},
	ast.POW:       {precFactor, ast.Pow},
	ast.SHL:       {precFactor, ast.Shl},
	ast.SHR:       {precFactor, ast.Shr},
	ast.AMPERSAND: {precFactor, ast.BitAnd},
	ast.BAR:       {precFactor, ast.BitOr},
	ast.CARET:     {precFactor, ast.BitXor},
}

// unaryOps maps prefix operator tokens to their AST operator.
var unaryOps = map[ast.TokenType]ast.UnaryOperator{
	ast.MINUS: ast.Neg,
	ast.BANG:  ast.Not,
	ast.TILDE: ast.BitNot,
}

// precedenceOf returns the infix precedence of tt, or precNone if tt cannot
// continue an expression.
func precedenceOf(tt ast.TokenType) Precedence {
	switch tt {
	case ast.ASSIGN:
		return precAssignment
	case ast.LPAREN, ast.DOT:
		return precCall
	}
	if r, ok := infixRules[tt]; ok {
		return r.prec
	}
	return precNone
}

func init() {
	if err := checkInfixRules(infixRules); err != nil {
		panic(err)
	}
}

// checkInfixRules verifies that rules builds each binary operator from
// exactly one token and that no rule has an invalid precedence.
func checkInfixRules(rules map[ast.TokenType]infixRule) error {
	var seen [ast.BinaryOperatorCount]ast.TokenType
	var found [ast.BinaryOperatorCount]bool
	for tt, r := range rules {
		if r.op < 0 || r.op >= ast.BinaryOperatorCount {
			return fmt.Errorf("parser: %s maps to unknown operator %d", tt, int(r.op))
		}
		if r.prec <= precNone || r.prec >= precUnary {
			return fmt.Errorf("parser: %s has binary precedence %s", tt, r.prec)
		}
		if found[r.op] {
			return fmt.Errorf("parser: operator %s built by both %s and %s", r.op, seen[r.op], tt)
		}
		found[r.op], seen[r.op] = true, tt
	}
	for op := ast.BinaryOperator(0); op < ast.BinaryOperatorCount; op++ {
		if !found[op] {
			return fmt.Errorf("parser: operator %s has no infix rule", op)
		}
	}
	return nil
}
