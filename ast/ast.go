// Expression tree for Mil.
//
// Expression is a closed sum type: the unexported exprNode method keeps other
// packages from adding variants, so a type switch over the variants below is
// exhaustive. Every node exclusively owns its children; trees are never shared
// and are not modified after the parser returns them.
//
//	Expression
//	  IntLiteral, FloatLiteral, StringLiteral, CharLiteral
//	  AtomLiteral, BuiltinLiteral, Identifier
//	  Assign, BinaryExpr, UnaryExpr, CallExpr, FieldExpr
//	  Empty
//
// String renders the S-expression form used by the driver and by package
// sexpr: (+ a b), (= x 1), (- x), (f a b), (. m f). Empty renders as ().
package ast

import (
	"strconv"
	"strings"
)

// Expression is implemented by every node of the tree.
type Expression interface {
	// Pos returns the token at which the node starts (or, for operators, the
	// operator token) for diagnostics.
	Pos() Token
	// String returns the S-expression rendering of the node.
	String() string
	exprNode()
}

// ── Operators ─────────────────────────────────────────────────────────────────

// BinaryOperator identifies the operation of a BinaryExpr.
type BinaryOperator int

const (
	Add BinaryOperator = iota
	Sub
	Mul
	Div
	Rem
	Pow
	Mod
	Equal
	NotEqual
	Less
	Greater
	LessEqual
	GreaterEqual
	And
	Or
	Xor
	Shl
	Shr
	BitAnd
	BitOr
	BitXor

	// BinaryOperatorCount is the number of binary operators.
	BinaryOperatorCount
)

var binarySymbols = [BinaryOperatorCount]string{
	Add:          "+",
	Sub:          "-",
	Mul:          "*",
	Div:          "/",
	Rem:          "%",
	Pow:          "**",
	Mod:          "mod",
	Equal:        "==",
	NotEqual:     "!=",
	Less:         "<",
	Greater:      ">",
	LessEqual:    "<=",
	GreaterEqual: ">=",
	And:          "and",
	Or:           "or",
	Xor:          "xor",
	Shl:          "<<",
	Shr:          ">>",
	BitAnd:       "&",
	BitOr:        "|",
	BitXor:       "^",
}

// String returns the source spelling of the operator, e.g. "<=" or "mod".
func (op BinaryOperator) String() string {
	if op < 0 || op >= BinaryOperatorCount {
		return "?"
	}
	return binarySymbols[op]
}

// UnaryOperator identifies the operation of a UnaryExpr.
type UnaryOperator int

const (
	Neg    UnaryOperator = iota // -x
	Not                         // !x
	BitNot                      // ~x

	// UnaryOperatorCount is the number of unary operators.
	UnaryOperatorCount
)

var unarySymbols = [UnaryOperatorCount]string{
	Neg:    "-",
	Not:    "!",
	BitNot: "~",
}

// String returns the source spelling of the operator.
func (op UnaryOperator) String() string {
	if op < 0 || op >= UnaryOperatorCount {
		return "?"
	}
	return unarySymbols[op]
}

// ── Literals ──────────────────────────────────────────────────────────────────

// IntLiteral is a decimal integer literal.
type IntLiteral struct {
	Token Token
	Value int64
}

func (e *IntLiteral) exprNode()      {}
func (e *IntLiteral) Pos() Token     { return e.Token }
func (e *IntLiteral) String() string { return strconv.FormatInt(e.Value, 10) }

// FloatLiteral is a decimal floating-point literal. Raw keeps the source
// spelling so rendering does not depend on float formatting.
type FloatLiteral struct {
	Token Token
	Value float64
	Raw   string
}

func (e *FloatLiteral) exprNode()      {}
func (e *FloatLiteral) Pos() Token     { return e.Token }
func (e *FloatLiteral) String() string { return e.Raw }

// StringLiteral holds the text between the quotes, uninterpreted.
type StringLiteral struct {
	Token Token
	Value string
}

func (e *StringLiteral) exprNode()      {}
func (e *StringLiteral) Pos() Token     { return e.Token }
func (e *StringLiteral) String() string { return `"` + e.Value + `"` }

// CharLiteral holds the single character between the quotes.
type CharLiteral struct {
	Token Token
	Value rune
}

func (e *CharLiteral) exprNode()      {}
func (e *CharLiteral) Pos() Token     { return e.Token }
func (e *CharLiteral) String() string { return "'" + string(e.Value) + "'" }

// AtomLiteral is a ':'-prefixed name. Name excludes the sigil.
type AtomLiteral struct {
	Token Token
	Name  string
}

func (e *AtomLiteral) exprNode()      {}
func (e *AtomLiteral) Pos() Token     { return e.Token }
func (e *AtomLiteral) String() string { return ":" + e.Name }

// BuiltinLiteral is an '@'-prefixed name. Name excludes the sigil.
type BuiltinLiteral struct {
	Token Token
	Name  string
}

func (e *BuiltinLiteral) exprNode()      {}
func (e *BuiltinLiteral) Pos() Token     { return e.Token }
func (e *BuiltinLiteral) String() string { return "@" + e.Name }

// Identifier is a reference to a named binding. Name is a slice of the
// source text.
type Identifier struct {
	Token Token
	Name  string
}

func (e *Identifier) exprNode()      {}
func (e *Identifier) Pos() Token     { return e.Token }
func (e *Identifier) String() string { return e.Name }

// ── Compound expressions ──────────────────────────────────────────────────────

// Assign binds Value to Name: x = y + 1
type Assign struct {
	Token Token // the '=' token
	Name  string
	Value Expression
}

func (e *Assign) exprNode()  {}
func (e *Assign) Pos() Token { return e.Token }
func (e *Assign) String() string {
	return "(= " + e.Name + " " + e.Value.String() + ")"
}

// BinaryExpr is an infix operation: left op right.
type BinaryExpr struct {
	Token Token // the operator token
	Op    BinaryOperator
	Left  Expression
	Right Expression
}

func (e *BinaryExpr) exprNode()  {}
func (e *BinaryExpr) Pos() Token { return e.Token }
func (e *BinaryExpr) String() string {
	return "(" + e.Op.String() + " " + e.Left.String() + " " + e.Right.String() + ")"
}

// UnaryExpr is a prefix operation: -x, !x, ~x.
type UnaryExpr struct {
	Token Token // the operator token
	Op    UnaryOperator
	Right Expression
}

func (e *UnaryExpr) exprNode()  {}
func (e *UnaryExpr) Pos() Token { return e.Token }
func (e *UnaryExpr) String() string {
	return "(" + e.Op.String() + " " + e.Right.String() + ")"
}

// CallExpr is a call: f(a, b). It renders as (f a b).
type CallExpr struct {
	Token  Token // the '(' token
	Callee Expression
	Args   []Expression
}

func (e *CallExpr) exprNode()  {}
func (e *CallExpr) Pos() Token { return e.Token }
func (e *CallExpr) String() string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(e.Callee.String())
	for _, a := range e.Args {
		b.WriteByte(' ')
		b.WriteString(a.String())
	}
	b.WriteByte(')')
	return b.String()
}

// FieldExpr is a member access: module.fun. It renders as (. module fun).
type FieldExpr struct {
	Token  Token // the '.' token
	Object Expression
	Field  string
}

func (e *FieldExpr) exprNode()  {}
func (e *FieldExpr) Pos() Token { return e.Token }
func (e *FieldExpr) String() string {
	return "(. " + e.Object.String() + " " + e.Field + ")"
}

// Empty means no expression was present, e.g. a blank input line.
type Empty struct {
	Token Token
}

func (e *Empty) exprNode()      {}
func (e *Empty) Pos() Token     { return e.Token }
func (e *Empty) String() string { return "()" }

// IsEmpty reports whether e is nil or the Empty sentinel.
func IsEmpty(e Expression) bool {
	if e == nil {
		return true
	}
	_, ok := e.(*Empty)
	return ok
}

// ── Traversal ─────────────────────────────────────────────────────────────────

// Children returns the direct sub-expressions of e in source order.
func Children(e Expression) []Expression {
	switch n := e.(type) {
	case *Assign:
		return []Expression{n.Value}
	case *BinaryExpr:
		return []Expression{n.Left, n.Right}
	case *UnaryExpr:
		return []Expression{n.Right}
	case *CallExpr:
		out := make([]Expression, 0, len(n.Args)+1)
		out = append(out, n.Callee)
		return append(out, n.Args...)
	case *FieldExpr:
		return []Expression{n.Object}
	default:
		return nil
	}
}

// Inspect traverses the tree depth-first in pre-order, calling f for every
// node. If f returns false the children of that node are skipped.
func Inspect(e Expression, f func(Expression) bool) {
	if e == nil || !f(e) {
		return
	}
	for _, c := range Children(e) {
		Inspect(c, f)
	}
}

// Depth returns the height of the tree rooted at e; a leaf has depth 1.
func Depth(e Expression) int {
	if e == nil {
		return 0
	}
	deepest := 0
	for _, c := range Children(e) {
		if d := Depth(c); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}
