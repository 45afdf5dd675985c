package parser

import (
	"maps"
	"strings"
	"testing"

	"github.com/metaphox/mil-lang/ast"
)

func TestInfixRulesComplete(t *testing.T) {
	if err := checkInfixRules(infixRules); err != nil {
		t.Fatal(err)
	}
}

func TestCheckInfixRulesRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[ast.TokenType]infixRule)
		want   string
	}{
		{
			name:   "missing operator",
			mutate: func(r map[ast.TokenType]infixRule) { delete(r, ast.CARET) },
			want:   "has no infix rule",
		},
		{
			name:   "duplicate operator",
			mutate: func(r map[ast.TokenType]infixRule) { r[ast.FAT_ARROW] = infixRule{precTerm, ast.Add} },
			want:   "built by both",
		},
		{
			name:   "unary precedence",
			mutate: func(r map[ast.TokenType]infixRule) { r[ast.PLUS] = infixRule{precUnary, ast.Add} },
			want:   "binary precedence",
		},
		{
			name:   "no precedence",
			mutate: func(r map[ast.TokenType]infixRule) { r[ast.PLUS] = infixRule{precNone, ast.Add} },
			want:   "binary precedence",
		},
		{
			name:   "unknown operator",
			mutate: func(r map[ast.TokenType]infixRule) { r[ast.PLUS] = infixRule{precTerm, ast.BinaryOperatorCount} },
			want:   "unknown operator",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := maps.Clone(infixRules)
			tt.mutate(rules)
			err := checkInfixRules(rules)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestPrecedenceOf(t *testing.T) {
	tests := []struct {
		tt   ast.TokenType
		want Precedence
	}{
		{ast.ASSIGN, precAssignment},
		{ast.OR, precOr},
		{ast.XOR, precOr},
		{ast.AND, precAnd},
		{ast.EQ, precEquality},
		{ast.GTE, precComparison},
		{ast.MINUS, precTerm},
		{ast.MOD, precFactor},
		{ast.POW, precFactor},
		{ast.CARET, precFactor},
		{ast.LPAREN, precCall},
		{ast.DOT, precCall},
		{ast.RPAREN, precNone},
		{ast.SEMICOLON, precNone},
		{ast.IDENT, precNone},
		{ast.BANG, precNone},
	}
	for _, tt := range tests {
		if got := precedenceOf(tt.tt); got != tt.want {
			t.Errorf("%s: got %s, want %s", tt.tt, got, tt.want)
		}
	}
}

func TestPrecedenceOrder(t *testing.T) {
	order := []Precedence{
		precNone, precAssignment, precOr, precAnd, precEquality,
		precComparison, precTerm, precFactor, precUnary, precCall, precPrimary,
	}
	for i := 1; i < len(order); i++ {
		if order[i] <= order[i-1] {
			t.Errorf("%s must bind tighter than %s", order[i], order[i-1])
		}
	}
	if got := Precedence(99).String(); got != "Precedence(99)" {
		t.Errorf("out of range name: got %q", got)
	}
}
