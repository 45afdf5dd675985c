// Package diag defines the located errors reported by the Mil lexer and
// parser, and a printer that renders them for a terminal.
//
// Every error renders in the same one-line form:
//
//	Error: unexpected symbol '$' at line: 1, row: 5.
//
// Line and row are 1-based; row counts characters (runes), not bytes.
package diag

import (
	"errors"
	"fmt"
	"strings"
)

// Kind tells which stage detected an error.
type Kind int

const (
	// Scan errors come from the lexer: malformed literals, unknown symbols.
	Scan Kind = iota
	// Parse errors come from the parser: unexpected tokens.
	Parse
)

func (k Kind) String() string {
	switch k {
	case Scan:
		return "scan"
	case Parse:
		return "parse"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. An *Error matches the sentinel of its Kind.
var (
	ErrScan  = errors.New("scan error")
	ErrParse = errors.New("parse error")
)

// Error is a single located diagnostic.
type Error struct {
	Kind Kind
	Msg  string
	Line int
	Col  int
}

// Errorf builds an *Error with a formatted message.
func Errorf(kind Kind, line, col int, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Line: line, Col: col}
}

func (e *Error) Error() string {
	return fmt.Sprintf("Error: %s at line: %d, row: %d.", e.Msg, e.Line, e.Col)
}

// Is reports whether target is the sentinel for e's Kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrScan:
		return e.Kind == Scan
	case ErrParse:
		return e.Kind == Parse
	}
	return false
}

// List collects the errors of one parse session in the order they were found.
type List []*Error

// Add appends err to the list.
func (l *List) Add(err *Error) {
	*l = append(*l, err)
}

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	var b strings.Builder
	for i, e := range l {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.Error())
	}
	return b.String()
}

// Err returns nil for an empty list and the list itself otherwise, so the
// result can be returned as an error without the typed-nil trap.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (l List) Unwrap() []error {
	out := make([]error, len(l))
	for i, e := range l {
		out[i] = e
	}
	return out
}

// Flatten returns the located errors held by err: the error itself if it is
// an *Error, the members of a List, or nil for anything else.
func Flatten(err error) []*Error {
	var l List
	if errors.As(err, &l) {
		return l
	}
	var e *Error
	if errors.As(err, &e) {
		return []*Error{e}
	}
	return nil
}
