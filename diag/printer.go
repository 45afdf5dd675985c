package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorError = lipgloss.Color("#EF4444")
	colorMuted = lipgloss.Color("#6B7280")
	colorCaret = lipgloss.Color("#F59E0B")

	errorStyle  = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	gutterStyle = lipgloss.NewStyle().Foreground(colorMuted)
	caretStyle  = lipgloss.NewStyle().Foreground(colorCaret).Bold(true)
)

// Printer writes diagnostics together with the offending source line and a
// caret under the reported column.
//
//	Error: unterminated string at line: 2, row: 5.
//	  2 | x = "abc
//	    |     ^
type Printer struct {
	w     io.Writer
	color bool
}

// NewPrinter returns a Printer writing to w. When color is false the output
// is plain text.
func NewPrinter(w io.Writer, color bool) *Printer {
	return &Printer{w: w, color: color}
}

func (p *Printer) style(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

// Print writes every located error held by err. src is the source the errors
// refer to; it may be empty, in which case only the message lines are shown.
// Errors that carry no location are written as-is.
func (p *Printer) Print(src string, err error) {
	if err == nil {
		return
	}
	errs := Flatten(err)
	if len(errs) == 0 {
		fmt.Fprintln(p.w, p.style(errorStyle, "Error: "+err.Error()))
		return
	}
	p.print(src, errs, 0)
}

// PrintLine is Print for a source that is line lineNo of a larger input:
// reported line numbers are shifted so they point into the whole input.
func (p *Printer) PrintLine(lineNo int, src string, err error) {
	if err == nil {
		return
	}
	errs := Flatten(err)
	if len(errs) == 0 {
		p.Print(src, err)
		return
	}
	p.print(src, errs, lineNo-1)
}

func (p *Printer) print(src string, errs []*Error, base int) {
	lines := strings.Split(src, "\n")
	for _, e := range errs {
		shifted := *e
		shifted.Line += base
		fmt.Fprintln(p.w, p.style(errorStyle, shifted.Error()))
		p.printSource(lines, e, shifted.Line)
	}
}

// printSource shows the source line of e with a caret under its column.
// lines is indexed by e.Line; display is the line number to print.
func (p *Printer) printSource(lines []string, e *Error, display int) {
	if e.Line < 1 || e.Line > len(lines) || (len(lines) == 1 && lines[0] == "") {
		return
	}
	text := strings.TrimRight(lines[e.Line-1], "\r")
	num := fmt.Sprintf("%d", display)
	pad := strings.Repeat(" ", len(num))

	fmt.Fprintf(p.w, "  %s %s\n", p.style(gutterStyle, num+" |"), text)

	// Rebuild the indentation from the line itself so tabs keep lining up.
	var indent strings.Builder
	col := 1
	for _, r := range text {
		if col >= e.Col {
			break
		}
		if r == '\t' {
			indent.WriteByte('\t')
		} else {
			indent.WriteByte(' ')
		}
		col++
	}
	for ; col < e.Col; col++ {
		indent.WriteByte(' ')
	}
	fmt.Fprintf(p.w, "  %s %s%s\n", p.style(gutterStyle, pad+" |"), indent.String(), p.style(caretStyle, "^"))
}
