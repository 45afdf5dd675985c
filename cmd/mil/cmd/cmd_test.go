package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// run executes the mil command line with args and stdin, returning stdout,
// stderr and the command error.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("MIL_COLOR", "never")
	t.Setenv("MIL_FORMAT", "")
	t.Setenv("MIL_LOG_LEVEL", "")
	t.Chdir(t.TempDir())

	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestParseLines(t *testing.T) {
	out, errOut, err := run(t, "a + b * c\n\n1 +\nf(x)\n", "parse")
	if err == nil || !strings.Contains(err.Error(), "1 expression(s) failed") {
		t.Errorf("expected a failure count, got %v", err)
	}
	if out != "(+ a (* b c))\n(f x)\n" {
		t.Errorf("stdout: got %q", out)
	}
	want := "Error: unexpected end of input where an expression was expected at line: 3, row: 4."
	if !strings.Contains(errOut, want) {
		t.Errorf("stderr does not contain %q:\n%s", want, errOut)
	}
	if !strings.Contains(errOut, "  3 | 1 +") {
		t.Errorf("stderr does not show the source line:\n%s", errOut)
	}
}

func TestParseClean(t *testing.T) {
	out, errOut, err := run(t, "x = -y\n", "parse")
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, errOut)
	}
	if out != "(= x (- y))\n" {
		t.Errorf("stdout: got %q", out)
	}
}

func TestParseWhole(t *testing.T) {
	out, errOut, err := run(t, "a = 1;\nb c;\nd", "parse", "--whole")
	if err == nil {
		t.Fatal("expected a failure")
	}
	if out != "(= a 1)\nd\n" {
		t.Errorf("stdout: got %q", out)
	}
	if !strings.Contains(errOut, "Error: expected ';' got 'c' at line: 2, row: 3.") {
		t.Errorf("stderr:\n%s", errOut)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.mil")
	if err := os.WriteFile(path, []byte("f(a).b\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, _, err := run(t, "", "parse", path)
	if err != nil {
		t.Fatal(err)
	}
	if out != "(. (f a) b)\n" {
		t.Errorf("stdout: got %q", out)
	}

	if _, _, err := run(t, "", "parse", filepath.Join(t.TempDir(), "missing.mil")); err == nil {
		t.Error("a missing file must fail")
	}
}

func TestParseYAML(t *testing.T) {
	out, _, err := run(t, "x\n", "parse", "--format", "yaml")
	if err != nil {
		t.Fatal(err)
	}
	want := "kind: identifier\nname: x\nline: 1\ncol: 1\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestBadFormat(t *testing.T) {
	_, _, err := run(t, "x\n", "parse", "-f", "json")
	if err == nil || !strings.Contains(err.Error(), `got "json"`) {
		t.Errorf("expected a config error, got %v", err)
	}
}

func TestTokens(t *testing.T) {
	out, _, err := run(t, "x = 42 // answer\n", "tokens")
	if err != nil {
		t.Fatal(err)
	}
	if out != "IDENT -> x\nASSIGN\nINT -> 42\n" {
		t.Errorf("got %q", out)
	}

	out, _, err = run(t, "a\n  :ok", "tokens", "--positions")
	if err != nil {
		t.Fatal(err)
	}
	if out != "1:1 IDENT -> a\n2:3 ATOM -> :ok\n" {
		t.Errorf("got %q", out)
	}
}

func TestTokensScanError(t *testing.T) {
	out, errOut, err := run(t, "a $", "tokens")
	if err == nil {
		t.Fatal("expected a scan failure")
	}
	if out != "IDENT -> a\n" {
		t.Errorf("stdout: got %q", out)
	}
	if !strings.Contains(errOut, "unexpected symbol '$' at line: 1, row: 3.") {
		t.Errorf("stderr:\n%s", errOut)
	}
}

// TestReplPiped checks that repl reads standard input line by line when it
// is not a terminal.
func TestReplPiped(t *testing.T) {
	out, _, err := run(t, "a+b\n", "repl")
	if err != nil {
		t.Fatal(err)
	}
	if out != "(+ a b)\n" {
		t.Errorf("got %q", out)
	}
}

func TestEvalLine(t *testing.T) {
	t.Setenv("MIL_FORMAT", "")
	t.Setenv("MIL_LOG_LEVEL", "")
	t.Chdir(t.TempDir())
	a := &app{}
	if err := a.setup(newRootCmd()); err != nil {
		t.Fatal(err)
	}

	got, err := a.evalLine("a.b(1)")
	if err != nil || got != "((. a b) 1)" {
		t.Errorf("got %q, %v", got, err)
	}
	got, err = a.evalLine("   ")
	if err != nil || got != "" {
		t.Errorf("blank line: got %q, %v", got, err)
	}
	_, err = a.evalLine("a +")
	if err == nil {
		t.Fatal("expected an error")
	}
	want := "Error: unexpected end of input where an expression was expected at line: 1, row: 4.\n  1 | a +\n    |    ^"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "", "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "mil v"+Version+"\n") {
		t.Errorf("got %q", out)
	}
}
