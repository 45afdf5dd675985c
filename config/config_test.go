package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/metaphox/mil-lang/config"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must be valid: %v", err)
	}
	if cfg.Format != config.FormatSExpr || cfg.Mode != config.ModeLines || cfg.Color != config.ColorAuto {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.REPL.Prompt != "mil> " {
		t.Errorf("prompt: got %q", cfg.REPL.Prompt)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "mil.toml", `
format = "yaml"
mode = "whole"
max_depth = 64

[repl]
prompt = "> "
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Format != config.FormatYAML || cfg.Mode != config.ModeWhole || cfg.MaxDepth != 64 {
		t.Errorf("got %+v", cfg)
	}
	if cfg.REPL.Prompt != "> " || cfg.REPL.History != 100 {
		t.Errorf("repl settings: got %+v", cfg.REPL)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("unset keys keep their defaults, got log_level %q", cfg.LogLevel)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "mil.yaml", "color: never\nlog_level: debug\nrepl:\n  history: 5\n")
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Color != config.ColorNever || cfg.LogLevel != "debug" || cfg.REPL.History != 5 {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoadUnknownKey(t *testing.T) {
	path := writeFile(t, "mil.toml", "fromat = \"yaml\"\n")
	_, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), `unknown key "fromat"`) {
		t.Fatalf("expected an unknown key error, got %v", err)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("an explicit path that does not exist must fail")
	}

	t.Chdir(t.TempDir())
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("no default file must fall back to defaults: %v", err)
	}
	if cfg.Format != config.FormatSExpr {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoadDefaultFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.DefaultFile), []byte("format = \"yaml\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Format != config.FormatYAML {
		t.Errorf("format: got %q", cfg.Format)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(config.EnvFormat, "yaml")
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvColor, "0")

	path := writeFile(t, "mil.toml", "format = \"sexpr\"\n")
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Format != config.FormatYAML {
		t.Errorf("environment must win over the file, got format %q", cfg.Format)
	}
	if cfg.LogLevel != "error" || cfg.Color != config.ColorNever {
		t.Errorf("got %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	_, err := config.LoadString("format = \"xml\"\nmode = \"batch\"\nmax_depth = 0\n", "toml")
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{`got "xml"`, `got "batch"`, "max_depth must be positive"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestLoadStringFormats(t *testing.T) {
	if _, err := config.LoadString("format: yaml\n", "yaml"); err != nil {
		t.Errorf("yaml: %v", err)
	}
	if _, err := config.LoadString("format = ", "toml"); err == nil {
		t.Error("malformed TOML must fail")
	}
	if _, err := config.LoadString("", "ini"); err == nil {
		t.Error("unsupported format must fail")
	}
}
