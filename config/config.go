// Package config loads settings for the mil command from a TOML or YAML
// file, with environment variable overrides.
//
//	# mil.toml
//	format    = "sexpr"   # sexpr | yaml
//	mode      = "lines"   # lines | whole
//	color     = "auto"    # auto | always | never
//	log_level = "warn"    # debug | info | warn | error
//	max_depth = 512
//
//	[repl]
//	prompt  = "mil> "
//	history = 100
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatSExpr = "sexpr"
	FormatYAML  = "yaml"
)

// Input modes: one expression per line, or a whole file of ';'-separated
// expressions.
const (
	ModeLines = "lines"
	ModeWhole = "whole"
)

// Color settings.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Environment variables that override file settings.
const (
	EnvFormat   = "MIL_FORMAT"
	EnvLogLevel = "MIL_LOG_LEVEL"
	EnvColor    = "MIL_COLOR"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "mil.toml"

// Config holds the complete command configuration.
type Config struct {
	Format   string     `toml:"format" yaml:"format"`
	Mode     string     `toml:"mode" yaml:"mode"`
	Color    string     `toml:"color" yaml:"color"`
	LogLevel string     `toml:"log_level" yaml:"log_level"`
	MaxDepth int        `toml:"max_depth" yaml:"max_depth"`
	REPL     REPLConfig `toml:"repl" yaml:"repl"`
}

// REPLConfig holds settings for the interactive loop.
type REPLConfig struct {
	Prompt  string `toml:"prompt" yaml:"prompt"`
	History int    `toml:"history" yaml:"history"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Format:   FormatSExpr,
		Mode:     ModeLines,
		Color:    ColorAuto,
		LogLevel: "warn",
		MaxDepth: 512,
		REPL: REPLConfig{
			Prompt:  "mil> ",
			History: 100,
		},
	}
}

// Load reads the configuration file at path on top of the defaults and then
// applies environment overrides. An empty path tries DefaultFile and falls
// back to the defaults when it does not exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(data, detectFormat(path), cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// no config file, defaults apply
	default:
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadString decodes configuration text in the given format ("toml" or
// "yaml") on top of the defaults.
func LoadString(content, format string) (*Config, error) {
	cfg := Default()
	if err := decode([]byte(content), format, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// detectFormat determines the file format from the extension.
func detectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "toml"
	}
}

func decode(data []byte, format string, cfg *Config) error {
	switch format {
	case "toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return fmt.Errorf("TOML parse error: %w", err)
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			return fmt.Errorf("unknown key %q", undec[0].String())
		}
	case "yaml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("YAML parse error: %w", err)
		}
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	return nil
}

// applyEnv overrides settings from MIL_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvFormat); v != "" {
		c.Format = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvColor); v != "" {
		// Accept boolean spellings as well: MIL_COLOR=0
		if b, err := strconv.ParseBool(v); err == nil {
			if b {
				v = ColorAlways
			} else {
				v = ColorNever
			}
		}
		c.Color = v
	}
}

// Validate checks every setting and returns all problems found.
func (c *Config) Validate() error {
	var errs []error
	switch c.Format {
	case FormatSExpr, FormatYAML:
	default:
		errs = append(errs, fmt.Errorf("format must be %q or %q, got %q", FormatSExpr, FormatYAML, c.Format))
	}
	switch c.Mode {
	case ModeLines, ModeWhole:
	default:
		errs = append(errs, fmt.Errorf("mode must be %q or %q, got %q", ModeLines, ModeWhole, c.Mode))
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		errs = append(errs, fmt.Errorf("color must be auto, always or never, got %q", c.Color))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	if c.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("max_depth must be positive, got %d", c.MaxDepth))
	}
	if c.REPL.History < 0 {
		errs = append(errs, fmt.Errorf("repl.history must not be negative, got %d", c.REPL.History))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
