package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/evanw/css21/internal/css_parser"
	"github.com/evanw/css21/internal/helpers"
	"github.com/evanw/css21/internal/logger"
	"gopkg.in/yaml.v3"
)

// Settings shared by the command-line tool and the language server. Values
// that are left out of a file get their defaults from "applyDefaults".
type Config struct {
	Parser ParserConfig `toml:"parser" yaml:"parser"`
	Output OutputConfig `toml:"output" yaml:"output"`
	LSP    LSPConfig    `toml:"lsp" yaml:"lsp"`

	// The file this was loaded from, if any
	Path string `toml:"-" yaml:"-"`
}

type ParserConfig struct {
	MaxNestingDepth int `toml:"max_nesting_depth" yaml:"max_nesting_depth"`
}

type OutputConfig struct {
	Format   string `toml:"format" yaml:"format"`
	Color    string `toml:"color" yaml:"color"`
	LogLevel string `toml:"log_level" yaml:"log_level"`
	Minify   bool   `toml:"minify" yaml:"minify"`

	// A pointer so that an explicit zero (no limit) can be told apart from a
	// missing value
	ErrorLimit *int `toml:"error_limit" yaml:"error_limit"`
}

type LSPConfig struct {
	LogVerbosity int    `toml:"log_verbosity" yaml:"log_verbosity"`
	LogFile      string `toml:"log_file" yaml:"log_file"`
}

type Format uint8

const (
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		panic("Internal error")
	}
}

const DefaultErrorLimit = 10

var (
	OutputFormats = []string{"text", "json", "yaml"}
	ColorModes    = []string{"auto", "always", "never"}
	LogLevels     = []string{"info", "warning", "error", "silent"}

	// Searched for in this order by "Discover"
	FileNames = []string{".css21.toml", ".css21.yaml", ".css21.yml"}
)

func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

func Load(path string) (*Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(contents, DetectFormat(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Unknown keys are errors so that misspelled settings don't go unnoticed
func Parse(contents []byte, format Format) (*Config, error) {
	cfg := &Config{}

	switch format {
	case FormatTOML:
		meta, err := toml.Decode(string(contents), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse TOML config: %w", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, key := range undecoded {
				keys[i] = key.String()
			}
			return nil, fmt.Errorf("unknown config keys: %s", helpers.StringArrayToQuotedCommaSeparatedString(keys))
		}

	case FormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(contents))
		decoder.KnownFields(true)

		// An empty document is a valid config with nothing set
		if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Looks for a config file in "dir" and then in each parent directory. This
// returns the defaults if no file is found.
func Discover(dir string) (*Config, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", dir, err)
	}

	for {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return Load(path)
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

func (c *Config) applyDefaults() {
	if c.Parser.MaxNestingDepth == 0 {
		c.Parser.MaxNestingDepth = css_parser.DefaultMaxNestingDepth
	}
	if c.Output.Format == "" {
		c.Output.Format = "text"
	}
	if c.Output.Color == "" {
		c.Output.Color = "auto"
	}
	if c.Output.LogLevel == "" {
		c.Output.LogLevel = "info"
	}
	if c.Output.ErrorLimit == nil {
		limit := DefaultErrorLimit
		c.Output.ErrorLimit = &limit
	}
}

func (c *Config) Validate() error {
	if c.Parser.MaxNestingDepth < 0 {
		return fmt.Errorf("invalid parser.max_nesting_depth %d (must not be negative)", c.Parser.MaxNestingDepth)
	}
	if err := checkOneOf("output.format", c.Output.Format, OutputFormats); err != nil {
		return err
	}
	if err := checkOneOf("output.color", c.Output.Color, ColorModes); err != nil {
		return err
	}
	if err := checkOneOf("output.log_level", c.Output.LogLevel, LogLevels); err != nil {
		return err
	}
	if c.Output.ErrorLimit != nil && *c.Output.ErrorLimit < 0 {
		return fmt.Errorf("invalid output.error_limit %d (must not be negative)", *c.Output.ErrorLimit)
	}
	if c.LSP.LogVerbosity < 0 {
		return fmt.Errorf("invalid lsp.log_verbosity %d (must not be negative)", c.LSP.LogVerbosity)
	}
	return nil
}

func checkOneOf(key string, value string, valid []string) error {
	for _, v := range valid {
		if value == v {
			return nil
		}
	}
	return fmt.Errorf("invalid %s %q (valid values: %s)", key, value, helpers.StringArrayToQuotedCommaSeparatedString(valid))
}

func (c *Config) ParserOptions() css_parser.Options {
	return css_parser.Options{MaxNestingDepth: c.Parser.MaxNestingDepth}
}

func (c *Config) StderrOptions() logger.StderrOptions {
	options := logger.StderrOptions{IncludeSource: true}

	switch c.Output.Color {
	case "always":
		options.Color = logger.ColorAlways
	case "never":
		options.Color = logger.ColorNever
	default:
		options.Color = logger.ColorIfTerminal
	}

	switch c.Output.LogLevel {
	case "warning":
		options.LogLevel = logger.LevelWarning
	case "error":
		options.LogLevel = logger.LevelError
	case "silent":
		options.LogLevel = logger.LevelSilent
	default:
		options.LogLevel = logger.LevelInfo
	}

	if c.Output.ErrorLimit != nil {
		options.ErrorLimit = *c.Output.ErrorLimit
	}
	return options
}
