// Package config loads gametree settings.
//
// Settings are resolved in three layers: built-in defaults, an optional config
// file, and command-line flags (applied by the cli package). Config files may be
// YAML (.yaml, .yml) or CUE (.cue). CUE files are validated against the embedded
// #Config schema before decoding.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// DefaultInput is where the input table lives relative to the working directory.
var DefaultInput = filepath.Join("data", "steam-200k.csv")

// Formats lists the accepted output formats.
var Formats = []string{"text", "json"}

// Config holds resolved settings.
type Config struct {
	Input     string `json:"input" yaml:"input"`
	Delimiter string `json:"delimiter" yaml:"delimiter"`
	Header    bool   `json:"header" yaml:"header"`
	Format    string `json:"format" yaml:"format"`
	Database  string `json:"db" yaml:"db"`
}

// fileConfig mirrors Config with every field optional, so a file only overrides
// what it mentions.
type fileConfig struct {
	Input     *string `json:"input,omitempty" yaml:"input"`
	Delimiter *string `json:"delimiter,omitempty" yaml:"delimiter"`
	Header    *bool   `json:"header,omitempty" yaml:"header"`
	Format    *string `json:"format,omitempty" yaml:"format"`
	Database  *string `json:"db,omitempty" yaml:"db"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Input:     DefaultInput,
		Delimiter: ",",
		Header:    true,
		Format:    "text",
	}
}

// Load reads the config file at path on top of Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		fc, err = decodeYAML(data)
	case ".cue":
		fc, err = decodeCUE(path, data)
	default:
		return cfg, fmt.Errorf("config %s: unsupported extension %q (want .yaml, .yml or .cue)", path, ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	cfg.apply(fc)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func decodeYAML(data []byte) (fileConfig, error) {
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fc, fmt.Errorf("decode yaml: %w", err)
	}
	return fc, nil
}

func decodeCUE(path string, data []byte) (fileConfig, error) {
	var fc fileConfig

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fc, fmt.Errorf("compile schema: %w", err)
	}

	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return fc, fmt.Errorf("compile cue: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fc, fmt.Errorf("validate cue: %w", err)
	}
	if err := unified.Decode(&fc); err != nil {
		return fc, fmt.Errorf("decode cue: %w", err)
	}
	return fc, nil
}

func (c *Config) apply(fc fileConfig) {
	if fc.Input != nil {
		c.Input = *fc.Input
	}
	if fc.Delimiter != nil {
		c.Delimiter = *fc.Delimiter
	}
	if fc.Header != nil {
		c.Header = *fc.Header
	}
	if fc.Format != nil {
		c.Format = *fc.Format
	}
	if fc.Database != nil {
		c.Database = *fc.Database
	}
}

// Validate checks field values that the loaders cannot express.
func (c Config) Validate() error {
	if c.Input == "" {
		return errors.New("input must not be empty")
	}
	if _, err := ParseDelimiter(c.Delimiter); err != nil {
		return err
	}
	if !IsValidFormat(c.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", c.Format, Formats)
	}
	return nil
}

// DelimiterByte returns the validated separator byte.
func (c Config) DelimiterByte() (byte, error) {
	return ParseDelimiter(c.Delimiter)
}

// ParseDelimiter accepts a single ASCII character, or the names "tab" and `\t`.
func ParseDelimiter(s string) (byte, error) {
	switch s {
	case "tab", `\t`:
		return '\t', nil
	}
	if len(s) != 1 || s[0] >= 0x80 {
		return 0, fmt.Errorf("invalid delimiter %q: must be a single ASCII character", s)
	}
	if s[0] == '"' || s[0] == '\n' || s[0] == '\r' {
		return 0, fmt.Errorf("invalid delimiter %q: reserved character", s)
	}
	return s[0], nil
}

// IsValidFormat checks if the format is one of the allowed values.
func IsValidFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}
