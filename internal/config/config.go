// Package config holds vcfcheck command line configuration.
//
// Configuration is assembled from defaults, then an optional file, then flags
// explicitly set on the command line. Files may be written in TOML, YAML or HCL,
// the format is detected from the file extension.
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
	"github.com/hashicorp/hcl/v2/hclsimple"
	"gopkg.in/yaml.v3"

	"github.com/ava12/vcfcheck/internal/ctxlog"
	"github.com/ava12/vcfcheck/source"
)

// Config holds settings of the validate command.
type Config struct {
	CheckEvidence bool   `toml:"check_evidence" yaml:"check_evidence" hcl:"check_evidence,optional"`
	CheckContigs  bool   `toml:"check_contigs" yaml:"check_contigs" hcl:"check_contigs,optional"`
	ChunkSize     int    `toml:"chunk_size" yaml:"chunk_size" hcl:"chunk_size,optional"`
	Format        string `toml:"format" yaml:"format" hcl:"format,optional"`
	MaxErrors     int    `toml:"max_errors" yaml:"max_errors" hcl:"max_errors,optional"`
	LogLevel      string `toml:"log_level" yaml:"log_level" hcl:"log_level,optional"`
	LogFormat     string `toml:"log_format" yaml:"log_format" hcl:"log_format,optional"`
	MetricsFile   string `toml:"metrics_file" yaml:"metrics_file" hcl:"metrics_file,optional"`
	Database      string `toml:"database" yaml:"database" hcl:"database,optional"`
	Color         string `toml:"color" yaml:"color" hcl:"color,optional"`
}

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Default returns configuration used when no file is given.
func Default() Config {
	return Config{
		ChunkSize: source.DefaultChunkSize,
		Format:    FormatText,
		LogLevel:  "warn",
		LogFormat: "text",
		Color:     ColorAuto,
	}
}

type fileFormat int

const (
	formatTOML fileFormat = iota
	formatYAML
	formatHCL
)

func detectFormat(path string) (fileFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return formatTOML, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".hcl":
		return formatHCL, nil
	default:
		return 0, fmt.Errorf("unsupported config file extension: %s", path)
	}
}

// Load reads configuration file over defaults. Empty path yields defaults.
// Unknown keys are rejected. The result is not validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	format, err := detectFormat(path)
	if err != nil {
		return cfg, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := parseContent(path, content, format, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

func parseContent(path string, content []byte, format fileFormat, cfg *Config) error {
	switch format {
	case formatTOML:
		md, err := toml.Decode(string(content), cfg)
		if err != nil {
			return err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("unknown keys: %v", undecoded)
		}

	case formatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return err
		}

	case formatHCL:
		return hclsimple.Decode(filepath.Base(path), content, nil, cfg)
	}
	return nil
}

// Validate rejects values the validate command cannot work with.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.MaxErrors < 0 {
		return fmt.Errorf("max errors must not be negative, got %d", c.MaxErrors)
	}

	switch c.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("unknown output format %q", c.Format)
	}

	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("unknown color mode %q", c.Color)
	}

	if _, err := ctxlog.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}
