// Package config loads the fractalview CLI configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-fractalview/pkg/geometry"
)

// DefaultPath is the config file looked up when no path is given.
const DefaultPath = "fractalview.yaml"

// Output formats.
const (
	FormatPNG  = "png"
	FormatTerm = "term"
	FormatHTML = "html"
)

// Config is the CLI configuration. Dataset paths are relative to the config
// file; empty means the built-in examples.
type Config struct {
	Datasets map[string]string `yaml:"datasets"`
	Markup   string            `yaml:"markup"`
	Family   string            `yaml:"family"`
	Example  string            `yaml:"example"`
	Format   string            `yaml:"format"`
	Out      string            `yaml:"out"`
	Theme    string            `yaml:"theme"`
	Variant  string            `yaml:"variant"`
	LogLevel string            `yaml:"log_level"`
	Width    int               `yaml:"width"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Datasets: map[string]string{},
		Family:   string(geometry.FamilyLines),
		Format:   FormatPNG,
		LogLevel: "info",
		Width:    80,
	}
}

// Load reads path over the defaults. A missing file is not an error when
// path is the default path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && path == DefaultPath {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(raw)
	if err != nil {
		return Config{}, fmt.Errorf("%w (%s)", err, path)
	}
	cfg.resolve(filepath.Dir(path))
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(raw []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if cfg.Datasets == nil {
		cfg.Datasets = map[string]string{}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the enumerated fields.
func (c Config) Validate() error {
	switch c.Format {
	case FormatPNG, FormatTerm, FormatHTML:
	default:
		return fmt.Errorf("config: unknown format %q", c.Format)
	}
	if _, err := geometry.ParseFamily(c.Family); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	for family := range c.Datasets {
		if _, err := geometry.ParseFamily(family); err != nil {
			return fmt.Errorf("config: datasets: %w", err)
		}
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Width < 0 {
		return fmt.Errorf("config: width must not be negative, got %d", c.Width)
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: log_level: %w", err)
	}
	return level, nil
}

// FamilyCode returns the parsed default family.
func (c Config) FamilyCode() geometry.Family {
	family, err := geometry.ParseFamily(c.Family)
	if err != nil {
		return geometry.FamilyLines
	}
	return family
}

// Dataset returns the dataset path configured for family.
func (c Config) Dataset(family geometry.Family) (string, bool) {
	for key, path := range c.Datasets {
		if parsed, err := geometry.ParseFamily(key); err == nil && parsed == family && path != "" {
			return path, true
		}
	}
	return "", false
}

// OutPath returns Out, defaulting PNG output to <example>.png.
func (c Config) OutPath(example string) string {
	if c.Out != "" || c.Format != FormatPNG {
		return c.Out
	}
	if example == "" {
		example = "fractal"
	}
	return example + ".png"
}

func (c *Config) resolve(dir string) {
	for key, path := range c.Datasets {
		if path != "" && !filepath.IsAbs(path) {
			c.Datasets[key] = filepath.Join(dir, path)
		}
	}
	if c.Markup != "" && !filepath.IsAbs(c.Markup) {
		c.Markup = filepath.Join(dir, c.Markup)
	}
}
