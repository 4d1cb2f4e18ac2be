// Package config loads the distance-field server settings.
//
// Settings come from, in increasing precedence: built-in defaults, a TOML
// file, and environment variables. Command-line flags are applied by the
// caller on top of the result.
//
// Example file:
//
//	log_level = "debug"
//
//	[field]
//	sentinel = 1e20
//	workers = 4
//
//	[image]
//	threshold = 128
//	max_cells = 1000000
//	color_tolerance = 0.1
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ironsheep/distance-field-mcp/internal/distfield"
	"github.com/ironsheep/distance-field-mcp/internal/imaging"
)

// Environment variables read by ApplyEnv.
const (
	EnvConfigPath = "DISTFIELD_MCP_CONFIG"
	EnvLogLevel   = "DISTFIELD_MCP_LOG_LEVEL"
	EnvWorkers    = "DISTFIELD_MCP_WORKERS"
)

// DefaultMaxCells caps grids built from images at one megacell.
const DefaultMaxCells = 1_000_000

// Config is the full server configuration.
type Config struct {
	LogLevel string      `toml:"log_level"`
	Field    FieldConfig `toml:"field"`
	Image    ImageConfig `toml:"image"`
}

// FieldConfig tunes the distance transform.
type FieldConfig struct {
	// Sentinel is the squared-distance seed for free cells.
	Sentinel float64 `toml:"sentinel"`

	// Workers is the goroutine count per transform pass. 0 or 1 runs
	// sequentially.
	Workers int `toml:"workers"`
}

// ImageConfig holds defaults for building grids from images.
type ImageConfig struct {
	// Threshold is the default luminance cut-off, 0-255.
	Threshold int `toml:"threshold"`

	// MaxCells caps the grid size; larger images are down-sampled.
	MaxCells int `toml:"max_cells"`

	// ColorTolerance is the default CIE-Lab match distance.
	ColorTolerance float64 `toml:"color_tolerance"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Field: FieldConfig{
			Sentinel: distfield.DefaultSentinel,
			Workers:  1,
		},
		Image: ImageConfig{
			Threshold:      imaging.DefaultThreshold,
			MaxCells:       DefaultMaxCells,
			ColorTolerance: imaging.DefaultColorTolerance,
		},
	}
}

// Load reads the TOML file at path over the defaults. An empty path returns
// the defaults. Keys the file sets override defaults; unknown keys are an
// error so typos do not pass silently.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// ApplyEnv overrides settings from environment variables. getenv is usually
// os.Getenv; tests pass a map lookup.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		c.Field.Workers = n
	}
	return nil
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if c.Field.Workers < 0 {
		return fmt.Errorf("field.workers must be non-negative, got %d", c.Field.Workers)
	}
	if err := c.FieldOptions().Validate(); err != nil {
		return fmt.Errorf("field.sentinel: %w", err)
	}
	if c.Image.Threshold < 0 || c.Image.Threshold > math.MaxUint8 {
		return fmt.Errorf("image.threshold must be in 0..255, got %d", c.Image.Threshold)
	}
	if c.Image.MaxCells < 1 {
		return fmt.Errorf("image.max_cells must be at least 1, got %d", c.Image.MaxCells)
	}
	if c.Image.ColorTolerance < 0 {
		return fmt.Errorf("image.color_tolerance must be non-negative, got %g", c.Image.ColorTolerance)
	}
	return nil
}

// FieldOptions converts the field settings for distfield.
func (c *Config) FieldOptions() distfield.Options {
	return distfield.Options{
		Sentinel: c.Field.Sentinel,
		Workers:  c.Field.Workers,
	}
}

// LoadFromEnvironment resolves the config path from EnvConfigPath when
// path is empty, loads it, applies the environment and validates.
func LoadFromEnvironment(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
