// Package config loads the engine's TOML configuration. Flags layer on top
// of file values; file values layer on top of defaults.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// DefaultFileName is looked up in the working directory when no --config
// flag is given.
const DefaultFileName = "clipforge.toml"

// Tools names the external transcoder binaries.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Extraction tunes batch clip extraction.
type Extraction struct {
	StartBuffer     float64 `toml:"start_buffer"`
	EndBuffer       float64 `toml:"end_buffer"`
	ContinueOnError bool    `toml:"continue_on_error"`
}

// Compilation tunes episode compilation.
type Compilation struct {
	BackgroundDir string `toml:"background_dir"`
	IntroImage    string `toml:"intro_image"`
	KeepTemp      bool   `toml:"keep_temp"`
}

// Timeouts bound every external tool invocation.
type Timeouts struct {
	ProbeSeconds  int `toml:"probe_seconds"`
	RenderMinutes int `toml:"render_minutes"`
}

// Logging selects log verbosity and encoding.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Config struct {
	Tools       Tools       `toml:"tools"`
	Extraction  Extraction  `toml:"extraction"`
	Compilation Compilation `toml:"compilation"`
	Timeouts    Timeouts    `toml:"timeouts"`
	Logging     Logging     `toml:"logging"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Tools: Tools{FFmpeg: "ffmpeg", FFprobe: "ffprobe"},
		Extraction: Extraction{
			StartBuffer:     2.0,
			EndBuffer:       2.0,
			ContinueOnError: true,
		},
		Timeouts: Timeouts{ProbeSeconds: 30, RenderMinutes: 10},
		Logging:  Logging{Level: "info", Format: "console"},
	}
}

// Load reads path over the defaults. An empty path falls back to
// DefaultFileName; a missing default file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the engine cannot run with.
func (c Config) Validate() error {
	if c.Tools.FFmpeg == "" || c.Tools.FFprobe == "" {
		return errors.New("tools.ffmpeg and tools.ffprobe must be set")
	}
	if c.Extraction.StartBuffer < 0 || c.Extraction.EndBuffer < 0 {
		return errors.New("extraction buffers must be >= 0")
	}
	if c.Timeouts.ProbeSeconds <= 0 || c.Timeouts.RenderMinutes <= 0 {
		return errors.New("timeouts must be > 0")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

// Sample returns the embedded annotated sample configuration.
func Sample() string { return sampleConfig }
