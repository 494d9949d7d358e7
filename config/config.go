package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Sentinel errors returned when loading configuration.
var (
	// ErrReadConfig indicates the config file could not be read.
	ErrReadConfig = errors.New("read config")
	// ErrParseConfig indicates the config file is not valid YAML or holds
	// unknown keys.
	ErrParseConfig = errors.New("parse config")
)

// Config holds playback defaults, one field per CLI flag.
type Config struct {
	// Loop restarts playback when the stream ends.
	Loop bool `yaml:"loop"`
	// Speed is the initial playback speed factor.
	Speed float64 `yaml:"speed"`
	// Transparent suppresses background color escapes.
	Transparent bool `yaml:"transparent"`
	// AlphaThreshold hides cells whose alpha falls below it (0-255).
	// Negative disables the cutoff.
	AlphaThreshold int `yaml:"alpha_threshold"`
	// Palette is one of: color, grayscale, ascii.
	Palette string `yaml:"palette"`
	// Width fixes the render width in columns. Zero auto-detects.
	Width int `yaml:"width"`
	// Height fixes the render height in rows. Zero auto-detects.
	Height int `yaml:"height"`
	// FPS caps the playback frame rate. Zero keeps the source rate.
	FPS float64 `yaml:"fps"`
	// Brightness shifts colors, in [-1, 1].
	Brightness float64 `yaml:"brightness"`
	// Contrast scales colors around mid-gray, in [0, 2].
	Contrast float64 `yaml:"contrast"`
	// SketchybarItem names a sketchybar item to receive playback status.
	SketchybarItem string `yaml:"sketchybar_item"`
	// LogLevel is one of: error, warn, info, debug.
	LogLevel string `yaml:"log_level"`
	// LogFormat is one of: text, json, logfmt.
	LogFormat string `yaml:"log_format"`
}

// Default returns the built-in defaults used when no config file is given.
func Default() Config {
	return Config{
		Speed:          1.0,
		AlphaThreshold: -1,
		Palette:        "color",
		Contrast:       1.0,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// Load reads a YAML config file and overlays it on [Default]. Unknown keys
// are rejected so typos do not silently become no-ops.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrReadConfig, err)
	}

	cfg := Default()

	err = yaml.UnmarshalWithOptions(data, &cfg, yaml.Strict())
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrParseConfig, path, err)
	}

	return cfg, nil
}
