package config

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

// Schema returns the JSON Schema (Draft 7) describing the YAML config file.
func Schema() *jsonschema.Schema {
	def := Default()

	return &jsonschema.Schema{
		Schema:      "http://json-schema.org/draft-07/schema#",
		Title:       "asciiplay configuration",
		Description: "Playback defaults for the asciiplay terminal video player.",
		Type:        "object",
		Properties: map[string]*jsonschema.Schema{
			"loop": {
				Type:        "boolean",
				Description: "Restart playback when the stream ends.",
				Default:     defaultValue(def.Loop),
			},
			"speed": {
				Type:             "number",
				Description:      "Initial playback speed factor.",
				ExclusiveMinimum: jsonschema.Ptr(0.0),
				Default:          defaultValue(def.Speed),
			},
			"transparent": {
				Type:        "boolean",
				Description: "Suppress background color escapes so the terminal background shows through.",
				Default:     defaultValue(def.Transparent),
			},
			"alpha_threshold": {
				Type:        "integer",
				Description: "Hide cells whose alpha falls below this value (0-255). Negative disables the cutoff.",
				Minimum:     jsonschema.Ptr(-1.0),
				Maximum:     jsonschema.Ptr(255.0),
				Default:     defaultValue(def.AlphaThreshold),
			},
			"palette": {
				Type:        "string",
				Description: "Cell color mode.",
				Enum:        []any{"color", "grayscale", "ascii"},
				Default:     defaultValue(def.Palette),
			},
			"width": {
				Type:        "integer",
				Description: "Fixed render width in columns. Zero auto-detects.",
				Minimum:     jsonschema.Ptr(0.0),
				Default:     defaultValue(def.Width),
			},
			"height": {
				Type:        "integer",
				Description: "Fixed render height in rows. Zero auto-detects.",
				Minimum:     jsonschema.Ptr(0.0),
				Default:     defaultValue(def.Height),
			},
			"fps": {
				Type:        "number",
				Description: "Frame rate cap. Zero keeps the source rate.",
				Minimum:     jsonschema.Ptr(0.0),
				Default:     defaultValue(def.FPS),
			},
			"brightness": {
				Type:        "number",
				Description: "Color brightness shift.",
				Minimum:     jsonschema.Ptr(-1.0),
				Maximum:     jsonschema.Ptr(1.0),
				Default:     defaultValue(def.Brightness),
			},
			"contrast": {
				Type:        "number",
				Description: "Color contrast scale around mid-gray.",
				Minimum:     jsonschema.Ptr(0.0),
				Maximum:     jsonschema.Ptr(2.0),
				Default:     defaultValue(def.Contrast),
			},
			"sketchybar_item": {
				Type:        "string",
				Description: "Sketchybar item name to receive playback status updates.",
			},
			"log_level": {
				Type:        "string",
				Description: "Log verbosity.",
				Enum:        []any{"error", "warn", "info", "debug"},
				Default:     defaultValue(def.LogLevel),
			},
			"log_format": {
				Type:        "string",
				Description: "Log output format.",
				Enum:        []any{"text", "json", "logfmt"},
				Default:     defaultValue(def.LogFormat),
			},
		},
		AdditionalProperties: &jsonschema.Schema{Not: &jsonschema.Schema{}},
	}
}

// defaultValue marshals a Go value for use as a schema default.
func defaultValue(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}

	return b
}
