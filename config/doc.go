// Package config loads playback defaults from a YAML file.
//
// The file supplies defaults for the asciiplay CLI flags; flags given
// explicitly on the command line always win. [Schema] describes the file as
// JSON Schema (Draft 7), printable via `asciiplay schema` for editor
// validation.
package config
