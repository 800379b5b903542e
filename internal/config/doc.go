// Package config holds configuration for gmapscan.
//
// Configuration is resolved in order of precedence: CLI flags, then an
// optional .gmapscan YAML file (current directory, home directory, or
// XDG config directory), then built-in defaults.
package config
