package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".gmapscan"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML configuration file shape. All fields are optional;
// unset fields leave the corresponding Config value untouched.
//
// Example:
//
//	timeout: 15s
//	max_retries: 3
//	retry_backoff: 1s
//	output_root: /tmp/gmapscan
type File struct {
	// Timeout is the per-request timeout as a Go duration string.
	Timeout string `yaml:"timeout"`

	// MaxRetries is the retry budget for transient server errors.
	// A pointer so that an explicit 0 can be distinguished from unset.
	MaxRetries *int `yaml:"max_retries"`

	// RetryBackoff is the base retry delay as a Go duration string.
	RetryBackoff string `yaml:"retry_backoff"`

	// OutputRoot is the base directory for downloaded artifacts.
	OutputRoot string `yaml:"output_root"`
}

// LoadConfigFile loads defaults from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// Apply copies the file's values onto cfg. Fields left empty in the
// file keep their current values.
func (f *File) Apply(cfg *Config) error {
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout in config file: %w", err)
		}
		cfg.Timeout = d
	}
	if f.MaxRetries != nil {
		cfg.MaxRetries = *f.MaxRetries
	}
	if f.RetryBackoff != "" {
		d, err := time.ParseDuration(f.RetryBackoff)
		if err != nil {
			return fmt.Errorf("invalid retry_backoff in config file: %w", err)
		}
		cfg.RetryBackoff = d
	}
	if f.OutputRoot != "" {
		cfg.OutputRoot = f.OutputRoot
	}
	return nil
}

// FindConfigFile searches for the configuration file in order:
//  1. The explicit configPath, if given
//  2. .gmapscan in the current directory
//  3. .gmapscan in the user's home directory
//  4. .gmapscan in the XDG config directory
//
// Returns the path if found, or empty string otherwise.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), DefaultConfigFile))

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}
