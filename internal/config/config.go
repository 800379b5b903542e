package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. These mirror the behavior of the
// Maps Platform REST endpoints being probed: requests are cheap and
// fast, so the timeout is short and the retry budget small.
const (
	// DefaultTimeout is the per-request timeout. Maps Platform
	// endpoints normally answer well under a second; ten seconds
	// leaves room for slow networks without hanging the whole run.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the number of automatic retries on
	// transient server errors (429/500/502/503/504).
	DefaultMaxRetries = 2

	// DefaultRetryBackoff is the base delay between retries.
	// The delay doubles with each attempt.
	DefaultRetryBackoff = 500 * time.Millisecond

	// DefaultOutputRoot is the base directory for downloaded artifacts.
	// Each key gets its own subdirectory named by a hash prefix.
	DefaultOutputRoot = "output"

	// AppName is the application name used for XDG directory paths.
	AppName = "gmapscan"
)

// Config holds all options for a single check run.
// It is populated from CLI flags (and prompts) and passed through the
// application via dependency injection rather than global state.
type Config struct {
	// APIKey is the Google Maps API key under test.
	APIKey string

	// Place is the place query (address or "lat,lng") used by the
	// probes that need an input location.
	Place string

	// Timeout is the per-request timeout applied by the HTTP client.
	Timeout time.Duration

	// MaxRetries is the number of automatic retries on transient
	// server errors. Zero disables retrying.
	MaxRetries int

	// RetryBackoff is the base delay between retries; the actual delay
	// doubles with each attempt.
	RetryBackoff time.Duration

	// OutputRoot is the base directory for downloaded artifacts.
	OutputRoot string

	// ConfigFilePath is an explicit config file path. If empty, the
	// tool searches for .gmapscan in the usual locations.
	ConfigFilePath string

	// JSONReport enables JSON report output instead of the text table.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When empty the report is written to stdout.
	ReportFile string

	// Verbose enables debug-level logging.
	Verbose bool
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Timeout:      DefaultTimeout,
		MaxRetries:   DefaultMaxRetries,
		RetryBackoff: DefaultRetryBackoff,
		OutputRoot:   DefaultOutputRoot,
	}
}

// XDGConfigDir returns the XDG config directory for gmapscan.
// On Linux: ~/.config/gmapscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks that the configuration is usable.
// It returns the first problem found; fixing one error often makes
// later ones irrelevant.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrNoAPIKey
	}
	if c.Place == "" {
		return ErrNoPlace
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxRetries < 0 {
		return ErrInvalidRetries
	}
	if c.RetryBackoff < 0 {
		return ErrInvalidBackoff
	}
	if c.OutputRoot == "" {
		return ErrNoOutputRoot
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
