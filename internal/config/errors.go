package config

import "errors"

// Configuration validation errors returned by Config.Validate().
// Package-level sentinel errors allow callers to use errors.Is() while
// still carrying a human-readable message.
var (
	// ErrNoAPIKey is returned when no API key was provided via flag or prompt.
	ErrNoAPIKey = errors.New("API key and place are required")

	// ErrNoPlace is returned when no place query was provided.
	ErrNoPlace = errors.New("API key and place are required: missing place")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidRetries is returned when the retry budget is negative.
	ErrInvalidRetries = errors.New("invalid retries: must be non-negative")

	// ErrInvalidBackoff is returned when the retry backoff is negative.
	ErrInvalidBackoff = errors.New("invalid retry backoff: must be non-negative")

	// ErrNoOutputRoot is returned when the artifact output directory is empty.
	ErrNoOutputRoot = errors.New("invalid output directory: must not be empty")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
