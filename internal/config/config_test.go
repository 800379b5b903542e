package config

import (
	"errors"
	"testing"
	"time"
)

// TestNewConfig verifies default values. Changes to defaults should be
// intentional; this test documents them.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Timeout is 10 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 10*time.Second {
			t.Errorf("expected Timeout to be 10s, got %v", cfg.Timeout)
		}
	})

	t.Run("default MaxRetries is 2", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxRetries != 2 {
			t.Errorf("expected MaxRetries to be 2, got %d", cfg.MaxRetries)
		}
	})

	t.Run("default RetryBackoff is 500ms", func(t *testing.T) {
		t.Parallel()
		if cfg.RetryBackoff != 500*time.Millisecond {
			t.Errorf("expected RetryBackoff to be 500ms, got %v", cfg.RetryBackoff)
		}
	})

	t.Run("default OutputRoot is output", func(t *testing.T) {
		t.Parallel()
		if cfg.OutputRoot != "output" {
			t.Errorf("expected OutputRoot to be 'output', got %q", cfg.OutputRoot)
		}
	})
}

// TestConfigValidate exercises the validation rules.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		cfg := NewConfig()
		cfg.APIKey = "AIzaFAKEKEY1234567890"
		cfg.Place = "1600 Amphitheatre Parkway"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid config passes", func(_ *Config) {}, nil},
		{"missing key", func(c *Config) { c.APIKey = "" }, ErrNoAPIKey},
		{"missing place", func(c *Config) { c.Place = "" }, ErrNoPlace},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, ErrInvalidTimeout},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }, ErrInvalidRetries},
		{"negative backoff", func(c *Config) { c.RetryBackoff = -time.Second }, ErrInvalidBackoff},
		{"empty output root", func(c *Config) { c.OutputRoot = "" }, ErrNoOutputRoot},
		{"conflicting formats", func(c *Config) { c.JSONReport = true; c.MarkdownReport = true }, ErrConflictingReportFormats},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
