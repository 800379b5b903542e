package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkosuda/gmapscan/internal/client"
	"github.com/mkosuda/gmapscan/internal/config"
	"github.com/mkosuda/gmapscan/internal/log"
	"github.com/mkosuda/gmapscan/internal/model"
	"github.com/mkosuda/gmapscan/internal/pipeline"
	"github.com/mkosuda/gmapscan/internal/probe"
	"github.com/mkosuda/gmapscan/internal/report"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Probe all Maps Platform endpoints with an API key",
		Long: `Check probes every supported Maps Platform REST endpoint with the
given API key and reports which endpoints answered with usable data.

The place query seeds the run: it is geocoded first, and the derived
coordinates and place ID feed the location-based endpoints. Probes
whose input could not be derived are skipped without a request.

Examples:
  # Check a key against all endpoints
  gmapscan check --key AIzaSy... --place "London"

  # Prompt for the key and place interactively
  gmapscan check

  # Output a JSON report to a file
  gmapscan check -k AIzaSy... -p "Tokyo Station" --json -o report.json

  # Use a custom configuration file
  gmapscan check -c myconfig.yaml -k AIzaSy... -p "Berlin"

Configuration file (.gmapscan) example:
  timeout: 15s
  max_retries: 3
  retry_backoff: 1s
  output_root: /tmp/gmapscan`,
		Args: cobra.NoArgs,
		RunE: runCheckCmd,
	}

	// Input flags
	cmd.Flags().StringP("key", "k", "",
		"Google Maps API key to check (prompted for if omitted)")
	cmd.Flags().StringP("place", "p", "",
		"Place query used by location-based probes (prompted for if omitted)")

	// Request behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request")
	cmd.Flags().IntP("retries", "r", config.DefaultMaxRetries,
		"Number of retries on transient server errors")
	cmd.Flags().DurationP("backoff", "b", config.DefaultRetryBackoff,
		"Base delay between retries (doubles per attempt)")

	// Output flags
	cmd.Flags().StringP("output-dir", "d", config.DefaultOutputRoot,
		"Base directory for downloaded artifacts (images, batch CSV)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .gmapscan in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	// Prompt for missing inputs before validation so running the bare
	// command stays usable.
	if err := promptMissingInputs(cmd, cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with key masking
	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCheck(ctx, cmd, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and the
// optional configuration file. Flags win over file values.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load defaults from the config file first so explicit flags can
	// override them below.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := cf.Apply(cfg); err != nil {
			return nil, err
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.APIKey, err = cmd.Flags().GetString("key")
	if err != nil {
		return nil, err
	}

	cfg.Place, err = cmd.Flags().GetString("place")
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("timeout") || configPath == "" {
		cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("retries") || configPath == "" {
		cfg.MaxRetries, err = cmd.Flags().GetInt("retries")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("backoff") || configPath == "" {
		cfg.RetryBackoff, err = cmd.Flags().GetDuration("backoff")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("output-dir") || configPath == "" {
		cfg.OutputRoot, err = cmd.Flags().GetString("output-dir")
		if err != nil {
			return nil, err
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// promptMissingInputs reads the key and place from stdin when the
// corresponding flags were not given.
func promptMissingInputs(cmd *cobra.Command, cfg *config.Config) error {
	reader := bufio.NewReader(cmd.InOrStdin())

	if cfg.APIKey == "" {
		fmt.Fprint(cmd.OutOrStdout(), "API key to check: ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read API key: %w", err)
		}
		cfg.APIKey = strings.TrimSpace(line)
	}

	if cfg.Place == "" {
		fmt.Fprint(cmd.OutOrStdout(), "Place to query (address or lat,lng): ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read place: %w", err)
		}
		cfg.Place = strings.TrimSpace(line)
	}

	return nil
}

// runCheck executes the check run.
func runCheck(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting check",
		"key", cfg.APIKey, // masked by the secure handler
		"place", cfg.Place,
		"timeout", cfg.Timeout,
		"retries", cfg.MaxRetries,
	)

	c := client.New(
		client.WithTimeout(cfg.Timeout),
		client.WithMaxRetries(cfg.MaxRetries),
		client.WithBackoff(cfg.RetryBackoff),
		client.WithLogger(logger),
	)

	checkReport := model.NewCheckReport(cfg.APIKey, cfg.Place, cfg.OutputRoot)

	p := pipeline.Default(c, probe.DefaultEndpoints(),
		pipeline.WithLogger(logger),
		pipeline.WithProgress(cmd.OutOrStdout()),
	)

	fmt.Fprintf(cmd.OutOrStdout(), "Checking key %s against %d endpoints...\n\n", checkReport.MaskedKey, p.ProbeCount())
	startTime := time.Now()

	if err := p.Execute(ctx, checkReport); err != nil {
		logger.Error("check aborted", "error", err)
		return err
	}

	elapsed := time.Since(startTime)
	fmt.Fprintf(cmd.OutOrStdout(), "\nCheck completed in %s: %d of %d endpoints answered\n",
		elapsed.Round(time.Millisecond), len(checkReport.Outcomes), p.ProbeCount())

	return outputReport(cmd, cfg, checkReport)
}

// outputReport outputs the check report in the requested format.
func outputReport(cmd *cobra.Command, cfg *config.Config, checkReport *model.CheckReport) error {
	output := cmd.OutOrStdout()
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports carry response payloads that may identify the key's
		// project, so keep them owner-readable only.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close() //nolint:errcheck // Best effort cleanup
		output = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(output)
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewSimpleWriter(output)
	}

	_, err := w.Write(checkReport)
	return err
}
