// Package main provides the entry point for the gmapscan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for gmapscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gmapscan",
		Short: "Check which Maps Platform endpoints accept an API key",
		Long: `gmapscan checks a Google Maps API key against the Maps Platform
REST endpoints (Geocoding, Places, Roads, Static Maps, and more).

Each endpoint is probed with a real request. The report lists the
endpoints that answered with usable data, together with a short summary
of each response. Images and batch artifacts are saved under a per-key
output directory.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
