package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "sentinel",
	Short: "Sentinel - device compliance evaluation service",
	Long: `Sentinel is a device compliance evaluation service that turns raw
device posture reports into compliance verdicts.

It ingests posture reports from endpoint collectors, evaluates them against
policy definitions, and records every compliance status change:
  - Posture ingestion with structural validation and staleness checks
  - Policy evaluation with fail-closed semantics on missing signals
  - File- or Git-backed policy definitions with live reload
  - Append-only audit trail of status transitions
  - Per-device compliance lookup over HTTP`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
