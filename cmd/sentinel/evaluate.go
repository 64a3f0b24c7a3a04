package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"northgate/sentinel/pkg/cli"
	"northgate/sentinel/pkg/engine"
	"northgate/sentinel/pkg/policy/store"
	"northgate/sentinel/pkg/posture"
)

var evaluateFlags struct {
	posture  string
	policies string
	format   string
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a posture report against policies",
	Long: `Evaluate a single device posture report against a policy file
without starting a server.

The evaluate command reads a posture report (JSON) and a policy file
(YAML), runs a one-shot compliance evaluation, and prints the verdict.
Scope resolution is bypassed: every Active policy in the file applies.

The command exits non-zero when the device is non-compliant, making it
usable as a CI gate for golden posture fixtures.

Examples:
  # Evaluate a posture report
  sentinel evaluate --posture device.json --policies policies.yaml

  # JSON output
  sentinel evaluate --posture device.json --policies policies.yaml --format json`,
	RunE: evaluatePosture,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVarP(&evaluateFlags.posture, "posture", "p", "", "posture report file (JSON)")
	evaluateCmd.Flags().StringVar(&evaluateFlags.policies, "policies", "", "policy file (YAML)")
	evaluateCmd.Flags().StringVar(&evaluateFlags.format, "format", "text", "output format: text, json")

	_ = evaluateCmd.MarkFlagRequired("posture")
	_ = evaluateCmd.MarkFlagRequired("policies")
}

func evaluatePosture(cmd *cobra.Command, args []string) error {
	rec, err := readPostureFile(evaluateFlags.posture)
	if err != nil {
		return cli.NewCommandError("evaluate", err)
	}

	loader := store.NewLoader(nil)
	policies, err := loader.LoadFromFile(evaluateFlags.policies)
	if err != nil {
		return cli.NewCommandError("evaluate", fmt.Errorf("failed to load policies: %w", err))
	}

	eng := engine.New(&engine.Config{CacheDisabled: true}, nil, nil, nil)
	result, err := eng.EvaluateAgainst(context.Background(), rec, policies)
	if err != nil {
		// A malformed posture still produced a fail-closed verdict;
		// report it rather than aborting.
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	if result == nil {
		return cli.NewCommandError("evaluate", fmt.Errorf("evaluation produced no result"))
	}

	if evaluateFlags.format == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		if err := formatter.FormatTo(os.Stdout, result); err != nil {
			return err
		}
	} else {
		printResult(result)
	}

	if result.OverallStatus != engine.StatusCompliant {
		return cli.NewCommandError("evaluate", fmt.Errorf("device %s is %s", result.DeviceID, result.OverallStatus))
	}
	return nil
}

func readPostureFile(path string) (*posture.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read posture file: %w", err)
	}

	var rec posture.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse posture file %s: %w", path, err)
	}
	return &rec, nil
}

func printResult(result *engine.EvaluationResult) {
	fmt.Printf("Device:  %s\n", result.DeviceID)
	fmt.Printf("Status:  %s\n", result.OverallStatus)
	if result.Reason != "" {
		fmt.Printf("Reason:  %s\n", result.Reason)
	}

	for _, pe := range result.PerPolicy {
		fmt.Printf("\nPolicy %s (v%d): %s\n", pe.PolicyID, pe.PolicyVersion, pe.Status)
		for _, v := range pe.Violations {
			fmt.Printf("  ✗ %s: %s\n", v.Path, v.Reason)
		}
	}
}
