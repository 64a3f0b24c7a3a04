package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"northgate/sentinel/pkg/cli"
	"northgate/sentinel/pkg/policy"
	"northgate/sentinel/pkg/policy/store"
)

var validateFlags struct {
	file   string
	dir    string
	format string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate policy files",
	Long: `Validate compliance policy files for syntax and structural errors.

The validate command parses policy files and performs comprehensive checks:
  - YAML syntax validation
  - Policy structure validation (ID, version, status, scope)
  - Requirement validation (known requirement types and parameters)
  - Duplicate policy ID detection across a directory

Examples:
  # Validate single file
  sentinel validate --file policies.yaml

  # Validate directory
  sentinel validate --dir policies/

  # JSON output for CI/CD
  sentinel validate --file policies.yaml --format json`,
	RunE: validatePolicies,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFlags.file, "file", "f", "", "policy file to validate")
	validateCmd.Flags().StringVarP(&validateFlags.dir, "dir", "d", "", "directory of policy files")
	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json")
}

// ValidationResult represents the validation result for a single policy file.
type ValidationResult struct {
	File     string   `json:"file"`
	Valid    bool     `json:"valid"`
	Policies int      `json:"policies"`
	Errors   []string `json:"errors,omitempty"`
}

func validatePolicies(cmd *cobra.Command, args []string) error {
	if validateFlags.file == "" && validateFlags.dir == "" {
		return fmt.Errorf("either --file or --dir must be specified")
	}

	var files []string

	if validateFlags.file != "" {
		files = append(files, validateFlags.file)
	}

	if validateFlags.dir != "" {
		for _, pattern := range []string{"*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(validateFlags.dir, pattern))
			if err != nil {
				return fmt.Errorf("failed to list policy files: %w", err)
			}
			files = append(files, matches...)
		}
	}

	if len(files) == 0 {
		return fmt.Errorf("no policy files found")
	}

	loader := store.NewLoader(nil)
	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, validatePolicyFile(loader, file))
	}

	if validateFlags.format == "json" {
		return outputJSON(results)
	}
	return outputText(results)
}

func validatePolicyFile(loader *store.Loader, path string) ValidationResult {
	result := ValidationResult{File: path, Valid: true}

	policies, err := loader.LoadFromFile(path)
	if err != nil {
		result.Valid = false

		var verr *policy.ValidationError
		if errors.As(err, &verr) {
			for _, problem := range verr.Problems {
				result.Errors = append(result.Errors,
					fmt.Sprintf("policy %s: %s", verr.PolicyID, problem))
			}
		} else {
			result.Errors = append(result.Errors, err.Error())
		}
		return result
	}

	result.Policies = len(policies)
	return result
}

func outputText(results []ValidationResult) error {
	totalErrors := 0

	for _, result := range results {
		fmt.Printf("Validating %s...\n", result.File)

		if result.Valid {
			fmt.Printf("✓ %d policy definition(s) valid\n", result.Policies)
		}

		for _, msg := range result.Errors {
			fmt.Printf("✗ Error: %s\n", msg)
			totalErrors++
		}

		fmt.Println()
	}

	fmt.Println("Summary:")
	fmt.Printf("  %d file(s), %d error(s)\n", len(results), totalErrors)

	if totalErrors > 0 {
		return cli.NewCommandError("validate", fmt.Errorf("validation failed"))
	}
	return nil
}

func outputJSON(results []ValidationResult) error {
	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, results); err != nil {
		return err
	}

	for _, result := range results {
		if !result.Valid {
			return cli.NewCommandError("validate", fmt.Errorf("validation failed"))
		}
	}
	return nil
}
