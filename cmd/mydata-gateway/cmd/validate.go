package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/mydata-gateway/internal/validation"
)

// checkFunc decodes a JSON document and validates it
type checkFunc func(data []byte) (validation.Result, error)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate request files offline",
	Long: `Validate JSON request files with the same rules the API applies, without
calling any upstream service.

Examples:
  mydata-gateway validate client rental.json
  mydata-gateway validate invoice invoices/ --format json`,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.AddCommand(
		newValidateCmd("client", "Validate new rental client registrations", checkAs(validation.ValidateSendClient)),
		newValidateCmd("update", "Validate client updates", checkAs(validation.ValidateUpdateClient)),
		newValidateCmd("correlation", "Validate client correlations", checkAs(validation.ValidateClientCorrelations)),
		newValidateCmd("invoice", "Validate invoices", checkAs(validation.ValidateInvoice)),
		newValidateCmd("billing-book", "Validate billing book creations", checkAs(validation.ValidateBillingBook)),
	)
}

// checkAs adapts a typed validator to raw JSON input
func checkAs[T any](validate func(*T) validation.Result) checkFunc {
	return func(data []byte) (validation.Result, error) {
		var req T
		if err := json.Unmarshal(data, &req); err != nil {
			return validation.Result{}, err
		}
		return validate(&req), nil
	}
}

func newValidateCmd(use, short string, check checkFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [files...]",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args, check)
		},
	}
}

func runValidate(args []string, check checkFunc) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to validate")
	}

	results := make([]*ValidationResult, 0, len(files))
	allValid := true
	for _, file := range files {
		printVerbose("Validating %s\n", file)
		result := validateFile(file, check)
		results = append(results, result)
		if !result.Valid {
			allValid = false
		}
	}

	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(results); err != nil {
			return err
		}
	} else {
		printValidationTable(results)
	}

	if !allValid {
		return fmt.Errorf("validation failed for some files")
	}
	return nil
}

func validateFile(filePath string, check checkFunc) *ValidationResult {
	result := &ValidationResult{
		File:     filePath,
		Valid:    true,
		Errors:   []string{},
		Warnings: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("failed to read file: %v", err))
		return result
	}

	res, err := check(data)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("invalid JSON: %v", err))
		return result
	}

	result.Valid = res.Valid()
	result.Errors = append(result.Errors, res.Violations...)
	result.Warnings = append(result.Warnings, res.Warnings...)
	return result
}

func printValidationTable(results []*ValidationResult) {
	for _, r := range results {
		if r.Valid {
			fmt.Printf("✓ %s: VALID\n", r.File)
		} else {
			fmt.Printf("✗ %s: INVALID\n", r.File)
			for _, e := range r.Errors {
				fmt.Printf("  - %s\n", e)
			}
		}
		for _, w := range r.Warnings {
			fmt.Printf("  ⚠ %s\n", w)
		}
	}
}

// decodeFile reads a single JSON request file
func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid JSON in %s: %w", path, err)
	}
	return nil
}

// ValidationResult holds the result of validating a single file
type ValidationResult struct {
	File     string   `json:"file"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}
