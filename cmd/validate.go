// =============================================================================
// EDI 834 Generator - Validate Command
// =============================================================================
//
// COMMAND USAGE:
//   edi834 validate                  # Check the configuration only
//   edi834 validate --input <file>   # Also check an input file's columns and rows
//
// Nothing is written and no control number is drawn.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateInput string

// validateCmd checks configuration and, optionally, one input file.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and optionally an input file",
	Long: `Validate loads the configuration (transformation rules, defaults, S3 and
ledger settings). With --input it also applies transformations and row
validation to the file and reports every problem found.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "Input .csv or .xlsx file to check")
}

func runValidate(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer rt.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration OK")

	if validateInput == "" {
		return nil
	}

	rows, err := rt.Validate(cmd.Context(), validateInput)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %d row(s) valid\n", validateInput, rows)
	return nil
}
