// =============================================================================
// EDI 834 Generator - Validation Engine
// =============================================================================
//
// This module applies the enrollment business rules to input rows before any
// segment is assembled.
//
// VALIDATION LEVELS:
//   1. Structural: the header row carries every required column
//      (CheckColumns). Runs first and stops processing when it fails.
//   2. Row-level: each row is checked independently (ValidateRows).
//
// ERROR HANDLING:
//   - Row errors are collected, never returned on the first hit
//   - Each error carries the 1-based file line (header = line 1)
//   - Any row error is fatal to generation: no document is produced
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ginjaninja78/edi834-generator/internal/normalize"
	"github.com/ginjaninja78/edi834-generator/internal/types"
)

// ErrNoRows is returned when the input has a header but no data rows.
var ErrNoRows = errors.New("input has no data rows")

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ColumnError reports required columns missing from the input header.
type ColumnError struct {
	// Missing lists the absent column names in RequiredColumns order.
	Missing []string
}

// Error implements the error interface.
func (e *ColumnError) Error() string {
	return "Missing required input columns: " + strings.Join(e.Missing, ", ")
}

// ValidationError is a single business-rule violation on one row.
type ValidationError struct {
	// Line is the 1-based line number in the input file.
	// The header is line 1, so the first data row is line 2.
	Line int

	// Field is the column the rule applies to.
	Field string

	// Message is the human-readable violation.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("Row %d: %s", e.Line, e.Message)
}

// ValidationErrors is the full set of row violations for one input.
type ValidationErrors []*ValidationError

// Error implements the error interface. Every violation is listed, one per line.
func (errs ValidationErrors) Error() string {
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = e.Error()
	}
	return "Row validation failed:\n" + strings.Join(lines, "\n")
}

// Lines returns the line numbers that carry at least one violation, in order.
func (errs ValidationErrors) Lines() []int {
	var out []int
	seen := make(map[int]bool)
	for _, e := range errs {
		if !seen[e.Line] {
			seen[e.Line] = true
			out = append(out, e.Line)
		}
	}
	return out
}

// =============================================================================
// RULES
// =============================================================================

// requiredFields must be non-empty on every row.
var requiredFields = []string{
	types.ColMemberID,
	types.ColLastName,
	types.ColFirstName,
	types.ColRelationshipCode,
}

// validGenders are the accepted DMG gender codes.
var validGenders = map[string]bool{"M": true, "F": true, "U": true}

// ValidGender reports whether code is an accepted DMG gender code.
func ValidGender(code string) bool {
	return validGenders[code]
}

// firstDataLine is the file line of rows[0].
const firstDataLine = 2

// =============================================================================
// STRUCTURAL VALIDATION
// =============================================================================

// CheckColumns verifies that every required column is present on the header.
//
// RETURNS:
//   - nil when all required columns are present.
//   - *ColumnError listing every missing column otherwise.
func CheckColumns(headers []string) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[strings.TrimSpace(h)] = true
	}

	var missing []string
	for _, col := range types.RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 {
		return &ColumnError{Missing: missing}
	}
	return nil
}

// =============================================================================
// ROW VALIDATION
// =============================================================================

// ValidateRows checks every row against the built-in defaults table and
// returns all violations.
//
// RULES:
//   - Member ID, Last Name, First Name, Relationship Code are required
//   - Gender (or its default when empty) must be M, F or U
//   - Rows whose relationship is not the subscriber code need a
//     Subscriber Number
//
// RETURNS:
//   - nil when every row passes.
//   - ValidationErrors with every violation otherwise.
func ValidateRows(rows []types.Row) error {
	return ValidateRowsWith(rows, normalize.DefaultFieldValues())
}

// ValidateRowsWith is ValidateRows with the defaults table the document will
// be assembled with, so a configured fallback is checked like a cell value.
func ValidateRowsWith(rows []types.Row, defaults normalize.Defaults) error {
	var errs ValidationErrors

	for i, row := range rows {
		errs = append(errs, validateRow(row, i+firstDataLine, defaults)...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateRow checks a single row that sits on the given file line.
func ValidateRow(row types.Row, line int) ValidationErrors {
	return validateRow(row, line, normalize.DefaultFieldValues())
}

func validateRow(row types.Row, line int, defaults normalize.Defaults) ValidationErrors {
	var errs ValidationErrors

	for _, field := range requiredFields {
		if normalize.Clean(row[field], "") == "" {
			errs = append(errs, &ValidationError{
				Line:    line,
				Field:   field,
				Message: field + " is required.",
			})
		}
	}

	if !ValidGender(defaults.Value(row, types.ColGender)) {
		errs = append(errs, &ValidationError{
			Line:    line,
			Field:   types.ColGender,
			Message: "Gender must be M/F/U.",
		})
	}

	relationship := normalize.Clean(row[types.ColRelationshipCode], "")
	if relationship != types.SubscriberRelationship && normalize.Clean(row[types.ColSubscriberNumber], "") == "" {
		errs = append(errs, &ValidationError{
			Line:    line,
			Field:   types.ColSubscriberNumber,
			Message: "Dependent rows require Subscriber Number.",
		})
	}

	return errs
}

// FormatErrors renders any validation error for display. Non-validation errors
// are returned as their plain message.
func FormatErrors(err error) string {
	var rowErrs ValidationErrors
	if errors.As(err, &rowErrs) {
		return rowErrs.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
