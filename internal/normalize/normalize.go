// =============================================================================
// EDI 834 Generator - Field Normalizer
// =============================================================================
//
// This module coerces raw cell values into the conventions of the 834 output:
//   - Trimming and defaulting (Clean)
//   - Date reformatting to MMDDYYYY (FormatDate / FormatDateOr)
//   - Time formatting to HHMM (FormatTime)
//   - Fixed-width padding (PadLeft / PadRight)
//
// Every function here is pure and safe for concurrent use. None of them
// return errors: a value that cannot be normalized is replaced by its fallback,
// so the assembled document is always well-formed even for sparse input.
//
// =============================================================================

package normalize

import (
	"strconv"
	"strings"
	"time"
)

// DefaultDate is the fallback used by FormatDate when the input is not a date.
const DefaultDate = "01012024"

// =============================================================================
// STRING CLEANING
// =============================================================================

// Clean returns the trimmed value, or fallback when the trimmed value is empty.
//
// EXAMPLES:
//   Clean("  DOE ", "X") -> "DOE"
//   Clean("", "X")       -> "X"
//   Clean("   ", "X")    -> "X"
func Clean(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}

// =============================================================================
// DATE AND TIME FORMATTING
// =============================================================================

// FormatDate normalizes a date to MMDDYYYY, falling back to DefaultDate.
func FormatDate(value string) string {
	return FormatDateOr(value, DefaultDate)
}

// FormatDateOr normalizes a date to MMDDYYYY.
//
// PARAMETERS:
//   - value: MMDDYYYY, YYYYMMDD, or either form with "-" or "/" separators.
//   - fallback: returned when value is empty or not 8 digits after stripping.
//
// YEAR-FIRST DETECTION:
//   When the first four digits parse to a year in [1900, 2099] the value is
//   read as YYYYMMDD and reordered. Anything else is assumed to already be
//   MMDDYYYY and returned as is.
func FormatDateOr(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}

	digits := strings.NewReplacer("-", "", "/", "").Replace(trimmed)
	if !isDigits(digits, 8) {
		return fallback
	}

	year, _ := strconv.Atoi(digits[:4])
	if year >= 1900 && year <= 2099 {
		return digits[4:6] + digits[6:8] + digits[:4]
	}

	return digits
}

// FormatTime renders t as zero-padded 24-hour HHMM.
func FormatTime(t time.Time) string {
	return t.Format("1504")
}

// FormatCCYYMMDD renders t as YYYYMMDD, the group/transaction date format.
func FormatCCYYMMDD(t time.Time) string {
	return t.Format("20060102")
}

// FormatYYMMDD renders t as YYMMDD, the interchange date format.
func FormatYYMMDD(t time.Time) string {
	return t.Format("060102")
}

// =============================================================================
// PADDING
// =============================================================================

// PadLeft pads s on the left with padChar up to length. Longer values are
// returned unchanged.
func PadLeft(s string, length int, padChar rune) string {
	n := length - len([]rune(s))
	if n <= 0 {
		return s
	}
	return strings.Repeat(string(padChar), n) + s
}

// PadRight pads s on the right with padChar up to length. Longer values are
// returned unchanged.
func PadRight(s string, length int, padChar rune) string {
	n := length - len([]rune(s))
	if n <= 0 {
		return s
	}
	return s + strings.Repeat(string(padChar), n)
}

// isDigits reports whether s is exactly n ASCII digits.
func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
