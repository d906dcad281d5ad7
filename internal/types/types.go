// =============================================================================
// EDI 834 Generator - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - normalize
//   - validation
//   - converter
//   - csvparser / xlsxparser
//   - service / server
//
// =============================================================================

package types

// =============================================================================
// INPUT TYPES
// =============================================================================

// Row is one enrollment member read from the input file.
// Key is the column header, value is the raw cell text.
// A column that is absent from the map reads as the empty string.
type Row map[string]string

// Clone returns a copy of the row so callers can rewrite values without
// touching the adapter's data.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is the parsed input: ordered headers plus ordered data rows.
type Table struct {
	// Headers holds the column names in file order.
	Headers []string

	// Rows holds the data rows. The first data row is line 2 of the file.
	Rows []Row

	// SourceFile is the path the table was read from.
	SourceFile string
}

// =============================================================================
// OUTPUT TYPES
// =============================================================================

// Summary is the metadata returned to callers after a document was generated.
type Summary struct {
	// OutputPath is where the document was written. Empty when the document was
	// only generated in memory.
	OutputPath string `json:"outputPath"`

	// SegmentCount is the total number of segments in the document,
	// envelope included.
	SegmentCount int `json:"segmentCount"`

	// MemberCount is the number of detail loops (one per input row).
	MemberCount int `json:"memberCount"`

	// ControlNumber is the interchange/group/transaction control number.
	ControlNumber int `json:"controlNumber"`
}
