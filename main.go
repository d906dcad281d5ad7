// =============================================================================
// EDI 834 Generator - Main Entry Point
// =============================================================================
//
// USAGE:
//   edi834 generate   - Convert one CSV/XLSX file to an EDI 834 document
//   edi834 process    - Convert every input file in the input directory
//   edi834 validate   - Check configuration and input rows without generating
//   edi834 serve      - Run the HTTP API and browser UI
//   edi834 history    - List recently generated documents
//   edi834 template   - Write a blank enrollment workbook
//   edi834 version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Parsing, validation, document assembly, delivery
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/edi834-generator/cmd"
)

func main() {
	cmd.Execute()
}
