// =============================================================================
// EDI 834 Generator - XLSX Parser
// =============================================================================
//
// This module reads enrollment workbooks. The layout it expects:
//
//   | Sender ID | Receiver ID | Group | Plan | Product | Member ID | ... |
//   |-----------|-------------|-------|------|---------|-----------|-----|
//   | S1        | R1          | G1    | P1   | PR1     | SUB1      | ... |
//   | S1        | R1          | G1    | P1   | PR1     | DEP1      | ... |
//
//   - Row 1 of the sheet is the header row
//   - Every following non-blank row is one member
//   - Cells are read as displayed text; formulas are not evaluated
//
// Only the first sheet is read unless a sheet name is given.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/edi834-generator/internal/types"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads the first sheet of an XLSX workbook.
//
// PARAMETERS:
//   - filePath: The path to the workbook.
//
// RETURNS:
//   - The parsed table. A sheet with only a header yields a table with no rows.
//   - An error if the workbook cannot be opened or has no sheets.
func Parse(filePath string) (*types.Table, error) {
	return ParseSheet(filePath, "")
}

// ParseSheet reads the named sheet. An empty name selects the first sheet.
func ParseSheet(filePath, sheetName string) (*types.Table, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetName(0)
		if sheetName == "" {
			return nil, fmt.Errorf("workbook has no sheets")
		}
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of sheet %q: %w", sheetName, err)
	}

	table := buildTable(rows)
	table.SourceFile = filePath
	return table, nil
}

// buildTable turns the raw sheet grid into a table.
//
// excelize trims trailing empty cells, so rows may be shorter than the header.
// Missing cells read as the empty string. Columns with a blank header are
// ignored.
func buildTable(grid [][]string) *types.Table {
	table := &types.Table{}
	if len(grid) == 0 {
		return table
	}

	headers := make([]string, len(grid[0]))
	for i, h := range grid[0] {
		headers[i] = strings.TrimSpace(h)
	}
	table.Headers = headers

	for _, cells := range grid[1:] {
		if isRowEmpty(cells) {
			continue
		}

		row := make(types.Row, len(headers))
		for col, header := range headers {
			if header == "" {
				continue
			}
			if col < len(cells) {
				row[header] = cells[col]
			} else {
				row[header] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// WORKBOOK WRITER
// =============================================================================

// DefaultSheet is the sheet name used for written workbooks.
const DefaultSheet = "Enrollment"

// Write saves headers and rows as a single-sheet workbook. It produces the
// blank input template and test fixtures.
//
// PARAMETERS:
//   - filePath: Destination .xlsx path.
//   - headers: Header row, written to row 1.
//   - rows: Data rows; each value is looked up by header.
func Write(filePath string, headers []string, rows []types.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), DefaultSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(DefaultSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, row := range rows {
		values := make([]interface{}, len(headers))
		for col, h := range headers {
			values[col] = row[h]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(DefaultSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
