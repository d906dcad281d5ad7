// =============================================================================
// EDI 834 Generator - CSV Parser Module
// =============================================================================
//
// This module reads enrollment exports saved as delimited text. It handles:
//   - Different delimiters (comma, pipe, tab, semicolon)
//   - Quoted fields with embedded delimiters and newlines
//   - Rows with fewer cells than the header
//
// The first record is the header row. Every following non-blank record becomes
// one types.Row keyed by header name.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/edi834-generator/internal/config"
	"github.com/ginjaninja78/edi834-generator/internal/types"
)

// utf8BOM is stripped from the first header cell. Spreadsheet tools write it
// when saving "CSV UTF-8".
const utf8BOM = "\ufeff"

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns the parsed table.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The CSV parsing settings from config.yaml.
//
// RETURNS:
//   - The parsed table. A file with only a header yields a table with no rows.
//   - An error if the file cannot be read or has no header row.
func Parse(filePath string, settings config.CSVSettings) (*types.Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	table, err := Read(bufio.NewReader(file), settings)
	if err != nil {
		return nil, err
	}
	table.SourceFile = filePath
	return table, nil
}

// Read parses CSV content from r.
func Read(r io.Reader, settings config.CSVSettings) (*types.Table, error) {
	csvReader := csv.NewReader(r)
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(allRows) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	headers := cleanHeaders(allRows[0])

	return &types.Table{
		Headers: headers,
		Rows:    extractDataRows(allRows[1:], headers),
	}, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	reader.Comma = Delimiter(settings.Delimiter)

	// Allow variable number of fields per row.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = settings.LazyQuotes
	reader.TrimLeadingSpace = true
}

// Delimiter maps a configured delimiter name to the rune the reader uses.
func Delimiter(name string) rune {
	return config.CSVSettings{Delimiter: name}.Comma()
}

// cleanHeaders trims header names. Blank headers stay blank so their column
// is ignored when rows are built.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		if i == 0 {
			header = strings.TrimPrefix(header, utf8BOM)
		}
		cleaned[i] = strings.TrimSpace(header)
	}
	return cleaned
}

// extractDataRows converts records to rows, skipping blank records.
// Cells are kept as written; trimming is the normalizer's job.
func extractDataRows(records [][]string, headers []string) []types.Row {
	rows := make([]types.Row, 0, len(records))

	for _, record := range records {
		if isRowEmpty(record) {
			continue
		}

		row := make(types.Row, len(headers))
		for col, header := range headers {
			if header == "" {
				continue
			}
			if col < len(record) {
				row[header] = record[col]
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows
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
