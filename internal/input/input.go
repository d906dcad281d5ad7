// Package input loads an enrollment file into a table, picking the parser by
// file extension.
package input

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/edi834-generator/internal/config"
	"github.com/ginjaninja78/edi834-generator/internal/csvparser"
	"github.com/ginjaninja78/edi834-generator/internal/types"
	"github.com/ginjaninja78/edi834-generator/internal/validation"
	"github.com/ginjaninja78/edi834-generator/internal/xlsxparser"
)

// ErrUnsupportedFormat is returned for files that are neither .csv nor .xlsx.
var ErrUnsupportedFormat = errors.New("unsupported input format")

// ParseError wraps a failure of the underlying spreadsheet reader.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parser reads one file into a table.
type Parser interface {
	Parse(path string) (*types.Table, error)
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(path string) (*types.Table, error)

// Parse calls f(path).
func (f ParserFunc) Parse(path string) (*types.Table, error) { return f(path) }

// Loader dispatches to a Parser by lower-cased file extension.
type Loader struct {
	parsers map[string]Parser
}

// NewLoader returns a loader for .csv and .xlsx files.
func NewLoader(settings config.CSVSettings) *Loader {
	return &Loader{
		parsers: map[string]Parser{
			".csv": ParserFunc(func(path string) (*types.Table, error) {
				return csvparser.Parse(path, settings)
			}),
			".xlsx": ParserFunc(xlsxparser.Parse),
		},
	}
}

// Register adds or replaces the parser for an extension such as ".txt".
func (l *Loader) Register(ext string, p Parser) {
	l.parsers[strings.ToLower(ext)] = p
}

// Supported reports whether path has an extension the loader can parse.
func (l *Loader) Supported(path string) bool {
	_, ok := l.parsers[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Load parses path and checks it carries data rows and every required column.
//
// RETURNS:
//   - ErrUnsupportedFormat for unknown extensions.
//   - *ParseError when the file cannot be read.
//   - validation.ErrNoRows when the file has a header but no rows.
//   - *validation.ColumnError when required columns are missing.
func (l *Loader) Load(path string) (*types.Table, error) {
	ext := strings.ToLower(filepath.Ext(path))
	parser, ok := l.parsers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	table, err := parser.Parse(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	if len(table.Rows) == 0 {
		return nil, validation.ErrNoRows
	}
	if err := validation.CheckColumns(table.Headers); err != nil {
		return nil, err
	}

	return table, nil
}

// Load parses path with default CSV settings.
func Load(path string) (*types.Table, error) {
	return NewLoader(config.CSVSettings{Delimiter: ","}).Load(path)
}
