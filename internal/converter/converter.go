// =============================================================================
// EDI 834 Generator - Converter Module
// =============================================================================
//
// This module contains the core generation pipeline. It takes the rows of one
// input file and returns a finished 834 document.
//
// GENERATION PIPELINE:
//   1. Apply configured transformation rules (copies, never in place)
//   2. Validate every row and collect every violation
//   3. Draw a control number
//   4. Assemble header, detail loops and trailer
//
// ALL OR NOTHING:
//   Any validation error stops the pipeline before a single segment is built.
//
// CONCURRENCY:
//   A Generator holds no per-document state. The only shared piece is the
//   control number source, which is safe for concurrent use. One Generator can
//   serve every request of the HTTP server and every file of a batch run.
//
// =============================================================================

package converter

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ginjaninja78/edi834-generator/internal/ediwriter"
	"github.com/ginjaninja78/edi834-generator/internal/logging"
	"github.com/ginjaninja78/edi834-generator/internal/types"
	"github.com/ginjaninja78/edi834-generator/internal/validation"
)

// =============================================================================
// GENERATOR STRUCTURE
// =============================================================================

// Generator turns validated rows into documents.
type Generator struct {
	assembler   *Assembler
	controls    ControlNumberSource
	transformer *Transformer
	logger      *zap.Logger
}

// Option customizes a Generator.
type Option func(*Generator)

// WithAssembler replaces the default assembler.
func WithAssembler(a *Assembler) Option {
	return func(g *Generator) {
		g.assembler = a
	}
}

// WithTransformer sets the row transformer applied before validation.
func WithTransformer(t *Transformer) Option {
	return func(g *Generator) {
		g.transformer = t
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) {
		g.logger = l
	}
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a Generator.
//
// PARAMETERS:
//   - controls: source of control numbers. Passing it in keeps randomness out
//     of package state; tests use a seeded or fixed source.
//   - opts: optional assembler, transformer and logger.
func New(controls ControlNumberSource, opts ...Option) *Generator {
	g := &Generator{
		assembler: NewAssembler(),
		controls:  controls,
		logger:    logging.Logger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// =============================================================================
// MAIN GENERATION FUNCTION
// =============================================================================

// GenerateFromRows validates rows and assembles the document.
//
// RETURNS:
//   - The document on success.
//   - validation.ErrNoRows when rows is empty.
//   - validation.ValidationErrors with every violation when any row fails.
//   - An error from a transformation rule.
func (g *Generator) GenerateFromRows(rows []types.Row) (*ediwriter.Document, error) {
	if len(rows) == 0 {
		return nil, validation.ErrNoRows
	}

	rows, err := g.transformer.TransformRows(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to apply transformations: %w", err)
	}

	if err := validation.ValidateRowsWith(rows, g.assembler.Defaults()); err != nil {
		g.logger.Warn("row validation failed", zap.Int("rows", len(rows)), zap.Error(err))
		return nil, err
	}

	controlNumber := g.controls.Next()
	doc := g.assembler.Assemble(rows, controlNumber)

	g.logger.Debug("assembled document",
		zap.Int("control_number", controlNumber),
		zap.Int("members", doc.MemberCount),
		zap.Int("segments", doc.Len()),
	)

	return doc, nil
}

// GenerateFromTable checks the header columns, then generates from the rows.
func (g *Generator) GenerateFromTable(table *types.Table) (*ediwriter.Document, error) {
	if len(table.Rows) == 0 {
		return nil, validation.ErrNoRows
	}
	if err := validation.CheckColumns(table.Headers); err != nil {
		return nil, err
	}
	return g.GenerateFromRows(table.Rows)
}

// Validate runs the transformation and validation steps only.
func (g *Generator) Validate(table *types.Table) error {
	if len(table.Rows) == 0 {
		return validation.ErrNoRows
	}
	if err := validation.CheckColumns(table.Headers); err != nil {
		return err
	}
	rows, err := g.transformer.TransformRows(table.Rows)
	if err != nil {
		return fmt.Errorf("failed to apply transformations: %w", err)
	}
	return validation.ValidateRowsWith(rows, g.assembler.Defaults())
}
