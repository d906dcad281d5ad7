// =============================================================================
// EDI 834 Generator - Generation Service
// =============================================================================
//
// This module is the single entry point the CLI and the HTTP server share.
// It orchestrates one conversion end to end.
//
// PIPELINE (GenerateFromPath):
//   1. Load the input file (CSV or XLSX) and check its columns
//   2. Transform, validate and assemble the document
//   3. Deliver it to the destination (local path or s3:// URL)
//   4. Record it in the history ledger
//   5. Observe metrics and log the outcome
//
// Steps 1-3 are fatal. A ledger failure is logged; the document is already
// delivered at that point.
//
// =============================================================================

package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ginjaninja78/edi834-generator/internal/converter"
	"github.com/ginjaninja78/edi834-generator/internal/history"
	"github.com/ginjaninja78/edi834-generator/internal/logging"
	"github.com/ginjaninja78/edi834-generator/internal/metrics"
	"github.com/ginjaninja78/edi834-generator/internal/storage"
	"github.com/ginjaninja78/edi834-generator/internal/types"
)

// Operation names reported to the metrics recorder.
const (
	OpGenerate = "generate"
	OpValidate = "validate"
)

// ErrInputRequired is returned when no input path is given.
var ErrInputRequired = errors.New("input path is required")

// TableLoader reads and structurally checks an input file.
type TableLoader interface {
	Load(path string) (*types.Table, error)
}

// Ledger records generated documents.
type Ledger interface {
	Record(ctx context.Context, inputPath string, summary types.Summary) (*history.Entry, error)
}

// =============================================================================
// SERVICE STRUCTURE
// =============================================================================

// Service runs conversions. Safe for concurrent use.
type Service struct {
	loader    TableLoader
	generator *converter.Generator
	sink      storage.Sink
	ledger    Ledger
	metrics   metrics.Recorder
	logger    *zap.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithLedger records every generated document.
func WithLedger(l Ledger) Option {
	return func(s *Service) { s.ledger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m metrics.Recorder) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// New creates a Service.
func New(loader TableLoader, generator *converter.Generator, sink storage.Sink, opts ...Option) *Service {
	s := &Service{
		loader:    loader,
		generator: generator,
		sink:      sink,
		metrics:   metrics.NopRecorder{},
		logger:    logging.Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// =============================================================================
// OPERATIONS
// =============================================================================

// GenerateFromPath converts the file at inputPath and writes the document to
// outputDest.
//
// PARAMETERS:
//   - inputPath: .csv or .xlsx file.
//   - outputDest: local path, directory or s3:// URL. Empty writes to the
//     configured output directory under a generated name.
//
// RETURNS:
//   - The summary, with OutputPath set to where the document landed.
//   - An error from loading, validation, generation or delivery. No document
//     is written when an error is returned.
func (s *Service) GenerateFromPath(ctx context.Context, inputPath, outputDest string) (summary *types.Summary, err error) {
	start := time.Now()
	log := s.logger.With(zap.String("input", inputPath))
	defer func() {
		s.metrics.Observe(ctx, OpGenerate, err == nil, time.Since(start))
	}()

	if inputPath == "" {
		return nil, ErrInputRequired
	}

	table, err := s.loader.Load(inputPath)
	if err != nil {
		log.Warn("failed to load input", zap.Error(err))
		return nil, err
	}

	doc, err := s.generator.GenerateFromTable(table)
	if err != nil {
		log.Warn("generation failed", zap.Error(err))
		return nil, err
	}

	out, err := s.sink.Write(ctx, outputDest, storage.Document{
		Data:          doc.Bytes(),
		ControlNumber: doc.ControlNumber,
	})
	if err != nil {
		log.Error("failed to write document", zap.String("dest", outputDest), zap.Error(err))
		return nil, err
	}

	result := doc.Summary()
	result.OutputPath = out
	s.metrics.Generated(result.MemberCount, result.SegmentCount)

	if s.ledger != nil {
		if _, lerr := s.ledger.Record(ctx, inputPath, result); lerr != nil {
			log.Warn("failed to record history", zap.Error(lerr))
		}
	}

	log.Info("generated EDI 834",
		zap.String("output", out),
		zap.Int("control_number", result.ControlNumber),
		zap.Int("members", result.MemberCount),
		zap.Int("segments", result.SegmentCount),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &result, nil
}

// Validate loads inputPath and runs transformation and row validation
// without generating a document.
func (s *Service) Validate(ctx context.Context, inputPath string) (rows int, err error) {
	start := time.Now()
	defer func() {
		s.metrics.Observe(ctx, OpValidate, err == nil, time.Since(start))
	}()

	if inputPath == "" {
		return 0, ErrInputRequired
	}

	table, err := s.loader.Load(inputPath)
	if err != nil {
		return 0, err
	}
	if err := s.generator.Validate(table); err != nil {
		return 0, err
	}
	return len(table.Rows), nil
}
