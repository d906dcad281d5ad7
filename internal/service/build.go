package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ginjaninja78/edi834-generator/internal/config"
	"github.com/ginjaninja78/edi834-generator/internal/converter"
	"github.com/ginjaninja78/edi834-generator/internal/history"
	"github.com/ginjaninja78/edi834-generator/internal/input"
	"github.com/ginjaninja78/edi834-generator/internal/logging"
	"github.com/ginjaninja78/edi834-generator/internal/metrics"
	"github.com/ginjaninja78/edi834-generator/internal/normalize"
	"github.com/ginjaninja78/edi834-generator/internal/storage"
)

// Runtime is a Service wired from configuration, plus the resources it owns.
type Runtime struct {
	*Service

	// History is nil when the ledger is disabled.
	History *history.Store
}

// Close releases the ledger.
func (r *Runtime) Close() error {
	if r.History == nil {
		return nil
	}
	return r.History.Close()
}

// Build wires a Service from cfg: loader, transformer, defaults, control
// numbers seeded from the ledger, file delivery and, when the s3 section is
// set, S3 delivery.
func Build(ctx context.Context, cfg *config.MainConfig, logger *zap.Logger, rec metrics.Recorder) (*Runtime, error) {
	if logger == nil {
		logger = logging.Logger()
	}
	if rec == nil {
		rec = metrics.NopRecorder{}
	}

	transformer, err := converter.NewTransformer(cfg.TransformationRules)
	if err != nil {
		return nil, err
	}

	controls := converter.NewRandomControlNumbers(nil)

	rt := &Runtime{}
	opts := []Option{WithLogger(logger), WithMetrics(rec)}

	if cfg.HistoryDB != "" && cfg.HistoryDB != history.Disabled {
		store, err := history.Open(cfg.HistoryDB)
		if err != nil {
			return nil, err
		}
		issued, err := store.ControlNumbers(ctx)
		if err != nil {
			store.Close()
			return nil, err
		}
		controls.MarkIssued(issued...)
		rt.History = store
		opts = append(opts, WithLedger(store))
		logger.Debug("history ledger opened", zap.String("path", cfg.HistoryDB), zap.Int("issued", len(issued)))
	}

	assembler := converter.NewAssembler(
		converter.WithDefaults(normalize.DefaultFieldValues().WithOverrides(cfg.FieldDefaults)),
	)
	generator := converter.New(controls,
		converter.WithAssembler(assembler),
		converter.WithTransformer(transformer),
		converter.WithLogger(logger),
	)
	sink := &storage.Router{
		Files: storage.NewFileSink(cfg.OutputDir, cfg.OutputFileFormat),
	}
	if cfg.S3.Configured() {
		s3Client, err := storage.NewS3Client(ctx, cfg.S3)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("failed to set up s3 delivery: %w", err)
		}
		sink.S3 = storage.NewS3Sink(s3Client, cfg.OutputFileFormat)
		logger.Debug("s3 delivery enabled", zap.String("region", cfg.S3.Region), zap.String("endpoint", cfg.S3.Endpoint))
	}

	rt.Service = New(input.NewLoader(cfg.CSVSettings), generator, sink, opts...)
	return rt, nil
}
