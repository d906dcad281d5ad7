package cmd

import (
	"context"

	"github.com/ginjaninja78/edi834-generator/internal/logging"
	"github.com/ginjaninja78/edi834-generator/internal/metrics"
	"github.com/ginjaninja78/edi834-generator/internal/service"
)

// newRuntime wires the generation service from appConfig. Callers must Close
// the returned runtime. rec may be nil.
func newRuntime(ctx context.Context, rec metrics.Recorder) (*service.Runtime, error) {
	return service.Build(ctx, appConfig, logging.Logger(), rec)
}
