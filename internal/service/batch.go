package service

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ginjaninja78/edi834-generator/internal/types"
	"github.com/ginjaninja78/edi834-generator/pkg/utils"
)

// Result is the outcome of converting one file in a batch.
type Result struct {
	InputFile string
	Summary   *types.Summary
	Err       error
	Elapsed   time.Duration
}

// Success reports whether the file converted.
func (r Result) Success() bool {
	return r.Err == nil
}

// ProcessFiles converts files concurrently, at most concurrency at a time.
// Each file is independent: a failure does not stop the others. Every output
// is named after its input ("jan.xlsx" -> "<outputDir>/jan.edi").
//
// RETURNS:
//   - One Result per file, in the order of files.
func (s *Service) ProcessFiles(ctx context.Context, files []string, outputDir string, concurrency int) []Result {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]Result, len(files))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, file := range files {
		wg.Add(1)
		go func(i int, file string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[i] = Result{InputFile: file, Err: ctx.Err()}
				return
			}
			defer func() { <-sem }()

			start := time.Now()
			summary, err := s.GenerateFromPath(ctx, file, OutputPathFor(file, outputDir))
			results[i] = Result{
				InputFile: file,
				Summary:   summary,
				Err:       err,
				Elapsed:   time.Since(start),
			}
		}(i, file)
	}

	wg.Wait()
	return results
}

// OutputPathFor names the document generated from inputFile.
func OutputPathFor(inputFile, outputDir string) string {
	base := filepath.Base(inputFile)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, stem+utils.DefaultExtension)
}
