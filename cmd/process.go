// =============================================================================
// EDI 834 Generator - Process Command
// =============================================================================
//
// This file defines the 'process' command, which converts every input file in
// the input directory in one batch run.
//
// COMMAND USAGE:
//   edi834 process [flags]
//
// FLAGS:
//   --dry-run : Validate every file without writing documents
//   --file    : Process only this file instead of scanning input_dir
//
// PROCESSING PIPELINE:
//   1. Discover .csv and .xlsx files in the input directory
//   2. For each file (concurrently, at most max_concurrency at a time):
//      a. Parse the spreadsheet
//      b. Apply transformation rules
//      c. Validate every row
//      d. Generate the EDI 834 document
//      e. Write it to <output_dir>/<input name>.edi
//   3. Archive converted inputs (when input_archive_dir is set)
//   4. Write a summary report to the output directory
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/edi834-generator/internal/logging"
	"github.com/ginjaninja78/edi834-generator/internal/service"
	"github.com/ginjaninja78/edi834-generator/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// dryRun validates files without writing output documents.
var dryRun bool

// filePath restricts the run to a single file.
var filePath string

// errBatchFailed is returned when at least one file did not convert.
var errBatchFailed = errors.New("one or more files failed to process")

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Convert every CSV and XLSX file in the input directory",
	Long: `The process command scans the input directory for .csv and .xlsx files
and converts each one to an EDI 834 document named after it.

Files are processed concurrently. Each file is independent: a validation
failure in one file does not stop the others.

On success:
  - The document is written to the output directory
  - The input is moved to input_archive_dir (when configured)

On error:
  - The input stays in the input directory
  - The error is listed in the summary report
  - The command exits non-zero after every file has been attempted`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd.Context(), cmd.OutOrStdout())
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate files without writing output documents")
	processCmd.Flags().StringVar(&filePath, "file", "", "Process only this file")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess orchestrates the batch run and prints progress to out.
func runProcess(ctx context.Context, out io.Writer) error {
	startTime := time.Now()
	cfg := appConfig

	fmt.Fprintln(out, "=== EDI 834 Generator ===")

	// =========================================================================
	// STEP 1: DISCOVER INPUT FILES
	// =========================================================================

	fm := utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir)
	if err := fm.EnsureDirectories(); err != nil {
		return err
	}

	var inputFiles []string
	if filePath != "" {
		inputFiles = []string{filePath}
	} else {
		files, err := fm.DiscoverInputFiles()
		if err != nil {
			return fmt.Errorf("failed to discover input files: %w", err)
		}
		inputFiles = files
	}

	if len(inputFiles) == 0 {
		fmt.Fprintln(out, "No input files found in the input directory.")
		return nil
	}
	fmt.Fprintf(out, "Found %d file(s) to process\n", len(inputFiles))

	rt, err := newRuntime(ctx, nil)
	if err != nil {
		return err
	}
	defer rt.Close()

	// =========================================================================
	// STEP 2: PROCESS FILES CONCURRENTLY
	// =========================================================================

	if dryRun {
		return runDryRun(ctx, out, rt, inputFiles)
	}

	fmt.Fprintln(out, "Processing files...")
	results := rt.ProcessFiles(ctx, inputFiles, cfg.OutputDir, cfg.MaxConcurrency)

	// =========================================================================
	// STEP 3: ARCHIVE AND COLLECT RESULTS
	// =========================================================================

	summary := utils.ProcessingSummary{
		StartTime:  startTime,
		TotalFiles: len(inputFiles),
	}

	for _, result := range results {
		name := filepath.Base(result.InputFile)
		if !result.Success() {
			summary.FailedFiles++
			summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
				InputFile:    result.InputFile,
				ErrorMessage: result.Err.Error(),
			})
			fmt.Fprintf(out, "  ✗ %s: %v\n", name, result.Err)
			continue
		}

		archived, err := fm.ArchiveInputFile(result.InputFile)
		if err != nil {
			logging.Logger().Warn("failed to archive input", zap.String("input", result.InputFile), zap.Error(err))
		}

		summary.SuccessfulFiles++
		summary.TotalMembers += result.Summary.MemberCount
		summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
			InputFile:     result.InputFile,
			OutputFile:    result.Summary.OutputPath,
			ArchivePath:   archived,
			ControlNumber: result.Summary.ControlNumber,
			Members:       result.Summary.MemberCount,
			Segments:      result.Summary.SegmentCount,
			ProcessTime:   result.Elapsed,
		})
		fmt.Fprintf(out, "  ✓ %s -> %s\n", name, result.Summary.OutputPath)
	}
	summary.EndTime = time.Now()

	// =========================================================================
	// STEP 4: PRINT SUMMARY
	// =========================================================================

	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Total files:     %d\n", summary.TotalFiles)
	fmt.Fprintf(out, "Successful:      %d\n", summary.SuccessfulFiles)
	fmt.Fprintf(out, "Errors:          %d\n", summary.FailedFiles)
	fmt.Fprintf(out, "Members:         %d\n", summary.TotalMembers)
	fmt.Fprintf(out, "Time elapsed:    %s\n", summary.EndTime.Sub(startTime))

	reportPath, err := utils.WriteSummaryLog(summary, cfg.OutputDir)
	if err != nil {
		logging.Logger().Warn("failed to write summary log", zap.Error(err))
	} else {
		fmt.Fprintf(out, "Summary report:  %s\n", reportPath)
	}

	if summary.FailedFiles > 0 {
		return errBatchFailed
	}
	return nil
}

// runDryRun validates each file and reports without writing anything.
func runDryRun(ctx context.Context, out io.Writer, rt *service.Runtime, files []string) error {
	fmt.Fprintln(out, "Dry run: validating files...")

	failed := 0
	for _, file := range files {
		name := filepath.Base(file)
		rows, err := rt.Validate(ctx, file)
		if err != nil {
			failed++
			fmt.Fprintf(out, "  ✗ %s: %v\n", name, err)
			continue
		}
		fmt.Fprintf(out, "  ✓ %s (%d rows)\n", name, rows)
	}

	if failed > 0 {
		return errBatchFailed
	}
	return nil
}
