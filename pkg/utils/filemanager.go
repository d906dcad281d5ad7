// =============================================================================
// EDI 834 Generator - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the generator, including:
//   - Input file discovery for batch runs
//   - Output path resolution and file naming
//   - Atomic writes of generated documents
//   - Archival of converted input files
//   - Batch run summary logs
//
// ARCHIVAL STRATEGY:
//   Input files are MOVED to the archive directory after a successful
//   conversion, so a second batch run does not pick them up again.
//   Archived names are prefixed with a timestamp to avoid overwrites.
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultExtension is appended to output paths that have none.
const DefaultExtension = ".edi"

// DefaultFileFormat names generated documents when no format is configured.
const DefaultFileFormat = "enrollment_{timestamp}" + DefaultExtension

// InputExtensions are the file types the batch run picks up.
var InputExtensions = []string{".csv", ".xlsx"}

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for batch runs.
type FileManager struct {
	// InputDir is the directory where input files are placed.
	InputDir string

	// OutputDir is the directory where generated documents are placed.
	OutputDir string

	// InputArchiveDir receives converted input files. Empty disables archival.
	InputArchiveDir string
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(inputDir, outputDir, inputArchiveDir string) *FileManager {
	return &FileManager{
		InputDir:        inputDir,
		OutputDir:       outputDir,
		InputArchiveDir: inputArchiveDir,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates all configured directories if they don't exist.
func (fm *FileManager) EnsureDirectories() error {
	for _, dir := range []string{fm.InputDir, fm.OutputDir, fm.InputArchiveDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles lists the .csv and .xlsx files directly inside InputDir,
// sorted by name. Extension matching is case-insensitive. Spreadsheet lock
// files ("~$book.xlsx") are skipped.
func (fm *FileManager) DiscoverInputFiles() ([]string, error) {
	entries, err := os.ReadDir(fm.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), "~$") {
			continue
		}
		if IsInputFile(entry.Name()) {
			files = append(files, filepath.Join(fm.InputDir, entry.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}

// IsInputFile reports whether name has one of InputExtensions.
func IsInputFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range InputExtensions {
		if ext == want {
			return true
		}
	}
	return false
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveInputFile moves an input file to the archive directory.
//
// RETURNS:
//   - The archive path, or "" when archival is disabled.
//   - An error if the move fails.
func (fm *FileManager) ArchiveInputFile(filePath string) (string, error) {
	if fm.InputArchiveDir == "" {
		return "", nil
	}

	if err := os.MkdirAll(fm.InputArchiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	archivePath := filepath.Join(fm.InputArchiveDir,
		time.Now().Format("20060102_150405")+"_"+filepath.Base(filePath))

	if err := os.Rename(filePath, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive %s: %w", filePath, err)
	}
	return archivePath, nil
}

// =============================================================================
// OUTPUT PATH RESOLUTION
// =============================================================================

// ResolveOutputPath decides where a generated document is written.
//
// RULES:
//   - Empty outputPath: defaultDir joined with a generated file name
//   - outputPath is an existing directory, or ends with a path separator:
//     a generated file name inside it
//   - outputPath has no extension: ".edi" is appended
//   - Otherwise outputPath is used as given
//
// PARAMETERS:
//   - outputPath: The requested destination, possibly empty.
//   - defaultDir: Directory used when outputPath is empty.
//   - format: File name format for generated names (see GenerateOutputFileName).
//   - params: Extra placeholder values, e.g. "control".
func ResolveOutputPath(outputPath, defaultDir, format string, params map[string]string) string {
	if strings.TrimSpace(outputPath) == "" {
		return filepath.Join(defaultDir, GenerateOutputFileName(format, params))
	}

	if strings.HasSuffix(outputPath, "/") || strings.HasSuffix(outputPath, string(os.PathSeparator)) || isDir(outputPath) {
		return filepath.Join(outputPath, GenerateOutputFileName(format, params))
	}

	if filepath.Ext(outputPath) == "" {
		return outputPath + DefaultExtension
	}
	return outputPath
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates a unique output file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {timestamp} - Unix milliseconds
//               {uuid}      - A random UUID
//               {date}      - Current date (YYYYMMDD)
//               {control}   - Control number, when supplied in params
//   - params: A map of placeholder values. Keys are given without braces.
//
// EXAMPLE:
//   format: "enrollment_{control}_{timestamp}.edi"
//   params: {"control": "123456"}
//   output: "enrollment_123456_1717430400000.edi"
func GenerateOutputFileName(format string, params map[string]string) string {
	if format == "" {
		format = DefaultFileFormat
	}
	now := time.Now()

	replacements := map[string]string{
		"{timestamp}": strconv.FormatInt(now.UnixMilli(), 10),
		"{date}":      now.Format("20060102"),
	}
	if strings.Contains(format, "{uuid}") {
		replacements["{uuid}"] = uuid.NewString()
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if filepath.Ext(result) == "" {
		result += DefaultExtension
	}
	return result
}

// =============================================================================
// ATOMIC WRITES
// =============================================================================

// WriteFileAtomic writes data to a temporary file next to path and renames it
// into place, so readers never see a partial document. Parent directories are
// created as needed.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// ProcessingSummary contains summary information about a batch run.
type ProcessingSummary struct {
	StartTime       time.Time
	EndTime         time.Time
	TotalFiles      int
	SuccessfulFiles int
	FailedFiles     int
	TotalMembers    int
	ProcessedFiles  []ProcessedFileInfo
	FailedFilesList []FailedFileInfo
}

// ProcessedFileInfo contains information about a successfully converted file.
type ProcessedFileInfo struct {
	InputFile     string
	OutputFile    string
	ArchivePath   string
	ControlNumber int
	Members       int
	Segments      int
	ProcessTime   time.Duration
}

// FailedFileInfo contains information about a failed file.
type FailedFileInfo struct {
	InputFile    string
	ErrorMessage string
}

// WriteSummaryLog writes a batch summary to processing_summary_<time>.txt in
// outputDir and returns its path.
func WriteSummaryLog(summary ProcessingSummary, outputDir string) (string, error) {
	summaryPath := filepath.Join(outputDir,
		fmt.Sprintf("processing_summary_%s.txt", time.Now().Format("20060102_150405")))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	duration := summary.EndTime.Sub(summary.StartTime)
	fmt.Fprintf(writer, "EDI 834 Generator - Processing Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n"+
		"Statistics:\n"+
		"  Total Files:    %d\n"+
		"  Successful:     %d\n"+
		"  Failed:         %d\n"+
		"  Total Members:  %d\n\n",
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		duration.String(),
		summary.TotalFiles,
		summary.SuccessfulFiles,
		summary.FailedFiles,
		summary.TotalMembers)

	if len(summary.ProcessedFiles) > 0 {
		writer.WriteString("Successful Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, pf := range summary.ProcessedFiles {
			fmt.Fprintf(writer, "  Input:          %s\n", pf.InputFile)
			fmt.Fprintf(writer, "  Output:         %s\n", pf.OutputFile)
			if pf.ArchivePath != "" {
				fmt.Fprintf(writer, "  Archived To:    %s\n", pf.ArchivePath)
			}
			fmt.Fprintf(writer, "  Control Number: %d\n", pf.ControlNumber)
			fmt.Fprintf(writer, "  Members:        %d\n", pf.Members)
			fmt.Fprintf(writer, "  Segments:       %d\n", pf.Segments)
			fmt.Fprintf(writer, "  Process Time:   %s\n\n", pf.ProcessTime.String())
		}
	}

	if len(summary.FailedFilesList) > 0 {
		writer.WriteString("Failed Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, ff := range summary.FailedFilesList {
			fmt.Fprintf(writer, "  File:  %s\n", ff.InputFile)
			fmt.Fprintf(writer, "  Error: %s\n\n", strings.ReplaceAll(ff.ErrorMessage, "\n", "\n         "))
		}
	}

	writer.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
