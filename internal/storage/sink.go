// =============================================================================
// EDI 834 Generator - Output Storage
// =============================================================================
//
// This module delivers generated documents. A destination is either a local
// path or an s3://bucket/key URL; the Router picks the sink by scheme.
//
// LOCAL FILES:
//   Paths are resolved with utils.ResolveOutputPath (directory, missing
//   extension, empty path) and written atomically.
//
// =============================================================================

package storage

import (
	"context"
	"strconv"
	"strings"

	"github.com/ginjaninja78/edi834-generator/pkg/utils"
)

// Sink writes one document to a destination and returns where it landed.
type Sink interface {
	Write(ctx context.Context, dest string, doc Document) (string, error)
}

// Document is what a sink needs to know about the payload.
type Document struct {
	Data          []byte
	ControlNumber int
}

// =============================================================================
// FILE SINK
// =============================================================================

// FileSink writes documents to the local filesystem.
type FileSink struct {
	// DefaultDir is used when the destination is empty.
	DefaultDir string

	// FileFormat names generated files (see utils.GenerateOutputFileName).
	FileFormat string
}

// NewFileSink creates a FileSink.
func NewFileSink(defaultDir, fileFormat string) *FileSink {
	return &FileSink{DefaultDir: defaultDir, FileFormat: fileFormat}
}

// Write resolves dest and writes the document atomically.
func (s *FileSink) Write(ctx context.Context, dest string, doc Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := utils.ResolveOutputPath(dest, s.DefaultDir, s.FileFormat, map[string]string{
		"control": strconv.Itoa(doc.ControlNumber),
	})
	if err := utils.WriteFileAtomic(path, doc.Data); err != nil {
		return "", err
	}
	return path, nil
}

// =============================================================================
// ROUTER
// =============================================================================

// Router sends s3:// destinations to the S3 sink and everything else to the
// file sink.
type Router struct {
	Files Sink
	S3    Sink
}

// Write implements Sink.
func (r *Router) Write(ctx context.Context, dest string, doc Document) (string, error) {
	if IsS3URL(dest) {
		if r.S3 == nil {
			return "", ErrS3NotConfigured
		}
		return r.S3.Write(ctx, dest, doc)
	}
	return r.Files.Write(ctx, dest, doc)
}

// IsS3URL reports whether dest uses the s3:// scheme.
func IsS3URL(dest string) bool {
	return strings.HasPrefix(strings.ToLower(dest), s3Scheme)
}
