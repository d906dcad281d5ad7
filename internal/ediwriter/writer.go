// =============================================================================
// EDI 834 Generator - EDI Writer
// =============================================================================
//
// This module provides the formatting primitive for X12 output and the
// in-memory Document that the assembler builds.
//
// SEGMENT FORMAT:
//   TAG*element1*element2*...*elementN~
//
//   - "*" separates elements
//   - "~" terminates the segment
//   - Documents place a newline after every segment terminator
//
// ESCAPING:
//   Elements are never escaped. Callers pass normalized values only and must
//   not put "*" or "~" inside element content.
//
// =============================================================================

package ediwriter

import (
	"strings"

	"github.com/ginjaninja78/edi834-generator/internal/types"
)

// =============================================================================
// DELIMITERS
// =============================================================================

const (
	// ElementSeparator separates elements within a segment.
	ElementSeparator = "*"

	// SegmentTerminator ends every segment.
	SegmentTerminator = "~"

	// SegmentDelimiter is written between serialized segments.
	SegmentDelimiter = "\n"
)

// =============================================================================
// SEGMENT FORMATTER
// =============================================================================

// Segment joins fields in order with the element separator and appends the
// segment terminator. The first field is the segment tag.
//
// EXAMPLE:
//   Segment("REF", "0F", "SUB1") -> "REF*0F*SUB1~"
func Segment(fields ...string) string {
	return strings.Join(fields, ElementSeparator) + SegmentTerminator
}

// Tag returns the segment tag of a serialized segment.
func Tag(segment string) string {
	if i := strings.Index(segment, ElementSeparator); i >= 0 {
		return segment[:i]
	}
	return strings.TrimSuffix(segment, SegmentTerminator)
}

// Elements splits a serialized segment back into its fields, tag first.
func Elements(segment string) []string {
	return strings.Split(strings.TrimSuffix(segment, SegmentTerminator), ElementSeparator)
}

// =============================================================================
// DOCUMENT
// =============================================================================

// Document is a fully assembled 834 interchange. It is built once and not
// modified afterwards.
type Document struct {
	// Segments holds every serialized segment, ISA through IEA.
	Segments []string

	// ControlNumber is shared by ISA, GS, ST, SE, GE and IEA.
	ControlNumber int

	// MemberCount is the number of detail loops.
	MemberCount int
}

// Len returns the number of segments in the document.
func (d *Document) Len() int {
	return len(d.Segments)
}

// String serializes the document: each segment followed by a newline.
func (d *Document) String() string {
	var b strings.Builder
	for _, s := range d.Segments {
		b.WriteString(s)
		b.WriteString(SegmentDelimiter)
	}
	return b.String()
}

// Bytes returns the serialized document.
func (d *Document) Bytes() []byte {
	return []byte(d.String())
}

// Summary returns the document metadata without an output path.
func (d *Document) Summary() types.Summary {
	return types.Summary{
		SegmentCount:  d.Len(),
		MemberCount:   d.MemberCount,
		ControlNumber: d.ControlNumber,
	}
}

// CountByTag returns how many segments carry tag.
func (d *Document) CountByTag(tag string) int {
	n := 0
	for _, s := range d.Segments {
		if Tag(s) == tag {
			n++
		}
	}
	return n
}

// CountBetween returns the number of segments from the first segment tagged
// start through the first following segment tagged end, both included.
// It returns 0 when either tag is missing.
func (d *Document) CountBetween(start, end string) int {
	from := -1
	for i, s := range d.Segments {
		tag := Tag(s)
		if from < 0 && tag == start {
			from = i
			continue
		}
		if from >= 0 && tag == end {
			return i - from + 1
		}
	}
	return 0
}

// Find returns the first segment tagged tag, or "" if there is none.
func (d *Document) Find(tag string) string {
	for _, s := range d.Segments {
		if Tag(s) == tag {
			return s
		}
	}
	return ""
}

// Parse splits serialized document text back into a Document. Blank lines are
// ignored. Only Segments is populated.
func Parse(text string) *Document {
	doc := &Document{}
	for _, line := range strings.Split(text, SegmentDelimiter) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		doc.Segments = append(doc.Segments, line)
	}
	return doc
}
