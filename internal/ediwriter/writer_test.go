package ediwriter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegment(t *testing.T) {
	assert.Equal(t, "REF*0F*SUB1~", Segment("REF", "0F", "SUB1"))
	assert.Equal(t, "N3*123 DEFAULT ST*~", Segment("N3", "123 DEFAULT ST", ""))
	assert.Equal(t, "LX~", Segment("LX"))
	assert.Equal(t, "INS*Y*18*21**A***FT**N**~",
		Segment("INS", "Y", "18", "21", "", "A", "", "", "FT", "", "N", "", ""))
}

func TestTagAndElements(t *testing.T) {
	assert.Equal(t, "NM1", Tag("NM1*IL*1*DOE~"))
	assert.Equal(t, "LX", Tag("LX~"))
	assert.Equal(t, []string{"NM1", "IL", "1", "DOE"}, Elements("NM1*IL*1*DOE~"))
}

func TestDocumentString(t *testing.T) {
	doc := &Document{Segments: []string{"ST*834*0001~", "SE*2*0001~"}}
	assert.Equal(t, "ST*834*0001~\nSE*2*0001~\n", doc.String())
	assert.Equal(t, 2, doc.Len())
}

func TestCountBetween(t *testing.T) {
	doc := &Document{Segments: []string{
		"ISA*00~", "GS*BE~", "ST*834~", "BGN*00~", "INS*Y~", "SE*4~", "GE*1~", "IEA*1~",
	}}
	assert.Equal(t, 4, doc.CountBetween("ST", "SE"))
	assert.Equal(t, 0, doc.CountBetween("ST", "XX"))
	assert.Equal(t, 1, doc.CountByTag("INS"))
	assert.Equal(t, "GE*1~", doc.Find("GE"))
	assert.Equal(t, "", doc.Find("HD"))
}

func TestParseRoundTrip(t *testing.T) {
	doc := &Document{Segments: []string{"ST*834*0001~", "SE*2*0001~"}}
	parsed := Parse(doc.String())
	assert.Equal(t, doc.Segments, parsed.Segments)
}
