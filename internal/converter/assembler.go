// =============================================================================
// EDI 834 Generator - Transaction Assembler
// =============================================================================
//
// This module turns validated rows into the ordered segment list of one 834
// interchange. Assembly runs in three phases and never goes back:
//
//   1. HEADER  ISA, GS, ST, BGN, REF(38), DTP(007), N1(P5), N1(IN)
//              Values come from the first row only.
//   2. DETAIL  One loop per row:
//              INS, REF(0F), REF(1L), REF(17), REF(QQ), DTP(356), NM1(IL),
//              PER, N3, N4, DMG, DTP(348), HD
//              + REF(1L product)          when "Include Product REF" = Y
//              + LX, NM1(P3), N3, N4      when "Include Provider Loop" = Y
//   3. TRAILER SE, GE, IEA
//
// COUNTS:
//   SE01 is the number of segments from ST through SE inclusive.
//   GE01 and IEA01 are always 1 (one group, one transaction set).
//
// FAILURE:
//   Assembly does not fail. Missing values are replaced from the defaults
//   table. Validation happens before the assembler is called.
//
// =============================================================================

package converter

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ginjaninja78/edi834-generator/internal/ediwriter"
	"github.com/ginjaninja78/edi834-generator/internal/normalize"
	"github.com/ginjaninja78/edi834-generator/internal/types"
)

// =============================================================================
// ENVELOPE CONSTANTS
// =============================================================================

const (
	transactionSetID    = "834"
	implementationGuide = "005010X220A1"
	interchangeVersion  = "00501"
	functionalIDCode    = "BE"
	qualifierMutual     = "ZZ"
	repetitionSeparator = "^"
	componentSeparator  = ":"
	usageProduction     = "P"
	emptyAuthInfo       = "          "

	// Fixed envelope widths.
	isaIDWidth      = 15
	isaControlWidth = 9
	stControlWidth  = 4
)

// Segment counts per phase.
const (
	headerSegmentCount   = 8
	memberCoreSegments   = 13
	providerLoopSegments = 4
	trailerSegmentCount  = 3
)

// =============================================================================
// ASSEMBLER
// =============================================================================

// Assembler builds 834 documents from rows. It holds no per-document state and
// can be shared between goroutines.
type Assembler struct {
	defaults normalize.Defaults
	now      func() time.Time
}

// AssemblerOption customizes an Assembler.
type AssemblerOption func(*Assembler)

// WithDefaults replaces the field defaults table.
func WithDefaults(d normalize.Defaults) AssemblerOption {
	return func(a *Assembler) {
		a.defaults = d
	}
}

// WithClock sets the clock used for envelope dates and times.
func WithClock(now func() time.Time) AssemblerOption {
	return func(a *Assembler) {
		a.now = now
	}
}

// NewAssembler returns an Assembler using the built-in defaults and the wall
// clock unless options say otherwise.
func NewAssembler(opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		defaults: normalize.DefaultFieldValues(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Defaults returns the field defaults table the assembler fills gaps from.
func (a *Assembler) Defaults() normalize.Defaults {
	return a.defaults
}

// Assemble builds the full document for rows using controlNumber.
//
// PARAMETERS:
//   - rows: validated rows; rows[0] supplies the envelope values.
//   - controlNumber: the 6-digit number shared by every envelope segment.
//
// RETURNS:
//   - The assembled document. rows must not be empty.
func (a *Assembler) Assemble(rows []types.Row, controlNumber int) *ediwriter.Document {
	now := a.now()

	header := a.BuildHeader(rows[0], controlNumber, now)
	segments := make([]string, 0, len(header)+len(rows)*(memberCoreSegments+1+providerLoopSegments)+trailerSegmentCount)
	segments = append(segments, header...)

	for i, row := range rows {
		segments = append(segments, a.BuildMemberLoop(row, i+1)...)
	}

	// ISA and GS sit outside the transaction set.
	transactionSegments := len(segments) - 2
	segments = append(segments, BuildTrailer(transactionSegments, controlNumber)...)

	return &ediwriter.Document{
		Segments:      segments,
		ControlNumber: controlNumber,
		MemberCount:   len(rows),
	}
}

// =============================================================================
// HEADER PHASE
// =============================================================================

// BuildHeader returns the 8 envelope and header segments.
func (a *Assembler) BuildHeader(first types.Row, controlNumber int, now time.Time) []string {
	d := a.defaults
	sender := d.Value(first, types.ColSenderID)
	receiver := d.Value(first, types.ColReceiverID)
	date := normalize.FormatCCYYMMDD(now)
	hhmm := normalize.FormatTime(now)
	control := strconv.Itoa(controlNumber)

	return []string{
		ediwriter.Segment("ISA",
			"00", emptyAuthInfo, "00", emptyAuthInfo,
			qualifierMutual, normalize.PadRight(sender, isaIDWidth, ' '),
			qualifierMutual, normalize.PadRight(receiver, isaIDWidth, ' '),
			normalize.FormatYYMMDD(now), hhmm,
			repetitionSeparator, interchangeVersion,
			normalize.PadLeft(control, isaControlWidth, '0'),
			"0", usageProduction, componentSeparator,
		),
		ediwriter.Segment("GS", functionalIDCode, sender, receiver, date, hhmm, control, "X", implementationGuide),
		ediwriter.Segment("ST", transactionSetID, normalize.PadLeft(control, stControlWidth, '0'), implementationGuide),
		ediwriter.Segment("BGN", "00", d.Value(first, types.ColPurposeCode), date, hhmm, "", "", "", d.Value(first, types.ColActionCode)),
		ediwriter.Segment("REF", "38", d.Value(first, types.ColPolicyNumber)),
		ediwriter.Segment("DTP", "007", "D8", date),
		ediwriter.Segment("N1", "P5", d.Value(first, types.ColSponsorName), "FI", d.Value(first, types.ColSponsorTaxID)),
		ediwriter.Segment("N1", "IN", d.Value(first, types.ColPayerName), "FI", d.Value(first, types.ColPayerID)),
	}
}

// =============================================================================
// DETAIL PHASE
// =============================================================================

// BuildMemberLoop returns the detail loop for one row. index is the 1-based
// member position and feeds generated member ids and the LX counter.
func (a *Assembler) BuildMemberLoop(row types.Row, index int) []string {
	d := a.defaults

	relationship := d.Value(row, types.ColRelationshipCode)
	subscriber := "N"
	if relationship == types.SubscriberRelationship {
		subscriber = "Y"
	}

	memberID := normalize.Clean(row[types.ColMemberID], fmt.Sprintf("MID%d", index))
	firstName := d.Value(row, types.ColFirstName)
	lastName := d.Value(row, types.ColLastName)
	maintenanceType := d.Value(row, types.ColMaintenanceType)
	beginDate := d.Date(row, types.ColEligibilityBegin)

	segments := []string{
		ediwriter.Segment("INS", subscriber, relationship, maintenanceType, "",
			d.Value(row, types.ColBenefitStatus), "", "",
			d.Value(row, types.ColEmploymentStatus), "",
			d.Value(row, types.ColHandicapIndicator), "", ""),
		ediwriter.Segment("REF", "0F", normalize.Clean(row[types.ColSubscriberNumber], memberID)),
		ediwriter.Segment("REF", "1L", d.Value(row, types.ColGroup)),
		ediwriter.Segment("REF", "17", d.Value(row, types.ColSubGroupID)),
		ediwriter.Segment("REF", "QQ", d.Value(row, types.ColClassPlanID)),
		ediwriter.Segment("DTP", "356", "D8", beginDate),
		ediwriter.Segment("NM1", "IL", "1", lastName, firstName,
			d.Value(row, types.ColMiddleName), d.Value(row, types.ColNameSuffix), "", "34", memberID),
		ediwriter.Segment("PER", "IP", normalize.Clean(row[types.ColContactName], firstName+" "+lastName),
			"TE", d.Value(row, types.ColPhone), "EM", d.Value(row, types.ColEmail)),
		ediwriter.Segment("N3", d.Value(row, types.ColAddress1), d.Value(row, types.ColAddress2)),
		ediwriter.Segment("N4", d.Value(row, types.ColCity), d.Value(row, types.ColState), d.Value(row, types.ColZip)),
		ediwriter.Segment("DMG", "D8", d.Date(row, types.ColDateOfBirth), d.Value(row, types.ColGender)),
		ediwriter.Segment("DTP", "348", "D8", normalize.FormatDateOr(row[types.ColEligibilityDate], beginDate)),
		ediwriter.Segment("HD", maintenanceType, d.Value(row, types.ColMaintenanceReason),
			d.Value(row, types.ColInsuranceLine), d.Value(row, types.ColPlan), d.Value(row, types.ColCoverageLevel)),
	}

	if d.Flag(row, types.ColIncludeProductRef) {
		segments = append(segments, ediwriter.Segment("REF", "1L", d.Value(row, types.ColProduct)))
	}

	if d.Flag(row, types.ColIncludeProviderLoop) {
		segments = append(segments,
			ediwriter.Segment("LX", strconv.Itoa(index)),
			ediwriter.Segment("NM1", "P3", "2", d.Value(row, types.ColProviderName), "", "", "", "", "XX", d.Value(row, types.ColProviderNPI)),
			ediwriter.Segment("N3", d.Value(row, types.ColProviderAddress1), d.Value(row, types.ColProviderAddress2)),
			ediwriter.Segment("N4", d.Value(row, types.ColProviderCity), d.Value(row, types.ColProviderState), d.Value(row, types.ColProviderZip)),
		)
	}

	return segments
}

// =============================================================================
// TRAILER PHASE
// =============================================================================

// BuildTrailer returns SE, GE and IEA. transactionSegments is the number of
// segments from ST up to, but not including, SE.
func BuildTrailer(transactionSegments, controlNumber int) []string {
	control := strconv.Itoa(controlNumber)
	return []string{
		ediwriter.Segment("SE", strconv.Itoa(transactionSegments+1), normalize.PadLeft(control, stControlWidth, '0')),
		ediwriter.Segment("GE", "1", control),
		ediwriter.Segment("IEA", "1", normalize.PadLeft(control, isaControlWidth, '0')),
	}
}
