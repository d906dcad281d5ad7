package converter

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/edi834-generator/internal/ediwriter"
	"github.com/ginjaninja78/edi834-generator/internal/normalize"
	"github.com/ginjaninja78/edi834-generator/internal/types"
)

var fixedNow = time.Date(2025, 3, 4, 9, 7, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func subscriberRow() types.Row {
	return types.Row{
		types.ColSenderID:          "S1",
		types.ColReceiverID:        "R1",
		types.ColGroup:             "G1",
		types.ColSubGroupID:        "1001",
		types.ColClassPlanID:       "1004",
		types.ColPlan:              "P1",
		types.ColProduct:           "PR1",
		types.ColMemberID:          "SUB1",
		types.ColRelationshipCode:  "18",
		types.ColMaintenanceType:   "21",
		types.ColMaintenanceReason: "XN",
		types.ColLastName:          "DOE",
		types.ColFirstName:         "JOHN",
		types.ColEligibilityBegin:  "01/01/2024",
		types.ColEligibilityDate:   "01/01/2024",
		types.ColDateOfBirth:       "10/02/1985",
	}
}

func dependentRow() types.Row {
	return types.Row{
		types.ColMemberID:         "DEP1",
		types.ColSubscriberNumber: "SUB1",
		types.ColRelationshipCode: "01",
		types.ColLastName:         "DOE",
		types.ColFirstName:        "JANE",
		types.ColGender:           "F",
	}
}

func TestAssembleGolden(t *testing.T) {
	a := NewAssembler(WithClock(fixedClock))
	doc := a.Assemble([]types.Row{subscriberRow()}, 123456)

	want := strings.Join([]string{
		"ISA*00*          *00*          *ZZ*S1             *ZZ*R1             *250304*0907*^*00501*000123456*0*P*:~",
		"GS*BE*S1*R1*20250304*0907*123456*X*005010X220A1~",
		"ST*834*123456*005010X220A1~",
		"BGN*00*REF834*20250304*0907****4~",
		"REF*38*POLICY001~",
		"DTP*007*D8*20250304~",
		"N1*P5*DEFAULT SPONSOR*FI*999999999~",
		"N1*IN*DEFAULT PAYER*FI*888888888~",
		"INS*Y*18*21**A***FT**N**~",
		"REF*0F*SUB1~",
		"REF*1L*G1~",
		"REF*17*1001~",
		"REF*QQ*1004~",
		"DTP*356*D8*01012024~",
		"NM1*IL*1*DOE*JOHN****34*SUB1~",
		"PER*IP*JOHN DOE*TE*9999999999*EM*noemail@example.com~",
		"N3*123 DEFAULT ST*~",
		"N4*DEFAULTCITY*TX*75001~",
		"DMG*D8*10021985*U~",
		"DTP*348*D8*01012024~",
		"HD*21*XN*HLT*P1*EMP~",
		"SE*20*123456~",
		"GE*1*123456~",
		"IEA*1*000123456~",
	}, "\n") + "\n"

	assert.Equal(t, want, doc.String())
	assert.Equal(t, 24, doc.Len())
	assert.Equal(t, 1, doc.MemberCount)
	assert.Equal(t, 123456, doc.ControlNumber)
}

func TestAssembleSubscriberScenario(t *testing.T) {
	doc := NewAssembler(WithClock(fixedClock)).Assemble([]types.Row{subscriberRow()}, 555555)
	content := doc.String()

	assert.Regexp(t, regexp.MustCompile(`INS\*Y\*18\*21\*\*A\*\*\*FT\*\*N\*\*~`), content)
	assert.Contains(t, content, "REF*17*1001~")
	assert.Contains(t, content, "REF*QQ*1004~")
	assert.Contains(t, content, "DTP*356*D8*01012024~")
	assert.Contains(t, content, "DMG*D8*10021985*")
	assert.Equal(t, 1, strings.Count(content, "DTP*348*D8*01012024~"))
	assert.NotContains(t, content, "REF*1L*PR1~")
	assert.NotContains(t, content, "NM1*P3*")
}

func TestHeaderHasEightSegments(t *testing.T) {
	header := NewAssembler().BuildHeader(types.Row{}, 100000, fixedNow)
	require.Len(t, header, headerSegmentCount)

	tags := make([]string, len(header))
	for i, s := range header {
		tags[i] = ediwriter.Tag(s)
	}
	assert.Equal(t, []string{"ISA", "GS", "ST", "BGN", "REF", "DTP", "N1", "N1"}, tags)

	// Sender and receiver fall back and are padded in ISA only.
	assert.Contains(t, header[0], "*ZZ*SENDERID       *ZZ*RECEIVERID     *")
	assert.Contains(t, header[1], "GS*BE*SENDERID*RECEIVERID*")
}

func TestSubscriberFlag(t *testing.T) {
	a := NewAssembler()
	tests := []struct {
		relationship string
		flag         string
	}{
		{"18", "Y"},
		{"01", "N"},
		{"19", "N"},
		{"", "Y"},
	}

	for _, tt := range tests {
		row := subscriberRow()
		row[types.ColRelationshipCode] = tt.relationship
		loop := a.BuildMemberLoop(row, 1)
		assert.Equal(t, tt.flag, ediwriter.Elements(loop[0])[1], "relationship %q", tt.relationship)
	}
}

func TestMemberLoopConditionalSegments(t *testing.T) {
	a := NewAssembler()

	t.Run("core only", func(t *testing.T) {
		loop := a.BuildMemberLoop(subscriberRow(), 1)
		require.Len(t, loop, memberCoreSegments)
		assert.Equal(t, "HD", ediwriter.Tag(loop[len(loop)-1]))
	})

	t.Run("product ref after HD", func(t *testing.T) {
		row := subscriberRow()
		row[types.ColIncludeProductRef] = "y"
		loop := a.BuildMemberLoop(row, 1)
		require.Len(t, loop, memberCoreSegments+1)
		assert.Equal(t, "HD", ediwriter.Tag(loop[memberCoreSegments-1]))
		assert.Equal(t, "REF*1L*PR1~", loop[memberCoreSegments])
	})

	t.Run("product ref N", func(t *testing.T) {
		row := subscriberRow()
		row[types.ColIncludeProductRef] = "N"
		assert.Len(t, a.BuildMemberLoop(row, 1), memberCoreSegments)
	})

	t.Run("provider loop", func(t *testing.T) {
		row := subscriberRow()
		row[types.ColIncludeProviderLoop] = "Y"
		row[types.ColProviderName] = "CLINIC"
		loop := a.BuildMemberLoop(row, 3)
		require.Len(t, loop, memberCoreSegments+providerLoopSegments)
		assert.Equal(t, []string{
			"LX*3~",
			"NM1*P3*2*CLINIC*****XX*1999999999~",
			"N3*1 PROVIDER WAY*~",
			"N4*AUSTIN*TX*73301~",
		}, loop[memberCoreSegments:])
	})

	t.Run("both extensions", func(t *testing.T) {
		row := subscriberRow()
		row[types.ColIncludeProductRef] = "Y"
		row[types.ColIncludeProviderLoop] = "Y"
		loop := a.BuildMemberLoop(row, 1)
		require.Len(t, loop, memberCoreSegments+1+providerLoopSegments)
		assert.Equal(t, "REF*1L*PR1~", loop[memberCoreSegments])
		assert.Equal(t, "LX*1~", loop[memberCoreSegments+1])
	})
}

func TestMemberLoopFallbacks(t *testing.T) {
	loop := NewAssembler().BuildMemberLoop(types.Row{}, 7)

	assert.Equal(t, "REF*0F*MID7~", loop[1])
	assert.Equal(t, "REF*1L*DEFAULT_GROUP~", loop[2])
	assert.Equal(t, "DTP*356*D8*01012024~", loop[5])
	assert.Equal(t, "NM1*IL*1*DOE*JOHN****34*MID7~", loop[6])
	assert.Equal(t, "DMG*D8*01011980*U~", loop[10])
	assert.Equal(t, "HD*21*XN*HLT*DEFAULTPLAN*EMP~", loop[12])
}

func TestEligibilityDateDefaultsToBeginDate(t *testing.T) {
	row := subscriberRow()
	row[types.ColEligibilityBegin] = "2024-02-15"
	delete(row, types.ColEligibilityDate)

	loop := NewAssembler().BuildMemberLoop(row, 1)
	assert.Equal(t, "DTP*356*D8*02152024~", loop[5])
	assert.Equal(t, "DTP*348*D8*02152024~", loop[11])
}

func TestDependentReferencesSubscriber(t *testing.T) {
	loop := NewAssembler().BuildMemberLoop(dependentRow(), 2)
	assert.Equal(t, "INS*N*01*21**A***FT**N**~", loop[0])
	assert.Equal(t, "REF*0F*SUB1~", loop[1])
	assert.Equal(t, "NM1*IL*1*DOE*JANE****34*DEP1~", loop[6])
}

func TestCustomDefaults(t *testing.T) {
	d := normalize.DefaultFieldValues().WithOverrides(map[string]string{types.ColState: "CA"})
	loop := NewAssembler(WithDefaults(d)).BuildMemberLoop(types.Row{}, 1)
	assert.Equal(t, "N4*DEFAULTCITY*CA*75001~", loop[9])
}

func TestTrailerCountsAndControlNumbers(t *testing.T) {
	rows := []types.Row{subscriberRow(), dependentRow(), subscriberRow()}
	rows[1][types.ColIncludeProviderLoop] = "Y"
	rows[2][types.ColIncludeProductRef] = "Y"

	doc := NewAssembler(WithClock(fixedClock)).Assemble(rows, 987654)

	se := ediwriter.Elements(doc.Find("SE"))
	count, err := strconv.Atoi(se[1])
	require.NoError(t, err)
	assert.Equal(t, doc.CountBetween("ST", "SE"), count)
	assert.Equal(t, "987654", se[2])

	assert.Equal(t, "GE*1*987654~", doc.Find("GE"))
	assert.Equal(t, "IEA*1*000987654~", doc.Find("IEA"))
	assert.Equal(t, 3, doc.CountByTag("INS"))
	assert.Equal(t, 1, doc.CountByTag("LX"))

	expected := headerSegmentCount + 3*memberCoreSegments + providerLoopSegments + 1 + trailerSegmentCount
	assert.Equal(t, expected, doc.Len())
}

func TestBuildTrailer(t *testing.T) {
	assert.Equal(t, []string{"SE*5*123456~", "GE*1*123456~", "IEA*1*000123456~"}, BuildTrailer(4, 123456))
}
