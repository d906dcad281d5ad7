package normalize

import (
	"github.com/ginjaninja78/edi834-generator/internal/types"
)

// =============================================================================
// FIELD DEFAULTS TABLE
// =============================================================================

// Defaults maps an input column name to the value used when a row leaves that
// column empty. A column with no entry falls back to the empty string.
type Defaults map[string]string

// DefaultFieldValues returns the built-in defaults table. The returned map is a
// fresh copy and may be modified by the caller.
func DefaultFieldValues() Defaults {
	return Defaults{
		// Envelope and header
		types.ColSenderID:     "SENDERID",
		types.ColReceiverID:   "RECEIVERID",
		types.ColPurposeCode:  "REF834",
		types.ColActionCode:   "4",
		types.ColPolicyNumber: "POLICY001",
		types.ColSponsorName:  "DEFAULT SPONSOR",
		types.ColSponsorTaxID: "999999999",
		types.ColPayerName:    "DEFAULT PAYER",
		types.ColPayerID:      "888888888",

		// Member level
		types.ColRelationshipCode:  types.SubscriberRelationship,
		types.ColMaintenanceType:   "21",
		types.ColMaintenanceReason: "XN",
		types.ColBenefitStatus:     "A",
		types.ColEmploymentStatus:  "FT",
		types.ColHandicapIndicator: "N",
		types.ColGroup:             "DEFAULT_GROUP",
		types.ColSubGroupID:        "1001",
		types.ColClassPlanID:       "1004",
		types.ColEligibilityBegin:  DefaultDate,
		types.ColLastName:          "DOE",
		types.ColFirstName:         "JOHN",
		types.ColPhone:             "9999999999",
		types.ColEmail:             "noemail@example.com",
		types.ColAddress1:          "123 DEFAULT ST",
		types.ColCity:              "DEFAULTCITY",
		types.ColState:             "TX",
		types.ColZip:               "75001",
		types.ColDateOfBirth:       "01011980",
		types.ColGender:            "U",
		types.ColInsuranceLine:     "HLT",
		types.ColPlan:              "DEFAULTPLAN",
		types.ColCoverageLevel:     "EMP",
		types.ColProduct:           "DEFAULTPRODUCT",

		// Situational loop switches
		types.ColIncludeProductRef:   "N",
		types.ColIncludeProviderLoop: "N",

		// Provider loop
		types.ColProviderName:     "DEFAULT PROVIDER",
		types.ColProviderNPI:      "1999999999",
		types.ColProviderAddress1: "1 PROVIDER WAY",
		types.ColProviderCity:     "AUSTIN",
		types.ColProviderState:    "TX",
		types.ColProviderZip:      "73301",
	}
}

// WithOverrides returns a copy of d with every entry of overrides applied on
// top. Empty override values are kept: they clear the default.
func (d Defaults) WithOverrides(overrides map[string]string) Defaults {
	out := make(Defaults, len(d)+len(overrides))
	for k, v := range d {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Fallback returns the default for column.
func (d Defaults) Fallback(column string) string {
	return d[column]
}

// Value returns the cleaned value of column in row, or the column's default.
func (d Defaults) Value(row types.Row, column string) string {
	return Clean(row[column], d[column])
}

// Date returns the column formatted as MMDDYYYY, or the column's default.
func (d Defaults) Date(row types.Row, column string) string {
	return FormatDateOr(row[column], d[column])
}

// Flag reports whether a Y/N column is set to Y (case-insensitive).
func (d Defaults) Flag(row types.Row, column string) bool {
	v := d.Value(row, column)
	return v == "Y" || v == "y"
}
