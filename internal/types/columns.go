package types

// Input column headers recognized by the generator.
const (
	ColSenderID            = "Sender ID"
	ColReceiverID          = "Receiver ID"
	ColPurposeCode         = "Transaction Set Purpose Code"
	ColActionCode          = "Action Code"
	ColPolicyNumber        = "Policy Number"
	ColSponsorName         = "Sponsor Name"
	ColSponsorTaxID        = "Sponsor Tax ID"
	ColPayerName           = "Payer Name"
	ColPayerID             = "Payer ID"
	ColGroup               = "Group"
	ColSubGroupID          = "Sub Group ID"
	ColClassPlanID         = "Class Plan ID"
	ColPlan                = "Plan"
	ColProduct             = "Product"
	ColMemberID            = "Member ID"
	ColSubscriberNumber    = "Subscriber Number"
	ColRelationshipCode    = "Relationship Code"
	ColMaintenanceType     = "Maintenance Type Code"
	ColMaintenanceReason   = "Maintenance Reason Code"
	ColBenefitStatus       = "Benefit Status Code"
	ColEmploymentStatus    = "Employment Status"
	ColHandicapIndicator   = "Handicap Indicator"
	ColLastName            = "Last Name"
	ColFirstName           = "First Name"
	ColMiddleName          = "Middle Name"
	ColNameSuffix          = "Name Suffix"
	ColContactName         = "Contact Name"
	ColPhone               = "Phone"
	ColEmail               = "Email"
	ColAddress1            = "Address 1"
	ColAddress2            = "Address 2"
	ColCity                = "City"
	ColState               = "State"
	ColZip                 = "Zip"
	ColDateOfBirth         = "Date of Birth"
	ColGender              = "Gender"
	ColEligibilityBegin    = "Eligibility Begin Date"
	ColEligibilityDate     = "Eligibility Date"
	ColInsuranceLine       = "Insurance Line Code"
	ColCoverageLevel       = "Coverage Level Code"
	ColIncludeProductRef   = "Include Product REF"
	ColIncludeProviderLoop = "Include Provider Loop"
	ColProviderName        = "Provider Name"
	ColProviderNPI         = "Provider NPI"
	ColProviderAddress1    = "Provider Address 1"
	ColProviderAddress2    = "Provider Address 2"
	ColProviderCity        = "Provider City"
	ColProviderState       = "Provider State"
	ColProviderZip         = "Provider Zip"
)

// SubscriberRelationship is the relationship code that marks the subscriber
// (the employee) as opposed to a dependent.
const SubscriberRelationship = "18"

// RequiredColumns must all be present on the input header row.
var RequiredColumns = []string{
	ColSenderID,
	ColReceiverID,
	ColGroup,
	ColPlan,
	ColProduct,
	ColMemberID,
	ColRelationshipCode,
	ColLastName,
	ColFirstName,
}

// AllColumns lists every recognized column in template order.
var AllColumns = []string{
	ColSenderID, ColReceiverID, ColPurposeCode, ColActionCode, ColPolicyNumber,
	ColSponsorName, ColSponsorTaxID, ColPayerName, ColPayerID,
	ColGroup, ColSubGroupID, ColClassPlanID, ColPlan, ColProduct,
	ColMemberID, ColSubscriberNumber, ColRelationshipCode,
	ColMaintenanceType, ColMaintenanceReason, ColBenefitStatus,
	ColEmploymentStatus, ColHandicapIndicator,
	ColLastName, ColFirstName, ColMiddleName, ColNameSuffix,
	ColContactName, ColPhone, ColEmail,
	ColAddress1, ColAddress2, ColCity, ColState, ColZip,
	ColDateOfBirth, ColGender,
	ColEligibilityBegin, ColEligibilityDate, ColInsuranceLine, ColCoverageLevel,
	ColIncludeProductRef,
	ColIncludeProviderLoop, ColProviderName, ColProviderNPI,
	ColProviderAddress1, ColProviderAddress2, ColProviderCity, ColProviderState, ColProviderZip,
}
