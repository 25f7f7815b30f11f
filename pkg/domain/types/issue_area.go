package types

// IssueArea is the coarse casework category derived from the Tier 1 agency tag
type IssueArea string

const (
	IssueAreaVeterans    IssueArea = "Veterans"
	IssueAreaHealthcare  IssueArea = "Healthcare"
	IssueAreaImmigration IssueArea = "Immigration"
	IssueAreaBenefits    IssueArea = "Benefits"
	IssueAreaOther       IssueArea = "Other"
)

// AllIssueAreas returns all valid issue areas
func AllIssueAreas() []IssueArea {
	return []IssueArea{
		IssueAreaVeterans,
		IssueAreaHealthcare,
		IssueAreaImmigration,
		IssueAreaBenefits,
		IssueAreaOther,
	}
}

// IsValid checks if the issue area is valid
func (a IssueArea) IsValid() bool {
	switch a {
	case IssueAreaVeterans,
		IssueAreaHealthcare,
		IssueAreaImmigration,
		IssueAreaBenefits,
		IssueAreaOther:
		return true
	default:
		return false
	}
}

// String returns the string representation of the issue area
func (a IssueArea) String() string {
	return string(a)
}
