package types

// LetterKind is a canonical kind of outbound correspondence
type LetterKind string

const (
	LetterAcknowledgment LetterKind = "acknowledgment"
	LetterAgencyInquiry  LetterKind = "agency_inquiry"
	LetterFollowup       LetterKind = "followup"
	LetterEscalation     LetterKind = "escalation"
	LetterResolution     LetterKind = "resolution"
)

// AllLetterKinds returns all valid letter kinds
func AllLetterKinds() []LetterKind {
	return []LetterKind{
		LetterAcknowledgment,
		LetterAgencyInquiry,
		LetterFollowup,
		LetterEscalation,
		LetterResolution,
	}
}

// IsValid checks if the letter kind is valid
func (k LetterKind) IsValid() bool {
	switch k {
	case LetterAcknowledgment,
		LetterAgencyInquiry,
		LetterFollowup,
		LetterEscalation,
		LetterResolution:
		return true
	default:
		return false
	}
}

// Recipient returns the role the letter kind is addressed to
func (k LetterKind) Recipient() string {
	switch k {
	case LetterAgencyInquiry:
		return "Agency"
	case LetterEscalation:
		return "Agency Supervisor"
	default:
		return "Constituent"
	}
}

// String returns the string representation of the letter kind
func (k LetterKind) String() string {
	return string(k)
}
