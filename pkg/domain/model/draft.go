package model

import "github.com/google/uuid"

// Draft is a generated piece of outbound correspondence tied to a case.
// Drafts only grow: once appended to a case they are never edited or
// deleted.
type Draft struct {
	ID        string `json:"id" firestore:"id"`
	Type      string `json:"type" firestore:"type"`
	Recipient string `json:"recipient,omitempty" firestore:"recipient,omitempty"`
	Subject   string `json:"subject,omitempty" firestore:"subject,omitempty"`
	Body      string `json:"body" firestore:"body"`
}

// NewDraft creates a draft with a fresh ID
func NewDraft(draftType, recipient, subject, body string) Draft {
	return Draft{
		ID:        uuid.NewString(),
		Type:      draftType,
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
	}
}

// StageLetter is one generated letter for a case stage. Unlike Draft it
// carries no ID and uses a content field, matching the on-demand letter
// payload.
type StageLetter struct {
	Type      string `json:"type"`
	Recipient string `json:"recipient"`
	Content   string `json:"content"`
}

// StageDrafts is the on-demand letter set for a case's current stage. It
// is never persisted; callers regenerate it as needed.
type StageDrafts struct {
	Drafts       []StageLetter `json:"drafts"`
	CurrentStage int           `json:"current_stage"`
}
