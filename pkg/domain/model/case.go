package model

import (
	"time"

	"github.com/legisdesk/casetriage/pkg/domain/types"
)

// maxStage is the highest plan-progress bucket used for stage drafting
const maxStage = 5

// CaseTags is the four-level taxonomy classification of a case
type CaseTags struct {
	Tier1 string `json:"tier1" firestore:"tier1"`
	Tier2 string `json:"tier2" firestore:"tier2"`
	Tier3 string `json:"tier3" firestore:"tier3"`
	Tier4 string `json:"tier4" firestore:"tier4"`
}

// Case is a single constituent issue and all derived state about it
type Case struct {
	ID        string          `json:"id" firestore:"id"`
	Subject   string          `json:"subject" firestore:"subject"`
	Body      string          `json:"body" firestore:"body"`
	Tags      CaseTags        `json:"tags" firestore:"tags"`
	IssueArea types.IssueArea `json:"issue_area" firestore:"issue_area"`
	Sentiment types.Sentiment `json:"sentiment" firestore:"sentiment"`
	Actions   []string        `json:"actions" firestore:"actions"`
	Plan      []PlanStep      `json:"action_plan" firestore:"action_plan"`
	Drafts    []Draft         `json:"drafts" firestore:"drafts"`
	CreatedAt time.Time       `json:"created_at" firestore:"created_at"`
}

// CompletedSteps returns the number of completed plan steps
func (c *Case) CompletedSteps() int {
	var n int
	for _, step := range c.Plan {
		if step.Status == types.StepStatusCompleted {
			n++
		}
	}
	return n
}

// Stage returns the plan-progress bucket (1-5) used to pick letter kinds
func (c *Case) Stage() int {
	stage := c.CompletedSteps() + 1
	if stage > maxStage {
		stage = maxStage
	}
	return stage
}

// NextStepIndex returns the index of the first pending or waiting step,
// or -1 when the plan is fully completed.
func (c *Case) NextStepIndex() int {
	for i, step := range c.Plan {
		if step.Status.IsOpen() {
			return i
		}
	}
	return -1
}

// Clone creates a deep copy of the case
func (c *Case) Clone() *Case {
	cloned := *c

	if c.Actions != nil {
		cloned.Actions = make([]string, len(c.Actions))
		copy(cloned.Actions, c.Actions)
	}
	if c.Plan != nil {
		cloned.Plan = make([]PlanStep, len(c.Plan))
		copy(cloned.Plan, c.Plan)
	}
	if c.Drafts != nil {
		cloned.Drafts = make([]Draft, len(c.Drafts))
		copy(cloned.Drafts, c.Drafts)
	}

	return &cloned
}
