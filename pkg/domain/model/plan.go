package model

import (
	"strings"

	"github.com/legisdesk/casetriage/pkg/domain/types"
)

// PlanStep is one remediation step in a case's action plan
type PlanStep struct {
	Action      string           `json:"action" firestore:"action"`
	Description string           `json:"description" firestore:"description"`
	Status      types.StepStatus `json:"status" firestore:"status"`
	DaysFromNow int              `json:"days_from_now" firestore:"days_from_now"`
}

// NormalizeAction converts a step's action label to the upper-snake-case
// form used by the legacy actions projection (e.g. "Contact Agency" ->
// "CONTACT_AGENCY").
func NormalizeAction(action string) string {
	return strings.ReplaceAll(strings.ToUpper(action), " ", "_")
}

// ActionLabels returns the normalized projection of the plan's action names.
// The projection is derived, kept only for backward-compatible consumers.
func ActionLabels(plan []PlanStep) []string {
	labels := make([]string, len(plan))
	for i, step := range plan {
		labels[i] = NormalizeAction(step.Action)
	}
	return labels
}

// DefaultPlan returns the fixed two-step plan substituted when plan
// generation produces unparsable output.
func DefaultPlan() []PlanStep {
	return []PlanStep{
		{
			Action:      "Contact Agency",
			Description: "Reach out to the agency for status.",
			Status:      types.StepStatusPending,
			DaysFromNow: 0,
		},
		{
			Action:      "Follow Up",
			Description: "Follow up if no response.",
			Status:      types.StepStatusWaiting,
			DaysFromNow: 14,
		},
	}
}
