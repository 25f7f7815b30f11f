package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/legisdesk/casetriage/pkg/domain/model"
	"github.com/legisdesk/casetriage/pkg/domain/types"
	"github.com/legisdesk/casetriage/pkg/usecase"
)

func stageCase(completed int) *model.Case {
	plan := []model.PlanStep{
		{Action: "Contact Agency", Status: types.StepStatusPending},
		{Action: "Follow Up", Status: types.StepStatusWaiting},
		{Action: "Escalate", Status: types.StepStatusWaiting},
		{Action: "Verify Resolution", Status: types.StepStatusWaiting},
		{Action: "Close Case", Status: types.StepStatusWaiting},
	}
	for i := 0; i < completed && i < len(plan); i++ {
		plan[i].Status = types.StepStatusCompleted
	}

	return &model.Case{
		ID:        "stage-1",
		Subject:   "USCIS green card delay",
		Tags:      model.CaseTags{Tier1: "Department of Homeland Security", Tier2: "USCIS", Tier3: "Green Card / Permanent Residency", Tier4: "Application pending beyond normal processing time"},
		IssueArea: types.IssueAreaImmigration,
		Sentiment: types.SentimentNeutral,
		Plan:      plan,
	}
}

func TestStageUseCase_GenerateStageDrafts(t *testing.T) {
	letterBody := func(prompt string) (string, error) {
		return "Letter content for the case.", nil
	}

	t.Run("fresh case gets acknowledgment", func(t *testing.T) {
		uc := usecase.NewStageUseCase(&mockLLMClient{respondFn: letterBody})

		out := uc.GenerateStageDrafts(context.Background(), stageCase(0))
		gt.Value(t, out.CurrentStage).Equal(1)
		gt.Array(t, out.Drafts).Length(1).Required()
		gt.Value(t, out.Drafts[0].Type).Equal("acknowledgment")
		gt.Value(t, out.Drafts[0].Recipient).Equal("Constituent")
		gt.Value(t, out.Drafts[0].Content).Equal("Letter content for the case.")
	})

	t.Run("two completed steps yields stage 3", func(t *testing.T) {
		uc := usecase.NewStageUseCase(&mockLLMClient{respondFn: letterBody})

		out := uc.GenerateStageDrafts(context.Background(), stageCase(2))
		gt.Value(t, out.CurrentStage).Equal(3)
		gt.Array(t, out.Drafts).Length(2).Required()
		gt.Value(t, out.Drafts[0].Type).Equal("followup")
		gt.Value(t, out.Drafts[0].Recipient).Equal("Constituent")
		gt.Value(t, out.Drafts[1].Type).Equal("escalation")
		gt.Value(t, out.Drafts[1].Recipient).Equal("Agency Supervisor")
	})

	t.Run("stage capped at 5", func(t *testing.T) {
		uc := usecase.NewStageUseCase(&mockLLMClient{respondFn: letterBody})

		out := uc.GenerateStageDrafts(context.Background(), stageCase(5))
		gt.Value(t, out.CurrentStage).Equal(5)
		gt.Array(t, out.Drafts).Length(2).Required()
		gt.Value(t, out.Drafts[0].Type).Equal("resolution")
		gt.Value(t, out.Drafts[1].Type).Equal("followup")
	})

	t.Run("failed letter is omitted, rest survive", func(t *testing.T) {
		llm := &mockLLMClient{respondFn: func(prompt string) (string, error) {
			if strings.Contains(prompt, "escalation letter") {
				return "", errors.New("model unavailable")
			}
			return "Letter content.", nil
		}}
		uc := usecase.NewStageUseCase(llm)

		out := uc.GenerateStageDrafts(context.Background(), stageCase(2))
		gt.Value(t, out.CurrentStage).Equal(3)
		gt.Array(t, out.Drafts).Length(1).Required()
		gt.Value(t, out.Drafts[0].Type).Equal("followup")
	})

	t.Run("all letters failing yields empty set, not nil", func(t *testing.T) {
		llm := &mockLLMClient{respondFn: func(prompt string) (string, error) {
			return "", errors.New("model unavailable")
		}}
		uc := usecase.NewStageUseCase(llm)

		out := uc.GenerateStageDrafts(context.Background(), stageCase(0))
		gt.Value(t, out.CurrentStage).Equal(1)
		gt.Array(t, out.Drafts).Length(0)
	})

	t.Run("prompt carries case details", func(t *testing.T) {
		var captured string
		llm := &mockLLMClient{respondFn: func(prompt string) (string, error) {
			captured = prompt
			return "Letter content.", nil
		}}
		uc := usecase.NewStageUseCase(llm)

		uc.GenerateStageDrafts(context.Background(), stageCase(0))
		gt.Bool(t, strings.Contains(captured, "stage-1")).True()
		gt.Bool(t, strings.Contains(captured, "Department of Homeland Security")).True()
		gt.Bool(t, strings.Contains(captured, "Application pending beyond normal processing time")).True()
		gt.Bool(t, strings.Contains(captured, "Step 1 of 5")).True()
	})
}
