package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/legisdesk/casetriage/pkg/domain/model"
	"github.com/legisdesk/casetriage/pkg/domain/types"
	"github.com/legisdesk/casetriage/pkg/repository/memory"
	"github.com/legisdesk/casetriage/pkg/service/taxonomy"
	"github.com/legisdesk/casetriage/pkg/usecase"
)

// routeTriageResponses answers each pipeline prompt by recognizing the
// prompt template it came from.
func routeTriageResponses(prompt string) (string, error) {
	switch {
	case strings.Contains(prompt, "casework tagger"):
		return `{"tier1": "Department of Veterans Affairs", "tier2": "Veterans Benefits Administration", "tier3": "Disability Compensation", "tier4": "Claim delayed over 6 months"}`, nil
	case strings.Contains(prompt, "Analyze the sentiment"):
		return "negative", nil
	case strings.Contains(prompt, "action plan"):
		return `{"steps": [
			{"action": "Request Documents", "description": "Ask for the claim number.", "status": "pending", "days_from_now": 0},
			{"action": "Contact Agency", "description": "Send inquiry to the VBA.", "status": "waiting", "days_from_now": 3},
			{"action": "Follow Up", "description": "Check for a response.", "status": "waiting", "days_from_now": 14}
		]}`, nil
	case strings.Contains(prompt, "missing documents"):
		return "Dear Constituent, please send your claim number.", nil
	case strings.Contains(prompt, "inquiring about"):
		return "To whom it may concern, we request a status update.", nil
	default:
		return "", errors.New("unexpected prompt: " + prompt)
	}
}

func newTriageMessage() *model.Message {
	return &model.Message{
		ID:      "case-100",
		Subject: "VA disability claim stuck",
		Body:    "My claim has been pending for 8 months and I am very frustrated.",
	}
}

func TestTriageUseCase_ProcessCase(t *testing.T) {
	t.Run("full pipeline", func(t *testing.T) {
		repo := memory.New()
		llm := &mockLLMClient{respondFn: routeTriageResponses}
		uc := usecase.NewTriageUseCase(repo, taxonomy.Default(), llm)

		c, err := uc.ProcessCase(context.Background(), newTriageMessage())
		gt.NoError(t, err).Required()

		gt.Value(t, c.ID).Equal("case-100")
		gt.Value(t, c.Tags.Tier1).Equal("Department of Veterans Affairs")
		gt.Value(t, c.IssueArea).Equal(types.IssueAreaVeterans)
		gt.Value(t, c.Sentiment).Equal(types.SentimentNegative)
		gt.Array(t, c.Plan).Length(3)
		gt.Value(t, c.Plan[0].Status).Equal(types.StepStatusPending)
		gt.Value(t, c.Plan[1].Status).Equal(types.StepStatusWaiting)
		gt.Value(t, c.Plan[2].Status).Equal(types.StepStatusWaiting)
		gt.Array(t, c.Actions).Length(3).Required()
		gt.Value(t, c.Actions[0]).Equal("REQUEST_DOCUMENTS")
		gt.Value(t, c.Actions[1]).Equal("CONTACT_AGENCY")
		gt.Value(t, c.Actions[2]).Equal("FOLLOW_UP")

		// Drafts cover the first two steps only
		gt.Array(t, c.Drafts).Length(2).Required()
		gt.Value(t, c.Drafts[0].Type).Equal("REQUEST_DOCUMENTS")
		gt.Value(t, c.Drafts[0].Subject).Equal("Re: VA disability claim stuck")
		gt.Value(t, c.Drafts[1].Type).Equal("CONTACT_AGENCY")

		// Stored in the repository
		stored, err := repo.Case().Get(context.Background(), "case-100")
		gt.NoError(t, err).Required()
		gt.Value(t, stored.IssueArea).Equal(types.IssueAreaVeterans)
	})

	t.Run("second call with same content makes no generation calls", func(t *testing.T) {
		repo := memory.New()
		llm := &mockLLMClient{respondFn: routeTriageResponses}
		uc := usecase.NewTriageUseCase(repo, taxonomy.Default(), llm)

		first, err := uc.ProcessCase(context.Background(), newTriageMessage())
		gt.NoError(t, err).Required()

		calls := llm.sessionCount()
		gt.Number(t, calls).Greater(0)

		second, err := uc.ProcessCase(context.Background(), newTriageMessage())
		gt.NoError(t, err).Required()

		gt.Number(t, llm.sessionCount()).Equal(calls)
		gt.Value(t, second.ID).Equal(first.ID)
		gt.Array(t, second.Plan).Length(len(first.Plan))
	})

	t.Run("changed body reprocesses under the same id", func(t *testing.T) {
		repo := memory.New()
		llm := &mockLLMClient{respondFn: routeTriageResponses}
		uc := usecase.NewTriageUseCase(repo, taxonomy.Default(), llm)

		_, err := uc.ProcessCase(context.Background(), newTriageMessage())
		gt.NoError(t, err).Required()
		calls := llm.sessionCount()

		edited := newTriageMessage()
		edited.Body = "Update: I received a letter but it makes no sense."
		c, err := uc.ProcessCase(context.Background(), edited)
		gt.NoError(t, err).Required()

		gt.Number(t, llm.sessionCount()).Greater(calls)
		gt.Value(t, c.Body).Equal(edited.Body)
	})

	t.Run("classification parse failure is a hard error", func(t *testing.T) {
		repo := memory.New()
		llm := &mockLLMClient{respondFn: func(prompt string) (string, error) {
			if strings.Contains(prompt, "casework tagger") {
				return "I cannot classify this.", nil
			}
			return routeTriageResponses(prompt)
		}}
		uc := usecase.NewTriageUseCase(repo, taxonomy.Default(), llm)

		_, err := uc.ProcessCase(context.Background(), newTriageMessage())
		gt.Error(t, err)
	})

	t.Run("classification fenced JSON still parses", func(t *testing.T) {
		repo := memory.New()
		llm := &mockLLMClient{respondFn: func(prompt string) (string, error) {
			if strings.Contains(prompt, "casework tagger") {
				return "```json\n{\"tier1\": \"Social Security Administration\", \"tier2\": \"Retirement Benefits\", \"tier3\": \"Social Security Retirement\", \"tier4\": \"Payment amount incorrect\"}\n```", nil
			}
			return routeTriageResponses(prompt)
		}}
		uc := usecase.NewTriageUseCase(repo, taxonomy.Default(), llm)

		c, err := uc.ProcessCase(context.Background(), newTriageMessage())
		gt.NoError(t, err).Required()
		gt.Value(t, c.Tags.Tier1).Equal("Social Security Administration")
		gt.Value(t, c.IssueArea).Equal(types.IssueAreaBenefits)
	})

	t.Run("unknown agency maps to Other", func(t *testing.T) {
		repo := memory.New()
		llm := &mockLLMClient{respondFn: func(prompt string) (string, error) {
			if strings.Contains(prompt, "casework tagger") {
				return `{"tier1": "Department of Defense", "tier2": "Army", "tier3": "Records", "tier4": "Lost DD-214"}`, nil
			}
			return routeTriageResponses(prompt)
		}}
		uc := usecase.NewTriageUseCase(repo, taxonomy.Default(), llm)

		c, err := uc.ProcessCase(context.Background(), newTriageMessage())
		gt.NoError(t, err).Required()
		gt.Value(t, c.IssueArea).Equal(types.IssueAreaOther)
	})

	t.Run("sentiment failure defaults to neutral", func(t *testing.T) {
		repo := memory.New()
		llm := &mockLLMClient{respondFn: func(prompt string) (string, error) {
			if strings.Contains(prompt, "Analyze the sentiment") {
				return "", errors.New("model unavailable")
			}
			return routeTriageResponses(prompt)
		}}
		uc := usecase.NewTriageUseCase(repo, taxonomy.Default(), llm)

		c, err := uc.ProcessCase(context.Background(), newTriageMessage())
		gt.NoError(t, err).Required()
		gt.Value(t, c.Sentiment).Equal(types.SentimentNeutral)
	})

	t.Run("plan failure substitutes default plan", func(t *testing.T) {
		repo := memory.New()
		llm := &mockLLMClient{respondFn: func(prompt string) (string, error) {
			if strings.Contains(prompt, "action plan") {
				return "no plan for you", nil
			}
			return routeTriageResponses(prompt)
		}}
		uc := usecase.NewTriageUseCase(repo, taxonomy.Default(), llm)

		c, err := uc.ProcessCase(context.Background(), newTriageMessage())
		gt.NoError(t, err).Required()

		want := model.DefaultPlan()
		gt.Array(t, c.Plan).Length(len(want)).Required()
		gt.Value(t, c.Plan[0].Action).Equal("Contact Agency")
		gt.Value(t, c.Plan[0].Status).Equal(types.StepStatusPending)
		gt.Value(t, c.Plan[0].DaysFromNow).Equal(0)
		gt.Value(t, c.Plan[1].Action).Equal("Follow Up")
		gt.Value(t, c.Plan[1].Status).Equal(types.StepStatusWaiting)
		gt.Value(t, c.Plan[1].DaysFromNow).Equal(14)
	})

	t.Run("model step statuses are overridden", func(t *testing.T) {
		repo := memory.New()
		llm := &mockLLMClient{respondFn: func(prompt string) (string, error) {
			if strings.Contains(prompt, "action plan") {
				return `{"steps": [
					{"action": "Contact Agency", "description": "x", "status": "completed", "days_from_now": -5},
					{"action": "Follow Up", "description": "y", "status": "pending", "days_from_now": 7}
				]}`, nil
			}
			return routeTriageResponses(prompt)
		}}
		uc := usecase.NewTriageUseCase(repo, taxonomy.Default(), llm)

		c, err := uc.ProcessCase(context.Background(), newTriageMessage())
		gt.NoError(t, err).Required()
		gt.Value(t, c.Plan[0].Status).Equal(types.StepStatusPending)
		gt.Value(t, c.Plan[0].DaysFromNow).Equal(0)
		gt.Value(t, c.Plan[1].Status).Equal(types.StepStatusWaiting)
	})

	t.Run("draft failure skips that draft only", func(t *testing.T) {
		repo := memory.New()
		llm := &mockLLMClient{respondFn: func(prompt string) (string, error) {
			if strings.Contains(prompt, "missing documents") {
				return "", errors.New("draft model down")
			}
			return routeTriageResponses(prompt)
		}}
		uc := usecase.NewTriageUseCase(repo, taxonomy.Default(), llm)

		c, err := uc.ProcessCase(context.Background(), newTriageMessage())
		gt.NoError(t, err).Required()
		gt.Array(t, c.Drafts).Length(1).Required()
		gt.Value(t, c.Drafts[0].Type).Equal("CONTACT_AGENCY")
	})

	t.Run("rejects message without id", func(t *testing.T) {
		repo := memory.New()
		llm := &mockLLMClient{respondFn: routeTriageResponses}
		uc := usecase.NewTriageUseCase(repo, taxonomy.Default(), llm)

		_, err := uc.ProcessCase(context.Background(), &model.Message{Subject: "s", Body: "b"})
		gt.Error(t, err)
		gt.Number(t, llm.sessionCount()).Equal(0)
	})
}

func TestTriageUseCase_ProcessBatch(t *testing.T) {
	t.Run("results keep input order and isolate failures", func(t *testing.T) {
		repo := memory.New()
		llm := &mockLLMClient{respondFn: func(prompt string) (string, error) {
			if strings.Contains(prompt, "BROKEN CASE") {
				return "", errors.New("model failure")
			}
			return routeTriageResponses(prompt)
		}}
		uc := usecase.NewTriageUseCase(repo, taxonomy.Default(), llm)

		msgs := []model.Message{
			{ID: "batch-1", Subject: "VA claim", Body: "Delayed claim."},
			{ID: "batch-2", Subject: "BROKEN CASE", Body: "This one fails."},
			{ID: "batch-3", Subject: "Medicare", Body: "Coverage denied."},
		}

		results := uc.ProcessBatch(context.Background(), msgs)
		gt.Array(t, results).Length(3).Required()

		gt.Value(t, results[0].Message.ID).Equal("batch-1")
		gt.NoError(t, results[0].Err)
		gt.Value(t, results[0].Case.ID).Equal("batch-1")

		gt.Value(t, results[1].Message.ID).Equal("batch-2")
		gt.Error(t, results[1].Err)

		gt.Value(t, results[2].Message.ID).Equal("batch-3")
		gt.NoError(t, results[2].Err)

		cases, err := uc.ListCases(context.Background())
		gt.NoError(t, err).Required()
		gt.Array(t, cases).Length(2)
	})

	t.Run("sample messages all process", func(t *testing.T) {
		repo := memory.New()
		llm := &mockLLMClient{respondFn: routeTriageResponses}
		uc := usecase.NewTriageUseCase(repo, taxonomy.Default(), llm)

		results := uc.ProcessBatch(context.Background(), model.SampleMessages())
		gt.Array(t, results).Length(len(model.SampleMessages())).Required()
		for _, r := range results {
			gt.NoError(t, r.Err)
		}
	})
}

func TestTriageUseCase_GetCase(t *testing.T) {
	repo := memory.New()
	llm := &mockLLMClient{respondFn: routeTriageResponses}
	uc := usecase.NewTriageUseCase(repo, taxonomy.Default(), llm)

	t.Run("unknown id yields sentinel", func(t *testing.T) {
		_, err := uc.GetCase(context.Background(), "nope")
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrCaseNotFound)).True()
	})

	t.Run("returns stored case", func(t *testing.T) {
		_, err := uc.ProcessCase(context.Background(), newTriageMessage())
		gt.NoError(t, err).Required()

		c, err := uc.GetCase(context.Background(), "case-100")
		gt.NoError(t, err).Required()
		gt.Value(t, c.ID).Equal("case-100")
	})
}
