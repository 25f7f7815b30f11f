package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/legisdesk/casetriage/pkg/domain/interfaces"
	"github.com/legisdesk/casetriage/pkg/domain/model"
	"github.com/legisdesk/casetriage/pkg/domain/types"
	"github.com/legisdesk/casetriage/pkg/utils/logging"
)

//go:embed prompt/followup.md
var followupPromptTmpl string

var followupPrompt = template.Must(template.New("followup").Parse(followupPromptTmpl))

// AdvanceUseCase moves a case forward one step at a time
type AdvanceUseCase struct {
	repo interfaces.Repository
	llm  gollem.LLMClient
}

// NewAdvanceUseCase creates a new AdvanceUseCase
func NewAdvanceUseCase(repo interfaces.Repository, llm gollem.LLMClient) *AdvanceUseCase {
	return &AdvanceUseCase{
		repo: repo,
		llm:  llm,
	}
}

// AdvanceStep completes the first open step of the case and appends one
// follow-up draft to the constituent. When no open step remains the stored
// case is returned unchanged. An unknown case id yields ErrCaseNotFound.
func (uc *AdvanceUseCase) AdvanceStep(ctx context.Context, caseID string) (*model.Case, error) {
	logger := logging.From(ctx)

	c, err := uc.repo.Case().Get(ctx, caseID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrCaseNotFound, "cannot advance unknown case", goerr.V(CaseIDKey, caseID))
		}
		return nil, goerr.Wrap(err, "failed to load case", goerr.V(CaseIDKey, caseID))
	}

	idx := c.NextStepIndex()
	if idx < 0 {
		logger.Info("all steps already completed", CaseIDKey, caseID)
		return c, nil
	}

	c.Plan[idx].Status = types.StepStatusCompleted
	step := c.Plan[idx]

	draft := uc.generateFollowupDraft(ctx, c, step)
	c.Drafts = append(c.Drafts, draft)

	updated, err := uc.repo.Case().UpdateProgress(ctx, caseID, c.Plan, c.Drafts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to persist advanced case", goerr.V(CaseIDKey, caseID))
	}

	logger.Info("advanced case step",
		CaseIDKey, caseID,
		"action", step.Action,
		"completed", updated.CompletedSteps(),
		"total", len(updated.Plan),
	)

	return updated, nil
}

type followupPromptData struct {
	CaseID      string
	IssueArea   types.IssueArea
	Sentiment   types.Sentiment
	Subject     string
	Action      string
	Description string
	PlanJSON    string
}

// generateFollowupDraft asks for a constituent update about the completed
// step. Any failure along the way falls back to a deterministic template,
// so advancing never loses its draft.
func (uc *AdvanceUseCase) generateFollowupDraft(ctx context.Context, c *model.Case, step model.PlanStep) model.Draft {
	logger := logging.From(ctx)

	planJSON, err := json.Marshal(c.Plan)
	if err != nil {
		logger.Warn("failed to encode plan for follow-up prompt", CaseIDKey, c.ID, "error", err.Error())
		return fallbackFollowupDraft(c, step)
	}

	var buf bytes.Buffer
	data := followupPromptData{
		CaseID:      c.ID,
		IssueArea:   c.IssueArea,
		Sentiment:   c.Sentiment,
		Subject:     c.Subject,
		Action:      step.Action,
		Description: step.Description,
		PlanJSON:    string(planJSON),
	}
	if err := followupPrompt.Execute(&buf, data); err != nil {
		logger.Warn("failed to build follow-up prompt", CaseIDKey, c.ID, "error", err.Error())
		return fallbackFollowupDraft(c, step)
	}

	raw, err := generate(ctx, uc.llm, buf.String(), gollem.WithSessionContentType(gollem.ContentTypeJSON))
	if err != nil {
		logger.Warn("follow-up generation failed, using fallback draft", CaseIDKey, c.ID, "error", err.Error())
		return fallbackFollowupDraft(c, step)
	}

	var parsed struct {
		Type    string `json:"type"`
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := decodeJSONResponse(raw, &parsed); err != nil || parsed.Body == "" {
		logger.Warn("follow-up response unusable, using fallback draft", CaseIDKey, c.ID, "response", raw)
		return fallbackFollowupDraft(c, step)
	}
	if parsed.Type == "" {
		parsed.Type = followupDraftType
	}
	if parsed.Subject == "" {
		parsed.Subject = fallbackFollowupSubject(c.ID)
	}

	return model.NewDraft(parsed.Type, "", parsed.Subject, parsed.Body)
}

const followupDraftType = "Follow-up Update"

func fallbackFollowupSubject(caseID string) string {
	return fmt.Sprintf("Update on Your Case #%s", caseID)
}

func fallbackFollowupDraft(c *model.Case, step model.PlanStep) model.Draft {
	body := fmt.Sprintf(
		"Dear Constituent,\n\nWe wanted to update you that we have completed the following action on your case:\n\n• %s\n\nWe will continue working on your case and provide further updates.\n\nSincerely,\nConstituent Services",
		step.Action,
	)
	return model.NewDraft(followupDraftType, "", fallbackFollowupSubject(c.ID), body)
}
