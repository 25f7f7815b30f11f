package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"golang.org/x/sync/errgroup"

	"github.com/legisdesk/casetriage/pkg/domain/interfaces"
	"github.com/legisdesk/casetriage/pkg/domain/model"
	"github.com/legisdesk/casetriage/pkg/domain/types"
	"github.com/legisdesk/casetriage/pkg/service/taxonomy"
	"github.com/legisdesk/casetriage/pkg/utils/logging"
)

//go:embed prompt/classify.md
var classifyPromptTmpl string

//go:embed prompt/sentiment.md
var sentimentPromptTmpl string

//go:embed prompt/plan.md
var planPromptTmpl string

//go:embed prompt/draft_constituent.md
var draftConstituentPromptTmpl string

//go:embed prompt/draft_agency.md
var draftAgencyPromptTmpl string

var (
	classifyPrompt         = template.Must(template.New("classify").Parse(classifyPromptTmpl))
	sentimentPrompt        = template.Must(template.New("sentiment").Parse(sentimentPromptTmpl))
	planPrompt             = template.Must(template.New("plan").Parse(planPromptTmpl))
	draftConstituentPrompt = template.Must(template.New("draft_constituent").Parse(draftConstituentPromptTmpl))
	draftAgencyPrompt      = template.Must(template.New("draft_agency").Parse(draftAgencyPromptTmpl))
)

// requestDocsAction is the one normalized action label drafted toward the
// constituent instead of the agency.
const requestDocsAction = "REQUEST_DOCS_FROM_CONSTITUENT"

// maxInitialDrafts caps how many plan steps get an outbound draft at
// ingestion time.
const maxInitialDrafts = 2

// batchConcurrency bounds concurrent pipeline runs for one batch
const batchConcurrency = 4

// TriageUseCase turns raw constituent messages into fully tagged, planned
// and drafted case records.
type TriageUseCase struct {
	repo     interfaces.Repository
	taxonomy *taxonomy.Taxonomy
	llm      gollem.LLMClient
}

// NewTriageUseCase creates a new TriageUseCase
func NewTriageUseCase(repo interfaces.Repository, tax *taxonomy.Taxonomy, llm gollem.LLMClient) *TriageUseCase {
	return &TriageUseCase{
		repo:     repo,
		taxonomy: tax,
		llm:      llm,
	}
}

// ProcessCase runs the triage pipeline for one message. A stored case whose
// (id, subject, body) triple matches exactly is returned as-is with no
// generation calls; every distinct triple goes through generation at most
// once. Classification and store failures abort the call, everything after
// classification degrades gracefully.
func (uc *TriageUseCase) ProcessCase(ctx context.Context, msg *model.Message) (*model.Case, error) {
	logger := logging.From(ctx)

	if err := msg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid message")
	}

	cached, err := uc.repo.Case().GetByContent(ctx, msg.ID, msg.Subject, msg.Body)
	if err == nil {
		logger.Info("cache hit, skipping generation", CaseIDKey, msg.ID)
		return cached, nil
	}
	if !errors.Is(err, interfaces.ErrNotFound) {
		return nil, goerr.Wrap(err, "failed to check case cache", goerr.V(CaseIDKey, msg.ID))
	}

	logger.Info("processing case", CaseIDKey, msg.ID)
	text := msg.Text()

	tags, err := uc.classify(ctx, text)
	if err != nil {
		return nil, goerr.Wrap(err, "classification failed", goerr.V(CaseIDKey, msg.ID))
	}

	issueArea := uc.taxonomy.IssueArea(tags.Tier1)
	if !uc.taxonomy.ContainsPath(tags.Tier1, tags.Tier2, tags.Tier3, tags.Tier4) {
		logger.Warn("classification does not exactly match a taxonomy path",
			CaseIDKey, msg.ID,
			"tier1", tags.Tier1,
			"tier2", tags.Tier2,
			"tier3", tags.Tier3,
			"tier4", tags.Tier4,
		)
	}

	sentiment := uc.analyzeSentiment(ctx, text)
	plan := uc.createActionPlan(ctx, tags, text)

	var drafts []model.Draft
	for i, step := range plan {
		if i >= maxInitialDrafts {
			break
		}
		draft, err := uc.draftEmail(ctx, tags, step.Action, msg.Subject)
		if err != nil {
			logger.Warn("failed to draft email for step, skipping",
				CaseIDKey, msg.ID,
				"action", step.Action,
				"error", err.Error(),
			)
			continue
		}
		drafts = append(drafts, draft)
	}

	c := &model.Case{
		ID:        msg.ID,
		Subject:   msg.Subject,
		Body:      msg.Body,
		Tags:      tags,
		IssueArea: issueArea,
		Sentiment: sentiment,
		Actions:   model.ActionLabels(plan),
		Plan:      plan,
		Drafts:    drafts,
	}

	saved, err := uc.repo.Case().Put(ctx, c)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save case", goerr.V(CaseIDKey, msg.ID))
	}

	return saved, nil
}

// TriageResult is the outcome of one message in a batch
type TriageResult struct {
	Message model.Message
	Case    *model.Case
	Err     error
}

// ProcessBatch runs the pipeline for each message concurrently. Results
// keep the input order; one failed case never aborts its siblings.
func (uc *TriageUseCase) ProcessBatch(ctx context.Context, msgs []model.Message) []TriageResult {
	results := make([]TriageResult, len(msgs))

	var g errgroup.Group
	g.SetLimit(batchConcurrency)
	for i := range msgs {
		g.Go(func() error {
			c, err := uc.ProcessCase(ctx, &msgs[i])
			results[i] = TriageResult{Message: msgs[i], Case: c, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// GetCase fetches one case by id
func (uc *TriageUseCase) GetCase(ctx context.Context, id string) (*model.Case, error) {
	c, err := uc.repo.Case().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrCaseNotFound, "case not found", goerr.V(CaseIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get case", goerr.V(CaseIDKey, id))
	}
	return c, nil
}

// ListCases returns all stored cases, newest first
func (uc *TriageUseCase) ListCases(ctx context.Context) ([]*model.Case, error) {
	cases, err := uc.repo.Case().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list cases")
	}
	return cases, nil
}

type classifyPromptData struct {
	TaxonomyPaths string
	Message       string
}

func (uc *TriageUseCase) classify(ctx context.Context, text string) (model.CaseTags, error) {
	var buf bytes.Buffer
	data := classifyPromptData{
		TaxonomyPaths: uc.taxonomy.PromptList(),
		Message:       text,
	}
	if err := classifyPrompt.Execute(&buf, data); err != nil {
		return model.CaseTags{}, goerr.Wrap(err, "failed to build classification prompt")
	}

	raw, err := generate(ctx, uc.llm, buf.String(), gollem.WithSessionContentType(gollem.ContentTypeJSON))
	if err != nil {
		return model.CaseTags{}, err
	}

	var tags model.CaseTags
	if err := decodeJSONResponse(raw, &tags); err != nil {
		return model.CaseTags{}, err
	}

	return tags, nil
}

type sentimentPromptData struct {
	Message string
}

// analyzeSentiment never fails: generation errors and off-format responses
// both resolve to neutral.
func (uc *TriageUseCase) analyzeSentiment(ctx context.Context, text string) types.Sentiment {
	var buf bytes.Buffer
	if err := sentimentPrompt.Execute(&buf, sentimentPromptData{Message: text}); err != nil {
		logging.From(ctx).Warn("failed to build sentiment prompt", "error", err.Error())
		return types.SentimentNeutral
	}

	raw, err := generate(ctx, uc.llm, buf.String())
	if err != nil {
		logging.From(ctx).Warn("sentiment generation failed, defaulting to neutral", "error", err.Error())
		return types.SentimentNeutral
	}

	return types.ParseSentiment(raw)
}

type planPromptData struct {
	Tier1   string
	Tier2   string
	Tier3   string
	Tier4   string
	Message string
}

// createActionPlan asks for a 3-5 step plan and substitutes the fixed
// two-step default when the response cannot be used. The sequencing
// contract is enforced regardless of what the model returned: exactly the
// first step is pending, all others waiting.
func (uc *TriageUseCase) createActionPlan(ctx context.Context, tags model.CaseTags, text string) []model.PlanStep {
	logger := logging.From(ctx)

	var buf bytes.Buffer
	data := planPromptData{
		Tier1:   tags.Tier1,
		Tier2:   tags.Tier2,
		Tier3:   tags.Tier3,
		Tier4:   tags.Tier4,
		Message: text,
	}
	if err := planPrompt.Execute(&buf, data); err != nil {
		logger.Warn("failed to build plan prompt, using default plan", "error", err.Error())
		return model.DefaultPlan()
	}

	raw, err := generate(ctx, uc.llm, buf.String(), gollem.WithSessionContentType(gollem.ContentTypeJSON))
	if err != nil {
		logger.Warn("plan generation failed, using default plan", "error", err.Error())
		return model.DefaultPlan()
	}

	var parsed struct {
		Steps []model.PlanStep `json:"steps"`
	}
	if err := decodeJSONResponse(raw, &parsed); err != nil || len(parsed.Steps) == 0 {
		logger.Warn("plan response unusable, using default plan", "response", raw)
		return model.DefaultPlan()
	}

	for i := range parsed.Steps {
		if i == 0 {
			parsed.Steps[i].Status = types.StepStatusPending
		} else {
			parsed.Steps[i].Status = types.StepStatusWaiting
		}
		if parsed.Steps[i].DaysFromNow < 0 {
			parsed.Steps[i].DaysFromNow = 0
		}
	}

	return parsed.Steps
}

type draftPromptData struct {
	Subagency string
	Program   string
	Problem   string
}

// draftEmail drafts the outbound email for one plan step. The prompt
// branches on the normalized action label: a document request goes to the
// constituent, everything else is a formal status inquiry to the agency.
func (uc *TriageUseCase) draftEmail(ctx context.Context, tags model.CaseTags, action, originalSubject string) (model.Draft, error) {
	normalized := model.NormalizeAction(action)

	var buf bytes.Buffer
	data := draftPromptData{
		Subagency: tags.Tier2,
		Program:   tags.Tier3,
		Problem:   tags.Tier4,
	}

	tmpl := draftAgencyPrompt
	if normalized == requestDocsAction {
		tmpl = draftConstituentPrompt
	}
	if err := tmpl.Execute(&buf, data); err != nil {
		return model.Draft{}, goerr.Wrap(err, "failed to build draft prompt")
	}

	body, err := generate(ctx, uc.llm, buf.String())
	if err != nil {
		return model.Draft{}, err
	}

	return model.NewDraft(normalized, "", "Re: "+originalSubject, body), nil
}
