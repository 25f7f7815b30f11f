package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"text/template"

	"github.com/m-mizutani/gollem"

	"github.com/legisdesk/casetriage/pkg/domain/model"
	"github.com/legisdesk/casetriage/pkg/domain/types"
	"github.com/legisdesk/casetriage/pkg/utils/logging"
)

//go:embed prompt/stage_letter.md
var stageLetterPromptTmpl string

var stageLetterPrompt = template.Must(template.New("stage_letter").Parse(stageLetterPromptTmpl))

// stageLetters maps each stage to the letter kinds appropriate for it
var stageLetters = map[int][]types.LetterKind{
	1: {types.LetterAcknowledgment},
	2: {types.LetterAgencyInquiry, types.LetterFollowup},
	3: {types.LetterFollowup, types.LetterEscalation},
	4: {types.LetterEscalation, types.LetterAgencyInquiry},
	5: {types.LetterResolution, types.LetterFollowup},
}

var letterInstructions = map[types.LetterKind]string{
	types.LetterAcknowledgment: "Write a brief acknowledgment letter to the constituent confirming receipt of their case request.",
	types.LetterAgencyInquiry:  "Write a formal inquiry letter to the relevant government agency requesting status update or action on this case.",
	types.LetterFollowup:       "Write a follow-up letter to the constituent providing an update on their case status.",
	types.LetterEscalation:     "Write an escalation letter to a senior agency official requesting expedited review of this case.",
	types.LetterResolution:     "Write a resolution letter informing the constituent their case has been resolved.",
}

// StageUseCase generates stage-appropriate correspondence on demand
type StageUseCase struct {
	llm gollem.LLMClient
}

// NewStageUseCase creates a new StageUseCase
func NewStageUseCase(llm gollem.LLMClient) *StageUseCase {
	return &StageUseCase{llm: llm}
}

// GenerateStageDrafts produces the letter set for the case's current stage.
// The stage is completed steps plus one, capped at the final stage. A
// letter that fails to generate is logged and omitted; the rest of the set
// still comes back. Nothing is persisted.
func (uc *StageUseCase) GenerateStageDrafts(ctx context.Context, c *model.Case) *model.StageDrafts {
	logger := logging.From(ctx)

	stage := c.Stage()
	kinds, ok := stageLetters[stage]
	if !ok {
		kinds = []types.LetterKind{types.LetterFollowup}
	}

	drafts := make([]model.StageLetter, 0, len(kinds))
	for _, kind := range kinds {
		content, err := uc.generateLetter(ctx, c, kind, stage)
		if err != nil {
			logger.Warn("failed to generate stage letter, omitting",
				CaseIDKey, c.ID,
				"kind", kind.String(),
				"stage", stage,
				"error", err.Error(),
			)
			continue
		}
		drafts = append(drafts, model.StageLetter{
			Type:      kind.String(),
			Recipient: kind.Recipient(),
			Content:   content,
		})
	}

	return &model.StageDrafts{
		Drafts:       drafts,
		CurrentStage: stage,
	}
}

type stageLetterPromptData struct {
	Instruction string
	CaseID      string
	IssueArea   types.IssueArea
	Agency      string
	Problem     string
	Stage       int
	PlanLength  int
}

func (uc *StageUseCase) generateLetter(ctx context.Context, c *model.Case, kind types.LetterKind, stage int) (string, error) {
	agency := c.Tags.Tier1
	if agency == "" {
		agency = "Relevant agency"
	}

	var buf bytes.Buffer
	data := stageLetterPromptData{
		Instruction: letterInstructions[kind],
		CaseID:      c.ID,
		IssueArea:   c.IssueArea,
		Agency:      agency,
		Problem:     c.Tags.Tier4,
		Stage:       stage,
		PlanLength:  len(c.Plan),
	}
	if err := stageLetterPrompt.Execute(&buf, data); err != nil {
		return "", err
	}

	return generate(ctx, uc.llm, buf.String())
}
