// Package usecase implements the casework pipeline: classification,
// sentiment, action planning, drafting, step advancement and stage
// correspondence.
package usecase

import (
	"github.com/m-mizutani/gollem"

	"github.com/legisdesk/casetriage/pkg/domain/interfaces"
	"github.com/legisdesk/casetriage/pkg/service/taxonomy"
)

// UseCases bundles all application use cases
type UseCases struct {
	Triage  *TriageUseCase
	Advance *AdvanceUseCase
	Stage   *StageUseCase
}

// New creates the full use case set over one repository, taxonomy and LLM
// client.
func New(repo interfaces.Repository, tax *taxonomy.Taxonomy, llm gollem.LLMClient) *UseCases {
	return &UseCases{
		Triage:  NewTriageUseCase(repo, tax, llm),
		Advance: NewAdvanceUseCase(repo, llm),
		Stage:   NewStageUseCase(llm),
	}
}
