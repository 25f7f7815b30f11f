package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/legisdesk/casetriage/pkg/domain/interfaces"
	"github.com/legisdesk/casetriage/pkg/domain/model"
)

type storedCase struct {
	c   *model.Case
	seq int64
}

type caseRepository struct {
	mu      sync.RWMutex
	cases   map[string]*storedCase
	nextSeq int64
}

func newCaseRepository() *caseRepository {
	return &caseRepository{
		cases: make(map[string]*storedCase),
	}
}

func (r *caseRepository) GetByContent(ctx context.Context, id, subject, body string) (*model.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, exists := r.cases[id]
	if !exists || stored.c.Subject != subject || stored.c.Body != body {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "no case with matching content", goerr.V("id", id))
	}

	return stored.c.Clone(), nil
}

func (r *caseRepository) Put(ctx context.Context, c *model.Case) (*model.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	put := c.Clone()
	if existing, exists := r.cases[c.ID]; exists {
		// Id-keyed overwrite: content is replaced but the original insert
		// time is kept.
		put.CreatedAt = existing.c.CreatedAt
	} else if put.CreatedAt.IsZero() {
		put.CreatedAt = time.Now().UTC()
	}

	r.nextSeq++
	r.cases[c.ID] = &storedCase{c: put, seq: r.nextSeq}

	return put.Clone(), nil
}

func (r *caseRepository) Get(ctx context.Context, id string) (*model.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, exists := r.cases[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "case not found", goerr.V("id", id))
	}

	return stored.c.Clone(), nil
}

func (r *caseRepository) List(ctx context.Context) ([]*model.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := make([]*storedCase, 0, len(r.cases))
	for _, s := range r.cases {
		stored = append(stored, s)
	}

	// Newest first; insertion sequence breaks CreatedAt ties
	sort.Slice(stored, func(i, j int) bool {
		if stored[i].c.CreatedAt.Equal(stored[j].c.CreatedAt) {
			return stored[i].seq > stored[j].seq
		}
		return stored[i].c.CreatedAt.After(stored[j].c.CreatedAt)
	})

	cases := make([]*model.Case, len(stored))
	for i, s := range stored {
		cases[i] = s.c.Clone()
	}

	return cases, nil
}

func (r *caseRepository) UpdateProgress(ctx context.Context, id string, plan []model.PlanStep, drafts []model.Draft) (*model.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.cases[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "case not found", goerr.V("id", id))
	}

	updated := stored.c.Clone()
	updated.Plan = make([]model.PlanStep, len(plan))
	copy(updated.Plan, plan)
	updated.Drafts = make([]model.Draft, len(drafts))
	copy(updated.Drafts, drafts)
	updated.Actions = model.ActionLabels(updated.Plan)

	stored.c = updated

	return updated.Clone(), nil
}
