package interfaces

import (
	"context"

	"github.com/legisdesk/casetriage/pkg/domain/model"
)

// CaseRepository persists triaged cases, one row per case id.
//
// GetByContent is the cache lookup: it matches only when id, subject and
// body are all identical to the stored row. Put is an id-keyed upsert; a
// retry with different content for the same id overwrites the prior row.
// UpdateProgress replaces plan and drafts for one id as a single write;
// implementations must not interleave two concurrent updates for the same
// id (last writer wins, never a partial record).
type CaseRepository interface {
	GetByContent(ctx context.Context, id, subject, body string) (*model.Case, error)
	Put(ctx context.Context, c *model.Case) (*model.Case, error)
	Get(ctx context.Context, id string) (*model.Case, error)
	List(ctx context.Context) ([]*model.Case, error)
	UpdateProgress(ctx context.Context, id string, plan []model.PlanStep, drafts []model.Draft) (*model.Case, error)
}
