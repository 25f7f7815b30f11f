package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/legisdesk/casetriage/pkg/domain/interfaces"
	"github.com/legisdesk/casetriage/pkg/domain/model"
)

type caseRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newCaseRepository(client *firestore.Client) *caseRepository {
	return &caseRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *caseRepository) casesCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_cases"
	}
	return "cases"
}

func (r *caseRepository) GetByContent(ctx context.Context, id, subject, body string) (*model.Case, error) {
	c, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if c.Subject != subject || c.Body != body {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "no case with matching content", goerr.V("id", id))
	}

	return c, nil
}

func (r *caseRepository) Put(ctx context.Context, c *model.Case) (*model.Case, error) {
	docRef := r.client.Collection(r.casesCollection()).Doc(c.ID)

	put := c.Clone()
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		switch {
		case err == nil:
			// Id-keyed overwrite keeps the original insert time
			var existing model.Case
			if err := doc.DataTo(&existing); err != nil {
				return goerr.Wrap(err, "failed to decode existing case", goerr.V("id", c.ID))
			}
			put.CreatedAt = existing.CreatedAt
		case status.Code(err) == codes.NotFound:
			if put.CreatedAt.IsZero() {
				put.CreatedAt = time.Now().UTC()
			}
		default:
			return goerr.Wrap(err, "failed to check case existence", goerr.V("id", c.ID))
		}

		return tx.Set(docRef, put)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to put case", goerr.V("id", c.ID))
	}

	return put, nil
}

func (r *caseRepository) Get(ctx context.Context, id string) (*model.Case, error) {
	docSnap, err := r.client.Collection(r.casesCollection()).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "case not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get case", goerr.V("id", id))
	}

	var c model.Case
	if err := docSnap.DataTo(&c); err != nil {
		return nil, goerr.Wrap(err, "failed to decode case", goerr.V("id", id))
	}

	return &c, nil
}

func (r *caseRepository) List(ctx context.Context) ([]*model.Case, error) {
	iter := r.client.Collection(r.casesCollection()).
		OrderBy("created_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var cases []*model.Case
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate cases")
		}

		var c model.Case
		if err := docSnap.DataTo(&c); err != nil {
			return nil, goerr.Wrap(err, "failed to decode case", goerr.V("doc_id", docSnap.Ref.ID))
		}

		cases = append(cases, &c)
	}

	return cases, nil
}

func (r *caseRepository) UpdateProgress(ctx context.Context, id string, plan []model.PlanStep, drafts []model.Draft) (*model.Case, error) {
	docRef := r.client.Collection(r.casesCollection()).Doc(id)

	var updated model.Case
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(interfaces.ErrNotFound, "case not found", goerr.V("id", id))
			}
			return goerr.Wrap(err, "failed to get case", goerr.V("id", id))
		}

		if err := doc.DataTo(&updated); err != nil {
			return goerr.Wrap(err, "failed to decode case", goerr.V("id", id))
		}

		updated.Plan = plan
		updated.Drafts = drafts
		updated.Actions = model.ActionLabels(plan)

		return tx.Set(docRef, &updated)
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}
