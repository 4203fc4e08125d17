package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/eventworks/taskflow/pkg/domain/model"
	"github.com/eventworks/taskflow/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type submissionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newSubmissionRepository(client *firestore.Client) *submissionRepository {
	return &submissionRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *submissionRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_submissions"
	}
	return "submissions"
}

func (r *submissionRepository) Get(ctx context.Context, id types.SubmissionID) (*model.Submission, error) {
	docSnap, err := r.client.Collection(r.collection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get submission", goerr.V("id", id))
	}

	var s model.Submission
	if err := docSnap.DataTo(&s); err != nil {
		return nil, goerr.Wrap(err, "failed to decode submission", goerr.V("id", id))
	}

	return &s, nil
}

func (r *submissionRepository) GetLatest(ctx context.Context, taskID types.TaskID) (*model.Submission, error) {
	iter := r.client.Collection(r.collection()).
		Where("TaskID", "==", taskID.String()).
		OrderBy("Version", firestore.Desc).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	docSnap, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query latest submission", goerr.V("task_id", taskID))
	}

	var s model.Submission
	if err := docSnap.DataTo(&s); err != nil {
		return nil, goerr.Wrap(err, "failed to decode submission", goerr.V("doc_id", docSnap.Ref.ID))
	}

	return &s, nil
}

func (r *submissionRepository) ListByTask(ctx context.Context, taskID types.TaskID) ([]*model.Submission, error) {
	iter := r.client.Collection(r.collection()).
		Where("TaskID", "==", taskID.String()).
		OrderBy("Version", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	return collectSubmissions(iter, taskID)
}

func (r *submissionRepository) ListActiveByTask(ctx context.Context, taskID types.TaskID) ([]*model.Submission, error) {
	iter := r.client.Collection(r.collection()).
		Where("TaskID", "==", taskID.String()).
		Where("Active", "==", true).
		Documents(ctx)
	defer iter.Stop()

	return collectSubmissions(iter, taskID)
}

func collectSubmissions(iter *firestore.DocumentIterator, taskID types.TaskID) ([]*model.Submission, error) {
	subs := make([]*model.Submission, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate submissions", goerr.V("task_id", taskID))
		}

		var s model.Submission
		if err := docSnap.DataTo(&s); err != nil {
			return nil, goerr.Wrap(err, "failed to decode submission", goerr.V("doc_id", docSnap.Ref.ID))
		}

		subs = append(subs, &s)
	}

	return subs, nil
}

func (r *submissionRepository) Create(ctx context.Context, sub *model.Submission) (*model.Submission, error) {
	now := time.Now().UTC()
	created := *sub
	if created.ID == "" {
		created.ID = types.NewSubmissionID()
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	if _, err := r.client.Collection(r.collection()).Doc(created.ID.String()).Set(ctx, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to create submission", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *submissionRepository) Update(ctx context.Context, sub *model.Submission) (*model.Submission, error) {
	docRef := r.client.Collection(r.collection()).Doc(sub.ID.String())

	// Check if document exists
	_, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "submission not found", goerr.V("id", sub.ID))
		}
		return nil, goerr.Wrap(err, "failed to check submission existence", goerr.V("id", sub.ID))
	}

	updated := *sub
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, &updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update submission", goerr.V("id", sub.ID))
	}

	return &updated, nil
}

// CreateVersion runs the whole unit of version assignment, deactivation
// of the prior active set, and creation of the new submission inside a
// single Firestore transaction. Contending transactions on the same
// task retry, so the single-active and monotonic-version invariants
// hold under concurrent upserts.
func (r *submissionRepository) CreateVersion(ctx context.Context, sub *model.Submission) (*model.Submission, error) {
	created := *sub
	if created.ID == "" {
		created.ID = types.NewSubmissionID()
	}

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		latestIter := tx.Documents(r.client.Collection(r.collection()).
			Where("TaskID", "==", created.TaskID.String()).
			OrderBy("Version", firestore.Desc).
			Limit(1))
		defer latestIter.Stop()

		version := int64(1)
		latestSnap, err := latestIter.Next()
		if err != nil && err != iterator.Done {
			return goerr.Wrap(err, "failed to query latest submission", goerr.V("task_id", created.TaskID))
		}
		if err == nil {
			var latest model.Submission
			if err := latestSnap.DataTo(&latest); err != nil {
				return goerr.Wrap(err, "failed to decode submission", goerr.V("doc_id", latestSnap.Ref.ID))
			}
			version = int64(latest.Version) + 1
		}

		activeIter := tx.Documents(r.client.Collection(r.collection()).
			Where("TaskID", "==", created.TaskID.String()).
			Where("Active", "==", true))
		defer activeIter.Stop()

		var activeRefs []*firestore.DocumentRef
		for {
			docSnap, err := activeIter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return goerr.Wrap(err, "failed to iterate active submissions", goerr.V("task_id", created.TaskID))
			}
			activeRefs = append(activeRefs, docSnap.Ref)
		}

		now := time.Now().UTC()
		for _, ref := range activeRefs {
			if err := tx.Update(ref, []firestore.Update{
				{Path: "Active", Value: false},
				{Path: "UpdatedAt", Value: now},
			}); err != nil {
				return goerr.Wrap(err, "failed to deactivate submission", goerr.V("doc_id", ref.ID))
			}
		}

		created.Version = int(version)
		created.Active = true
		created.CreatedAt = now
		created.UpdatedAt = now

		docRef := r.client.Collection(r.collection()).Doc(created.ID.String())
		if err := tx.Set(docRef, &created); err != nil {
			return goerr.Wrap(err, "failed to create submission", goerr.V("id", created.ID))
		}

		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create submission version", goerr.V("task_id", created.TaskID))
	}

	return &created, nil
}
