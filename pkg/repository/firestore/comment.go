package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/eventworks/taskflow/pkg/domain/model"
	"github.com/eventworks/taskflow/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

type commentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newCommentRepository(client *firestore.Client) *commentRepository {
	return &commentRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *commentRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_comments"
	}
	return "comments"
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	created := *comment
	if created.ID == "" {
		created.ID = types.NewCommentID()
	}
	created.CreatedAt = time.Now().UTC()

	if _, err := r.client.Collection(r.collection()).Doc(created.ID.String()).Set(ctx, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to create comment", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *commentRepository) ListByTarget(ctx context.Context, targetType types.TargetType, targetID types.TaskID) ([]*model.Comment, error) {
	iter := r.client.Collection(r.collection()).
		Where("TargetType", "==", targetType.String()).
		Where("TargetID", "==", targetID.String()).
		OrderBy("CreatedAt", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	comments := make([]*model.Comment, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate comments", goerr.V("target_id", targetID))
		}

		var c model.Comment
		if err := docSnap.DataTo(&c); err != nil {
			return nil, goerr.Wrap(err, "failed to decode comment", goerr.V("doc_id", docSnap.Ref.ID))
		}

		comments = append(comments, &c)
	}

	return comments, nil
}
