package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/eventworks/taskflow/pkg/domain/model"
	"github.com/eventworks/taskflow/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type taskDefinitionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newTaskDefinitionRepository(client *firestore.Client) *taskDefinitionRepository {
	return &taskDefinitionRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *taskDefinitionRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_task_definitions"
	}
	return "task_definitions"
}

func (r *taskDefinitionRepository) Put(ctx context.Context, def *model.TaskDefinition) (*model.TaskDefinition, error) {
	now := time.Now().UTC()
	stored := *def
	stored.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(def.ID.String())
	snap, err := docRef.Get(ctx)
	switch {
	case err == nil:
		var existing model.TaskDefinition
		if decodeErr := snap.DataTo(&existing); decodeErr == nil {
			stored.CreatedAt = existing.CreatedAt
		} else {
			stored.CreatedAt = now
		}
	case status.Code(err) == codes.NotFound:
		stored.CreatedAt = now
	default:
		return nil, goerr.Wrap(err, "failed to check task definition existence", goerr.V("id", def.ID))
	}

	if _, err := docRef.Set(ctx, &stored); err != nil {
		return nil, goerr.Wrap(err, "failed to put task definition", goerr.V("id", def.ID))
	}

	return &stored, nil
}

func (r *taskDefinitionRepository) Get(ctx context.Context, id types.TaskDefinitionID) (*model.TaskDefinition, error) {
	docSnap, err := r.client.Collection(r.collection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get task definition", goerr.V("id", id))
	}

	var d model.TaskDefinition
	if err := docSnap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to decode task definition", goerr.V("id", id))
	}

	return &d, nil
}
