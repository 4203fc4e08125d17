package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/eventworks/taskflow/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

// Firestore is the document-store repository backend
type Firestore struct {
	client  *firestore.Client
	task    *taskRepository
	taskDef *taskDefinitionRepository
	sub     *submissionRepository
	comment *commentRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix namespaces all collections, mainly for tests
// sharing a project
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.task.collectionPrefix = prefix
		f.taskDef.collectionPrefix = prefix
		f.sub.collectionPrefix = prefix
		f.comment.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:  client,
		task:    newTaskRepository(client),
		taskDef: newTaskDefinitionRepository(client),
		sub:     newSubmissionRepository(client),
		comment: newCommentRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Task() interfaces.TaskRepository {
	return f.task
}

func (f *Firestore) TaskDefinition() interfaces.TaskDefinitionRepository {
	return f.taskDef
}

func (f *Firestore) Submission() interfaces.SubmissionRepository {
	return f.sub
}

func (f *Firestore) Comment() interfaces.CommentRepository {
	return f.comment
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
