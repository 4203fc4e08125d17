package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/eventworks/taskflow/pkg/domain/interfaces"
	"github.com/eventworks/taskflow/pkg/domain/model"
	"github.com/eventworks/taskflow/pkg/domain/types"
)

func newComment(taskID, body string, action types.CommentAction) *model.Comment {
	return &model.Comment{
		ID:         types.NewCommentID(),
		TargetID:   types.TaskID(taskID),
		TargetType: types.TargetTypeTask,
		Type:       types.CommentTypeSponsor,
		Action:     action,
		EventID:    types.EventID("ev-1"),
		Owner: model.CommentOwner{
			PersonID:  types.PersonID("p-1"),
			FirstName: "Ada",
			LastName:  "Lovelace",
			RefID:     types.PersonID("p-1"),
		},
		Body: body,
	}
}

func runCommentRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create persists comment with owner snapshot", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Comment().Create(ctx, newComment("task-1", "please review", types.CommentActionNone))
		gt.NoError(t, err).Required()
		gt.Bool(t, created.CreatedAt.IsZero()).False()

		comments, err := repo.Comment().ListByTarget(ctx, types.TargetTypeTask, types.TaskID("task-1"))
		gt.NoError(t, err).Required()
		gt.Number(t, len(comments)).Equal(1)
		gt.Value(t, comments[0].Body).Equal("please review")
		gt.Value(t, comments[0].Owner.FirstName).Equal("Ada")
		gt.Value(t, comments[0].Owner.RefID).Equal(types.PersonID("p-1"))
	})

	t.Run("ListByTarget returns oldest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, body := range []string{"first", "second", "third"} {
			_, err := repo.Comment().Create(ctx, newComment("task-2", body, types.CommentActionNone))
			gt.NoError(t, err).Required()
			time.Sleep(time.Millisecond)
		}

		comments, err := repo.Comment().ListByTarget(ctx, types.TargetTypeTask, types.TaskID("task-2"))
		gt.NoError(t, err).Required()
		gt.Number(t, len(comments)).Equal(3)
		gt.Value(t, comments[0].Body).Equal("first")
		gt.Value(t, comments[2].Body).Equal("third")
	})

	t.Run("ListByTarget scopes to target", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Comment().Create(ctx, newComment("task-3a", "for a", types.CommentActionNone))
		gt.NoError(t, err).Required()
		_, err = repo.Comment().Create(ctx, newComment("task-3b", "for b", types.CommentActionDraft))
		gt.NoError(t, err).Required()

		comments, err := repo.Comment().ListByTarget(ctx, types.TargetTypeTask, types.TaskID("task-3b"))
		gt.NoError(t, err).Required()
		gt.Number(t, len(comments)).Equal(1)
		gt.Value(t, comments[0].Action).Equal(types.CommentActionDraft)
	})

	t.Run("ListByTarget returns empty slice without comments", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		comments, err := repo.Comment().ListByTarget(ctx, types.TargetTypeTask, types.TaskID("no-comments"))
		gt.NoError(t, err).Required()
		gt.Number(t, len(comments)).Equal(0)
	})
}

func TestCommentRepository_Memory(t *testing.T) {
	runCommentRepositoryTest(t, newMemoryRepo)
}

func TestCommentRepository_Firestore(t *testing.T) {
	runCommentRepositoryTest(t, newFirestoreRepo)
}
