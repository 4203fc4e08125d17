package usecase

import (
	"context"
	"strings"

	"github.com/eventworks/taskflow/pkg/domain/interfaces"
	"github.com/eventworks/taskflow/pkg/domain/model"
	"github.com/eventworks/taskflow/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// CommentUseCase appends audit-trail comments to tasks. It never
// mutates task state.
type CommentUseCase struct {
	repo interfaces.Repository
}

func NewCommentUseCase(repo interfaces.Repository) *CommentUseCase {
	return &CommentUseCase{
		repo: repo,
	}
}

// AddComment records a comment against a task. The author is captured
// as a value snapshot so later person edits do not change it, and the
// comment is marked when the task was in draft state at write time.
func (uc *CommentUseCase) AddComment(ctx context.Context, actor model.Actor, taskID types.TaskID, body string) (*model.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, goerr.Wrap(ErrEmptyComment, "comment text is required", goerr.V(TaskIDKey, taskID))
	}

	task, err := uc.repo.Task().Get(ctx, taskID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get task", goerr.V(TaskIDKey, taskID))
	}
	if task == nil {
		return nil, goerr.Wrap(ErrTaskNotFound, "task not found", goerr.V(TaskIDKey, taskID))
	}

	if actor.EventID != task.EventID {
		return nil, goerr.Wrap(ErrEventMismatch, "task has a different event id assigned",
			goerr.V(TaskIDKey, taskID),
			goerr.V(EventIDKey, task.EventID),
			goerr.V(ActorEventIDKey, actor.EventID))
	}

	action := types.CommentActionNone
	if task.Draft {
		action = types.CommentActionDraft
	}

	comment := &model.Comment{
		ID:         types.NewCommentID(),
		TargetID:   task.ID,
		TargetType: types.TargetTypeTask,
		Type:       types.CommentTypeSponsor,
		Action:     action,
		EventID:    actor.EventID,
		Owner:      model.SnapshotOwner(actor.Person),
		Body:       body,
	}

	created, err := uc.repo.Comment().Create(ctx, comment)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create comment", goerr.V(TaskIDKey, taskID))
	}

	return created, nil
}

// ListComments retrieves all comments attached to a task, oldest first
func (uc *CommentUseCase) ListComments(ctx context.Context, actor model.Actor, taskID types.TaskID) ([]*model.Comment, error) {
	task, err := uc.repo.Task().Get(ctx, taskID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get task", goerr.V(TaskIDKey, taskID))
	}
	if task == nil {
		return nil, goerr.Wrap(ErrTaskNotFound, "task not found", goerr.V(TaskIDKey, taskID))
	}
	if actor.EventID != task.EventID {
		return nil, goerr.Wrap(ErrEventMismatch, "task has a different event id assigned",
			goerr.V(TaskIDKey, taskID),
			goerr.V(EventIDKey, task.EventID),
			goerr.V(ActorEventIDKey, actor.EventID))
	}

	comments, err := uc.repo.Comment().ListByTarget(ctx, types.TargetTypeTask, taskID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list comments", goerr.V(TaskIDKey, taskID))
	}
	return comments, nil
}
