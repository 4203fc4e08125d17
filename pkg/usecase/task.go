package usecase

import (
	"context"

	"github.com/eventworks/taskflow/pkg/domain/interfaces"
	"github.com/eventworks/taskflow/pkg/domain/model"
	"github.com/eventworks/taskflow/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// TaskUseCase is the read surface over tasks
type TaskUseCase struct {
	repo interfaces.Repository
}

func NewTaskUseCase(repo interfaces.Repository) *TaskUseCase {
	return &TaskUseCase{
		repo: repo,
	}
}

// GetTask retrieves one task, enforcing tenancy
func (uc *TaskUseCase) GetTask(ctx context.Context, actor model.Actor, id types.TaskID) (*model.Task, error) {
	task, err := uc.repo.Task().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get task", goerr.V(TaskIDKey, id))
	}
	if task == nil {
		return nil, goerr.Wrap(ErrTaskNotFound, "task not found", goerr.V(TaskIDKey, id))
	}
	if actor.EventID != task.EventID {
		return nil, goerr.Wrap(ErrEventMismatch, "task has a different event id assigned",
			goerr.V(TaskIDKey, id),
			goerr.V(EventIDKey, task.EventID),
			goerr.V(ActorEventIDKey, actor.EventID))
	}
	return task, nil
}

// ListTasks retrieves all tasks of the actor's event
func (uc *TaskUseCase) ListTasks(ctx context.Context, actor model.Actor) ([]*model.Task, error) {
	tasks, err := uc.repo.Task().ListByEvent(ctx, actor.EventID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list tasks", goerr.V(EventIDKey, actor.EventID))
	}
	return tasks, nil
}
