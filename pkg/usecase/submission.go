package usecase

import (
	"context"

	"github.com/eventworks/taskflow/pkg/domain/interfaces"
	"github.com/eventworks/taskflow/pkg/domain/model"
	"github.com/eventworks/taskflow/pkg/domain/types"
	"github.com/eventworks/taskflow/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// SubmissionUseCase drives the submission workflow: it versions answers
// to tasks, keeps the single-active-submission invariant, advances task
// status, and triggers downstream fulfillment.
type SubmissionUseCase struct {
	repo      interfaces.Repository
	fulfiller interfaces.Fulfiller
}

func NewSubmissionUseCase(repo interfaces.Repository, fulfiller interfaces.Fulfiller) *SubmissionUseCase {
	return &SubmissionUseCase{
		repo:      repo,
		fulfiller: fulfiller,
	}
}

// UpsertSubmissionInput is the payload of an upsert call
type UpsertSubmissionInput struct {
	TaskID  types.TaskID
	Content model.Content
	IsDraft bool
}

// UpsertResult is the task/submission pair produced by an upsert.
// Submission is nil for reminder tasks, which capture no content.
type UpsertResult struct {
	Task       *model.Task
	Submission *model.Submission
}

// UpsertSubmission records a new version of the actor's answer to a task.
// Every call creates a new version; the operation is deliberately not
// idempotent. A fulfillment failure leaves the already persisted
// submission and task mutations in place.
func (uc *SubmissionUseCase) UpsertSubmission(ctx context.Context, actor model.Actor, input UpsertSubmissionInput) (*UpsertResult, error) {
	task, err := uc.repo.Task().Get(ctx, input.TaskID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get task", goerr.V(TaskIDKey, input.TaskID))
	}
	if task == nil {
		return nil, goerr.Wrap(ErrTaskNotFound, "task not found", goerr.V(TaskIDKey, input.TaskID))
	}

	def, err := uc.repo.TaskDefinition().Get(ctx, task.TaskDefinitionID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get task definition", goerr.V(TaskIDKey, task.ID))
	}
	if def == nil {
		return nil, goerr.Wrap(ErrTaskDefinitionNotFound, "task definition not found",
			goerr.V(TaskIDKey, task.ID), goerr.V("task_definition_id", task.TaskDefinitionID))
	}

	if actor.EventID != task.EventID {
		return nil, goerr.Wrap(ErrEventMismatch, "task has a different event id assigned",
			goerr.V(TaskIDKey, task.ID),
			goerr.V(EventIDKey, task.EventID),
			goerr.V(ActorEventIDKey, actor.EventID))
	}

	// A reminder task is satisfied by acknowledgment alone. Repeated
	// acknowledgment of an already done reminder is a no-op re-update.
	if task.Type == types.TaskTypeReminder {
		task.Status = types.TaskStatusDone
		updated, err := uc.repo.Task().Update(ctx, task)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to update reminder task", goerr.V(TaskIDKey, task.ID))
		}
		return &UpsertResult{Task: updated}, nil
	}

	if err := input.Content.ValidateFor(task.Type); err != nil {
		return nil, goerr.Wrap(err, "content rejected for task",
			goerr.V(TaskIDKey, task.ID), goerr.V("task_type", task.Type))
	}

	sub := &model.Submission{
		ID:            types.NewSubmissionID(),
		TaskID:        task.ID,
		EventID:       actor.EventID,
		OwnerPersonID: actor.Person.ID,
		Active:        true,
		Content:       input.Content,
	}

	// Version assignment and deactivation of prior submissions happen in
	// one unit scoped to the task, so concurrent upserts cannot produce
	// duplicated versions or two active submissions.
	created, err := uc.repo.Submission().CreateVersion(ctx, sub)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create submission version", goerr.V(TaskIDKey, task.ID))
	}

	task.Draft = input.IsDraft
	if input.IsDraft {
		task.Status = types.TaskStatusInProgress
	} else if !def.NeedsApproval {
		task.Status = types.TaskStatusDone
	}

	updated, err := uc.repo.Task().Update(ctx, task)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update task", goerr.V(TaskIDKey, task.ID))
	}

	if !input.IsDraft && uc.fulfiller != nil {
		req := &model.FulfillmentRequest{
			Actor:      actor,
			Task:       updated,
			Definition: def,
			Submission: created,
		}
		if err := uc.fulfiller.Execute(ctx, req); err != nil {
			// No compensation: the submission and task mutations stay.
			logging.From(ctx).Warn("fulfillment failed after submission was recorded",
				"task_id", task.ID, "submission_id", created.ID, "error", err.Error())
			return nil, goerr.Wrap(ErrFulfillmentFailed, "fulfillment failed",
				goerr.V(TaskIDKey, task.ID),
				goerr.V(SubmissionIDKey, created.ID),
				goerr.V("cause", err.Error()))
		}
	}

	return &UpsertResult{Task: updated, Submission: created}, nil
}

// GetSubmission retrieves one submission, enforcing tenancy
func (uc *SubmissionUseCase) GetSubmission(ctx context.Context, actor model.Actor, id types.SubmissionID) (*model.Submission, error) {
	sub, err := uc.repo.Submission().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get submission", goerr.V(SubmissionIDKey, id))
	}
	if sub == nil || sub.EventID != actor.EventID {
		return nil, goerr.Wrap(ErrSubmissionNotFound, "submission not found", goerr.V(SubmissionIDKey, id))
	}
	return sub, nil
}

// ListSubmissions retrieves all versions recorded for a task, newest first
func (uc *SubmissionUseCase) ListSubmissions(ctx context.Context, actor model.Actor, taskID types.TaskID) ([]*model.Submission, error) {
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

	subs, err := uc.repo.Submission().ListByTask(ctx, taskID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list submissions", goerr.V(TaskIDKey, taskID))
	}
	return subs, nil
}
