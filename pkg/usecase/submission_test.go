package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/m-mizutani/gt"
	"golang.org/x/sync/errgroup"

	"github.com/eventworks/taskflow/pkg/domain/interfaces"
	"github.com/eventworks/taskflow/pkg/domain/model"
	"github.com/eventworks/taskflow/pkg/domain/types"
	"github.com/eventworks/taskflow/pkg/repository/memory"
	"github.com/eventworks/taskflow/pkg/usecase"
)

var testActor = model.Actor{
	EventID: types.EventID("ev-1"),
	Person: model.Person{
		ID:        types.PersonID("p-1"),
		FirstName: "Ada",
		LastName:  "Lovelace",
	},
}

// recordingFulfiller captures fulfillment requests and optionally fails
type recordingFulfiller struct {
	requests []*model.FulfillmentRequest
	err      error
}

func (f *recordingFulfiller) Execute(ctx context.Context, req *model.FulfillmentRequest) error {
	f.requests = append(f.requests, req)
	return f.err
}

func seedTask(t *testing.T, repo interfaces.Repository, task *model.Task, def *model.TaskDefinition) {
	t.Helper()
	ctx := context.Background()

	if def != nil {
		_, err := repo.TaskDefinition().Put(ctx, def)
		gt.NoError(t, err).Required()
	}
	_, err := repo.Task().Put(ctx, task)
	gt.NoError(t, err).Required()
}

func textTask(id string, needsApproval bool) (*model.Task, *model.TaskDefinition) {
	def := &model.TaskDefinition{
		ID:            types.TaskDefinitionID("def-" + id),
		Name:          "Text task",
		NeedsApproval: needsApproval,
	}
	task := &model.Task{
		ID:               types.TaskID(id),
		EventID:          testActor.EventID,
		TaskDefinitionID: def.ID,
		Type:             types.TaskTypeText,
		Status:           types.TaskStatusTodo,
		AssigneePersonID: testActor.Person.ID,
	}
	return task, def
}

func TestUpsertSubmissionVersioning(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo)
	ctx := context.Background()

	task, def := textTask("task-1", true)
	seedTask(t, repo, task, def)

	first, err := uc.Submission.UpsertSubmission(ctx, testActor, usecase.UpsertSubmissionInput{
		TaskID:  task.ID,
		Content: model.TextContent("first answer"),
		IsDraft: false,
	})
	gt.NoError(t, err).Required()
	gt.Number(t, first.Submission.Version).Equal(1)
	gt.Bool(t, first.Submission.Active).True()
	gt.Value(t, first.Submission.OwnerPersonID).Equal(testActor.Person.ID)

	second, err := uc.Submission.UpsertSubmission(ctx, testActor, usecase.UpsertSubmissionInput{
		TaskID:  task.ID,
		Content: model.TextContent("revised answer"),
		IsDraft: false,
	})
	gt.NoError(t, err).Required()
	gt.Number(t, second.Submission.Version).Equal(2)

	active, err := repo.Submission().ListActiveByTask(ctx, task.ID)
	gt.NoError(t, err).Required()
	gt.Number(t, len(active)).Equal(1)
	gt.Value(t, active[0].ID).Equal(second.Submission.ID)
}

func TestUpsertSubmissionStatusTransitions(t *testing.T) {
	t.Run("draft parks task in progress", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)
		ctx := context.Background()

		// needsApproval is irrelevant for drafts
		task, def := textTask("task-1", false)
		seedTask(t, repo, task, def)

		result, err := uc.Submission.UpsertSubmission(ctx, testActor, usecase.UpsertSubmissionInput{
			TaskID:  task.ID,
			Content: model.TextContent("work in progress"),
			IsDraft: true,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, result.Task.Status).Equal(types.TaskStatusInProgress)
		gt.Bool(t, result.Task.Draft).True()
	})

	t.Run("final submission completes task without approval", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)
		ctx := context.Background()

		task, def := textTask("task-1", false)
		seedTask(t, repo, task, def)

		result, err := uc.Submission.UpsertSubmission(ctx, testActor, usecase.UpsertSubmissionInput{
			TaskID:  task.ID,
			Content: model.TextContent("final"),
			IsDraft: false,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, result.Task.Status).Equal(types.TaskStatusDone)
		gt.Bool(t, result.Task.Draft).False()
	})

	t.Run("final submission leaves status for approval", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)
		ctx := context.Background()

		task, def := textTask("task-1", true)
		seedTask(t, repo, task, def)

		result, err := uc.Submission.UpsertSubmission(ctx, testActor, usecase.UpsertSubmissionInput{
			TaskID:  task.ID,
			Content: model.TextContent("final"),
			IsDraft: false,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, result.Task.Status).Equal(types.TaskStatusTodo)
		gt.Bool(t, result.Task.Draft).False()
	})

	t.Run("draft to final clears draft flag", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)
		ctx := context.Background()

		task, def := textTask("task-1", false)
		seedTask(t, repo, task, def)

		_, err := uc.Submission.UpsertSubmission(ctx, testActor, usecase.UpsertSubmissionInput{
			TaskID:  task.ID,
			Content: model.TextContent("draft"),
			IsDraft: true,
		})
		gt.NoError(t, err).Required()

		result, err := uc.Submission.UpsertSubmission(ctx, testActor, usecase.UpsertSubmissionInput{
			TaskID:  task.ID,
			Content: model.TextContent("final"),
			IsDraft: false,
		})
		gt.NoError(t, err).Required()
		gt.Bool(t, result.Task.Draft).False()
		gt.Value(t, result.Task.Status).Equal(types.TaskStatusDone)
		gt.Number(t, result.Submission.Version).Equal(2)
	})
}

func TestUpsertSubmissionReminder(t *testing.T) {
	repo := memory.New()
	fulfiller := &recordingFulfiller{}
	uc := usecase.New(repo, usecase.WithFulfiller(fulfiller))
	ctx := context.Background()

	def := &model.TaskDefinition{
		ID:   types.TaskDefinitionID("def-reminder"),
		Name: "Confirm attendance",
	}
	task := &model.Task{
		ID:               types.TaskID("task-reminder"),
		EventID:          testActor.EventID,
		TaskDefinitionID: def.ID,
		Type:             types.TaskTypeReminder,
		Status:           types.TaskStatusTodo,
	}
	seedTask(t, repo, task, def)

	result, err := uc.Submission.UpsertSubmission(ctx, testActor, usecase.UpsertSubmissionInput{
		TaskID: task.ID,
	})
	gt.NoError(t, err).Required()
	gt.Value(t, result.Task.Status).Equal(types.TaskStatusDone)
	gt.Value(t, result.Submission).Nil()

	// No submission record and no fulfillment for reminders
	subs, err := repo.Submission().ListByTask(ctx, task.ID)
	gt.NoError(t, err).Required()
	gt.Number(t, len(subs)).Equal(0)
	gt.Number(t, len(fulfiller.requests)).Equal(0)

	// Re-acknowledging an already done reminder is a no-op
	again, err := uc.Submission.UpsertSubmission(ctx, testActor, usecase.UpsertSubmissionInput{
		TaskID: task.ID,
	})
	gt.NoError(t, err).Required()
	gt.Value(t, again.Task.Status).Equal(types.TaskStatusDone)
}

func TestUpsertSubmissionValidation(t *testing.T) {
	t.Run("task not found", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)
		ctx := context.Background()

		_, err := uc.Submission.UpsertSubmission(ctx, testActor, usecase.UpsertSubmissionInput{
			TaskID:  types.TaskID("no-such-task"),
			Content: model.TextContent("x"),
		})
		gt.Bool(t, errors.Is(err, usecase.ErrTaskNotFound)).True()
	})

	t.Run("task definition not found", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)
		ctx := context.Background()

		task, _ := textTask("task-1", false)
		seedTask(t, repo, task, nil)

		_, err := uc.Submission.UpsertSubmission(ctx, testActor, usecase.UpsertSubmissionInput{
			TaskID:  task.ID,
			Content: model.TextContent("x"),
		})
		gt.Bool(t, errors.Is(err, usecase.ErrTaskDefinitionNotFound)).True()
	})

	t.Run("event mismatch leaves no trace", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)
		ctx := context.Background()

		task, def := textTask("task-1", false)
		seedTask(t, repo, task, def)

		outsider := model.Actor{
			EventID: types.EventID("ev-other"),
			Person:  model.Person{ID: types.PersonID("p-9")},
		}
		_, err := uc.Submission.UpsertSubmission(ctx, outsider, usecase.UpsertSubmissionInput{
			TaskID:  task.ID,
			Content: model.TextContent("x"),
		})
		gt.Bool(t, errors.Is(err, usecase.ErrEventMismatch)).True()

		subs, err := repo.Submission().ListByTask(ctx, task.ID)
		gt.NoError(t, err).Required()
		gt.Number(t, len(subs)).Equal(0)

		unchanged, err := repo.Task().Get(ctx, task.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, unchanged.Status).Equal(types.TaskStatusTodo)
	})

	t.Run("content rejected for task type", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)
		ctx := context.Background()

		task, def := textTask("task-1", false)
		seedTask(t, repo, task, def)

		_, err := uc.Submission.UpsertSubmission(ctx, testActor, usecase.UpsertSubmissionInput{
			TaskID:  task.ID,
			Content: model.ReferencesContent("reg-1"),
		})
		gt.Bool(t, errors.Is(err, model.ErrInvalidContent)).True()

		subs, err := repo.Submission().ListByTask(ctx, task.ID)
		gt.NoError(t, err).Required()
		gt.Number(t, len(subs)).Equal(0)
	})
}

func TestUpsertSubmissionFulfillment(t *testing.T) {
	newFulfilledTask := func(target string) (*model.Task, *model.TaskDefinition) {
		def := &model.TaskDefinition{
			ID:                types.TaskDefinitionID("def-pass"),
			Name:              "Select passes",
			FulfillmentTarget: target,
		}
		task := &model.Task{
			ID:               types.TaskID("task-pass"),
			EventID:          testActor.EventID,
			TaskDefinitionID: def.ID,
			Type:             types.TaskTypeClientPassSelection,
			Status:           types.TaskStatusTodo,
		}
		return task, def
	}

	t.Run("final submission triggers fulfillment once", func(t *testing.T) {
		repo := memory.New()
		fulfiller := &recordingFulfiller{}
		uc := usecase.New(repo, usecase.WithFulfiller(fulfiller))
		ctx := context.Background()

		task, def := newFulfilledTask("https://hooks.example.com/passes")
		seedTask(t, repo, task, def)

		result, err := uc.Submission.UpsertSubmission(ctx, testActor, usecase.UpsertSubmissionInput{
			TaskID:  task.ID,
			Content: model.ReferencesContent("reg-1", "reg-2"),
			IsDraft: false,
		})
		gt.NoError(t, err).Required()

		gt.Number(t, len(fulfiller.requests)).Equal(1)
		req := fulfiller.requests[0]
		gt.Value(t, req.Actor).Equal(testActor)
		gt.Value(t, req.Task.ID).Equal(task.ID)
		gt.Value(t, req.Definition.ID).Equal(def.ID)
		gt.Value(t, req.Submission.ID).Equal(result.Submission.ID)
	})

	t.Run("draft skips fulfillment", func(t *testing.T) {
		repo := memory.New()
		fulfiller := &recordingFulfiller{}
		uc := usecase.New(repo, usecase.WithFulfiller(fulfiller))
		ctx := context.Background()

		task, def := newFulfilledTask("https://hooks.example.com/passes")
		seedTask(t, repo, task, def)

		_, err := uc.Submission.UpsertSubmission(ctx, testActor, usecase.UpsertSubmissionInput{
			TaskID:  task.ID,
			Content: model.ReferencesContent("reg-1"),
			IsDraft: true,
		})
		gt.NoError(t, err).Required()
		gt.Number(t, len(fulfiller.requests)).Equal(0)
	})

	t.Run("fulfillment failure keeps persisted state", func(t *testing.T) {
		repo := memory.New()
		fulfiller := &recordingFulfiller{err: errors.New("endpoint down")}
		uc := usecase.New(repo, usecase.WithFulfiller(fulfiller))
		ctx := context.Background()

		task, def := newFulfilledTask("https://hooks.example.com/passes")
		seedTask(t, repo, task, def)

		_, err := uc.Submission.UpsertSubmission(ctx, testActor, usecase.UpsertSubmissionInput{
			TaskID:  task.ID,
			Content: model.ReferencesContent("reg-1"),
			IsDraft: false,
		})
		gt.Bool(t, errors.Is(err, usecase.ErrFulfillmentFailed)).True()

		// No compensation: the submission and the task mutation stay
		subs, err := repo.Submission().ListByTask(ctx, task.ID)
		gt.NoError(t, err).Required()
		gt.Number(t, len(subs)).Equal(1)

		updated, err := repo.Task().Get(ctx, task.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Status).Equal(types.TaskStatusDone)
	})
}

func TestSubmissionWorkflowEndToEnd(t *testing.T) {
	repo := memory.New()
	fulfiller := &recordingFulfiller{}
	uc := usecase.New(repo, usecase.WithFulfiller(fulfiller))
	ctx := context.Background()

	def := &model.TaskDefinition{
		ID:                types.TaskDefinitionID("def-pass"),
		Name:              "Select passes",
		NeedsApproval:     false,
		FulfillmentTarget: "https://hooks.example.com/passes",
	}
	task := &model.Task{
		ID:               types.TaskID("task-pass"),
		EventID:          testActor.EventID,
		TaskDefinitionID: def.ID,
		Type:             types.TaskTypeClientPassSelection,
		Status:           types.TaskStatusTodo,
	}
	seedTask(t, repo, task, def)

	// Final submission on a fresh task: version 1, task done, fulfilled once
	first, err := uc.Submission.UpsertSubmission(ctx, testActor, usecase.UpsertSubmissionInput{
		TaskID:  task.ID,
		Content: model.ReferencesContent("reg-x"),
		IsDraft: false,
	})
	gt.NoError(t, err).Required()
	gt.Number(t, first.Submission.Version).Equal(1)
	gt.Bool(t, first.Submission.Active).True()
	gt.Value(t, first.Task.Status).Equal(types.TaskStatusDone)
	gt.Number(t, len(fulfiller.requests)).Equal(1)

	// Draft rework on the same task: version 2 supersedes, task back in
	// progress as draft, no further fulfillment
	second, err := uc.Submission.UpsertSubmission(ctx, testActor, usecase.UpsertSubmissionInput{
		TaskID:  task.ID,
		Content: model.ReferencesContent("reg-y"),
		IsDraft: true,
	})
	gt.NoError(t, err).Required()
	gt.Number(t, second.Submission.Version).Equal(2)
	gt.Bool(t, second.Submission.Active).True()
	gt.Value(t, second.Task.Status).Equal(types.TaskStatusInProgress)
	gt.Bool(t, second.Task.Draft).True()
	gt.Number(t, len(fulfiller.requests)).Equal(1)

	prior, err := repo.Submission().Get(ctx, first.Submission.ID)
	gt.NoError(t, err).Required()
	gt.Bool(t, prior.Active).False()
}

func TestGetSubmission(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo)
	ctx := context.Background()

	task, def := textTask("task-1", false)
	seedTask(t, repo, task, def)

	result, err := uc.Submission.UpsertSubmission(ctx, testActor, usecase.UpsertSubmissionInput{
		TaskID:  task.ID,
		Content: model.TextContent("answer"),
	})
	gt.NoError(t, err).Required()

	t.Run("owner event reads it", func(t *testing.T) {
		sub, err := uc.Submission.GetSubmission(ctx, testActor, result.Submission.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, sub.ID).Equal(result.Submission.ID)
	})

	t.Run("other event sees not found", func(t *testing.T) {
		outsider := model.Actor{EventID: types.EventID("ev-other")}
		_, err := uc.Submission.GetSubmission(ctx, outsider, result.Submission.ID)
		gt.Bool(t, errors.Is(err, usecase.ErrSubmissionNotFound)).True()
	})

	t.Run("absent id", func(t *testing.T) {
		_, err := uc.Submission.GetSubmission(ctx, testActor, types.NewSubmissionID())
		gt.Bool(t, errors.Is(err, usecase.ErrSubmissionNotFound)).True()
	})
}

func TestListSubmissions(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo)
	ctx := context.Background()

	task, def := textTask("task-1", true)
	seedTask(t, repo, task, def)

	for i := 1; i <= 3; i++ {
		_, err := uc.Submission.UpsertSubmission(ctx, testActor, usecase.UpsertSubmissionInput{
			TaskID:  task.ID,
			Content: model.TextContent(fmt.Sprintf("v%d", i)),
		})
		gt.NoError(t, err).Required()
	}

	subs, err := uc.Submission.ListSubmissions(ctx, testActor, task.ID)
	gt.NoError(t, err).Required()
	gt.Number(t, len(subs)).Equal(3)
	gt.Number(t, subs[0].Version).Equal(3)

	outsider := model.Actor{EventID: types.EventID("ev-other")}
	_, err = uc.Submission.ListSubmissions(ctx, outsider, task.ID)
	gt.Bool(t, errors.Is(err, usecase.ErrEventMismatch)).True()
}

func TestUpsertSubmissionConcurrent(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo)
	ctx := context.Background()

	task, def := textTask("task-1", true)
	seedTask(t, repo, task, def)

	const workers = 16

	var eg errgroup.Group
	for i := 0; i < workers; i++ {
		i := i
		eg.Go(func() error {
			_, err := uc.Submission.UpsertSubmission(ctx, testActor, usecase.UpsertSubmissionInput{
				TaskID:  task.ID,
				Content: model.TextContent(fmt.Sprintf("answer %d", i)),
			})
			return err
		})
	}
	gt.NoError(t, eg.Wait()).Required()

	subs, err := repo.Submission().ListByTask(ctx, task.ID)
	gt.NoError(t, err).Required()
	gt.Number(t, len(subs)).Equal(workers)

	seen := make(map[int]bool, workers)
	for _, sub := range subs {
		gt.Bool(t, seen[sub.Version]).False()
		seen[sub.Version] = true
	}

	active, err := repo.Submission().ListActiveByTask(ctx, task.ID)
	gt.NoError(t, err).Required()
	gt.Number(t, len(active)).Equal(1)
}
