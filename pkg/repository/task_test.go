package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/eventworks/taskflow/pkg/domain/interfaces"
	"github.com/eventworks/taskflow/pkg/domain/model"
	"github.com/eventworks/taskflow/pkg/domain/types"
	"github.com/eventworks/taskflow/pkg/repository/firestore"
	"github.com/eventworks/taskflow/pkg/repository/memory"
)

func newMemoryRepo(t *testing.T) interfaces.Repository {
	t.Helper()
	return memory.New()
}

func newFirestoreRepo(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_ID not set")
	}

	repo, err := firestore.New(context.Background(), projectID, "")
	gt.NoError(t, err).Required()
	return repo
}

func runTaskRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Put and Get round trip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		task := &model.Task{
			ID:               types.TaskID("task-1"),
			EventID:          types.EventID("ev-1"),
			TaskDefinitionID: types.TaskDefinitionID("def-1"),
			Type:             types.TaskTypeText,
			Status:           types.TaskStatusTodo,
			Title:            "Company description",
			AssigneePersonID: types.PersonID("p-1"),
		}

		stored, err := repo.Task().Put(ctx, task)
		gt.NoError(t, err).Required()
		gt.Bool(t, stored.CreatedAt.IsZero()).False()
		gt.Bool(t, stored.UpdatedAt.IsZero()).False()

		retrieved, err := repo.Task().Get(ctx, task.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.ID).Equal(task.ID)
		gt.Value(t, retrieved.EventID).Equal(task.EventID)
		gt.Value(t, retrieved.Type).Equal(types.TaskTypeText)
		gt.Value(t, retrieved.Title).Equal("Company description")
	})

	t.Run("Get returns nil for absent task", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		task, err := repo.Task().Get(ctx, types.TaskID("no-such-task"))
		gt.NoError(t, err).Required()
		gt.Value(t, task).Nil()
	})

	t.Run("Put normalizes empty status", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Task().Put(ctx, &model.Task{
			ID:      types.TaskID("task-empty-status"),
			EventID: types.EventID("ev-1"),
			Type:    types.TaskTypeText,
		})
		gt.NoError(t, err).Required()

		retrieved, err := repo.Task().Get(ctx, types.TaskID("task-empty-status"))
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.Status).Equal(types.TaskStatusTodo)
	})

	t.Run("ListByEvent filters by event", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, task := range []*model.Task{
			{ID: "task-a", EventID: "ev-1", Type: types.TaskTypeText},
			{ID: "task-b", EventID: "ev-1", Type: types.TaskTypeReminder},
			{ID: "task-c", EventID: "ev-2", Type: types.TaskTypeText},
		} {
			_, err := repo.Task().Put(ctx, task)
			gt.NoError(t, err).Required()
		}

		tasks, err := repo.Task().ListByEvent(ctx, types.EventID("ev-1"))
		gt.NoError(t, err).Required()
		gt.Number(t, len(tasks)).Equal(2)
		for _, task := range tasks {
			gt.Value(t, task.EventID).Equal(types.EventID("ev-1"))
		}
	})

	t.Run("Update mutates existing task", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		stored, err := repo.Task().Put(ctx, &model.Task{
			ID:      types.TaskID("task-upd"),
			EventID: types.EventID("ev-1"),
			Type:    types.TaskTypeText,
			Status:  types.TaskStatusTodo,
		})
		gt.NoError(t, err).Required()

		stored.Status = types.TaskStatusDone
		stored.Draft = false
		updated, err := repo.Task().Update(ctx, stored)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Status).Equal(types.TaskStatusDone)
		gt.Bool(t, updated.CreatedAt.Equal(stored.CreatedAt)).True()

		retrieved, err := repo.Task().Get(ctx, stored.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.Status).Equal(types.TaskStatusDone)
	})

	t.Run("Update fails for absent task", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Task().Update(ctx, &model.Task{
			ID:      types.TaskID("ghost"),
			EventID: types.EventID("ev-1"),
			Type:    types.TaskTypeText,
		})
		gt.Error(t, err)
	})
}

func runTaskDefinitionRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Put and Get round trip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		def := &model.TaskDefinition{
			ID:                types.TaskDefinitionID("def-1"),
			Name:              "Upload logo",
			NeedsApproval:     true,
			FulfillmentTarget: "https://hooks.example.com/logo",
		}

		_, err := repo.TaskDefinition().Put(ctx, def)
		gt.NoError(t, err).Required()

		retrieved, err := repo.TaskDefinition().Get(ctx, def.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.Name).Equal("Upload logo")
		gt.Bool(t, retrieved.NeedsApproval).True()
		gt.Value(t, retrieved.FulfillmentTarget).Equal("https://hooks.example.com/logo")
	})

	t.Run("Get returns nil for absent definition", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		def, err := repo.TaskDefinition().Get(ctx, types.TaskDefinitionID("no-such-def"))
		gt.NoError(t, err).Required()
		gt.Value(t, def).Nil()
	})
}

func TestTaskRepository_Memory(t *testing.T) {
	runTaskRepositoryTest(t, newMemoryRepo)
}

func TestTaskRepository_Firestore(t *testing.T) {
	runTaskRepositoryTest(t, newFirestoreRepo)
}

func TestTaskDefinitionRepository_Memory(t *testing.T) {
	runTaskDefinitionRepositoryTest(t, newMemoryRepo)
}

func TestTaskDefinitionRepository_Firestore(t *testing.T) {
	runTaskDefinitionRepositoryTest(t, newFirestoreRepo)
}
