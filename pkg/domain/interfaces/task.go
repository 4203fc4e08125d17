package interfaces

import (
	"context"

	"github.com/eventworks/taskflow/pkg/domain/model"
	"github.com/eventworks/taskflow/pkg/domain/types"
)

// TaskRepository defines the interface for Task data access. Tasks are
// created by an out-of-band provisioning step (Put) and mutated only
// through Update.
type TaskRepository interface {
	// Put stores a task under its own ID, overwriting any existing record
	Put(ctx context.Context, task *model.Task) (*model.Task, error)

	// Get retrieves a task by ID
	Get(ctx context.Context, id types.TaskID) (*model.Task, error)

	// ListByEvent retrieves all tasks belonging to an event
	ListByEvent(ctx context.Context, eventID types.EventID) ([]*model.Task, error)

	// Update updates an existing task
	Update(ctx context.Context, task *model.Task) (*model.Task, error)
}

// TaskDefinitionRepository defines the interface for TaskDefinition data
// access. Definitions are read-only for the workflow engine.
type TaskDefinitionRepository interface {
	// Put stores a definition under its own ID
	Put(ctx context.Context, def *model.TaskDefinition) (*model.TaskDefinition, error)

	// Get retrieves a definition by ID
	Get(ctx context.Context, id types.TaskDefinitionID) (*model.TaskDefinition, error)
}
