package interfaces

import (
	"context"

	"github.com/eventworks/taskflow/pkg/domain/model"
	"github.com/eventworks/taskflow/pkg/domain/types"
)

// SubmissionRepository defines the interface for Submission data access
type SubmissionRepository interface {
	// Get retrieves a submission by ID
	Get(ctx context.Context, id types.SubmissionID) (*model.Submission, error)

	// GetLatest retrieves the submission with the highest version for a
	// task, or nil when the task has no submission yet
	GetLatest(ctx context.Context, taskID types.TaskID) (*model.Submission, error)

	// ListByTask retrieves all submissions for a task, newest version first
	ListByTask(ctx context.Context, taskID types.TaskID) ([]*model.Submission, error)

	// ListActiveByTask retrieves the submissions currently active for a task
	ListActiveByTask(ctx context.Context, taskID types.TaskID) ([]*model.Submission, error)

	// Create persists a submission as-is
	Create(ctx context.Context, sub *model.Submission) (*model.Submission, error)

	// Update updates an existing submission
	Update(ctx context.Context, sub *model.Submission) (*model.Submission, error)

	// CreateVersion atomically assigns the next version for the task,
	// deactivates every currently active submission of the task, and
	// persists sub as the single active one. Concurrent calls for the
	// same task serialize; no interleaving can observe two active
	// submissions or a duplicated version.
	CreateVersion(ctx context.Context, sub *model.Submission) (*model.Submission, error)
}
