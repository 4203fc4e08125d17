package interfaces

import (
	"context"

	"github.com/eventworks/taskflow/pkg/domain/model"
	"github.com/eventworks/taskflow/pkg/domain/types"
)

// CommentRepository defines the interface for Comment data access.
// Comments are append-only.
type CommentRepository interface {
	// Create persists a new comment
	Create(ctx context.Context, comment *model.Comment) (*model.Comment, error)

	// ListByTarget retrieves all comments attached to a target, oldest first
	ListByTarget(ctx context.Context, targetType types.TargetType, targetID types.TaskID) ([]*model.Comment, error)
}
