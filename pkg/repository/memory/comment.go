package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/eventworks/taskflow/pkg/domain/model"
	"github.com/eventworks/taskflow/pkg/domain/types"
)

type commentRepository struct {
	mu       sync.RWMutex
	comments map[types.CommentID]*model.Comment
}

func newCommentRepository() *commentRepository {
	return &commentRepository{
		comments: make(map[types.CommentID]*model.Comment),
	}
}

func copyComment(c *model.Comment) *model.Comment {
	cp := *c
	return &cp
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyComment(comment)
	if created.ID == "" {
		created.ID = types.NewCommentID()
	}
	created.CreatedAt = time.Now().UTC()

	r.comments[created.ID] = created
	return copyComment(created), nil
}

func (r *commentRepository) ListByTarget(ctx context.Context, targetType types.TargetType, targetID types.TaskID) ([]*model.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comments := make([]*model.Comment, 0)
	for _, comment := range r.comments {
		if comment.TargetType == targetType && comment.TargetID == targetID {
			comments = append(comments, copyComment(comment))
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		if comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].ID < comments[j].ID
		}
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}
