package usecase

import (
	"github.com/eventworks/taskflow/pkg/domain/interfaces"
)

type UseCases struct {
	repo      interfaces.Repository
	fulfiller interfaces.Fulfiller

	Task       *TaskUseCase
	Submission *SubmissionUseCase
	Comment    *CommentUseCase
}

type Option func(*UseCases)

// WithFulfiller sets the fulfillment backend invoked for accepted
// non-draft submissions. Without it fulfillment is skipped.
func WithFulfiller(f interfaces.Fulfiller) Option {
	return func(uc *UseCases) {
		uc.fulfiller = f
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Task = NewTaskUseCase(repo)
	uc.Submission = NewSubmissionUseCase(repo, uc.fulfiller)
	uc.Comment = NewCommentUseCase(repo)

	return uc
}
