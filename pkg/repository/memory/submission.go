package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/eventworks/taskflow/pkg/domain/model"
	"github.com/eventworks/taskflow/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type submissionRepository struct {
	mu   sync.RWMutex
	subs map[types.SubmissionID]*model.Submission
}

func newSubmissionRepository() *submissionRepository {
	return &submissionRepository{
		subs: make(map[types.SubmissionID]*model.Submission),
	}
}

// copySubmission creates a deep copy of a submission
func copySubmission(s *model.Submission) *model.Submission {
	cp := *s
	if s.Content.References != nil {
		cp.Content.References = make([]string, len(s.Content.References))
		copy(cp.Content.References, s.Content.References)
	}
	if s.Content.Fields != nil {
		cp.Content.Fields = make(map[string]string, len(s.Content.Fields))
		for k, v := range s.Content.Fields {
			cp.Content.Fields[k] = v
		}
	}
	return &cp
}

func (r *submissionRepository) Get(ctx context.Context, id types.SubmissionID) (*model.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, ok := r.subs[id]
	if !ok {
		return nil, nil
	}
	return copySubmission(sub), nil
}

func (r *submissionRepository) GetLatest(ctx context.Context, taskID types.TaskID) (*model.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.latestLocked(taskID), nil
}

// latestLocked returns a copy of the highest-version submission of the
// task, or nil. Caller holds at least a read lock.
func (r *submissionRepository) latestLocked(taskID types.TaskID) *model.Submission {
	var latest *model.Submission
	for _, sub := range r.subs {
		if sub.TaskID != taskID {
			continue
		}
		if latest == nil || sub.Version > latest.Version {
			latest = sub
		}
	}
	if latest == nil {
		return nil
	}
	return copySubmission(latest)
}

func (r *submissionRepository) ListByTask(ctx context.Context, taskID types.TaskID) ([]*model.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subs := make([]*model.Submission, 0)
	for _, sub := range r.subs {
		if sub.TaskID == taskID {
			subs = append(subs, copySubmission(sub))
		}
	}
	sort.Slice(subs, func(i, j int) bool {
		return subs[i].Version > subs[j].Version
	})
	return subs, nil
}

func (r *submissionRepository) ListActiveByTask(ctx context.Context, taskID types.TaskID) ([]*model.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subs := make([]*model.Submission, 0)
	for _, sub := range r.subs {
		if sub.TaskID == taskID && sub.Active {
			subs = append(subs, copySubmission(sub))
		}
	}
	sort.Slice(subs, func(i, j int) bool {
		return subs[i].Version > subs[j].Version
	})
	return subs, nil
}

func (r *submissionRepository) Create(ctx context.Context, sub *model.Submission) (*model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.createLocked(sub), nil
}

func (r *submissionRepository) createLocked(sub *model.Submission) *model.Submission {
	now := time.Now().UTC()
	created := copySubmission(sub)
	if created.ID == "" {
		created.ID = types.NewSubmissionID()
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	r.subs[created.ID] = created
	return copySubmission(created)
}

func (r *submissionRepository) Update(ctx context.Context, sub *model.Submission) (*model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.subs[sub.ID]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "submission not found", goerr.V("id", sub.ID))
	}

	updated := copySubmission(sub)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.subs[updated.ID] = updated
	return copySubmission(updated), nil
}

// CreateVersion assigns the next version, deactivates every active
// submission of the task, and stores sub as the single active one. The
// whole unit runs under the write lock, so concurrent calls for the
// same task serialize.
func (r *submissionRepository) CreateVersion(ctx context.Context, sub *model.Submission) (*model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	version := 1
	if latest := r.latestLocked(sub.TaskID); latest != nil {
		version = latest.Version + 1
	}

	now := time.Now().UTC()
	for _, prior := range r.subs {
		if prior.TaskID == sub.TaskID && prior.Active {
			prior.Active = false
			prior.UpdatedAt = now
		}
	}

	created := copySubmission(sub)
	created.Version = version
	created.Active = true
	return r.createLocked(created), nil
}
