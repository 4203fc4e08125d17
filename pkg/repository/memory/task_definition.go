package memory

import (
	"context"
	"sync"
	"time"

	"github.com/eventworks/taskflow/pkg/domain/model"
	"github.com/eventworks/taskflow/pkg/domain/types"
)

type taskDefinitionRepository struct {
	mu   sync.RWMutex
	defs map[types.TaskDefinitionID]*model.TaskDefinition
}

func newTaskDefinitionRepository() *taskDefinitionRepository {
	return &taskDefinitionRepository{
		defs: make(map[types.TaskDefinitionID]*model.TaskDefinition),
	}
}

func copyTaskDefinition(d *model.TaskDefinition) *model.TaskDefinition {
	cp := *d
	return &cp
}

func (r *taskDefinitionRepository) Put(ctx context.Context, def *model.TaskDefinition) (*model.TaskDefinition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	stored := copyTaskDefinition(def)
	if existing, ok := r.defs[stored.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	r.defs[stored.ID] = stored
	return copyTaskDefinition(stored), nil
}

func (r *taskDefinitionRepository) Get(ctx context.Context, id types.TaskDefinitionID) (*model.TaskDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.defs[id]
	if !ok {
		return nil, nil
	}
	return copyTaskDefinition(def), nil
}
