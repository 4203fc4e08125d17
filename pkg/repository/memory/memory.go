package memory

import (
	"github.com/eventworks/taskflow/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

// ErrNotFound is returned when an updated record does not exist
var ErrNotFound = goerr.New("record not found")

// Memory is an in-memory repository for development and tests
type Memory struct {
	task    *taskRepository
	taskDef *taskDefinitionRepository
	sub     *submissionRepository
	comment *commentRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		task:    newTaskRepository(),
		taskDef: newTaskDefinitionRepository(),
		sub:     newSubmissionRepository(),
		comment: newCommentRepository(),
	}
}

func (m *Memory) Task() interfaces.TaskRepository {
	return m.task
}

func (m *Memory) TaskDefinition() interfaces.TaskDefinitionRepository {
	return m.taskDef
}

func (m *Memory) Submission() interfaces.SubmissionRepository {
	return m.sub
}

func (m *Memory) Comment() interfaces.CommentRepository {
	return m.comment
}

func (m *Memory) Close() error {
	return nil
}
