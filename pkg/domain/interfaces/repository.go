package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Task() TaskRepository
	TaskDefinition() TaskDefinitionRepository
	Submission() SubmissionRepository
	Comment() CommentRepository

	Close() error
}
