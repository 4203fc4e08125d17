package types

import "github.com/google/uuid"

// EventID identifies the event (tenant) a record belongs to
type EventID string

// String returns the string representation of the event ID
func (x EventID) String() string {
	return string(x)
}

// PersonID identifies a person within the platform
type PersonID string

// String returns the string representation of the person ID
func (x PersonID) String() string {
	return string(x)
}

// TaskID identifies a task
type TaskID string

// String returns the string representation of the task ID
func (x TaskID) String() string {
	return string(x)
}

// TaskDefinitionID identifies a task definition
type TaskDefinitionID string

// String returns the string representation of the task definition ID
func (x TaskDefinitionID) String() string {
	return string(x)
}

// SubmissionID is a UUID-based identifier for Submission
type SubmissionID string

// NewSubmissionID generates a new UUID v4 SubmissionID
func NewSubmissionID() SubmissionID {
	return SubmissionID(uuid.New().String())
}

// String returns the string representation of the submission ID
func (x SubmissionID) String() string {
	return string(x)
}

// CommentID is a UUID-based identifier for Comment
type CommentID string

// NewCommentID generates a new UUID v4 CommentID
func NewCommentID() CommentID {
	return CommentID(uuid.New().String())
}

// String returns the string representation of the comment ID
func (x CommentID) String() string {
	return string(x)
}
