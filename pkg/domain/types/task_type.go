package types

import "fmt"

// TaskType represents the kind of content a task collects from its assignee
type TaskType string

const (
	// TaskTypeReminder is satisfied by acknowledgment alone and carries no content
	TaskTypeReminder TaskType = "reminderTask"
	// TaskTypeText collects free-form text
	TaskTypeText TaskType = "textTask"
	// TaskTypeDocument collects a storage URL of an uploaded file
	TaskTypeDocument TaskType = "documentTask"
	// TaskTypeClientPassSelection collects a list of pass registration IDs
	TaskTypeClientPassSelection TaskType = "clientPassSelectionTask"
	// TaskTypeSpeakerSelection collects a list of speaker person IDs
	TaskTypeSpeakerSelection TaskType = "speakerSelectionTask"
)

// AllTaskTypes returns all valid task types
func AllTaskTypes() []TaskType {
	return []TaskType{
		TaskTypeReminder,
		TaskTypeText,
		TaskTypeDocument,
		TaskTypeClientPassSelection,
		TaskTypeSpeakerSelection,
	}
}

// IsValid checks if the task type is valid
func (t TaskType) IsValid() bool {
	switch t {
	case TaskTypeReminder,
		TaskTypeText,
		TaskTypeDocument,
		TaskTypeClientPassSelection,
		TaskTypeSpeakerSelection:
		return true
	default:
		return false
	}
}

// String returns the string representation of the task type
func (t TaskType) String() string {
	return string(t)
}

// ParseTaskType parses a string into a TaskType
func ParseTaskType(s string) (TaskType, error) {
	taskType := TaskType(s)
	if !taskType.IsValid() {
		return "", fmt.Errorf("invalid task type: %s", s)
	}
	return taskType, nil
}
