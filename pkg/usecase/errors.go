package usecase

import "errors"

// Sentinel errors for use case layer. Transport maps these onto its own
// status representation; anything not listed here is a store failure.
var (
	// Not found errors
	ErrTaskNotFound           = errors.New("task not found")
	ErrTaskDefinitionNotFound = errors.New("task definition not found")
	ErrSubmissionNotFound     = errors.New("submission not found")

	// Invalid request errors
	ErrEventMismatch = errors.New("task has a different event id assigned")
	ErrEmptyComment  = errors.New("comment text is required")

	// Fulfillment errors
	ErrFulfillmentFailed = errors.New("fulfillment failed")
)

// Context keys for error values
const (
	TaskIDKey       = "task_id"
	SubmissionIDKey = "submission_id"
	EventIDKey      = "event_id"
	ActorEventIDKey = "actor_event_id"
)
