package model

import (
	"time"

	"github.com/eventworks/taskflow/pkg/domain/types"
)

// Task is a unit of work assigned to an event participant. Its lifecycle
// is driven by submissions: drafts park it in progress, final submissions
// complete it unless the definition requires approval.
type Task struct {
	ID               types.TaskID           `json:"id" firestore:"ID"`
	EventID          types.EventID          `json:"event_id" firestore:"EventID"`
	TaskDefinitionID types.TaskDefinitionID `json:"task_definition_id" firestore:"TaskDefinitionID"`
	Type             types.TaskType         `json:"type" firestore:"Type"`
	Status           types.TaskStatus       `json:"status" firestore:"Status"`
	Draft            bool                   `json:"draft" firestore:"Draft"`
	Title            string                 `json:"title" firestore:"Title"`
	AssigneePersonID types.PersonID         `json:"assignee_person_id" firestore:"AssigneePersonID"`
	CreatedAt        time.Time              `json:"created_at" firestore:"CreatedAt"`
	UpdatedAt        time.Time              `json:"updated_at" firestore:"UpdatedAt"`
}

// TaskDefinition is the shared template behind tasks of the same kind.
// NeedsApproval keeps a task out of the done state until a reviewer
// advances it; FulfillmentTarget is the endpoint notified when a final
// submission is accepted, empty for definitions without fulfillment.
type TaskDefinition struct {
	ID                types.TaskDefinitionID `json:"id" firestore:"ID"`
	Name              string                 `json:"name" firestore:"Name"`
	NeedsApproval     bool                   `json:"needs_approval" firestore:"NeedsApproval"`
	FulfillmentTarget string                 `json:"fulfillment_target" firestore:"FulfillmentTarget"`
	CreatedAt         time.Time              `json:"created_at" firestore:"CreatedAt"`
	UpdatedAt         time.Time              `json:"updated_at" firestore:"UpdatedAt"`
}

// FulfillmentRequest carries everything a fulfillment backend needs to
// act on an accepted submission.
type FulfillmentRequest struct {
	Actor      Actor
	Task       *Task
	Definition *TaskDefinition
	Submission *Submission
}
