package model

import (
	"time"

	"github.com/eventworks/taskflow/pkg/domain/types"
)

// Comment is an append-only note attached to a task. The author is
// stored as a value snapshot taken at write time, so later edits to the
// person record never rewrite history.
type Comment struct {
	ID         types.CommentID     `json:"id" firestore:"ID"`
	TargetID   types.TaskID        `json:"target_id" firestore:"TargetID"`
	TargetType types.TargetType    `json:"target_type" firestore:"TargetType"`
	Type       types.CommentType   `json:"type" firestore:"Type"`
	Action     types.CommentAction `json:"action,omitempty" firestore:"Action"`
	EventID    types.EventID       `json:"event_id" firestore:"EventID"`
	Owner      CommentOwner        `json:"owner" firestore:"Owner"`
	Body       string              `json:"body" firestore:"Body"`
	CreatedAt  time.Time           `json:"created_at" firestore:"CreatedAt"`
}

// CommentOwner is the denormalized author snapshot embedded in a
// comment. RefID points back at the person record the snapshot was
// taken from.
type CommentOwner struct {
	PersonID  types.PersonID `json:"person_id" firestore:"PersonID"`
	FirstName string         `json:"first_name" firestore:"FirstName"`
	LastName  string         `json:"last_name" firestore:"LastName"`
	RefID     types.PersonID `json:"ref_id" firestore:"RefID"`
}

// SnapshotOwner captures a person as a comment author snapshot
func SnapshotOwner(p Person) CommentOwner {
	return CommentOwner{
		PersonID:  p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		RefID:     p.ID,
	}
}
