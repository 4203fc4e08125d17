package model

import (
	"time"

	"github.com/eventworks/taskflow/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// ErrInvalidContent marks a submission whose content does not fit the
// task it answers
var ErrInvalidContent = goerr.New("invalid submission content")

// Submission is one versioned answer to a task. Versions are append-only
// and count up from 1 per task; at most one submission of a task is
// active at any time.
type Submission struct {
	ID            types.SubmissionID `json:"id" firestore:"ID"`
	TaskID        types.TaskID       `json:"task_id" firestore:"TaskID"`
	EventID       types.EventID      `json:"event_id" firestore:"EventID"`
	OwnerPersonID types.PersonID     `json:"owner_person_id" firestore:"OwnerPersonID"`
	Version       int                `json:"version" firestore:"Version"`
	Active        bool               `json:"active" firestore:"Active"`
	Content       Content            `json:"content" firestore:"Content"`
	CreatedAt     time.Time          `json:"created_at" firestore:"CreatedAt"`
	UpdatedAt     time.Time          `json:"updated_at" firestore:"UpdatedAt"`
}

// Content is the payload of a submission. Kind selects which arm holds
// the value; the other arms stay empty.
type Content struct {
	Kind       types.ContentKind `json:"kind" firestore:"Kind"`
	Text       string            `json:"text,omitempty" firestore:"Text"`
	References []string          `json:"references,omitempty" firestore:"References"`
	Fields     map[string]string `json:"fields,omitempty" firestore:"Fields"`
}

// TextContent builds a free-form text content
func TextContent(text string) Content {
	return Content{Kind: types.ContentKindText, Text: text}
}

// ReferencesContent builds a content referencing other resources by ID
func ReferencesContent(refs ...string) Content {
	return Content{Kind: types.ContentKindReferences, References: refs}
}

// FieldsContent builds a structured key/value content
func FieldsContent(fields map[string]string) Content {
	return Content{Kind: types.ContentKindFields, Fields: fields}
}

// Validate checks that exactly the arm selected by Kind is populated
func (c Content) Validate() error {
	if !c.Kind.IsValid() {
		return goerr.Wrap(ErrInvalidContent, "unknown content kind", goerr.V("kind", c.Kind))
	}

	switch c.Kind {
	case types.ContentKindText:
		if len(c.References) > 0 || len(c.Fields) > 0 {
			return goerr.Wrap(ErrInvalidContent, "text content must not carry references or fields")
		}
	case types.ContentKindReferences:
		if c.Text != "" || len(c.Fields) > 0 {
			return goerr.Wrap(ErrInvalidContent, "references content must not carry text or fields")
		}
		if len(c.References) == 0 {
			return goerr.Wrap(ErrInvalidContent, "references content requires at least one reference")
		}
	case types.ContentKindFields:
		if c.Text != "" || len(c.References) > 0 {
			return goerr.Wrap(ErrInvalidContent, "fields content must not carry text or references")
		}
		if len(c.Fields) == 0 {
			return goerr.Wrap(ErrInvalidContent, "fields content requires at least one field")
		}
	}

	return nil
}

// ValidateFor checks the content against the task type it answers.
// Reminder tasks carry no content at all. Text and document tasks take
// free-form text; selection tasks take references or structured fields.
func (c Content) ValidateFor(taskType types.TaskType) error {
	if err := c.Validate(); err != nil {
		return err
	}

	switch taskType {
	case types.TaskTypeReminder:
		return goerr.Wrap(ErrInvalidContent, "reminder tasks take no content")
	case types.TaskTypeText, types.TaskTypeDocument:
		if c.Kind != types.ContentKindText {
			return goerr.Wrap(ErrInvalidContent, "task requires text content",
				goerr.V("task_type", taskType), goerr.V("kind", c.Kind))
		}
	case types.TaskTypeClientPassSelection, types.TaskTypeSpeakerSelection:
		if c.Kind == types.ContentKindText {
			return goerr.Wrap(ErrInvalidContent, "selection task requires references or fields content",
				goerr.V("task_type", taskType))
		}
	}

	return nil
}
