package types

import "fmt"

// CommentType classifies who authored a comment
type CommentType string

const (
	CommentTypeSponsor CommentType = "sponsorComment"
)

// IsValid checks if the comment type is valid
func (t CommentType) IsValid() bool {
	return t == CommentTypeSponsor
}

// String returns the string representation of the comment type
func (t CommentType) String() string {
	return string(t)
}

// CommentAction marks a comment written while its target was in a special state.
// The zero value is a regular comment.
type CommentAction string

const (
	CommentActionNone  CommentAction = ""
	CommentActionDraft CommentAction = "draftComment"
)

// IsValid checks if the comment action is valid
func (a CommentAction) IsValid() bool {
	switch a {
	case CommentActionNone, CommentActionDraft:
		return true
	default:
		return false
	}
}

// String returns the string representation of the comment action
func (a CommentAction) String() string {
	return string(a)
}

// TargetType identifies the kind of record a comment is attached to
type TargetType string

const (
	TargetTypeTask TargetType = "task"
)

// IsValid checks if the target type is valid
func (t TargetType) IsValid() bool {
	return t == TargetTypeTask
}

// String returns the string representation of the target type
func (t TargetType) String() string {
	return string(t)
}

// ParseTargetType parses a string into a TargetType
func ParseTargetType(s string) (TargetType, error) {
	target := TargetType(s)
	if !target.IsValid() {
		return "", fmt.Errorf("invalid target type: %s", s)
	}
	return target, nil
}
