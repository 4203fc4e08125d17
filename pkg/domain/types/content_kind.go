package types

import "fmt"

// ContentKind discriminates the shape of a submission's content
type ContentKind string

const (
	// ContentKindText is free-form text or a storage URL
	ContentKindText ContentKind = "text"
	// ContentKindReferences is a list of referenced resource IDs
	ContentKindReferences ContentKind = "references"
	// ContentKindFields is a structured key/value object
	ContentKindFields ContentKind = "fields"
)

// AllContentKinds returns all valid content kinds
func AllContentKinds() []ContentKind {
	return []ContentKind{
		ContentKindText,
		ContentKindReferences,
		ContentKindFields,
	}
}

// IsValid checks if the content kind is valid
func (k ContentKind) IsValid() bool {
	switch k {
	case ContentKindText,
		ContentKindReferences,
		ContentKindFields:
		return true
	default:
		return false
	}
}

// String returns the string representation of the content kind
func (k ContentKind) String() string {
	return string(k)
}

// ParseContentKind parses a string into a ContentKind
func ParseContentKind(s string) (ContentKind, error) {
	kind := ContentKind(s)
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid content kind: %s", s)
	}
	return kind, nil
}
