package core

import (
	"fmt"
	"strings"
)

// Record is the central entity of the domain: a short quote tagged with a category.
//
// Records carry no surrogate identifier. Two records are the same record if and
// only if Text and Category are both exactly equal (see SameAs).
type Record struct {
	Text     string `json:"text" yaml:"text"`
	Category string `json:"category" yaml:"category"`
}

// NewRecord trims both fields and validates them.
// It returns ErrValidation if either field is empty after trimming.
func NewRecord(text, category string) (Record, error) {
	r := Record{
		Text:     strings.TrimSpace(text),
		Category: strings.TrimSpace(category),
	}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}

// Validate reports whether the record satisfies the non-empty field constraint.
// It does not trim; whitespace-only fields are rejected.
func (r Record) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return fmt.Errorf("%w: text is required", ErrValidation)
	}
	if strings.TrimSpace(r.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrValidation)
	}
	return nil
}

// SameAs reports structural identity: case-sensitive, no trimming at comparison time.
func (r Record) SameAs(other Record) bool {
	return r.Text == other.Text && r.Category == other.Category
}

func (r Record) String() string {
	return fmt.Sprintf("%q [%s]", r.Text, r.Category)
}

// DefaultRecords returns the built-in collection used when the store is empty or corrupt.
func DefaultRecords() []Record {
	return []Record{
		{Text: "Believe in yourself.", Category: "Motivation"},
		{Text: "Life is short. Smile while you still have teeth.", Category: "Humor"},
		{Text: "Stay hungry, stay foolish.", Category: "Inspiration"},
	}
}
