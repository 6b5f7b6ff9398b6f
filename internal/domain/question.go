package domain

import (
	"strings"
	"time"
)

// Question is a forum question with its ordered answer sequence.
// The description is an opaque rich-text payload; this layer never
// interprets or sanitizes it.
type Question struct {
	// ID is the upstream-assigned identifier.
	ID string

	// Title is the question headline.
	Title string

	// Description is the opaque rich-text body.
	Description string

	// Author references the asking user (non-owning).
	Author *User

	// Tags is the ordered, deduplicated tag list. Non-empty for any
	// persisted question.
	Tags []string

	// Votes is the last known authoritative vote score.
	Votes int

	// Views is the view counter.
	Views int

	// CreatedAt is the upstream creation timestamp.
	CreatedAt time.Time

	// Answers is the ordered answer sequence, oldest first.
	Answers []*Answer
}

// Answer is a single answer to a question.
type Answer struct {
	// ID is the upstream-assigned identifier.
	ID string

	// Content is the opaque rich-text body.
	Content string

	// Author references the answering user (non-owning).
	Author *User

	// Votes is the last known authoritative vote score.
	Votes int

	// IsAccepted marks the answer the question's author accepted.
	// At most one answer per question carries this flag.
	IsAccepted bool

	// CreatedAt is the upstream creation timestamp.
	CreatedAt time.Time
}

// AcceptedAnswer returns the accepted answer, or nil if none is accepted.
func (q *Question) AcceptedAnswer() *Answer {
	for _, a := range q.Answers {
		if a.IsAccepted {
			return a
		}
	}

	return nil
}

// Answer returns the answer with the given ID, or nil.
func (q *Question) Answer(answerID string) *Answer {
	for _, a := range q.Answers {
		if a.ID == answerID {
			return a
		}
	}

	return nil
}

// QuestionDraft is the user input for a new question, prior to any
// remote call.
type QuestionDraft struct {
	Title       string
	Description string
	Tags        []string
}

/// Validate enforces the creation rules: title, description, and at least
// one tag are mandatory. Validation failures block submission before any
// remote call is made.
func (d *QuestionDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return NewValidationError("title", "cannot be empty")
	}

	if strings.TrimSpace(d.Description) == "" {
		return NewValidationError("description", "cannot be empty")
	}

	if len(NormalizeTags(d.Tags)) == 0 {
		return NewValidationError("tags", "at least one tag is required")
	}

	return nil
}

// NormalizeTags trims, drops empties, and deduplicates while preserving
// the first occurrence order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))

	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}

		key := strings.ToLower(trimmed)
		if _, dup := seen[key]; dup {
			continue
		}

		seen[key] = struct{}{}
		result = append(result, trimmed)
	}

	return result
}
