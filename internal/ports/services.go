// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrUnavailable, etc.)
//   - Methods represent business operations, not CRUD operations
package ports

import (
	"context"

	"github.com/stackit/interaction/internal/domain"
)

// Credentials is the result of a successful login or registration
// against the upstream forum service. The access token doubles as the
// session key; refresh handling is not this service's concern.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	User         *domain.User
}

// ForumReader covers the read operations against the upstream forum
// service. The bearer credential travels in the request context.
type ForumReader interface {
	// FetchQuestions retrieves the question collection, newest first.
	// Returns domain.ErrUnavailable when the upstream is unreachable.
	FetchQuestions(ctx context.Context) ([]*domain.Question, error)

	// FetchQuestion retrieves one question with its answers. The
	// upstream increments the view counter as a side effect.
	// Returns domain.ErrNotFound for unknown IDs.
	FetchQuestion(ctx context.Context, id string) (*domain.Question, error)

	// FetchNotifications retrieves the caller's notification list.
	FetchNotifications(ctx context.Context) ([]*domain.Notification, error)

	// FetchTags retrieves the known tag names for the filter UI.
	FetchTags(ctx context.Context) ([]string, error)
}

// ForumWriter covers the write operations against the upstream forum
// service.
type ForumWriter interface {
	// CreateQuestion persists a new question and returns the canonical
	// record including the server-assigned identifier.
	CreateQuestion(ctx context.Context, draft domain.QuestionDraft) (*domain.Question, error)

	// CreateAnswer persists a new answer on a question and returns the
	// canonical record.
	CreateAnswer(ctx context.Context, questionID, content string) (*domain.Answer, error)

	// SubmitAnswerVote records a vote on an answer. Value is "up",
	// "down", or "remove". The response carries the authoritative
	// score, which replaces any locally computed display value.
	SubmitAnswerVote(ctx context.Context, answerID, value string) (int, error)

	// AcceptAnswer marks an answer as accepted. The upstream enforces
	// that only the question's author may accept and clears the flag
	// on sibling answers.
	AcceptAnswer(ctx context.Context, answerID string) error

	// MarkNotificationRead flips the read flag on one notification.
	MarkNotificationRead(ctx context.Context, id string) error

	// MarkAllNotificationsRead flips the read flag on every
	// notification of the caller.
	MarkAllNotificationsRead(ctx context.Context) error
}

// ForumAuthenticator covers the credential operations.
type ForumAuthenticator interface {
	// Login exchanges a username (or email) and password for tokens.
	// Returns domain.ErrUnauthenticated for rejected credentials.
	Login(ctx context.Context, username, password string) (*Credentials, error)

	// Register creates a new account and returns its tokens.
	// Returns domain.ErrValidation for rejected input.
	Register(ctx context.Context, username, email, password string) (*Credentials, error)
}

// ForumClient is the full upstream contract consumed by the application
// layer.
type ForumClient interface {
	ForumReader
	ForumWriter
	ForumAuthenticator
}
