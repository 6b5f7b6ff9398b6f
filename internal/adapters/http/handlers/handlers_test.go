package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/stackit/interaction/internal/adapters/http/middleware"
	"github.com/stackit/interaction/internal/app/state"
	"github.com/stackit/interaction/internal/domain"
	"github.com/stackit/interaction/internal/ports"
)

// stubForumClient is a function-field test double for ports.ForumClient.
// Unset fields panic, which keeps tests honest about which upstream
// calls they expect.
type stubForumClient struct {
	fetchQuestionsFn     func(ctx context.Context) ([]*domain.Question, error)
	fetchQuestionFn      func(ctx context.Context, id string) (*domain.Question, error)
	fetchNotificationsFn func(ctx context.Context) ([]*domain.Notification, error)
	fetchTagsFn          func(ctx context.Context) ([]string, error)

	createQuestionFn   func(ctx context.Context, draft domain.QuestionDraft) (*domain.Question, error)
	createAnswerFn     func(ctx context.Context, questionID, content string) (*domain.Answer, error)
	submitAnswerVoteFn func(ctx context.Context, answerID, value string) (int, error)
	acceptAnswerFn     func(ctx context.Context, answerID string) error
	markReadFn         func(ctx context.Context, id string) error
	markAllReadFn      func(ctx context.Context) error

	loginFn    func(ctx context.Context, username, password string) (*ports.Credentials, error)
	registerFn func(ctx context.Context, username, email, password string) (*ports.Credentials, error)
}

func (f *stubForumClient) FetchQuestions(ctx context.Context) ([]*domain.Question, error) {
	return f.fetchQuestionsFn(ctx)
}

func (f *stubForumClient) FetchQuestion(ctx context.Context, id string) (*domain.Question, error) {
	return f.fetchQuestionFn(ctx, id)
}

func (f *stubForumClient) FetchNotifications(ctx context.Context) ([]*domain.Notification, error) {
	return f.fetchNotificationsFn(ctx)
}

func (f *stubForumClient) FetchTags(ctx context.Context) ([]string, error) {
	return f.fetchTagsFn(ctx)
}

func (f *stubForumClient) CreateQuestion(ctx context.Context, draft domain.QuestionDraft) (*domain.Question, error) {
	return f.createQuestionFn(ctx, draft)
}

func (f *stubForumClient) CreateAnswer(ctx context.Context, questionID, content string) (*domain.Answer, error) {
	return f.createAnswerFn(ctx, questionID, content)
}

func (f *stubForumClient) SubmitAnswerVote(ctx context.Context, answerID, value string) (int, error) {
	return f.submitAnswerVoteFn(ctx, answerID, value)
}

func (f *stubForumClient) AcceptAnswer(ctx context.Context, answerID string) error {
	return f.acceptAnswerFn(ctx, answerID)
}

func (f *stubForumClient) MarkNotificationRead(ctx context.Context, id string) error {
	return f.markReadFn(ctx, id)
}

func (f *stubForumClient) MarkAllNotificationsRead(ctx context.Context) error {
	return f.markAllReadFn(ctx)
}

func (f *stubForumClient) Login(ctx context.Context, username, password string) (*ports.Credentials, error) {
	return f.loginFn(ctx, username, password)
}

func (f *stubForumClient) Register(ctx context.Context, username, email, password string) (*ports.Credentials, error) {
	return f.registerFn(ctx, username, email, password)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testContext builds a gin context with the given request and attaches
// the session the way SessionAuth would.
func testContext(t *testing.T, method, target string, body any, session *state.Session) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, reader)

	if body != nil {
		c.Request.Header.Set("Content-Type", "application/json")
	}

	if session != nil {
		c.Set(middleware.ContextKeySession, session)
		c.Request = c.Request.WithContext(state.WithSession(c.Request.Context(), session))
	}

	return w, c
}

// seedQuestions returns a small feed owned by user u-1.
func seedQuestions() []*domain.Question {
	author := &domain.User{ID: "u-1", Username: "john_doe", Role: domain.RoleMember}
	other := &domain.User{ID: "u-2", Username: "jane_smith", Role: domain.RoleAdmin}

	return []*domain.Question{
		{
			ID:          "q-1",
			Title:       "How to structure a Gin service?",
			Description: "Looking for layout advice for a mid-sized API.",
			Author:      author,
			Tags:        []string{"Go", "Gin"},
			Votes:       4,
			Views:       40,
			CreatedAt:   time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
			Answers: []*domain.Answer{
				{ID: "a-1", Content: "Split by adapter and domain.", Author: other, Votes: 2},
				{ID: "a-2", Content: "Keep handlers thin.", Author: other, Votes: 1},
			},
		},
		{
			ID:          "q-2",
			Title:       "JWT storage best practice?",
			Description: "Where should a SPA keep its tokens?",
			Author:      other,
			Tags:        []string{"JWT", "Security"},
			Votes:       9,
			Views:       120,
			CreatedAt:   time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC),
		},
	}
}

// authedSession returns a signed-in session for user u-1 seeded with the
// demo feed.
func authedSession() *state.Session {
	session := state.NewSession("tok-test", &domain.User{ID: "u-1", Username: "john_doe", Role: domain.RoleMember})
	session.SetQuestions(seedQuestions())

	return session
}

func anonymousSession() *state.Session {
	return state.NewSession("", nil)
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))

	return out
}
