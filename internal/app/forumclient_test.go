package app

import (
	"context"

	"github.com/stackit/interaction/internal/domain"
	"github.com/stackit/interaction/internal/ports"
)

// fakeForumClient is a function-field test double for ports.ForumClient.
// Unset fields panic, which keeps tests honest about which calls they
// expect.
type fakeForumClient struct {
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

func (f *fakeForumClient) FetchQuestions(ctx context.Context) ([]*domain.Question, error) {
	return f.fetchQuestionsFn(ctx)
}

func (f *fakeForumClient) FetchQuestion(ctx context.Context, id string) (*domain.Question, error) {
	return f.fetchQuestionFn(ctx, id)
}

func (f *fakeForumClient) FetchNotifications(ctx context.Context) ([]*domain.Notification, error) {
	return f.fetchNotificationsFn(ctx)
}

func (f *fakeForumClient) FetchTags(ctx context.Context) ([]string, error) {
	return f.fetchTagsFn(ctx)
}

func (f *fakeForumClient) CreateQuestion(ctx context.Context, draft domain.QuestionDraft) (*domain.Question, error) {
	return f.createQuestionFn(ctx, draft)
}

func (f *fakeForumClient) CreateAnswer(ctx context.Context, questionID, content string) (*domain.Answer, error) {
	return f.createAnswerFn(ctx, questionID, content)
}

func (f *fakeForumClient) SubmitAnswerVote(ctx context.Context, answerID, value string) (int, error) {
	return f.submitAnswerVoteFn(ctx, answerID, value)
}

func (f *fakeForumClient) AcceptAnswer(ctx context.Context, answerID string) error {
	return f.acceptAnswerFn(ctx, answerID)
}

func (f *fakeForumClient) MarkNotificationRead(ctx context.Context, id string) error {
	return f.markReadFn(ctx, id)
}

func (f *fakeForumClient) MarkAllNotificationsRead(ctx context.Context) error {
	return f.markAllReadFn(ctx)
}

func (f *fakeForumClient) Login(ctx context.Context, username, password string) (*ports.Credentials, error) {
	return f.loginFn(ctx, username, password)
}

func (f *fakeForumClient) Register(ctx context.Context, username, email, password string) (*ports.Credentials, error) {
	return f.registerFn(ctx, username, email, password)
}
