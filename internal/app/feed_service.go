package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/stackit/interaction/internal/app/state"
	"github.com/stackit/interaction/internal/domain"
	"github.com/stackit/interaction/internal/platform/logging"
	"github.com/stackit/interaction/internal/ports"
)

// FeedService coordinates the question feed: the initial load, the
// search and tag filter, and the question and answer creation flows.
type FeedService struct {
	client   ports.ForumClient
	executor *Executor
	logger   *slog.Logger
}

// NewFeedService creates a feed service.
func NewFeedService(client ports.ForumClient, executor *Executor, logger *slog.Logger) *FeedService {
	if logger == nil {
		logger = slog.Default()
	}

	if executor == nil {
		executor = NewExecutor(logger)
	}

	return &FeedService{client: client, executor: executor, logger: logger}
}

// Load populates the session with questions and notifications, fetched
// concurrently. When the upstream is unreachable the session falls back
// to the built-in demo dataset so browsing keeps working; the error is
// logged, not surfaced. Write operations still require the upstream.
func (s *FeedService) Load(ctx context.Context, session *state.Session) {
	questions, notifications, err := Parallel2(ctx,
		func(ctx context.Context) ([]*domain.Question, error) {
			return s.client.FetchQuestions(ctx)
		},
		func(ctx context.Context) ([]*domain.Notification, error) {
			return s.client.FetchNotifications(ctx)
		},
	)
	if err != nil {
		s.contextLogger(ctx).WarnContext(ctx, "initial fetch failed, using fallback dataset",
			slog.Any("error", err),
		)

		session.SetQuestions(FallbackQuestions())
		session.SetNotifications(FallbackNotifications())

		return
	}

	session.SetQuestions(questions)
	session.SetNotifications(notifications)
}

// Visible returns the session's questions narrowed by the search query
// and the selected tags. The underlying collection is untouched, so
// clearing the filter restores the full feed.
func (s *FeedService) Visible(session *state.Session, query string, tags []string) []*domain.Question {
	return domain.FilterQuestions(session.Questions(), query, tags)
}

// Tags returns the known tag names for the filter controls, falling
// back to the built-in list when the upstream is unreachable.
func (s *FeedService) Tags(ctx context.Context) []string {
	tags, err := s.client.FetchTags(ctx)
	if err != nil {
		s.contextLogger(ctx).WarnContext(ctx, "tag fetch failed, using fallback list",
			slog.Any("error", err),
		)

		return FallbackTags()
	}

	return tags
}

// Ask submits a new question. Validation runs before any upstream call;
// the session only changes after the upstream returns the canonical
// record, which is prepended so the feed stays newest first. Submitting
// also navigates the session back home.
func (s *FeedService) Ask(ctx context.Context, session *state.Session, draft domain.QuestionDraft) (*domain.Question, error) {
	if session == nil || !session.Authenticated() {
		return nil, domain.NewUnauthenticatedError("ask question")
	}

	op := Operation[domain.QuestionDraft, *domain.Question, *domain.Question, *domain.Question]{
		Name: "ask_question",

		Validate: func(_ context.Context, input domain.QuestionDraft) error {
			return input.Validate()
		},

		Perform: func(ctx context.Context, input domain.QuestionDraft) (*domain.Question, error) {
			input.Tags = domain.NormalizeTags(input.Tags)

			return s.client.CreateQuestion(ctx, input)
		},

		Verify: func(_ context.Context, _ domain.QuestionDraft, created *domain.Question) (*domain.Question, error) {
			if created == nil || created.ID == "" {
				return nil, domain.NewUnavailableError("forum", "question created without an identifier")
			}

			return created, nil
		},

		Archive: func(_ context.Context, _ domain.QuestionDraft, created *domain.Question) error {
			session.InsertQuestion(created)
			session.SetView(domain.HomeView())

			return nil
		},

		Respond: func(_ context.Context, _ domain.QuestionDraft, created *domain.Question) (*domain.Question, error) {
			return created, nil
		},
	}

	return Execute(ctx, s.executor, op, draft)
}

// Answer submits a new answer on a question. The answer is appended to
// the question's local list only after the upstream acknowledges.
func (s *FeedService) Answer(ctx context.Context, session *state.Session, questionID, content string) (*domain.Answer, error) {
	if session == nil || !session.Authenticated() {
		return nil, domain.NewUnauthenticatedError("submit answer")
	}

	op := Operation[string, *domain.Answer, *domain.Answer, *domain.Answer]{
		Name: "submit_answer",

		Validate: func(_ context.Context, input string) error {
			if strings.TrimSpace(input) == "" {
				return domain.NewValidationError("content", "must not be empty")
			}

			if session.Question(questionID) == nil {
				return domain.NewNotFoundError("question", questionID)
			}

			return nil
		},

		Perform: func(ctx context.Context, input string) (*domain.Answer, error) {
			return s.client.CreateAnswer(ctx, questionID, input)
		},

		Verify: func(_ context.Context, _ string, created *domain.Answer) (*domain.Answer, error) {
			if created == nil || created.ID == "" {
				return nil, domain.NewUnavailableError("forum", "answer created without an identifier")
			}

			return created, nil
		},

		Archive: func(_ context.Context, _ string, created *domain.Answer) error {
			return session.AppendAnswer(questionID, created)
		},

		Respond: func(_ context.Context, _ string, created *domain.Answer) (*domain.Answer, error) {
			return created, nil
		},
	}

	return Execute(ctx, s.executor, op, content)
}

// Open navigates the session to a question's detail view. The upstream
// copy is preferred because fetching it bumps the authoritative view
// counter; when the upstream is unreachable the local copy serves with
// a locally bumped counter instead.
func (s *FeedService) Open(ctx context.Context, session *state.Session, questionID string) (*domain.Question, error) {
	fresh, err := s.client.FetchQuestion(ctx, questionID)
	if err == nil {
		session.ReplaceQuestion(fresh)
		session.SetView(domain.QuestionDetailView(questionID))

		return fresh, nil
	}

	if domain.IsNotFound(err) {
		return nil, err
	}

	local := session.Question(questionID)
	if local == nil {
		return nil, err
	}

	s.contextLogger(ctx).WarnContext(ctx, "question refresh failed, serving local copy",
		slog.String("question_id", questionID),
		slog.Any("error", err),
	)

	session.IncrementViews(questionID)
	session.SetView(domain.QuestionDetailView(questionID))

	return session.Question(questionID), nil
}

func (s *FeedService) contextLogger(ctx context.Context) *slog.Logger {
	if logger := logging.FromContext(ctx); logger != nil {
		return logger
	}

	return s.logger
}
