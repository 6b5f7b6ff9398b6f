package app

import (
	"context"
	"log/slog"

	"github.com/stackit/interaction/internal/app/state"
	"github.com/stackit/interaction/internal/domain"
	"github.com/stackit/interaction/internal/platform/logging"
	"github.com/stackit/interaction/internal/ports"
)

// AcceptanceService coordinates answer acceptance. Local state only
// changes after the upstream confirms, so a failed call leaves the
// session exactly as it was.
type AcceptanceService struct {
	client ports.ForumWriter
	logger *slog.Logger
}

// NewAcceptanceService creates an acceptance service.
func NewAcceptanceService(client ports.ForumWriter, logger *slog.Logger) *AcceptanceService {
	if logger == nil {
		logger = slog.Default()
	}

	return &AcceptanceService{client: client, logger: logger}
}

// Accept marks an answer as the accepted one for its question.
//
// Only the question's author may accept. On success exactly one answer
// of the question carries the accepted flag; accepting a different
// answer moves the flag rather than duplicating it.
func (s *AcceptanceService) Accept(ctx context.Context, session *state.Session, questionID, answerID string) error {
	if session == nil || !session.Authenticated() {
		return domain.NewUnauthenticatedError("accept answer")
	}

	question := session.Question(questionID)
	if question == nil {
		return domain.NewNotFoundError("question", questionID)
	}

	if question.Answer(answerID) == nil {
		return domain.NewNotFoundError("answer", answerID)
	}

	if question.Author == nil || question.Author.ID != session.User().ID {
		return domain.NewForbiddenError("accept answer", "only the question author may accept an answer")
	}

	err := s.client.AcceptAnswer(ctx, answerID)
	if err != nil {
		return err
	}

	// Upstream confirmed; mirror the single-accepted flag locally.
	if applyErr := session.ApplyAcceptance(questionID, answerID); applyErr != nil {
		return applyErr
	}

	s.contextLogger(ctx).InfoContext(ctx, "answer accepted",
		slog.String("question_id", questionID),
		slog.String("answer_id", answerID),
	)

	return nil
}

func (s *AcceptanceService) contextLogger(ctx context.Context) *slog.Logger {
	if logger := logging.FromContext(ctx); logger != nil {
		return logger
	}

	return s.logger
}
