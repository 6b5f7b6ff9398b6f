// Package app contains the application services: the orchestration layer
// between the HTTP handlers and the upstream forum client. Services own
// the interaction semantics (optimistic updates, reconciliation,
// authorization gates) and delegate durable state to the upstream.
package app

import (
	"context"
	"log/slog"

	"github.com/stackit/interaction/internal/app/state"
	"github.com/stackit/interaction/internal/domain"
	"github.com/stackit/interaction/internal/platform/logging"
	"github.com/stackit/interaction/internal/ports"
)

// VoteService coordinates vote intents: session-local optimistic
// transitions first, then reconciliation against the upstream response.
type VoteService struct {
	client ports.ForumWriter
	logger *slog.Logger
}

// NewVoteService creates a vote service.
func NewVoteService(client ports.ForumWriter, logger *slog.Logger) *VoteService {
	if logger == nil {
		logger = slog.Default()
	}

	return &VoteService{client: client, logger: logger}
}

// VoteResult reports the outcome of a cast intent.
type VoteResult struct {
	// Applied is false when the intent was dropped (anonymous session).
	Applied bool

	// State is the viewer's standing vote after the cast.
	State domain.VoteState

	// Score is the displayed count after the cast: the authoritative
	// value for answers, base plus local overlay for questions.
	Score int
}

// Cast applies a vote intent for the session's viewer.
//
// Anonymous sessions are a silent no-op: the result reports Applied
// false and nothing changes, locally or remotely. Authenticated casts
// update the overlay immediately; answer votes are then confirmed with
// the upstream, whose score replaces the displayed count. A failed
// upstream call rolls the overlay back and surfaces the error.
// Question votes are session-local only.
func (s *VoteService) Cast(
	ctx context.Context,
	session *state.Session,
	target state.VoteTarget,
	dir domain.VoteDirection,
) (VoteResult, error) {
	logger := s.contextLogger(ctx)

	if !dir.Valid() {
		return VoteResult{}, domain.NewValidationError("direction", "must be up or down")
	}

	if session == nil || !session.Authenticated() {
		logger.DebugContext(ctx, "vote intent dropped: anonymous session",
			slog.String("target_kind", string(target.Kind)),
			slog.String("target_id", target.ID),
		)

		return VoteResult{Applied: false}, nil
	}

	tr, err := session.ApplyVoteTransition(target, dir)
	if err != nil {
		return VoteResult{}, err
	}

	if target.Kind == state.KindAnswer {
		score, voteErr := s.client.SubmitAnswerVote(ctx, target.ID, tr.To.WireValue())
		if voteErr != nil {
			session.RevertVoteTransition(target, tr)
			logger.WarnContext(ctx, "vote rejected upstream, overlay reverted",
				slog.String("answer_id", target.ID),
				slog.Any("error", voteErr),
			)

			return VoteResult{}, voteErr
		}

		session.ReconcileScore(target, score)

		return VoteResult{Applied: true, State: tr.To, Score: score}, nil
	}

	// Question votes have no upstream call; the overlay is the score.
	displayed, _ := session.DisplayedScore(target)

	return VoteResult{Applied: true, State: tr.To, Score: displayed}, nil
}

func (s *VoteService) contextLogger(ctx context.Context) *slog.Logger {
	if logger := logging.FromContext(ctx); logger != nil {
		return logger
	}

	return s.logger
}
