package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackit/interaction/internal/app/state"
	"github.com/stackit/interaction/internal/domain"
)

func testSession(t *testing.T, user *domain.User) *state.Session {
	t.Helper()

	author := &domain.User{ID: "u-1", Username: "john_doe"}

	s := state.NewSession("tok-1", user)
	s.SetQuestions([]*domain.Question{
		{
			ID:     "q-1",
			Title:  "How to implement JWT authentication in React?",
			Author: author,
			Votes:  15,
			Answers: []*domain.Answer{
				{ID: "a-1", Votes: 8, IsAccepted: true},
				{ID: "a-2", Votes: 3},
			},
		},
		{ID: "q-2", Title: "Responsive design in 2025?", Author: author, Votes: 8},
	})

	return s
}

func TestVoteService_AnonymousCastIsSilentNoOp(t *testing.T) {
	client := &fakeForumClient{
		submitAnswerVoteFn: func(context.Context, string, string) (int, error) {
			t.Fatal("anonymous cast must not reach the upstream")
			return 0, nil
		},
	}
	svc := NewVoteService(client, nil)
	session := testSession(t, nil)
	target := state.AnswerTarget("a-1")

	result, err := svc.Cast(context.Background(), session, target, domain.VoteDirectionUp)

	require.NoError(t, err)
	assert.False(t, result.Applied)

	score, _ := session.DisplayedScore(target)
	assert.Equal(t, 8, score, "displayed count unchanged")
	assert.Equal(t, domain.VoteNone, session.VoteState(target))
}

func TestVoteService_AnswerVoteReconcilesServerScore(t *testing.T) {
	var sentValue string

	client := &fakeForumClient{
		submitAnswerVoteFn: func(_ context.Context, answerID, value string) (int, error) {
			assert.Equal(t, "a-1", answerID)
			sentValue = value
			return 9, nil
		},
	}
	svc := NewVoteService(client, nil)
	session := testSession(t, &domain.User{ID: "u-2"})
	target := state.AnswerTarget("a-1")

	result, err := svc.Cast(context.Background(), session, target, domain.VoteDirectionUp)

	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, "up", sentValue)
	assert.Equal(t, domain.VoteUp, result.State)
	assert.Equal(t, 9, result.Score, "server score replaces the displayed count")

	score, _ := session.DisplayedScore(target)
	assert.Equal(t, 9, score)
}

func TestVoteService_ToggleSendsRemove(t *testing.T) {
	values := []string{}

	client := &fakeForumClient{
		submitAnswerVoteFn: func(_ context.Context, _, value string) (int, error) {
			values = append(values, value)

			switch value {
			case "up":
				return 9, nil
			default:
				return 8, nil
			}
		},
	}
	svc := NewVoteService(client, nil)
	session := testSession(t, &domain.User{ID: "u-2"})
	target := state.AnswerTarget("a-1")

	_, err := svc.Cast(context.Background(), session, target, domain.VoteDirectionUp)
	require.NoError(t, err)

	result, err := svc.Cast(context.Background(), session, target, domain.VoteDirectionUp)
	require.NoError(t, err)

	assert.Equal(t, []string{"up", "remove"}, values)
	assert.Equal(t, domain.VoteNone, result.State)
	assert.Equal(t, 8, result.Score)
}

func TestVoteService_FailedUpstreamRevertsOverlay(t *testing.T) {
	client := &fakeForumClient{
		submitAnswerVoteFn: func(context.Context, string, string) (int, error) {
			return 0, domain.NewUnavailableError("forum", "connection refused")
		},
	}
	svc := NewVoteService(client, nil)
	session := testSession(t, &domain.User{ID: "u-2"})
	target := state.AnswerTarget("a-2")

	_, err := svc.Cast(context.Background(), session, target, domain.VoteDirectionDown)

	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))

	score, _ := session.DisplayedScore(target)
	assert.Equal(t, 3, score, "optimistic delta rolled back")
	assert.Equal(t, domain.VoteNone, session.VoteState(target))
}

func TestVoteService_QuestionVoteIsSessionLocal(t *testing.T) {
	client := &fakeForumClient{
		submitAnswerVoteFn: func(context.Context, string, string) (int, error) {
			t.Fatal("question votes have no upstream call")
			return 0, nil
		},
	}
	svc := NewVoteService(client, nil)
	session := testSession(t, &domain.User{ID: "u-2"})
	target := state.QuestionTarget("q-1")

	result, err := svc.Cast(context.Background(), session, target, domain.VoteDirectionUp)

	require.NoError(t, err)
	assert.Equal(t, 16, result.Score)

	// Up again toggles off, then down lands on 14.
	result, err = svc.Cast(context.Background(), session, target, domain.VoteDirectionUp)
	require.NoError(t, err)
	assert.Equal(t, 15, result.Score)

	result, err = svc.Cast(context.Background(), session, target, domain.VoteDirectionDown)
	require.NoError(t, err)
	assert.Equal(t, 14, result.Score)
	assert.Equal(t, domain.VoteDown, result.State)
}

func TestVoteService_InvalidDirection(t *testing.T) {
	svc := NewVoteService(&fakeForumClient{}, nil)
	session := testSession(t, &domain.User{ID: "u-2"})

	_, err := svc.Cast(context.Background(), session, state.AnswerTarget("a-1"), domain.VoteDirection("sideways"))

	assert.True(t, domain.IsValidation(err))
}

func TestVoteService_UnknownTarget(t *testing.T) {
	svc := NewVoteService(&fakeForumClient{}, nil)
	session := testSession(t, &domain.User{ID: "u-2"})

	_, err := svc.Cast(context.Background(), session, state.AnswerTarget("missing"), domain.VoteDirectionUp)

	assert.True(t, domain.IsNotFound(err))
}
