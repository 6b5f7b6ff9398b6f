package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackit/interaction/internal/domain"
)

func sessionFixture() *Session {
	author := &domain.User{ID: "u-1", Username: "john_doe"}

	s := NewSession("tok-1", author)
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

func TestSession_InsertQuestionPrepends(t *testing.T) {
	s := sessionFixture()

	s.InsertQuestion(&domain.Question{ID: "q-3"})

	questions := s.Questions()
	require.Len(t, questions, 3)
	assert.Equal(t, "q-3", questions[0].ID, "new questions go to the front")
	assert.Equal(t, "q-1", questions[1].ID)
}

func TestSession_AppendAnswer(t *testing.T) {
	s := sessionFixture()

	err := s.AppendAnswer("q-2", &domain.Answer{ID: "a-9"})
	require.NoError(t, err)

	q := s.Question("q-2")
	require.Len(t, q.Answers, 1)
	assert.Equal(t, "a-9", q.Answers[0].ID)

	err = s.AppendAnswer("missing", &domain.Answer{ID: "a-10"})
	assert.True(t, domain.IsNotFound(err))
}

func TestSession_ApplyAcceptance_SingleAcceptedInvariant(t *testing.T) {
	s := sessionFixture()

	// a-1 starts accepted; accepting a-2 must clear a-1.
	err := s.ApplyAcceptance("q-1", "a-2")
	require.NoError(t, err)

	q := s.Question("q-1")
	assert.False(t, q.Answer("a-1").IsAccepted)
	assert.True(t, q.Answer("a-2").IsAccepted)

	accepted := 0
	for _, a := range q.Answers {
		if a.IsAccepted {
			accepted++
		}
	}
	assert.Equal(t, 1, accepted)
}

func TestSession_ApplyAcceptance_UnknownTargets(t *testing.T) {
	s := sessionFixture()

	assert.True(t, domain.IsNotFound(s.ApplyAcceptance("missing", "a-1")))
	assert.True(t, domain.IsNotFound(s.ApplyAcceptance("q-1", "missing")))

	// The existing accepted flag is untouched after rejected calls.
	assert.True(t, s.Question("q-1").Answer("a-1").IsAccepted)
}

func TestSession_VoteOverlayScenario(t *testing.T) {
	s := sessionFixture()
	target := QuestionTarget("q-1")

	// 15 -> up -> 16 -> up -> 15 -> down -> 14.
	_, err := s.ApplyVoteTransition(target, domain.VoteDirectionUp)
	require.NoError(t, err)
	score, ok := s.DisplayedScore(target)
	require.True(t, ok)
	assert.Equal(t, 16, score)

	_, err = s.ApplyVoteTransition(target, domain.VoteDirectionUp)
	require.NoError(t, err)
	score, _ = s.DisplayedScore(target)
	assert.Equal(t, 15, score)

	_, err = s.ApplyVoteTransition(target, domain.VoteDirectionDown)
	require.NoError(t, err)
	score, _ = s.DisplayedScore(target)
	assert.Equal(t, 14, score)
	assert.Equal(t, domain.VoteDown, s.VoteState(target))
}

func TestSession_ReconcileScoreReplacesDisplayedCount(t *testing.T) {
	s := sessionFixture()
	target := AnswerTarget("a-1")

	tr, err := s.ApplyVoteTransition(target, domain.VoteDirectionUp)
	require.NoError(t, err)
	assert.Equal(t, domain.VoteNone, tr.From)
	assert.Equal(t, domain.VoteUp, tr.To)

	score, _ := s.DisplayedScore(target)
	assert.Equal(t, 9, score, "optimistic display before confirmation")

	// Server answers with the authoritative score; it replaces the
	// displayed count rather than adding to it.
	s.ReconcileScore(target, 9)

	score, _ = s.DisplayedScore(target)
	assert.Equal(t, 9, score)
	assert.Equal(t, domain.VoteUp, s.VoteState(target), "standing vote survives reconciliation")
}

func TestSession_RevertVoteTransition(t *testing.T) {
	s := sessionFixture()
	target := AnswerTarget("a-2")

	tr, err := s.ApplyVoteTransition(target, domain.VoteDirectionDown)
	require.NoError(t, err)

	score, _ := s.DisplayedScore(target)
	assert.Equal(t, 2, score)

	s.RevertVoteTransition(target, tr)

	score, _ = s.DisplayedScore(target)
	assert.Equal(t, 3, score)
	assert.Equal(t, domain.VoteNone, s.VoteState(target))
}

func TestSession_VoteUnknownItem(t *testing.T) {
	s := sessionFixture()

	_, err := s.ApplyVoteTransition(AnswerTarget("missing"), domain.VoteDirectionUp)
	assert.True(t, domain.IsNotFound(err))
}

func TestSession_Notifications(t *testing.T) {
	s := sessionFixture()
	s.SetNotifications([]*domain.Notification{
		{ID: "n-1", Read: false},
		{ID: "n-2", Read: true},
	})

	assert.Equal(t, 1, s.UnreadCount())

	require.NoError(t, s.MarkNotificationRead("n-1"))
	assert.Equal(t, 0, s.UnreadCount())

	assert.True(t, domain.IsNotFound(s.MarkNotificationRead("missing")))

	s.SetNotifications([]*domain.Notification{
		{ID: "n-3"}, {ID: "n-4"}, {ID: "n-5", Read: true},
	})
	assert.Equal(t, 2, s.UnreadCount())

	s.MarkAllNotificationsRead()
	assert.Equal(t, 0, s.UnreadCount())
}

func TestSession_View(t *testing.T) {
	s := sessionFixture()

	assert.Equal(t, domain.ViewHome, s.View().Kind)

	s.SetView(domain.QuestionDetailView("q-1"))
	v := s.View()
	assert.Equal(t, domain.ViewQuestionDetail, v.Kind)
	assert.Equal(t, "q-1", v.QuestionID)
}

func TestStore_SessionLifecycle(t *testing.T) {
	store := NewStore(StoreConfig{TTL: time.Hour})

	created := store.Create("tok-1", &domain.User{ID: "u-1"})
	require.NotNil(t, created)
	assert.Equal(t, 1, store.Len())

	got := store.Get("tok-1")
	assert.Same(t, created, got)

	assert.Nil(t, store.Get("unknown"))

	store.Delete("tok-1")
	assert.Nil(t, store.Get("tok-1"))
}

func TestStore_ExpiredSessionsEvicted(t *testing.T) {
	store := NewStore(StoreConfig{TTL: time.Minute})

	now := time.Now()
	store.now = func() time.Time { return now }

	store.Create("tok-1", &domain.User{ID: "u-1"})

	now = now.Add(2 * time.Minute)
	assert.Nil(t, store.Get("tok-1"))
	assert.Equal(t, 0, store.Len())
}
