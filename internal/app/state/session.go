// Package state holds the session-scoped interaction state: the question
// collection, the notification list, the viewer's optimistic vote
// overlays, and the current view. All mutation goes through named intent
// methods on Session; a single mutex per session serializes them, which
// is the concurrency contract the rest of the application relies on.
package state

import (
	"sync"
	"time"

	"github.com/stackit/interaction/internal/domain"
)

// ItemKind distinguishes the two votable item kinds.
type ItemKind string

const (
	// KindQuestion targets a question.
	KindQuestion ItemKind = "question"

	// KindAnswer targets an answer.
	KindAnswer ItemKind = "answer"
)

// VoteTarget identifies a votable item.
type VoteTarget struct {
	Kind ItemKind
	ID   string
}

// QuestionTarget builds a question vote target.
func QuestionTarget(id string) VoteTarget {
	return VoteTarget{Kind: KindQuestion, ID: id}
}

// AnswerTarget builds an answer vote target.
func AnswerTarget(id string) VoteTarget {
	return VoteTarget{Kind: KindAnswer, ID: id}
}

// VoteTransition records an overlay transition so a failed remote call
// can be reverted.
type VoteTransition struct {
	From domain.VoteState
	To   domain.VoteState
}

// Remove reports whether the transition lands on none, which maps to the
// "remove" wire value.
func (t VoteTransition) Remove() bool {
	return t.To == domain.VoteNone
}

// voteOverlay is the per-item optimistic vote record. State is the
// viewer's standing vote; pending is the optimistic score delta not yet
// confirmed by the server.
type voteOverlay struct {
	state   domain.VoteState
	pending int
}

// Session is one presentation-layer session. The upstream service owns
// durable state; a Session owns only the local reconciliation between
// optimistic updates and authoritative responses. Sessions are not
// shared or synchronized with each other.
type Session struct {
	token    string
	user     *domain.User
	lastSeen time.Time

	mu            sync.RWMutex
	questions     []*domain.Question
	notifications []*domain.Notification
	overlays      map[VoteTarget]*voteOverlay
	view          domain.View
}

// NewSession creates a session for an authenticated user. A nil user
// produces an anonymous session: browsing works, write intents are
// gated by the services.
func NewSession(token string, user *domain.User) *Session {
	return &Session{
		token:    token,
		user:     user,
		lastSeen: time.Now(),
		overlays: make(map[VoteTarget]*voteOverlay),
		view:     domain.HomeView(),
	}
}

// Token returns the bearer credential attached to upstream requests.
func (s *Session) Token() string {
	return s.token
}

// User returns the session's user, nil when anonymous.
func (s *Session) User() *domain.User {
	return s.user
}

// Authenticated reports whether a user is signed in.
func (s *Session) Authenticated() bool {
	return s.user != nil
}

// SetQuestions replaces the question collection from an upstream fetch.
func (s *Session) SetQuestions(questions []*domain.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.questions = questions
}

// Questions returns a snapshot of the question collection, newest first.
func (s *Session) Questions() []*domain.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]*domain.Question, len(s.questions))
	copy(snapshot, s.questions)

	return snapshot
}

// Question returns the question with the given ID, or nil.
func (s *Session) Question(id string) *domain.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.findQuestion(id)
}

// InsertQuestion prepends a newly created question: the collection is
// ordered newest first.
func (s *Session) InsertQuestion(q *domain.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.questions = append([]*domain.Question{q}, s.questions...)
}

// ReplaceQuestion swaps a refreshed question into the collection in
// place, preserving order. Missing IDs are ignored.
func (s *Session) ReplaceQuestion(q *domain.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.questions {
		if existing.ID == q.ID {
			s.questions[i] = q
			return
		}
	}
}

// AppendAnswer appends a server-acknowledged answer to its question.
func (s *Session) AppendAnswer(questionID string, answer *domain.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.findQuestion(questionID)
	if q == nil {
		return domain.NewNotFoundError("question", questionID)
	}

	q.Answers = append(q.Answers, answer)

	return nil
}

// ApplyAcceptance marks the target answer accepted and clears the flag
// on every sibling, atomically with respect to readers of this session.
func (s *Session) ApplyAcceptance(questionID, answerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.findQuestion(questionID)
	if q == nil {
		return domain.NewNotFoundError("question", questionID)
	}

	if q.Answer(answerID) == nil {
		return domain.NewNotFoundError("answer", answerID)
	}

	for _, a := range q.Answers {
		a.IsAccepted = a.ID == answerID
	}

	return nil
}

// IncrementViews bumps the local view counter for a question.
func (s *Session) IncrementViews(questionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if q := s.findQuestion(questionID); q != nil {
		q.Views++
	}
}

// ApplyVoteTransition advances the overlay for the target in the given
// direction and applies the optimistic score delta. The returned
// transition lets the caller revert on remote failure.
func (s *Session) ApplyVoteTransition(target VoteTarget, dir domain.VoteDirection) (VoteTransition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.itemExists(target) {
		return VoteTransition{}, domain.NewNotFoundError(string(target.Kind), target.ID)
	}

	overlay := s.overlay(target)
	tr := VoteTransition{From: overlay.state, To: overlay.state.Next(dir)}

	overlay.state = tr.To
	overlay.pending += tr.To.Delta() - tr.From.Delta()

	return tr, nil
}

// RevertVoteTransition undoes an optimistic transition after the remote
// vote call failed.
func (s *Session) RevertVoteTransition(target VoteTarget, tr VoteTransition) {
	s.mu.Lock()
	defer s.mu.Unlock()

	overlay := s.overlay(target)
	overlay.state = tr.From
	overlay.pending -= tr.To.Delta() - tr.From.Delta()
}

// ReconcileScore installs the server's authoritative score for the
// target and clears the pending optimistic delta: the server value
// replaces the displayed count, it is never added to it. Responses may
// arrive out of order; the last one wins.
func (s *Session) ReconcileScore(target VoteTarget, score int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch target.Kind {
	case KindQuestion:
		if q := s.findQuestion(target.ID); q != nil {
			q.Votes = score
		}

	case KindAnswer:
		if a := s.findAnswer(target.ID); a != nil {
			a.Votes = score
		}
	}

	s.overlay(target).pending = 0
}

// DisplayedScore returns baseCount + localOverlay for the target.
func (s *Session) DisplayedScore(target VoteTarget) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	base, ok := s.baseScore(target)
	if !ok {
		return 0, false
	}

	if overlay, exists := s.overlays[target]; exists {
		return base + overlay.pending, true
	}

	return base, true
}

// VoteState returns the viewer's standing vote on the target.
func (s *Session) VoteState(target VoteTarget) domain.VoteState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if overlay, exists := s.overlays[target]; exists {
		return overlay.state
	}

	return domain.VoteNone
}

// SetNotifications replaces the notification list from an upstream fetch.
func (s *Session) SetNotifications(notifications []*domain.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = notifications
}

// Notifications returns a snapshot of the notification list.
func (s *Session) Notifications() []*domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]*domain.Notification, len(s.notifications))
	copy(snapshot, s.notifications)

	return snapshot
}

// Notification returns the notification with the given ID, or nil.
func (s *Session) Notification(id string) *domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, n := range s.notifications {
		if n.ID == id {
			return n
		}
	}

	return nil
}

// UnreadCount derives the unread notification count.
func (s *Session) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.UnreadCount(s.notifications)
}

// MarkNotificationRead flips the read flag on one notification.
func (s *Session) MarkNotificationRead(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notifications {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}

	return domain.NewNotFoundError("notification", id)
}

// MarkAllNotificationsRead flips the read flag on every notification.
func (s *Session) MarkAllNotificationsRead() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notifications {
		n.Read = true
	}
}

// SetView updates the current view state.
func (s *Session) SetView(v domain.View) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view = v
}

// View returns the current view state.
func (s *Session) View() domain.View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.view
}

// findQuestion must be called with the lock held.
func (s *Session) findQuestion(id string) *domain.Question {
	for _, q := range s.questions {
		if q.ID == id {
			return q
		}
	}

	return nil
}

// findAnswer must be called with the lock held.
func (s *Session) findAnswer(id string) *domain.Answer {
	for _, q := range s.questions {
		if a := q.Answer(id); a != nil {
			return a
		}
	}

	return nil
}

// overlay returns the overlay record for the target, creating it on
// first use. Must be called with the lock held.
func (s *Session) overlay(target VoteTarget) *voteOverlay {
	if existing, ok := s.overlays[target]; ok {
		return existing
	}

	created := &voteOverlay{}
	s.overlays[target] = created

	return created
}

// itemExists must be called with the lock held.
func (s *Session) itemExists(target VoteTarget) bool {
	switch target.Kind {
	case KindQuestion:
		return s.findQuestion(target.ID) != nil
	case KindAnswer:
		return s.findAnswer(target.ID) != nil
	}

	return false
}

// baseScore must be called with the lock held.
func (s *Session) baseScore(target VoteTarget) (int, bool) {
	switch target.Kind {
	case KindQuestion:
		if q := s.findQuestion(target.ID); q != nil {
			return q.Votes, true
		}

	case KindAnswer:
		if a := s.findAnswer(target.ID); a != nil {
			return a.Votes, true
		}
	}

	return 0, false
}
