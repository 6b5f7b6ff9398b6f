package dto

import (
	"errors"
	"time"

	"github.com/stackit/interaction/internal/app/state"
	"github.com/stackit/interaction/internal/domain"
)

// Request DTOs. Validation tags are enforced through BindAndValidate
// before any service call.

// LoginRequest carries credentials for session creation.
type LoginRequest struct {
	Username string `json:"username" validate:"required,notempty"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest carries the input for account creation.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// CreateQuestionRequest carries a new question draft.
type CreateQuestionRequest struct {
	Title       string   `json:"title"       validate:"required,notempty"`
	Description string   `json:"description" validate:"required,notempty"`
	Tags        []string `json:"tags"        validate:"required,min=1"`
}

// Draft converts the request to a domain draft.
func (r *CreateQuestionRequest) Draft() domain.QuestionDraft {
	return domain.QuestionDraft{
		Title:       r.Title,
		Description: r.Description,
		Tags:        r.Tags,
	}
}

// CreateAnswerRequest carries a new answer body.
type CreateAnswerRequest struct {
	Content string `json:"content" validate:"required,notempty"`
}

// VoteRequest carries a vote intent.
type VoteRequest struct {
	Direction string `json:"direction" validate:"required,oneof=up down"`
}

// QuestionListQuery carries the feed filter parameters.
type QuestionListQuery struct {
	// Search is matched case-insensitively against title, description,
	// and tags.
	Search string `form:"search"`

	// Tags narrows the feed to questions carrying at least one of them.
	Tags []string `form:"tags"`

	// PaginationRequest pages the filtered feed. Without a cursor the
	// first page is returned.
	PaginationRequest
}

// SetViewRequest carries a navigation intent.
type SetViewRequest struct {
	Kind       string `json:"kind" validate:"required,oneof=home ask question"`
	QuestionID string `json:"questionId,omitempty"`
}

// Response DTOs.

// UserResponse is the wire shape of a user.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	Avatar   string `json:"avatar,omitempty"`
}

// AnswerResponse is the wire shape of an answer. Votes is the displayed
// count (authoritative base plus the viewer's unconfirmed delta) and
// ViewerVote the viewer's standing vote.
type AnswerResponse struct {
	ID         string        `json:"id"`
	Content    string        `json:"content"`
	Author     *UserResponse `json:"author,omitempty"`
	Votes      int           `json:"votes"`
	ViewerVote string        `json:"viewerVote"`
	IsAccepted bool          `json:"isAccepted"`
	CreatedAt  string        `json:"createdAt,omitempty"`
}

// QuestionResponse is the wire shape of a question.
type QuestionResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Author      *UserResponse    `json:"author,omitempty"`
	Tags        []string         `json:"tags"`
	Votes       int              `json:"votes"`
	ViewerVote  string           `json:"viewerVote"`
	Views       int              `json:"views"`
	CreatedAt   string           `json:"createdAt,omitempty"`
	Answers     []AnswerResponse `json:"answers"`
}

// QuestionListResponse envelopes one page of the filtered feed. Total
// counts the whole filtered feed, not the page.
type QuestionListResponse struct {
	Questions  []QuestionResponse `json:"questions"`
	Total      int                `json:"total"`
	HasMore    bool               `json:"hasMore"`
	NextCursor string             `json:"nextCursor,omitempty"`
}

// NotificationResponse is the wire shape of a notification.
type NotificationResponse struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Time    string `json:"time,omitempty"`
	Read    bool   `json:"read"`
}

// NotificationListResponse envelopes the notification list with its
// derived unread count.
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unreadCount"`
}

// TagListResponse envelopes the known tag names.
type TagListResponse struct {
	Tags []string `json:"tags"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken,omitempty"`
	User         UserResponse `json:"user"`
}

// VoteResponse reports the outcome of a vote intent.
type VoteResponse struct {
	// Applied is false when the intent was dropped (anonymous viewer).
	Applied bool `json:"applied"`

	ViewerVote string `json:"viewerVote"`
	Votes      int    `json:"votes"`
}

// ViewResponse is the wire shape of the session's view state.
type ViewResponse struct {
	Kind       string `json:"kind"`
	QuestionID string `json:"questionId,omitempty"`
}

// Builders. A nil session produces the base counts with no viewer vote.

// NewUserResponse converts a domain user.
func NewUserResponse(u *domain.User) *UserResponse {
	if u == nil {
		return nil
	}

	return &UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     string(u.Role),
		Avatar:   u.Avatar,
	}
}

// NewAnswerResponse converts a domain answer, overlaying the viewer's
// session-local vote state.
func NewAnswerResponse(a *domain.Answer, session *state.Session) AnswerResponse {
	votes := a.Votes
	viewerVote := domain.VoteNone

	if session != nil {
		target := state.AnswerTarget(a.ID)
		if displayed, ok := session.DisplayedScore(target); ok {
			votes = displayed
		}

		viewerVote = session.VoteState(target)
	}

	return AnswerResponse{
		ID:         a.ID,
		Content:    a.Content,
		Author:     NewUserResponse(a.Author),
		Votes:      votes,
		ViewerVote: viewerVote.String(),
		IsAccepted: a.IsAccepted,
		CreatedAt:  formatTime(a.CreatedAt),
	}
}

// NewQuestionResponse converts a domain question with its answers.
func NewQuestionResponse(q *domain.Question, session *state.Session) QuestionResponse {
	votes := q.Votes
	viewerVote := domain.VoteNone

	if session != nil {
		target := state.QuestionTarget(q.ID)
		if displayed, ok := session.DisplayedScore(target); ok {
			votes = displayed
		}

		viewerVote = session.VoteState(target)
	}

	answers := make([]AnswerResponse, 0, len(q.Answers))
	for _, a := range q.Answers {
		answers = append(answers, NewAnswerResponse(a, session))
	}

	tags := q.Tags
	if tags == nil {
		tags = []string{}
	}

	return QuestionResponse{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		Author:      NewUserResponse(q.Author),
		Tags:        tags,
		Votes:       votes,
		ViewerVote:  viewerVote.String(),
		Views:       q.Views,
		CreatedAt:   formatTime(q.CreatedAt),
		Answers:     answers,
	}
}

// NewQuestionListResponse converts a filtered feed snapshot without
// paging, everything on one page.
func NewQuestionListResponse(questions []*domain.Question, session *state.Session) QuestionListResponse {
	items := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		items = append(items, NewQuestionResponse(q, session))
	}

	return QuestionListResponse{Questions: items, Total: len(items)}
}

// NewQuestionListPage converts a filtered feed snapshot into one page.
// The cursor addresses the last question of the previous page; a cursor
// that no longer matches any question restarts from the top, the feed
// may have been reloaded since it was issued.
func NewQuestionListPage(questions []*domain.Question, session *state.Session, p *PaginationRequest) (QuestionListResponse, error) {
	start := 0

	cursor, err := p.DecodeCursor()
	switch {
	case errors.Is(err, ErrNoCursor):
	case err != nil:
		return QuestionListResponse{}, err
	default:
		for i, q := range questions {
			if q.ID == cursor.ID {
				start = i + 1
				break
			}
		}
	}

	limit := p.GetLimit()

	window := questions[start:]
	if len(window) > limit+1 {
		window = window[:limit+1]
	}

	page := NewPaginatedResponse(window, limit, func(q *domain.Question) *CursorData {
		return NewCursor("id", q.ID, q.ID)
	})

	items := make([]QuestionResponse, 0, len(page.Items))
	for _, q := range page.Items {
		items = append(items, NewQuestionResponse(q, session))
	}

	return QuestionListResponse{
		Questions:  items,
		Total:      len(questions),
		HasMore:    page.HasMore,
		NextCursor: page.NextCursor,
	}, nil
}

// NewNotificationListResponse converts a notification snapshot.
func NewNotificationListResponse(notifications []*domain.Notification, unread int) NotificationListResponse {
	items := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, NotificationResponse{
			ID:      n.ID,
			Kind:    string(n.Kind),
			Message: n.Message,
			Time:    n.Time,
			Read:    n.Read,
		})
	}

	return NotificationListResponse{Notifications: items, UnreadCount: unread}
}

// NewViewResponse converts the session's view state.
func NewViewResponse(v domain.View) ViewResponse {
	return ViewResponse{Kind: string(v.Kind), QuestionID: v.QuestionID}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(time.RFC3339)
}
