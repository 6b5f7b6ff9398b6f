package acl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stackit/interaction/internal/adapters/clients"
	"github.com/stackit/interaction/internal/domain"
	"github.com/stackit/interaction/internal/ports"
)

// ForumAdapter implements ports.ForumClient against the upstream forum
// service's JSON API. The upstream speaks snake_case with numeric
// identifiers and enveloped collections; everything is translated here
// so the domain only ever sees its own types.
type ForumAdapter struct {
	BaseAdapter
}

// NewForumAdapter creates a forum adapter backed by the given client.
func NewForumAdapter(client *clients.Client) *ForumAdapter {
	return &ForumAdapter{
		BaseAdapter: NewBaseAdapter(client, "forum"),
	}
}

// Compile-time checks.
var (
	_ ports.ForumClient   = (*ForumAdapter)(nil)
	_ ports.HealthChecker = (*ForumAdapter)(nil)
)

// Wire DTOs. IDs arrive as numbers or strings depending on the upstream
// version, so json.Number absorbs both.

type wireUser struct {
	ID       json.Number `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     string      `json:"role"`
	Avatar   string      `json:"avatar"`
}

type wireAnswer struct {
	ID         json.Number `json:"id"`
	Content    string      `json:"content"`
	Author     *wireUser   `json:"author"`
	VoteScore  int         `json:"vote_score"`
	IsAccepted bool        `json:"is_accepted"`
	CreatedAt  string      `json:"created_at"`
}

type wireQuestion struct {
	ID          json.Number  `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Author      *wireUser    `json:"author"`
	Tags        []string     `json:"tags"`
	VoteScore   int          `json:"vote_score"`
	Views       int          `json:"views"`
	CreatedAt   string       `json:"created_at"`
	Answers     []wireAnswer `json:"answers"`
}

type wireNotification struct {
	ID      json.Number `json:"id"`
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Time    string      `json:"time"`
	Read    bool        `json:"read"`
}

type questionListEnvelope struct {
	Questions []wireQuestion `json:"questions"`
}

type notificationListEnvelope struct {
	Notifications []wireNotification `json:"notifications"`
	UnreadCount   int                `json:"unread_count"`
}

type tagListEnvelope struct {
	Tags []string `json:"tags"`
}

type voteResponse struct {
	VoteScore int `json:"vote_score"`
}

type authResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	User         *wireUser `json:"user"`
}

// FetchQuestions retrieves the question collection, newest first.
func (a *ForumAdapter) FetchQuestions(ctx context.Context) ([]*domain.Question, error) {
	body, err := a.Get(ctx, "/api/questions", "fetch questions", "")
	if err != nil {
		return nil, err
	}

	envelope, err := DecodeResponse[questionListEnvelope](body)
	if err != nil {
		return nil, domain.NewUnavailableError(a.ServiceName(), err.Error())
	}

	return TranslateSlice(envelope.Questions, translateQuestion)
}

// FetchQuestion retrieves one question with its answers. The upstream
// bumps the view counter as a side effect of this call.
func (a *ForumAdapter) FetchQuestion(ctx context.Context, id string) (*domain.Question, error) {
	body, err := a.Get(ctx, "/api/questions/"+id, "fetch question", id)
	if err != nil {
		return nil, err
	}

	ext, err := DecodeResponse[wireQuestion](body)
	if err != nil {
		return nil, domain.NewUnavailableError(a.ServiceName(), err.Error())
	}

	return translateQuestion(ext)
}

// FetchNotifications retrieves the caller's notification list.
func (a *ForumAdapter) FetchNotifications(ctx context.Context) ([]*domain.Notification, error) {
	body, err := a.Get(ctx, "/api/notifications", "fetch notifications", "")
	if err != nil {
		return nil, err
	}

	envelope, err := DecodeResponse[notificationListEnvelope](body)
	if err != nil {
		return nil, domain.NewUnavailableError(a.ServiceName(), err.Error())
	}

	return TranslateSlice(envelope.Notifications, translateNotification)
}

// FetchTags retrieves the known tag names.
func (a *ForumAdapter) FetchTags(ctx context.Context) ([]string, error) {
	body, err := a.Get(ctx, "/api/tags", "fetch tags", "")
	if err != nil {
		return nil, err
	}

	envelope, err := DecodeResponse[tagListEnvelope](body)
	if err != nil {
		return nil, domain.NewUnavailableError(a.ServiceName(), err.Error())
	}

	return envelope.Tags, nil
}

// CreateQuestion persists a new question upstream and returns the
// canonical record.
func (a *ForumAdapter) CreateQuestion(ctx context.Context, draft domain.QuestionDraft) (*domain.Question, error) {
	payload, err := encodeBody(map[string]any{
		"title":       draft.Title,
		"description": draft.Description,
		"tags":        draft.Tags,
	})
	if err != nil {
		return nil, err
	}

	body, err := a.Post(ctx, "/api/questions", payload, "create question", "")
	if err != nil {
		return nil, err
	}

	ext, err := DecodeResponse[wireQuestion](body)
	if err != nil {
		return nil, domain.NewUnavailableError(a.ServiceName(), err.Error())
	}

	return translateQuestion(ext)
}

// CreateAnswer persists a new answer upstream and returns the canonical
// record.
func (a *ForumAdapter) CreateAnswer(ctx context.Context, questionID, content string) (*domain.Answer, error) {
	payload, err := encodeBody(map[string]any{"content": content})
	if err != nil {
		return nil, err
	}

	body, err := a.Post(ctx, "/api/questions/"+questionID+"/answers", payload, "create answer", questionID)
	if err != nil {
		return nil, err
	}

	ext, err := DecodeResponse[wireAnswer](body)
	if err != nil {
		return nil, domain.NewUnavailableError(a.ServiceName(), err.Error())
	}

	return translateAnswer(ext)
}

// SubmitAnswerVote records a vote and returns the authoritative score.
func (a *ForumAdapter) SubmitAnswerVote(ctx context.Context, answerID, value string) (int, error) {
	payload, err := encodeBody(map[string]any{"vote": value})
	if err != nil {
		return 0, err
	}

	body, err := a.Post(ctx, "/api/answers/"+answerID+"/vote", payload, "submit vote", answerID)
	if err != nil {
		return 0, err
	}

	resp, err := DecodeResponse[voteResponse](body)
	if err != nil {
		return 0, domain.NewUnavailableError(a.ServiceName(), err.Error())
	}

	return resp.VoteScore, nil
}

// AcceptAnswer marks an answer accepted upstream.
func (a *ForumAdapter) AcceptAnswer(ctx context.Context, answerID string) error {
	body, err := a.Post(ctx, "/api/answers/"+answerID+"/accept", nil, "accept answer", answerID)
	if err != nil {
		return err
	}

	return body.Close()
}

// MarkNotificationRead flips the read flag on one notification.
func (a *ForumAdapter) MarkNotificationRead(ctx context.Context, id string) error {
	body, err := a.Post(ctx, "/api/notifications/"+id+"/read", nil, "mark notification read", id)
	if err != nil {
		return err
	}

	return body.Close()
}

// MarkAllNotificationsRead flips the read flag on every notification.
func (a *ForumAdapter) MarkAllNotificationsRead(ctx context.Context) error {
	body, err := a.Post(ctx, "/api/notifications/read-all", nil, "mark all notifications read", "")
	if err != nil {
		return err
	}

	return body.Close()
}

// Login exchanges credentials for tokens.
func (a *ForumAdapter) Login(ctx context.Context, username, password string) (*ports.Credentials, error) {
	if err := ValidateRequired(username, "username"); err != nil {
		return nil, err
	}

	if err := ValidateRequired(password, "password"); err != nil {
		return nil, err
	}

	payload, err := encodeBody(map[string]any{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	body, err := a.Post(ctx, "/api/auth/login", payload, "login", "")
	if err != nil {
		return nil, err
	}

	ext, err := DecodeResponse[authResponse](body)
	if err != nil {
		return nil, domain.NewUnavailableError(a.ServiceName(), err.Error())
	}

	return translateCredentials(ext)
}

// Register creates a new account and returns its tokens.
func (a *ForumAdapter) Register(ctx context.Context, username, email, password string) (*ports.Credentials, error) {
	if err := ValidateRequired(username, "username"); err != nil {
		return nil, err
	}

	if err := ValidateRequired(email, "email"); err != nil {
		return nil, err
	}

	if err := ValidateRequired(password, "password"); err != nil {
		return nil, err
	}

	payload, err := encodeBody(map[string]any{
		"username": username,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	body, err := a.Post(ctx, "/api/auth/register", payload, "register", "")
	if err != nil {
		return nil, err
	}

	ext, err := DecodeResponse[authResponse](body)
	if err != nil {
		return nil, domain.NewUnavailableError(a.ServiceName(), err.Error())
	}

	return translateCredentials(ext)
}

// Name implements ports.HealthChecker.
func (a *ForumAdapter) Name() string {
	return a.ServiceName()
}

// Check implements ports.HealthChecker by probing the tag listing, the
// cheapest unauthenticated endpoint the upstream exposes.
func (a *ForumAdapter) Check(ctx context.Context) error {
	body, err := a.Get(ctx, "/api/tags", "health check", "")
	if err != nil {
		return err
	}

	return body.Close()
}

// Translators.

func translateUser(ext *wireUser) (*domain.User, error) {
	if ext == nil {
		return nil, nil
	}

	role := domain.RoleMember
	if ext.Role == string(domain.RoleAdmin) {
		role = domain.RoleAdmin
	}

	return &domain.User{
		ID:       ext.ID.String(),
		Username: ext.Username,
		Email:    ext.Email,
		Role:     role,
		Avatar:   ext.Avatar,
	}, nil
}

func translateAnswer(ext *wireAnswer) (*domain.Answer, error) {
	if ext.ID.String() == "" {
		return nil, domain.NewValidationError("id", "answer is missing an identifier")
	}

	author, err := translateUser(ext.Author)
	if err != nil {
		return nil, err
	}

	return &domain.Answer{
		ID:         ext.ID.String(),
		Content:    ext.Content,
		Author:     author,
		Votes:      ext.VoteScore,
		IsAccepted: ext.IsAccepted,
		CreatedAt:  parseWireTime(ext.CreatedAt),
	}, nil
}

func translateQuestion(ext *wireQuestion) (*domain.Question, error) {
	if ext.ID.String() == "" {
		return nil, domain.NewValidationError("id", "question is missing an identifier")
	}

	author, err := translateUser(ext.Author)
	if err != nil {
		return nil, err
	}

	answers, err := TranslateSlice(ext.Answers, translateAnswer)
	if err != nil {
		return nil, err
	}

	return &domain.Question{
		ID:          ext.ID.String(),
		Title:       ext.Title,
		Description: ext.Description,
		Author:      author,
		Tags:        ext.Tags,
		Votes:       ext.VoteScore,
		Views:       ext.Views,
		CreatedAt:   parseWireTime(ext.CreatedAt),
		Answers:     answers,
	}, nil
}

func translateNotification(ext *wireNotification) (*domain.Notification, error) {
	if ext.ID.String() == "" {
		return nil, domain.NewValidationError("id", "notification is missing an identifier")
	}

	return &domain.Notification{
		ID:      ext.ID.String(),
		Kind:    domain.NotificationKind(ext.Type),
		Message: ext.Message,
		Time:    ext.Time,
		Read:    ext.Read,
	}, nil
}

func translateCredentials(ext *authResponse) (*ports.Credentials, error) {
	if ext.AccessToken == "" {
		return nil, domain.NewUnavailableError("forum", "auth response is missing an access token")
	}

	user, err := translateUser(ext.User)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, domain.NewUnavailableError("forum", "auth response is missing the user")
	}

	return &ports.Credentials{
		AccessToken:  ext.AccessToken,
		RefreshToken: ext.RefreshToken,
		User:         user,
	}, nil
}

// parseWireTime accepts the upstream's RFC 3339 timestamps; anything
// else yields the zero time rather than an error, timestamps are
// presentational here.
func parseWireTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}

	return t
}

func encodeBody(payload any) (*bytes.Reader, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}

	return bytes.NewReader(data), nil
}
