package app

import (
	"context"
	"log/slog"

	"github.com/stackit/interaction/internal/app/state"
	"github.com/stackit/interaction/internal/platform/logging"
	"github.com/stackit/interaction/internal/ports"
)

// SessionService exchanges credentials with the upstream and manages
// the local session lifecycle. The upstream access token doubles as the
// session key.
type SessionService struct {
	auth   ports.ForumAuthenticator
	store  *state.Store
	feed   *FeedService
	logger *slog.Logger
}

// NewSessionService creates a session service.
func NewSessionService(auth ports.ForumAuthenticator, store *state.Store, feed *FeedService, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}

	return &SessionService{auth: auth, store: store, feed: feed, logger: logger}
}

// Login exchanges a username (or email) and password for a session.
// The new session is populated with an initial feed load before it is
// returned, so the first render has data.
func (s *SessionService) Login(ctx context.Context, username, password string) (*state.Session, *ports.Credentials, error) {
	creds, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return nil, nil, err
	}

	session := s.store.Create(creds.AccessToken, creds.User)

	// Attach the session so the outbound client forwards its token.
	s.feed.Load(state.WithSession(ctx, session), session)

	s.contextLogger(ctx).InfoContext(ctx, "session started",
		slog.String("username", creds.User.Username),
	)

	return session, creds, nil
}

// Register creates a new account upstream and starts a session for it.
func (s *SessionService) Register(ctx context.Context, username, email, password string) (*state.Session, *ports.Credentials, error) {
	creds, err := s.auth.Register(ctx, username, email, password)
	if err != nil {
		return nil, nil, err
	}

	session := s.store.Create(creds.AccessToken, creds.User)
	s.feed.Load(state.WithSession(ctx, session), session)

	s.contextLogger(ctx).InfoContext(ctx, "account registered",
		slog.String("username", creds.User.Username),
	)

	return session, creds, nil
}

// Logout ends the local session. The upstream credential is not
// revoked; it simply stops being honored here.
func (s *SessionService) Logout(session *state.Session) {
	if session == nil {
		return
	}

	s.store.Delete(session.Token())
}

func (s *SessionService) contextLogger(ctx context.Context) *slog.Logger {
	if logger := logging.FromContext(ctx); logger != nil {
		return logger
	}

	return s.logger
}
