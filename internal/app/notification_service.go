package app

import (
	"context"
	"log/slog"

	"github.com/stackit/interaction/internal/app/state"
	"github.com/stackit/interaction/internal/domain"
	"github.com/stackit/interaction/internal/platform/logging"
	"github.com/stackit/interaction/internal/ports"
)

// NotificationService coordinates the session's notification list and
// its derived unread count. Read-flag mutations are success-gated: the
// local flag flips only after the upstream acknowledges.
type NotificationService struct {
	client ports.ForumClient
	logger *slog.Logger
}

// NewNotificationService creates a notification service.
func NewNotificationService(client ports.ForumClient, logger *slog.Logger) *NotificationService {
	if logger == nil {
		logger = slog.Default()
	}

	return &NotificationService{client: client, logger: logger}
}

// Refresh replaces the session's notification list from the upstream.
func (s *NotificationService) Refresh(ctx context.Context, session *state.Session) error {
	notifications, err := s.client.FetchNotifications(ctx)
	if err != nil {
		return err
	}

	session.SetNotifications(notifications)

	return nil
}

// List returns the session's notifications with the unread count.
func (s *NotificationService) List(session *state.Session) ([]*domain.Notification, int) {
	notifications := session.Notifications()

	return notifications, domain.UnreadCount(notifications)
}

// MarkRead flips the read flag on one notification.
func (s *NotificationService) MarkRead(ctx context.Context, session *state.Session, id string) error {
	if session.Notification(id) == nil {
		return domain.NewNotFoundError("notification", id)
	}

	err := s.client.MarkNotificationRead(ctx, id)
	if err != nil {
		return err
	}

	return session.MarkNotificationRead(id)
}

// MarkAllRead flips the read flag on every notification, dropping the
// unread count to zero.
func (s *NotificationService) MarkAllRead(ctx context.Context, session *state.Session) error {
	err := s.client.MarkAllNotificationsRead(ctx)
	if err != nil {
		return err
	}

	session.MarkAllNotificationsRead()

	s.contextLogger(ctx).DebugContext(ctx, "all notifications marked read")

	return nil
}

func (s *NotificationService) contextLogger(ctx context.Context) *slog.Logger {
	if logger := logging.FromContext(ctx); logger != nil {
		return logger
	}

	return s.logger
}
