package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackit/interaction/internal/domain"
)

func notificationsFixture() []*domain.Notification {
	return []*domain.Notification{
		{ID: "n-1", Kind: domain.NotificationAnswer, Message: "Jane Smith answered your question"},
		{ID: "n-2", Kind: domain.NotificationMention, Message: "Alex Dev mentioned you"},
		{ID: "n-3", Kind: domain.NotificationVote, Message: "Your answer received 5 upvotes", Read: true},
	}
}

func TestNotificationService_RefreshAndList(t *testing.T) {
	client := &fakeForumClient{
		fetchNotificationsFn: func(context.Context) ([]*domain.Notification, error) {
			return notificationsFixture(), nil
		},
	}
	svc := NewNotificationService(client, nil)
	session := testSession(t, &domain.User{ID: "u-1"})

	require.NoError(t, svc.Refresh(context.Background(), session))

	list, unread := svc.List(session)
	assert.Len(t, list, 3)
	assert.Equal(t, 2, unread)
}

func TestNotificationService_MarkReadIsSuccessGated(t *testing.T) {
	remoteErr := domain.NewUnavailableError("forum", "timeout")

	client := &fakeForumClient{
		markReadFn: func(context.Context, string) error { return remoteErr },
	}
	svc := NewNotificationService(client, nil)
	session := testSession(t, &domain.User{ID: "u-1"})
	session.SetNotifications(notificationsFixture())

	err := svc.MarkRead(context.Background(), session, "n-1")

	require.Error(t, err)
	_, unread := svc.List(session)
	assert.Equal(t, 2, unread, "flag unchanged after remote failure")

	client.markReadFn = func(context.Context, string) error { return nil }

	require.NoError(t, svc.MarkRead(context.Background(), session, "n-1"))
	_, unread = svc.List(session)
	assert.Equal(t, 1, unread)
}

func TestNotificationService_MarkReadUnknownID(t *testing.T) {
	client := &fakeForumClient{
		markReadFn: func(context.Context, string) error {
			t.Fatal("unknown notification must not reach the upstream")
			return nil
		},
	}
	svc := NewNotificationService(client, nil)
	session := testSession(t, &domain.User{ID: "u-1"})
	session.SetNotifications(notificationsFixture())

	err := svc.MarkRead(context.Background(), session, "missing")

	assert.True(t, domain.IsNotFound(err))
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	client := &fakeForumClient{
		markAllReadFn: func(context.Context) error { return nil },
	}
	svc := NewNotificationService(client, nil)
	session := testSession(t, &domain.User{ID: "u-1"})
	session.SetNotifications(notificationsFixture())

	require.NoError(t, svc.MarkAllRead(context.Background(), session))

	_, unread := svc.List(session)
	assert.Equal(t, 0, unread)
}

func TestNotificationService_MarkAllReadFailureKeepsFlags(t *testing.T) {
	client := &fakeForumClient{
		markAllReadFn: func(context.Context) error {
			return domain.NewUnavailableError("forum", "timeout")
		},
	}
	svc := NewNotificationService(client, nil)
	session := testSession(t, &domain.User{ID: "u-1"})
	session.SetNotifications(notificationsFixture())

	err := svc.MarkAllRead(context.Background(), session)

	require.Error(t, err)
	_, unread := svc.List(session)
	assert.Equal(t, 2, unread)
}
