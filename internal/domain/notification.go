package domain

// NotificationKind classifies a notification.
type NotificationKind string

const (
	// NotificationAnswer signals a new answer on the user's question.
	NotificationAnswer NotificationKind = "answer"

	// NotificationMention signals the user was mentioned.
	NotificationMention NotificationKind = "mention"

	// NotificationVote signals votes arriving on the user's content.
	NotificationVote NotificationKind = "vote"

	// NotificationAccept signals the user's answer was accepted.
	NotificationAccept NotificationKind = "accept"
)

// Notification is a single inbox entry. Entries arrive pre-populated
// from the upstream fetch; this layer only flips the Read flag.
type Notification struct {
	// ID is the upstream-assigned identifier.
	ID string

	// Kind classifies the notification.
	Kind NotificationKind

	// Message is the display text.
	Message string

	// Time is the relative time label supplied by the upstream service.
	Time string

	// Read marks whether the user has seen the entry.
	Read bool
}

// UnreadCount returns the number of unread notifications in the list.
func UnreadCount(notifications []*Notification) int {
	count := 0

	for _, n := range notifications {
		if !n.Read {
			count++
		}
	}

	return count
}
