package app

import (
	"time"

	"github.com/stackit/interaction/internal/domain"
)

// Fallback dataset used when the initial upstream fetch fails: the
// session stays browsable offline instead of rendering empty. Write
// operations against these records still require the upstream, so they
// surface remote failures as usual.

func fallbackUsers() []*domain.User {
	return []*domain.User{
		{ID: "u-1", Username: "john_doe", Email: "john@example.com", Role: domain.RoleMember, Avatar: "👨‍💻"},
		{ID: "u-2", Username: "jane_smith", Email: "jane@example.com", Role: domain.RoleAdmin, Avatar: "👩‍💼"},
		{ID: "u-3", Username: "alex_dev", Email: "alex@example.com", Role: domain.RoleMember, Avatar: "👨‍🎨"},
	}
}

// FallbackQuestions returns the built-in demo question set, newest first.
func FallbackQuestions() []*domain.Question {
	users := fallbackUsers()

	return []*domain.Question{
		{
			ID:    "q-1",
			Title: "How to implement JWT authentication in React?",
			Description: "I'm trying to implement JWT authentication in my React application. " +
				"What's the best practice for storing tokens and handling authentication state?",
			Author:    users[0],
			Tags:      []string{"React", "JWT", "Authentication"},
			Votes:     15,
			Views:     127,
			CreatedAt: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
			Answers: []*domain.Answer{
				{
					ID: "a-1",
					Content: "You can store JWT tokens in memory or httpOnly cookies. " +
						"Store tokens in memory for security, use refresh tokens for persistence, " +
						"and implement auto-logout on token expiry.",
					Author:     users[1],
					Votes:      8,
					IsAccepted: true,
					CreatedAt:  time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
				},
				{
					ID: "a-2",
					Content: "I'd recommend using a state management library like Redux or " +
						"Context API to handle authentication state globally.",
					Author:    users[2],
					Votes:     3,
					CreatedAt: time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC),
				},
			},
		},
		{
			ID:    "q-2",
			Title: "Best practices for responsive design in 2025?",
			Description: "What are the current best practices for creating responsive websites? " +
				"Should I use CSS Grid, Flexbox, or a combination?",
			Author:    users[2],
			Tags:      []string{"CSS", "Responsive", "Design"},
			Votes:     8,
			Views:     89,
			CreatedAt: time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC),
		},
	}
}

// FallbackNotifications returns the built-in demo notification set.
func FallbackNotifications() []*domain.Notification {
	return []*domain.Notification{
		{ID: "n-1", Kind: domain.NotificationAnswer, Message: "Jane Smith answered your question about JWT authentication", Time: "2 hours ago"},
		{ID: "n-2", Kind: domain.NotificationMention, Message: "Alex Dev mentioned you in a comment", Time: "1 day ago"},
		{ID: "n-3", Kind: domain.NotificationVote, Message: "Your answer received 5 upvotes", Time: "2 days ago", Read: true},
	}
}

// FallbackTags returns the built-in tag list for the filter UI.
func FallbackTags() []string {
	return []string{
		"React", "JavaScript", "CSS", "HTML", "Node.js",
		"Python", "JWT", "Authentication", "Design", "Responsive",
	}
}
