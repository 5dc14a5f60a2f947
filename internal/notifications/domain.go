package notifications

import "time"

// Kind classifies a notification.
type Kind string

const (
	KindSystem       Kind = "system"
	KindAnnouncement Kind = "announcement"
	KindTask         Kind = "task"
	KindMeeting      Kind = "meeting"
)

// Notification is one message delivered to a user's inbox.
type Notification struct {
	ID        int64
	UserID    int64
	Kind      Kind
	Title     string
	Body      string
	ReadAt    *time.Time
	CreatedAt time.Time
}
