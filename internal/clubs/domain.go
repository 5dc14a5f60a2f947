package clubs

import "time"

// Club is a community group led by a club leader.
type Club struct {
	ID          int64
	Name        string
	Description string
	LeaderID    *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Dashboard aggregates activity counters for one club.
type Dashboard struct {
	Club         Club
	MemberCount  int64
	OpenTasks    int64
	UpcomingMeet int64
	FileCount    int64
}
