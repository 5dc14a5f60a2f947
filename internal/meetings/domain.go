package meetings

import (
	"errors"
	"time"
)

// RSVPStatus is an attendee's reply to a meeting invitation.
type RSVPStatus string

const (
	RSVPYes   RSVPStatus = "yes"
	RSVPNo    RSVPStatus = "no"
	RSVPMaybe RSVPStatus = "maybe"
)

// Valid reports whether s is one of the recognised replies.
func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPYes, RSVPNo, RSVPMaybe:
		return true
	}
	return false
}

// ErrPastMeeting indicates an operation on a meeting that already started.
var ErrPastMeeting = errors.New("meeting already started")

// Meeting is a scheduled club gathering.
type Meeting struct {
	ID          int64
	ClubID      int64
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	EndsAt      time.Time
	CreatedBy   int64
	CreatedAt   time.Time
}

// RSVP records one user's reply.
type RSVP struct {
	MeetingID int64
	UserID    int64
	UserName  string
	Status    RSVPStatus
	RepliedAt time.Time
}
