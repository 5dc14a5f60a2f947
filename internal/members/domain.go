package members

import (
	"errors"
	"time"
)

// Status tracks a membership through its lifecycle.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ErrAlreadyMember indicates the user already has a pending or approved
// membership in the club.
var ErrAlreadyMember = errors.New("user is already a member of this club")

// Membership links a user to a club.
type Membership struct {
	ID        int64
	ClubID    int64
	UserID    int64
	UserName  string
	UserEmail string
	Status    Status
	JoinedAt  time.Time
	DecidedAt *time.Time
	DecidedBy *int64
}
