package tasks

import (
	"errors"
	"time"
)

// Status tracks a task through its lifecycle.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

var validTransitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusCompleted},
	StatusInProgress: {StatusCompleted, StatusPending},
	StatusCompleted:  {},
}

// ErrBadTransition indicates a status change the lifecycle does not allow.
var ErrBadTransition = errors.New("invalid task status transition")

// CanTransition reports whether the lifecycle permits moving from one
// status to another. Completed is terminal.
func CanTransition(from, to Status) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Task is a unit of club work assignable to a member.
type Task struct {
	ID          int64
	ClubID      int64
	Title       string
	Description string
	Status      Status
	AssigneeID  *int64
	CreatedBy   int64
	DueAt       *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
