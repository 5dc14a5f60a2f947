package audit

import "time"

// Entry is one recorded administrative action.
type Entry struct {
	ID         int64
	ActorID    int64
	ActorName  string
	Action     string
	Entity     string
	EntityID   string
	Meta       map[string]any
	OccurredAt time.Time
}

// Filters narrows a timeline query. Zero values mean no constraint.
type Filters struct {
	From     time.Time
	To       time.Time
	ActorID  int64
	Entity   string
	Action   string
	Page     int
	PageSize int
}

// PagingInfo reports the window returned.
type PagingInfo struct {
	Page     int
	PageSize int
	HasNext  bool
}

// Result bundles timeline rows with paging information.
type Result struct {
	Entries []Entry
	Paging  PagingInfo
}
