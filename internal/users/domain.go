package users

import (
	"time"

	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/authz"
)

// User represents a user account for management.
type User struct {
	ID        int64
	Email     string
	Name      string
	Role      authz.Role
	ClubID    *int64
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
