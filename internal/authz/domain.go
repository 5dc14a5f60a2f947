// Package authz decides whether a user may perform an action. It combines a
// closed permission catalog, per-user permission grants with optional expiry,
// legacy role fallback rules and club-scoped role checks behind a single
// gate. All decision functions are pure; the only stateful boundary is the
// GrantStore.
package authz

import (
	"errors"
	"fmt"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleClubLeader Role = "club_leader"
	RoleMember     Role = "member"
)

// rank orders roles for hierarchy comparison. Unknown roles rank below member.
func (r Role) rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleClubLeader:
		return 2
	case RoleMember:
		return 1
	default:
		return 0
	}
}

// Valid reports whether r is one of the recognised roles.
func (r Role) Valid() bool {
	return r.rank() > 0
}

// Grant assigns a named permission to a user, with provenance and optional
// expiry.
type Grant struct {
	Permission string
	GrantedBy  int64
	GrantedAt  time.Time
	ExpiresAt  *time.Time
}

// Live reports whether the grant is active at the given instant. Expired
// grants stay in storage until the maintenance sweep removes them; every
// read path must treat them as absent.
func (g Grant) Live(at time.Time) bool {
	return g.ExpiresAt == nil || g.ExpiresAt.After(at)
}

// User is the account snapshot decisions are made against. The caller
// resolves it from the user store; this package never fetches it.
type User struct {
	ID          int64
	Role        Role
	Permissions []Grant
	IsActive    bool
	ClubID      *int64
}

// ResourceContext carries per-check resource information. It is built by the
// caller for each check and never persisted.
type ResourceContext struct {
	ClubID          *int64
	ResourceOwnerID *int64
}

var (
	// ErrUnknownPermission indicates a grant referenced a name absent from
	// the catalog. The write is rejected with no partial effect.
	ErrUnknownPermission = errors.New("authz: unknown permission")
	// ErrDuplicateGrant indicates the user already holds an unexpired grant
	// of that name. Callers may treat it as a no-op.
	ErrDuplicateGrant = errors.New("authz: duplicate grant")
	// ErrInvalidExpiry indicates an expiry that is not strictly after the
	// grant time.
	ErrInvalidExpiry = errors.New("authz: expiry must be after grant time")
)

// StoreError wraps a grant store failure so callers can tell "denied" apart
// from "could not determine". A StoreError must never be converted into an
// allow; the only safe fallback is deny.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("authz: grant store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsStoreError reports whether err originated in the grant store rather than
// a normal deny or validation failure.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
