package authz

import (
	"context"
	"fmt"
	"time"
)

// GrantStore is the contract for reading and mutating a user's
// granted-permission list. Implementations must serialize mutations per user
// so concurrent grants of the same permission leave exactly one surviving
// grant. List returns grants as stored, expired ones included; expiry
// filtering is the evaluator's responsibility.
type GrantStore interface {
	// Grant adds a permission grant. It fails with ErrUnknownPermission for
	// names outside the catalog and ErrDuplicateGrant when an unexpired
	// grant of that name already exists.
	Grant(ctx context.Context, userID int64, permission string, grantedBy int64, expiresAt *time.Time) error
	// Revoke removes a grant by name. Revoking a grant that does not exist
	// is not an error.
	Revoke(ctx context.Context, userID int64, permission string) error
	// SetAll replaces the user's entire grant list atomically. Every name is
	// validated against the catalog before any write; on failure the prior
	// list is untouched.
	SetAll(ctx context.Context, userID int64, permissions []string, grantedBy int64) error
	// List returns the stored grants ordered by grant time.
	List(ctx context.Context, userID int64) ([]Grant, error)
}

// validateNames checks every name against the catalog before any write.
func validateNames(names []string) error {
	for _, n := range names {
		if !IsKnown(n) {
			return fmt.Errorf("%w: %s", ErrUnknownPermission, n)
		}
	}
	return nil
}

// validateExpiry enforces that expiry, when present, is strictly after the
// grant time.
func validateExpiry(grantedAt time.Time, expiresAt *time.Time) error {
	if expiresAt != nil && !expiresAt.After(grantedAt) {
		return ErrInvalidExpiry
	}
	return nil
}
