package authz

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory GrantStore used by tests and seeds. A single
// mutex serializes all mutations, which satisfies the per-user serialization
// the contract requires.
type MemoryStore struct {
	mu     sync.Mutex
	grants map[int64][]Grant
	now    func() time.Time
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{grants: make(map[int64][]Grant), now: time.Now}
}

// SetClock overrides the store clock. Test hook.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Grant adds a permission grant, replacing an expired grant of the same name
// if one is still stored.
func (s *MemoryStore) Grant(ctx context.Context, userID int64, permission string, grantedBy int64, expiresAt *time.Time) error {
	if err := validateNames([]string{permission}); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	at := s.now()
	if err := validateExpiry(at, expiresAt); err != nil {
		return err
	}
	kept := s.grants[userID][:0:0]
	for _, g := range s.grants[userID] {
		if g.Permission == permission {
			if g.Live(at) {
				return ErrDuplicateGrant
			}
			continue
		}
		kept = append(kept, g)
	}
	s.grants[userID] = append(kept, Grant{
		Permission: permission,
		GrantedBy:  grantedBy,
		GrantedAt:  at,
		ExpiresAt:  expiresAt,
	})
	return nil
}

// Revoke removes a grant by name. Idempotent.
func (s *MemoryStore) Revoke(ctx context.Context, userID int64, permission string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.grants[userID][:0:0]
	for _, g := range s.grants[userID] {
		if g.Permission != permission {
			kept = append(kept, g)
		}
	}
	s.grants[userID] = kept
	return nil
}

// SetAll replaces the user's grant list. All names are validated before any
// write, so a bad name leaves the prior list untouched.
func (s *MemoryStore) SetAll(ctx context.Context, userID int64, permissions []string, grantedBy int64) error {
	if err := validateNames(permissions); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	at := s.now()
	next := make([]Grant, 0, len(permissions))
	seen := make(map[string]struct{}, len(permissions))
	for _, p := range permissions {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		next = append(next, Grant{Permission: p, GrantedBy: grantedBy, GrantedAt: at})
	}
	s.grants[userID] = next
	return nil
}

// List returns a copy of the stored grants, expired ones included.
func (s *MemoryStore) List(ctx context.Context, userID int64) ([]Grant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Grant, len(s.grants[userID]))
	copy(out, s.grants[userID])
	return out, nil
}
