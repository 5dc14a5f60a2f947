package authz

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/platform/db"
)

// Repository is the PostgreSQL-backed GrantStore. Mutations lock the user
// row so concurrent grant calls for the same user serialize; the
// user_permissions table additionally carries a unique (user_id, permission)
// index as a backstop.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ GrantStore = (*Repository)(nil)

// Grant adds a permission grant for the user.
func (r *Repository) Grant(ctx context.Context, userID int64, permission string, grantedBy int64, expiresAt *time.Time) error {
	if err := validateNames([]string{permission}); err != nil {
		return err
	}
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := lockUser(ctx, tx, userID); err != nil {
			return err
		}
		at := time.Now()
		if err := validateExpiry(at, expiresAt); err != nil {
			return err
		}
		var active bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM user_permissions WHERE user_id = $1 AND permission = $2 AND (expires_at IS NULL OR expires_at > NOW()))`,
			userID, permission).Scan(&active)
		if err != nil {
			return err
		}
		if active {
			return ErrDuplicateGrant
		}
		// An expired grant of the same name may still be stored; replace it
		// so the unique index holds one row per name.
		if _, err := tx.Exec(ctx,
			`DELETE FROM user_permissions WHERE user_id = $1 AND permission = $2`,
			userID, permission); err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO user_permissions (user_id, permission, granted_by, granted_at, expires_at) VALUES ($1, $2, $3, $4, $5)`,
			userID, permission, grantedBy, at, expiresAt)
		if isUniqueViolation(err) {
			return ErrDuplicateGrant
		}
		return err
	})
	return wrapStoreErr("grant", err)
}

// Revoke removes a grant by name. Idempotent.
func (r *Repository) Revoke(ctx context.Context, userID int64, permission string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM user_permissions WHERE user_id = $1 AND permission = $2`,
		userID, permission)
	return wrapStoreErr("revoke", err)
}

// SetAll replaces the user's entire grant list in one transaction.
func (r *Repository) SetAll(ctx context.Context, userID int64, permissions []string, grantedBy int64) error {
	if err := validateNames(permissions); err != nil {
		return err
	}
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := lockUser(ctx, tx, userID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM user_permissions WHERE user_id = $1`, userID); err != nil {
			return err
		}
		at := time.Now()
		seen := make(map[string]struct{}, len(permissions))
		for _, p := range permissions {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			if _, err := tx.Exec(ctx,
				`INSERT INTO user_permissions (user_id, permission, granted_by, granted_at) VALUES ($1, $2, $3, $4)`,
				userID, p, grantedBy, at); err != nil {
				return err
			}
		}
		return nil
	})
	return wrapStoreErr("set all", err)
}

// List returns the stored grants ordered by grant time, expired ones
// included.
func (r *Repository) List(ctx context.Context, userID int64) ([]Grant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT permission, granted_by, granted_at, expires_at FROM user_permissions WHERE user_id = $1 ORDER BY granted_at, permission`,
		userID)
	if err != nil {
		return nil, wrapStoreErr("list", err)
	}
	defer rows.Close()

	var grants []Grant
	for rows.Next() {
		var g Grant
		if err := rows.Scan(&g.Permission, &g.GrantedBy, &g.GrantedAt, &g.ExpiresAt); err != nil {
			return nil, wrapStoreErr("list", err)
		}
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreErr("list", err)
	}
	return grants, nil
}

// DeleteExpired physically removes expired grants. Only the maintenance
// sweep job calls this; reads never prune.
func (r *Repository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM user_permissions WHERE expires_at IS NOT NULL AND expires_at <= NOW()`)
	if err != nil {
		return 0, wrapStoreErr("delete expired", err)
	}
	return tag.RowsAffected(), nil
}

func lockUser(ctx context.Context, tx pgx.Tx, userID int64) error {
	var id int64
	return tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&id)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// wrapStoreErr wraps infrastructure failures in a StoreError while letting
// domain sentinels pass through unchanged.
func wrapStoreErr(op string, err error) error {
	if err == nil ||
		errors.Is(err, ErrDuplicateGrant) ||
		errors.Is(err, ErrUnknownPermission) ||
		errors.Is(err, ErrInvalidExpiry) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
