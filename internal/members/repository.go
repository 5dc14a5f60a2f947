package members

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/shared"
)

// Repository provides PostgreSQL backed persistence for memberships.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const membershipColumns = `m.id, m.club_id, m.user_id, u.name, u.email, m.status, m.joined_at, m.decided_at, m.decided_by`

const membershipSelect = `SELECT ` + membershipColumns + ` FROM club_members m JOIN users u ON u.id = m.user_id`

func scanMembership(row pgx.Row) (Membership, error) {
	var m Membership
	err := row.Scan(&m.ID, &m.ClubID, &m.UserID, &m.UserName, &m.UserEmail, &m.Status, &m.JoinedAt, &m.DecidedAt, &m.DecidedBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return Membership{}, shared.ErrNotFound
	}
	return m, err
}

// ListByClub returns memberships for a club, optionally filtered by status.
func (r *Repository) ListByClub(ctx context.Context, clubID int64, status Status) ([]Membership, error) {
	query := membershipSelect + ` WHERE m.club_id = $1`
	args := []any{clubID}
	if status != "" {
		query += ` AND m.status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY m.joined_at`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Get fetches one membership.
func (r *Repository) Get(ctx context.Context, id int64) (Membership, error) {
	return scanMembership(r.pool.QueryRow(ctx, membershipSelect+` WHERE m.id = $1`, id))
}

// Create inserts a pending membership. A live membership for the same
// user and club maps to ErrAlreadyMember via the unique index.
func (r *Repository) Create(ctx context.Context, clubID, userID int64) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO club_members (club_id, user_id, status) VALUES ($1, $2, 'pending') RETURNING id`,
		clubID, userID).Scan(&id)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return 0, ErrAlreadyMember
	}
	return id, err
}

// SetStatus records an approval decision.
func (r *Repository) SetStatus(ctx context.Context, id int64, status Status, decidedBy int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE club_members SET status = $2, decided_at = NOW(), decided_by = $3 WHERE id = $1`,
		id, status, decidedBy)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a membership.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM club_members WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
