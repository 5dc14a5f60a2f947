package clubs

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/shared"
)

// ErrNameTaken indicates a club name collision.
var ErrNameTaken = errors.New("club name already in use")

// Repository provides PostgreSQL backed persistence for clubs.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const clubColumns = `id, name, description, leader_id, created_at, updated_at`

func scanClub(row pgx.Row) (Club, error) {
	var c Club
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.LeaderID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Club{}, shared.ErrNotFound
	}
	return c, err
}

// List returns all clubs ordered by name.
func (r *Repository) List(ctx context.Context) ([]Club, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+clubColumns+` FROM clubs ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Club
	for rows.Next() {
		c, err := scanClub(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Get fetches one club.
func (r *Repository) Get(ctx context.Context, id int64) (Club, error) {
	return scanClub(r.pool.QueryRow(ctx, `SELECT `+clubColumns+` FROM clubs WHERE id = $1`, id))
}

// Create inserts a club and returns it with generated fields populated.
func (r *Repository) Create(ctx context.Context, name, description string, leaderID *int64) (Club, error) {
	c, err := scanClub(r.pool.QueryRow(ctx,
		`INSERT INTO clubs (name, description, leader_id) VALUES ($1, $2, $3) RETURNING `+clubColumns,
		name, description, leaderID))
	if isUniqueViolation(err) {
		return Club{}, ErrNameTaken
	}
	return c, err
}

// Update changes name and description.
func (r *Repository) Update(ctx context.Context, id int64, name, description string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE clubs SET name = $2, description = $3, updated_at = NOW() WHERE id = $1`,
		id, name, description)
	if isUniqueViolation(err) {
		return ErrNameTaken
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetLeader assigns the club's leader. A nil leaderID clears it.
func (r *Repository) SetLeader(ctx context.Context, id int64, leaderID *int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE clubs SET leader_id = $2, updated_at = NOW() WHERE id = $1`, id, leaderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes the club. Memberships, tasks and meetings cascade in the
// schema.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clubs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountMembers returns the number of approved members.
func (r *Repository) CountMembers(ctx context.Context, clubID int64) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM club_members WHERE club_id = $1 AND status = 'approved'`, clubID).Scan(&n)
	return n, err
}

// CountOpenTasks returns the number of tasks not yet completed.
func (r *Repository) CountOpenTasks(ctx context.Context, clubID int64) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks WHERE club_id = $1 AND status <> 'completed'`, clubID).Scan(&n)
	return n, err
}

// CountUpcomingMeetings returns the number of future meetings.
func (r *Repository) CountUpcomingMeetings(ctx context.Context, clubID int64) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM meetings WHERE club_id = $1 AND starts_at > NOW()`, clubID).Scan(&n)
	return n, err
}

// CountFiles returns the number of files attached to the club.
func (r *Repository) CountFiles(ctx context.Context, clubID int64) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM files WHERE club_id = $1`, clubID).Scan(&n)
	return n, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
