package meetings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/shared"
)

// Repository provides PostgreSQL backed persistence for meetings.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const meetingColumns = `id, club_id, title, description, location, starts_at, ends_at, created_by, created_at`

func scanMeeting(row pgx.Row) (Meeting, error) {
	var m Meeting
	err := row.Scan(&m.ID, &m.ClubID, &m.Title, &m.Description, &m.Location, &m.StartsAt, &m.EndsAt, &m.CreatedBy, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Meeting{}, shared.ErrNotFound
	}
	return m, err
}

// ListByClub returns the club's meetings, soonest first. Past meetings are
// included when includePast is set.
func (r *Repository) ListByClub(ctx context.Context, clubID int64, includePast bool) ([]Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE club_id = $1`
	if !includePast {
		query += ` AND starts_at > NOW()`
	}
	query += ` ORDER BY starts_at`
	rows, err := r.pool.Query(ctx, query, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Get fetches one meeting.
func (r *Repository) Get(ctx context.Context, id int64) (Meeting, error) {
	return scanMeeting(r.pool.QueryRow(ctx, `SELECT `+meetingColumns+` FROM meetings WHERE id = $1`, id))
}

// Create inserts a meeting and returns it fully populated.
func (r *Repository) Create(ctx context.Context, m Meeting) (Meeting, error) {
	return scanMeeting(r.pool.QueryRow(ctx,
		`INSERT INTO meetings (club_id, title, description, location, starts_at, ends_at, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING `+meetingColumns,
		m.ClubID, m.Title, m.Description, m.Location, m.StartsAt, m.EndsAt, m.CreatedBy))
}

// Delete cancels a meeting. RSVPs cascade in the schema.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM meetings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UpsertRSVP records or replaces a user's reply.
func (r *Repository) UpsertRSVP(ctx context.Context, meetingID, userID int64, status RSVPStatus) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO meeting_rsvps (meeting_id, user_id, status, replied_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (meeting_id, user_id) DO UPDATE SET status = EXCLUDED.status, replied_at = NOW()`,
		meetingID, userID, status)
	return err
}

// ListRSVPs returns replies for a meeting.
func (r *Repository) ListRSVPs(ctx context.Context, meetingID int64) ([]RSVP, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT v.meeting_id, v.user_id, u.name, v.status, v.replied_at
		 FROM meeting_rsvps v JOIN users u ON u.id = v.user_id
		 WHERE v.meeting_id = $1 ORDER BY v.replied_at`, meetingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RSVP
	for rows.Next() {
		var v RSVP
		if err := rows.Scan(&v.MeetingID, &v.UserID, &v.UserName, &v.Status, &v.RepliedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
