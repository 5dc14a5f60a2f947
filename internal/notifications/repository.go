package notifications

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/shared"
)

// Repository provides PostgreSQL backed persistence for notifications.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const notificationColumns = `id, user_id, kind, title, body, read_at, created_at`

func scanNotification(row pgx.Row) (Notification, error) {
	var n Notification
	err := row.Scan(&n.ID, &n.UserID, &n.Kind, &n.Title, &n.Body, &n.ReadAt, &n.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Notification{}, shared.ErrNotFound
	}
	return n, err
}

// ListByUser returns the user's notifications, newest first. Unread only
// when unreadOnly is set.
func (r *Repository) ListByUser(ctx context.Context, userID int64, unreadOnly bool) ([]Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = $1`
	if unreadOnly {
		query += ` AND read_at IS NULL`
	}
	query += ` ORDER BY created_at DESC LIMIT 200`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Create inserts a notification.
func (r *Repository) Create(ctx context.Context, n Notification) (Notification, error) {
	return scanNotification(r.pool.QueryRow(ctx,
		`INSERT INTO notifications (user_id, kind, title, body) VALUES ($1, $2, $3, $4) RETURNING `+notificationColumns,
		n.UserID, n.Kind, n.Title, n.Body))
}

// CreateForAllActive fans a notification out to every active user. Returns
// the number of rows inserted.
func (r *Repository) CreateForAllActive(ctx context.Context, kind Kind, title, body string) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO notifications (user_id, kind, title, body)
		 SELECT id, $1, $2, $3 FROM users WHERE is_active`, kind, title, body)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// MarkRead records the read timestamp. Scoped to the owner so one user
// cannot mark another's notifications.
func (r *Repository) MarkRead(ctx context.Context, id, userID int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET read_at = NOW() WHERE id = $1 AND user_id = $2 AND read_at IS NULL`,
		id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification for the user.
func (r *Repository) MarkAllRead(ctx context.Context, userID int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE notifications SET read_at = NOW() WHERE user_id = $1 AND read_at IS NULL`, userID)
	return err
}
