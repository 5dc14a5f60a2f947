package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/shared"
)

// Repository provides PostgreSQL backed persistence for tasks.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const taskColumns = `id, club_id, title, description, status, assignee_id, created_by, due_at, created_at, updated_at`

func scanTask(row pgx.Row) (Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.ClubID, &t.Title, &t.Description, &t.Status, &t.AssigneeID, &t.CreatedBy, &t.DueAt, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, shared.ErrNotFound
	}
	return t, err
}

// ListByClub returns the club's tasks ordered by creation time.
func (r *Repository) ListByClub(ctx context.Context, clubID int64) ([]Task, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE club_id = $1 ORDER BY created_at`, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListByAssignee returns tasks assigned to the user.
func (r *Repository) ListByAssignee(ctx context.Context, userID int64) ([]Task, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE assignee_id = $1 ORDER BY due_at NULLS LAST, created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Get fetches one task.
func (r *Repository) Get(ctx context.Context, id int64) (Task, error) {
	return scanTask(r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
}

// Create inserts a task and returns it fully populated.
func (r *Repository) Create(ctx context.Context, t Task) (Task, error) {
	return scanTask(r.pool.QueryRow(ctx,
		`INSERT INTO tasks (club_id, title, description, status, assignee_id, created_by, due_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING `+taskColumns,
		t.ClubID, t.Title, t.Description, StatusPending, t.AssigneeID, t.CreatedBy, t.DueAt))
}

// Update changes title, description and due date.
func (r *Repository) Update(ctx context.Context, id int64, title, description string, dueAt *time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks SET title = $2, description = $3, due_at = $4, updated_at = NOW() WHERE id = $1`,
		id, title, description, dueAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetAssignee assigns the task. A nil assignee clears it.
func (r *Repository) SetAssignee(ctx context.Context, id int64, assigneeID *int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks SET assignee_id = $2, updated_at = NOW() WHERE id = $1`, id, assigneeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetStatus records a status change.
func (r *Repository) SetStatus(ctx context.Context, id int64, status Status) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a task.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
