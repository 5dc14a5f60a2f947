package files

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/shared"
)

// Repository provides PostgreSQL backed persistence for file metadata.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const fileColumns = `id, club_id, owner_id, name, object_key, mime_type, size_bytes, uploaded_at`

func scanFile(row pgx.Row) (File, error) {
	var f File
	err := row.Scan(&f.ID, &f.ClubID, &f.OwnerID, &f.Name, &f.ObjectKey, &f.MimeType, &f.SizeBytes, &f.UploadedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return File{}, shared.ErrNotFound
	}
	return f, err
}

// ListByClub returns files attached to a club, newest first.
func (r *Repository) ListByClub(ctx context.Context, clubID int64) ([]File, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+fileColumns+` FROM files WHERE club_id = $1 ORDER BY uploaded_at DESC`, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Get fetches one file record.
func (r *Repository) Get(ctx context.Context, id int64) (File, error) {
	return scanFile(r.pool.QueryRow(ctx, `SELECT `+fileColumns+` FROM files WHERE id = $1`, id))
}

// Create inserts a metadata record and returns it fully populated.
func (r *Repository) Create(ctx context.Context, f File) (File, error) {
	return scanFile(r.pool.QueryRow(ctx,
		`INSERT INTO files (club_id, owner_id, name, object_key, mime_type, size_bytes)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING `+fileColumns,
		f.ClubID, f.OwnerID, f.Name, f.ObjectKey, f.MimeType, f.SizeBytes))
}

// Delete removes a metadata record.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
