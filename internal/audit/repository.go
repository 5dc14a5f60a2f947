package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads the audit_logs table written by shared.AuditLogger.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Timeline returns entries newest first within the filter window. It reads
// limit rows starting at offset.
func (r *Repository) Timeline(ctx context.Context, f Filters, offset, limit int) ([]Entry, error) {
	query := `SELECT a.id, a.actor_id, COALESCE(u.name, ''), a.action, a.entity, a.entity_id, a.meta, a.occurred_at
		FROM audit_logs a LEFT JOIN users u ON u.id = a.actor_id
		WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if !f.From.IsZero() {
		query += ` AND a.occurred_at >= ` + arg(f.From)
	}
	if !f.To.IsZero() {
		query += ` AND a.occurred_at < ` + arg(f.To)
	}
	if f.ActorID > 0 {
		query += ` AND a.actor_id = ` + arg(f.ActorID)
	}
	if f.Entity != "" {
		query += ` AND a.entity = ` + arg(f.Entity)
	}
	if f.Action != "" {
		query += ` AND a.action = ` + arg(f.Action)
	}
	query += ` ORDER BY a.occurred_at DESC OFFSET ` + arg(offset) + ` LIMIT ` + arg(limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		var meta []byte
		if err := rows.Scan(&e.ID, &e.ActorID, &e.ActorName, &e.Action, &e.Entity, &e.EntityID, &meta, &e.OccurredAt); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			_ = json.Unmarshal(meta, &e.Meta)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
