package audit

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines persistence operations for audit records.
type Repository interface {
	Insert(ctx context.Context, rec Record) error
	Window(ctx context.Context, f Filters) ([]Record, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Insert appends one audit record.
func (r *PGRepository) Insert(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(rec.Payload)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO audit_logs (level, actor_email, location, action, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5, COALESCE(NULLIF($6::timestamptz, '0001-01-01T00:00:00Z'::timestamptz), NOW()))`,
		rec.Level, rec.ActorEmail, rec.Location, rec.Action, payload, rec.CreatedAt)
	return err
}

// Window returns records inside a time window, newest first.
func (r *PGRepository) Window(ctx context.Context, f Filters) ([]Record, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, level, actor_email, location, action, payload, created_at
		 FROM audit_logs
		 WHERE created_at >= $1 AND created_at <= $2
		   AND ($3 = '' OR location = $3)
		 ORDER BY created_at DESC
		 LIMIT $4 OFFSET $5`,
		f.Begin, f.End, f.Location, f.Limit, f.Skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var payload []byte
		if err := rows.Scan(&rec.ID, &rec.Level, &rec.ActorEmail, &rec.Location, &rec.Action, &payload, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &rec.Payload); err != nil {
				rec.Payload = map[string]any{"raw": string(payload)}
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

var _ Repository = (*PGRepository)(nil)
