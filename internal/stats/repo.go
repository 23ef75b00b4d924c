// Package stats answers aggregate questions about the administration data:
// who performed which audited action how often, which category names exist,
// how many principals are registered.
package stats

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ActorActionCount is one row of the audit aggregate.
type ActorActionCount struct {
	ActorEmail string `json:"actor_email"`
	Action     string `json:"action"`
	Count      int64  `json:"count"`
}

// Repository defines the aggregate queries.
type Repository interface {
	AuditActionCounts(ctx context.Context, location string) ([]ActorActionCount, error)
	DistinctCategoryNames(ctx context.Context, isActive *bool) ([]string, error)
	CountPrincipals(ctx context.Context, isActive *bool) (int64, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// AuditActionCounts groups audit records per actor and action, optionally
// narrowed to one location tag.
func (r *PGRepository) AuditActionCounts(ctx context.Context, location string) ([]ActorActionCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT actor_email, action, COUNT(*) AS cnt
		 FROM audit_logs
		 WHERE ($1 = '' OR location = $1)
		 GROUP BY actor_email, action
		 ORDER BY cnt DESC`, location)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ActorActionCount
	for rows.Next() {
		var row ActorActionCount
		if err := rows.Scan(&row.ActorEmail, &row.Action, &row.Count); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// DistinctCategoryNames returns the unique category names, optionally
// filtered by active flag.
func (r *PGRepository) DistinctCategoryNames(ctx context.Context, isActive *bool) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT name FROM categories WHERE ($1::boolean IS NULL OR is_active = $1) ORDER BY name`,
		isActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// CountPrincipals counts principals, optionally filtered by active flag.
func (r *PGRepository) CountPrincipals(ctx context.Context, isActive *bool) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM principals WHERE ($1::boolean IS NULL OR is_active = $1)`,
		isActive).Scan(&n)
	return n, err
}

var _ Repository = (*PGRepository)(nil)
