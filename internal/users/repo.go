package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-admin/meridian-admin/internal/shared"
)

// CreateParams carries the fields for a new principal row.
type CreateParams struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	PhoneNumber  string
	Locale       string
}

// UpdateParams carries the full field set written by an update. The service
// merges partial input into the stored row before calling Update.
type UpdateParams struct {
	ID           int64
	PasswordHash string // empty means keep current
	FirstName    string
	LastName     string
	PhoneNumber  string
	Locale       string
	IsActive     bool
}

// Repository defines persistence operations for user management.
type Repository interface {
	List(ctx context.Context) ([]User, error)
	FindByID(ctx context.Context, id int64) (User, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, params CreateParams) (User, error)
	Update(ctx context.Context, params UpdateParams) (User, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userColumns = `id, email, first_name, last_name, phone_number, locale, is_active, created_at, updated_at`

// List returns all principals ordered by id.
func (r *PGRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM principals ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PhoneNumber, &u.Locale, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// FindByID fetches a principal by id.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (User, error) {
	var u User
	err := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM principals WHERE id = $1`, id).
		Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PhoneNumber, &u.Locale, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

// Count returns the number of stored principals.
func (r *PGRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM principals`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Create inserts a new active principal.
func (r *PGRepository) Create(ctx context.Context, params CreateParams) (User, error) {
	var u User
	err := r.pool.QueryRow(ctx,
		`INSERT INTO principals (email, password_hash, first_name, last_name, phone_number, locale, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		 RETURNING `+userColumns,
		params.Email, params.PasswordHash, params.FirstName, params.LastName, params.PhoneNumber, params.Locale).
		Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PhoneNumber, &u.Locale, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, shared.ErrDuplicate
		}
		return User{}, err
	}
	return u, nil
}

// Update writes the merged field set of a principal.
func (r *PGRepository) Update(ctx context.Context, params UpdateParams) (User, error) {
	var u User
	err := r.pool.QueryRow(ctx,
		`UPDATE principals SET
			password_hash = CASE WHEN $2 = '' THEN password_hash ELSE $2 END,
			first_name = $3, last_name = $4, phone_number = $5, locale = $6, is_active = $7,
			updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+userColumns,
		params.ID, params.PasswordHash, params.FirstName, params.LastName, params.PhoneNumber, params.Locale, params.IsActive).
		Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PhoneNumber, &u.Locale, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

// Delete removes a principal row.
func (r *PGRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM principals WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ Repository = (*PGRepository)(nil)
