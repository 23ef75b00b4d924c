package rbac

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-admin/meridian-admin/internal/shared"
)

// Repository defines persistence operations for roles and membership links.
type Repository interface {
	ListRoles(ctx context.Context) ([]Role, error)
	GetRole(ctx context.Context, id int64) (Role, error)
	CreateRole(ctx context.Context, name string, createdBy int64) (Role, error)
	UpdateRole(ctx context.Context, id int64, name string, isActive bool) (Role, error)
	DeleteRole(ctx context.Context, id int64) (int64, error)
	ExistingRoleIDs(ctx context.Context, ids []int64) ([]int64, error)

	ListRolePermissions(ctx context.Context, roleID int64) ([]RolePermission, error)
	DeleteRolePermissions(ctx context.Context, ids []int64) error
	InsertRolePermission(ctx context.Context, roleID int64, key string, createdBy int64) error

	ListPrincipalRoles(ctx context.Context, principalID int64) ([]PrincipalRole, error)
	DeletePrincipalRoles(ctx context.Context, ids []int64) error
	InsertPrincipalRole(ctx context.Context, principalID, roleID int64) error
	DeletePrincipalRolesByPrincipal(ctx context.Context, principalID int64) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const roleColumns = `id, name, is_active, created_by, created_at, updated_at`

// ListRoles returns all roles ordered by name.
func (r *PGRepository) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+roleColumns+` FROM roles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name, &role.IsActive, &role.CreatedBy, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// GetRole fetches a role by id.
func (r *PGRepository) GetRole(ctx context.Context, id int64) (Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id).
		Scan(&role.ID, &role.Name, &role.IsActive, &role.CreatedBy, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, shared.ErrNotFound
		}
		return Role{}, err
	}
	return role, nil
}

// CreateRole inserts a new active role.
func (r *PGRepository) CreateRole(ctx context.Context, name string, createdBy int64) (Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx,
		`INSERT INTO roles (name, is_active, created_by) VALUES ($1, TRUE, $2) RETURNING `+roleColumns,
		name, createdBy).
		Scan(&role.ID, &role.Name, &role.IsActive, &role.CreatedBy, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Role{}, shared.ErrDuplicate
		}
		return Role{}, err
	}
	return role, nil
}

// UpdateRole updates name and active flag of an existing role.
func (r *PGRepository) UpdateRole(ctx context.Context, id int64, name string, isActive bool) (Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx,
		`UPDATE roles SET name = $2, is_active = $3, updated_at = NOW() WHERE id = $1 RETURNING `+roleColumns,
		id, name, isActive).
		Scan(&role.ID, &role.Name, &role.IsActive, &role.CreatedBy, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, shared.ErrNotFound
		}
		if isUniqueViolation(err) {
			return Role{}, shared.ErrDuplicate
		}
		return Role{}, err
	}
	return role, nil
}

// DeleteRole removes a role row. Membership links referencing the role are
// left in place; the resolver ignores links whose role no longer appears in
// any principal membership.
func (r *PGRepository) DeleteRole(ctx context.Context, id int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ExistingRoleIDs returns which of the given role ids exist.
func (r *PGRepository) ExistingRoleIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT id FROM roles WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var found []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found = append(found, id)
	}
	return found, rows.Err()
}

// ListRolePermissions returns all permission links of a role.
func (r *PGRepository) ListRolePermissions(ctx context.Context, roleID int64) ([]RolePermission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, role_id, permission_key, created_by, created_at FROM role_permissions WHERE role_id = $1`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var links []RolePermission
	for rows.Next() {
		var link RolePermission
		if err := rows.Scan(&link.ID, &link.RoleID, &link.PermissionKey, &link.CreatedBy, &link.CreatedAt); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

// DeleteRolePermissions bulk deletes permission links by id.
func (r *PGRepository) DeleteRolePermissions(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM role_permissions WHERE id = ANY($1)`, ids)
	return err
}

// InsertRolePermission inserts a single permission link.
func (r *PGRepository) InsertRolePermission(ctx context.Context, roleID int64, key string, createdBy int64) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO role_permissions (role_id, permission_key, created_by) VALUES ($1, $2, $3)`,
		roleID, key, createdBy)
	return err
}

// ListPrincipalRoles returns all role links of a principal.
func (r *PGRepository) ListPrincipalRoles(ctx context.Context, principalID int64) ([]PrincipalRole, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, principal_id, role_id, created_at FROM principal_roles WHERE principal_id = $1`, principalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var links []PrincipalRole
	for rows.Next() {
		var link PrincipalRole
		if err := rows.Scan(&link.ID, &link.PrincipalID, &link.RoleID, &link.CreatedAt); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

// DeletePrincipalRoles bulk deletes membership links by id.
func (r *PGRepository) DeletePrincipalRoles(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM principal_roles WHERE id = ANY($1)`, ids)
	return err
}

// InsertPrincipalRole inserts a single membership link.
func (r *PGRepository) InsertPrincipalRole(ctx context.Context, principalID, roleID int64) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO principal_roles (principal_id, role_id) VALUES ($1, $2)`,
		principalID, roleID)
	return err
}

// DeletePrincipalRolesByPrincipal removes every membership of a principal.
// Used when a principal is deleted.
func (r *PGRepository) DeletePrincipalRolesByPrincipal(ctx context.Context, principalID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM principal_roles WHERE principal_id = $1`, principalID)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ Repository = (*PGRepository)(nil)
