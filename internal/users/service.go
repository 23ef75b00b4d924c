package users

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/meridian-admin/meridian-admin/internal/auth"
	"github.com/meridian-admin/meridian-admin/internal/catalog"
	"github.com/meridian-admin/meridian-admin/internal/rbac"
	"github.com/meridian-admin/meridian-admin/internal/shared"
)

// RoleManager is the slice of the rbac service the users module depends on.
type RoleManager interface {
	CreateRole(ctx context.Context, name string, permissions []string, createdBy int64) (rbac.Role, rbac.PermissionDiff, error)
	ExistingRoleIDs(ctx context.Context, ids []int64) ([]int64, error)
	ReconcilePrincipalRoles(ctx context.Context, principalID int64, desired []int64) (rbac.RoleDiff, error)
	RemovePrincipalMemberships(ctx context.Context, principalID int64) error
}

// Service handles user management business logic.
type Service struct {
	repo        Repository
	roles       RoleManager
	validate    *validator.Validate
	minPassword int
}

// NewService builds a Service instance.
func NewService(repo Repository, roles RoleManager, minPasswordLength int) *Service {
	if minPasswordLength <= 0 {
		minPasswordLength = 8
	}
	return &Service{
		repo:        repo,
		roles:       roles,
		validate:    validator.New(),
		minPassword: minPasswordLength,
	}
}

// RegisterInput carries the fields of the bootstrap registration.
type RegisterInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
	Locale      string
}

// Register creates the very first principal together with a super admin role
// holding every catalog permission. Once any principal exists the endpoint
// behaves as if it did not exist.
func (s *Service) Register(ctx context.Context, input RegisterInput) (User, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return User{}, err
	}
	if count > 0 {
		return User{}, shared.ErrNotFound
	}

	if err := s.validateCredentials(input.Email, input.Password); err != nil {
		return User{}, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return User{}, err
	}
	user, err := s.repo.Create(ctx, CreateParams{
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PhoneNumber:  input.PhoneNumber,
		Locale:       input.Locale,
	})
	if err != nil {
		return User{}, err
	}

	role, _, err := s.roles.CreateRole(ctx, SuperAdminRoleName, catalog.Keys(), user.ID)
	if err != nil {
		return User{}, err
	}
	if _, err := s.roles.ReconcilePrincipalRoles(ctx, user.ID, []int64{role.ID}); err != nil {
		return User{}, err
	}
	return user, nil
}

// AddInput carries the fields of an admin-created principal.
type AddInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
	Locale      string
	Roles       []int64
}

// Add creates a principal and links the requested roles. Every referenced
// role must exist.
func (s *Service) Add(ctx context.Context, input AddInput) (User, error) {
	if err := s.validateCredentials(input.Email, input.Password); err != nil {
		return User{}, err
	}
	if len(input.Roles) == 0 {
		return User{}, fmt.Errorf("%w: roles field must be a non-empty array", shared.ErrValidation)
	}

	found, err := s.roles.ExistingRoleIDs(ctx, input.Roles)
	if err != nil {
		return User{}, err
	}
	if missing := missingIDs(input.Roles, found); len(missing) > 0 {
		return User{}, fmt.Errorf("%w: roles not found: %s", shared.ErrValidation, joinIDs(missing))
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return User{}, err
	}
	user, err := s.repo.Create(ctx, CreateParams{
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PhoneNumber:  input.PhoneNumber,
		Locale:       input.Locale,
	})
	if err != nil {
		return User{}, err
	}
	if _, err := s.roles.ReconcilePrincipalRoles(ctx, user.ID, input.Roles); err != nil {
		return user, err
	}
	return user, nil
}

// UpdateInput carries partial updates for a principal. Nil or zero fields
// keep the stored value; a non-empty Roles slice triggers membership
// reconciliation.
type UpdateInput struct {
	ID          int64
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
	Locale      string
	IsActive    *bool
	Roles       []int64
}

// Update merges the given fields into the stored principal and reconciles
// role membership when a desired role set is supplied.
func (s *Service) Update(ctx context.Context, input UpdateInput) (User, rbac.RoleDiff, error) {
	if input.ID == 0 {
		return User{}, rbac.RoleDiff{}, fmt.Errorf("%w: id field must be filled", shared.ErrValidation)
	}
	current, err := s.repo.FindByID(ctx, input.ID)
	if err != nil {
		return User{}, rbac.RoleDiff{}, err
	}

	var hash string
	if input.Password != "" {
		if len(input.Password) < s.minPassword {
			return User{}, rbac.RoleDiff{}, fmt.Errorf("%w: password length must be at least %d", shared.ErrValidation, s.minPassword)
		}
		if hash, err = auth.HashPassword(input.Password); err != nil {
			return User{}, rbac.RoleDiff{}, err
		}
	}

	params := UpdateParams{
		ID:           current.ID,
		PasswordHash: hash,
		FirstName:    pick(input.FirstName, current.FirstName),
		LastName:     pick(input.LastName, current.LastName),
		PhoneNumber:  pick(input.PhoneNumber, current.PhoneNumber),
		Locale:       pick(input.Locale, current.Locale),
		IsActive:     current.IsActive,
	}
	if input.IsActive != nil {
		params.IsActive = *input.IsActive
	}

	user, err := s.repo.Update(ctx, params)
	if err != nil {
		return User{}, rbac.RoleDiff{}, err
	}

	var diff rbac.RoleDiff
	if len(input.Roles) > 0 {
		diff, err = s.roles.ReconcilePrincipalRoles(ctx, user.ID, input.Roles)
		if err != nil {
			return user, diff, err
		}
	}
	return user, diff, nil
}

// Delete removes a principal and cascades its role membership links.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id == 0 {
		return fmt.Errorf("%w: id field must be filled", shared.ErrValidation)
	}
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return shared.ErrNotFound
	}
	return s.roles.RemovePrincipalMemberships(ctx, id)
}

// List returns all principals.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) validateCredentials(email, password string) error {
	if email == "" {
		return fmt.Errorf("%w: email field must be filled", shared.ErrValidation)
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return fmt.Errorf("%w: email must be in a valid format", shared.ErrValidation)
	}
	if password == "" {
		return fmt.Errorf("%w: password field must be filled", shared.ErrValidation)
	}
	if len(password) < s.minPassword {
		return fmt.Errorf("%w: password length must be at least %d", shared.ErrValidation, s.minPassword)
	}
	return nil
}

func missingIDs(requested, found []int64) []int64 {
	present := make(map[int64]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}
	var missing []int64
	seen := make(map[int64]struct{}, len(requested))
	for _, id := range requested {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}

func pick(updated, current string) string {
	if updated != "" {
		return updated
	}
	return current
}
