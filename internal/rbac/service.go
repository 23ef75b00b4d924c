package rbac

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/meridian-admin/meridian-admin/internal/shared"
)

// Service orchestrates role CRUD and membership reconciliation.
type Service struct {
	repo  Repository
	locks *shared.KeyedMutex
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{
		repo:  repo,
		locks: shared.NewKeyedMutex(),
	}
}

// ListRoles returns all roles.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

// CreateRole inserts a new role and attaches its initial permission set.
func (s *Service) CreateRole(ctx context.Context, name string, permissions []string, createdBy int64) (Role, PermissionDiff, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Role{}, PermissionDiff{}, fmt.Errorf("%w: role_name field must be filled", shared.ErrValidation)
	}
	if len(permissions) == 0 {
		return Role{}, PermissionDiff{}, fmt.Errorf("%w: permissions field must be a non-empty array", shared.ErrValidation)
	}
	role, err := s.repo.CreateRole(ctx, name, createdBy)
	if err != nil {
		return Role{}, PermissionDiff{}, err
	}
	diff, err := s.ReconcileRolePermissions(ctx, role.ID, permissions, createdBy)
	if err != nil {
		return role, diff, err
	}
	return role, diff, nil
}

// UpdateRole applies partial updates to a role and, when a desired
// permission set is supplied, reconciles its links.
func (s *Service) UpdateRole(ctx context.Context, id int64, name string, isActive *bool, permissions []string, actorID int64) (Role, PermissionDiff, error) {
	role, err := s.repo.GetRole(ctx, id)
	if err != nil {
		return Role{}, PermissionDiff{}, err
	}
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		role.Name = trimmed
	}
	if isActive != nil {
		role.IsActive = *isActive
	}
	role, err = s.repo.UpdateRole(ctx, role.ID, role.Name, role.IsActive)
	if err != nil {
		return Role{}, PermissionDiff{}, err
	}

	var diff PermissionDiff
	if len(permissions) > 0 {
		diff, err = s.ReconcileRolePermissions(ctx, role.ID, permissions, actorID)
		if err != nil {
			return role, diff, err
		}
	}
	return role, diff, nil
}

// DeleteRole removes a role. Existing membership links are not cascaded;
// the resolver drops permissions of roles no principal holds anymore.
func (s *Service) DeleteRole(ctx context.Context, id int64) error {
	rows, err := s.repo.DeleteRole(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistingRoleIDs reports which of the given role ids exist.
func (s *Service) ExistingRoleIDs(ctx context.Context, ids []int64) ([]int64, error) {
	return s.repo.ExistingRoleIDs(ctx, ids)
}

// ReconcileRolePermissions moves a role's persisted permission set to the
// desired key set with the minimal add/remove operations. Unchanged links
// keep their creation metadata. The bulk removal is applied before any
// insertion; there is no transaction across the two phases, so an insert
// failure leaves the set partially reconciled. Calls for the same role are
// serialised in-process through a keyed mutex.
func (s *Service) ReconcileRolePermissions(ctx context.Context, roleID int64, desired []string, actorID int64) (PermissionDiff, error) {
	unlock := s.locks.Lock(shared.RoleLockKey(roleID))
	defer unlock()

	current, err := s.repo.ListRolePermissions(ctx, roleID)
	if err != nil {
		return PermissionDiff{}, storageErr(err)
	}

	desiredKeys := make([]string, 0, len(desired))
	desiredSet := make(map[string]struct{}, len(desired))
	for _, key := range desired {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		desiredKeys = append(desiredKeys, key)
		desiredSet[key] = struct{}{}
	}

	currentSet := make(map[string]struct{}, len(current))
	var removedIDs []int64
	removed := []string{}
	for _, link := range current {
		key := strings.ToLower(strings.TrimSpace(link.PermissionKey))
		currentSet[key] = struct{}{}
		if _, keep := desiredSet[key]; !keep {
			removedIDs = append(removedIDs, link.ID)
			removed = append(removed, key)
		}
	}

	// Desired entries absent from the current set. Duplicates in the
	// caller's desired list are inserted as-is; deduplication within one
	// call is the caller's responsibility.
	added := []string{}
	for _, key := range desiredKeys {
		if _, present := currentSet[key]; !present {
			added = append(added, key)
		}
	}

	if err := s.repo.DeleteRolePermissions(ctx, removedIDs); err != nil {
		return PermissionDiff{}, storageErr(err)
	}
	for i, key := range added {
		if err := s.repo.InsertRolePermission(ctx, roleID, key, actorID); err != nil {
			return PermissionDiff{Added: added[:i], Removed: removed}, storageErr(err)
		}
	}
	return PermissionDiff{Added: added, Removed: removed}, nil
}

// ReconcilePrincipalRoles moves a principal's role membership to the desired
// role id set, with the same two-phase shape as permission reconciliation.
// Calls for the same principal are serialised in-process.
func (s *Service) ReconcilePrincipalRoles(ctx context.Context, principalID int64, desired []int64) (RoleDiff, error) {
	unlock := s.locks.Lock(shared.PrincipalLockKey(principalID))
	defer unlock()

	current, err := s.repo.ListPrincipalRoles(ctx, principalID)
	if err != nil {
		return RoleDiff{}, storageErr(err)
	}

	desiredSet := make(map[int64]struct{}, len(desired))
	for _, id := range desired {
		desiredSet[id] = struct{}{}
	}

	currentSet := make(map[int64]struct{}, len(current))
	var removedIDs []int64
	removed := []int64{}
	for _, link := range current {
		currentSet[link.RoleID] = struct{}{}
		if _, keep := desiredSet[link.RoleID]; !keep {
			removedIDs = append(removedIDs, link.ID)
			removed = append(removed, link.RoleID)
		}
	}

	added := []int64{}
	for _, id := range desired {
		if _, present := currentSet[id]; !present {
			added = append(added, id)
		}
	}

	if err := s.repo.DeletePrincipalRoles(ctx, removedIDs); err != nil {
		return RoleDiff{}, storageErr(err)
	}
	for i, id := range added {
		if err := s.repo.InsertPrincipalRole(ctx, principalID, id); err != nil {
			return RoleDiff{Added: added[:i], Removed: removed}, storageErr(err)
		}
	}
	return RoleDiff{Added: added, Removed: removed}, nil
}

// RemovePrincipalMemberships deletes every membership link of a principal.
func (s *Service) RemovePrincipalMemberships(ctx context.Context, principalID int64) error {
	unlock := s.locks.Lock(shared.PrincipalLockKey(principalID))
	defer unlock()
	return s.repo.DeletePrincipalRolesByPrincipal(ctx, principalID)
}

func storageErr(err error) error {
	if errors.Is(err, shared.ErrNotFound) || errors.Is(err, shared.ErrDuplicate) {
		return err
	}
	return fmt.Errorf("rbac: storage: %w", err)
}
