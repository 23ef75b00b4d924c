package users

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridian-admin/meridian-admin/internal/catalog"
	"github.com/meridian-admin/meridian-admin/internal/rbac"
	"github.com/meridian-admin/meridian-admin/internal/shared"
	_ "github.com/meridian-admin/meridian-admin/testing"
)

type memoryUsersRepo struct {
	users  map[int64]User
	hashes map[int64]string
	nextID int64
}

func newMemoryUsersRepo() *memoryUsersRepo {
	return &memoryUsersRepo{users: make(map[int64]User), hashes: make(map[int64]string)}
}

func (r *memoryUsersRepo) List(ctx context.Context) ([]User, error) {
	out := make([]User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryUsersRepo) FindByID(ctx context.Context, id int64) (User, error) {
	u, ok := r.users[id]
	if !ok {
		return User{}, shared.ErrNotFound
	}
	return u, nil
}

func (r *memoryUsersRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *memoryUsersRepo) Create(ctx context.Context, params CreateParams) (User, error) {
	for _, u := range r.users {
		if u.Email == params.Email {
			return User{}, shared.ErrDuplicate
		}
	}
	r.nextID++
	u := User{
		ID:          r.nextID,
		Email:       params.Email,
		FirstName:   params.FirstName,
		LastName:    params.LastName,
		PhoneNumber: params.PhoneNumber,
		Locale:      params.Locale,
		IsActive:    true,
	}
	r.users[u.ID] = u
	r.hashes[u.ID] = params.PasswordHash
	return u, nil
}

func (r *memoryUsersRepo) Update(ctx context.Context, params UpdateParams) (User, error) {
	u, ok := r.users[params.ID]
	if !ok {
		return User{}, shared.ErrNotFound
	}
	u.FirstName = params.FirstName
	u.LastName = params.LastName
	u.PhoneNumber = params.PhoneNumber
	u.Locale = params.Locale
	u.IsActive = params.IsActive
	r.users[u.ID] = u
	if params.PasswordHash != "" {
		r.hashes[u.ID] = params.PasswordHash
	}
	return u, nil
}

func (r *memoryUsersRepo) Delete(ctx context.Context, id int64) (int64, error) {
	if _, ok := r.users[id]; !ok {
		return 0, nil
	}
	delete(r.users, id)
	delete(r.hashes, id)
	return 1, nil
}

type stubRoleManager struct {
	existing    map[int64]struct{}
	memberships map[int64][]int64
	created     []string
	createdWith [][]string
	nextRoleID  int64
}

func newStubRoleManager(existing ...int64) *stubRoleManager {
	m := &stubRoleManager{
		existing:    make(map[int64]struct{}),
		memberships: make(map[int64][]int64),
		nextRoleID:  100,
	}
	for _, id := range existing {
		m.existing[id] = struct{}{}
	}
	return m
}

func (m *stubRoleManager) CreateRole(ctx context.Context, name string, permissions []string, createdBy int64) (rbac.Role, rbac.PermissionDiff, error) {
	m.nextRoleID++
	m.created = append(m.created, name)
	m.createdWith = append(m.createdWith, permissions)
	m.existing[m.nextRoleID] = struct{}{}
	return rbac.Role{ID: m.nextRoleID, Name: name, IsActive: true}, rbac.PermissionDiff{Added: permissions}, nil
}

func (m *stubRoleManager) ExistingRoleIDs(ctx context.Context, ids []int64) ([]int64, error) {
	var found []int64
	for _, id := range ids {
		if _, ok := m.existing[id]; ok {
			found = append(found, id)
		}
	}
	return found, nil
}

func (m *stubRoleManager) ReconcilePrincipalRoles(ctx context.Context, principalID int64, desired []int64) (rbac.RoleDiff, error) {
	m.memberships[principalID] = desired
	return rbac.RoleDiff{Added: desired}, nil
}

func (m *stubRoleManager) RemovePrincipalMemberships(ctx context.Context, principalID int64) error {
	delete(m.memberships, principalID)
	return nil
}

func TestRegisterBootstrapsSuperAdmin(t *testing.T) {
	repo := newMemoryUsersRepo()
	roles := newStubRoleManager()
	svc := NewService(repo, roles, 8)

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:    "founder@example.com",
		Password: "very-long-password",
		Locale:   "en",
	})
	require.NoError(t, err)
	require.Equal(t, []string{SuperAdminRoleName}, roles.created)
	require.ElementsMatch(t, catalog.Keys(), roles.createdWith[0])
	require.Len(t, roles.memberships[user.ID], 1)
}

func TestRegisterDisabledOnceAnyPrincipalExists(t *testing.T) {
	repo := newMemoryUsersRepo()
	roles := newStubRoleManager()
	svc := NewService(repo, roles, 8)

	_, err := svc.Register(context.Background(), RegisterInput{Email: "a@example.com", Password: "very-long-password"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{Email: "b@example.com", Password: "very-long-password"})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAddValidatesRoleReferences(t *testing.T) {
	repo := newMemoryUsersRepo()
	roles := newStubRoleManager(1, 2)
	svc := NewService(repo, roles, 8)

	_, err := svc.Add(context.Background(), AddInput{
		Email:    "new@example.com",
		Password: "very-long-password",
		Roles:    []int64{1, 3},
	})
	require.ErrorIs(t, err, shared.ErrValidation)
	require.Contains(t, err.Error(), "3")

	_, err = svc.Add(context.Background(), AddInput{
		Email:    "new@example.com",
		Password: "very-long-password",
	})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestAddLinksRoles(t *testing.T) {
	repo := newMemoryUsersRepo()
	roles := newStubRoleManager(1, 2)
	svc := NewService(repo, roles, 8)

	user, err := svc.Add(context.Background(), AddInput{
		Email:    "new@example.com",
		Password: "very-long-password",
		Roles:    []int64{1, 2},
	})
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2}, roles.memberships[user.ID])
}

func TestUpdateMergesPartialFields(t *testing.T) {
	repo := newMemoryUsersRepo()
	roles := newStubRoleManager(1)
	svc := NewService(repo, roles, 8)

	user, err := svc.Add(context.Background(), AddInput{
		Email:       "new@example.com",
		Password:    "very-long-password",
		FirstName:   "Nur",
		PhoneNumber: "555-0100",
		Locale:      "tr",
		Roles:       []int64{1},
	})
	require.NoError(t, err)

	updated, _, err := svc.Update(context.Background(), UpdateInput{
		ID:        user.ID,
		FirstName: "Nuray",
	})
	require.NoError(t, err)
	require.Equal(t, "Nuray", updated.FirstName)
	require.Equal(t, "555-0100", updated.PhoneNumber)
	require.Equal(t, "tr", updated.Locale)
}

func TestUpdateRejectsShortPassword(t *testing.T) {
	repo := newMemoryUsersRepo()
	roles := newStubRoleManager(1)
	svc := NewService(repo, roles, 8)

	user, err := svc.Add(context.Background(), AddInput{
		Email:    "new@example.com",
		Password: "very-long-password",
		Roles:    []int64{1},
	})
	require.NoError(t, err)

	_, _, err = svc.Update(context.Background(), UpdateInput{ID: user.ID, Password: "short"})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestDeleteRemovesMemberships(t *testing.T) {
	repo := newMemoryUsersRepo()
	roles := newStubRoleManager(1)
	svc := NewService(repo, roles, 8)

	user, err := svc.Add(context.Background(), AddInput{
		Email:    "new@example.com",
		Password: "very-long-password",
		Roles:    []int64{1},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), user.ID))
	_, ok := roles.memberships[user.ID]
	require.False(t, ok)

	err = svc.Delete(context.Background(), user.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
