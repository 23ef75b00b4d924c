package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridian-admin/meridian-admin/internal/shared"
)

func TestResolveBuildsPermissionSet(t *testing.T) {
	repo := newMemoryAuthRepo()
	seedPrincipal(t, repo, 1, "admin@example.com", "irrelevant-here")
	repo.roles[1] = []int64{10, 20}
	repo.keys[10] = []string{"user_view", "user_add"}
	repo.keys[20] = []string{"role_view"}

	resolver := NewResolver(repo)
	ac, err := resolver.Resolve(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), ac.PrincipalID)
	require.Len(t, ac.Permissions, 3)
	require.True(t, ac.HasAny("user_add"))
	require.True(t, ac.HasAny("role_view"))
	require.False(t, ac.HasAny("role_delete"))
}

func TestResolveDropsUnknownKeysSilently(t *testing.T) {
	repo := newMemoryAuthRepo()
	seedPrincipal(t, repo, 1, "admin@example.com", "irrelevant-here")
	repo.roles[1] = []int64{10}
	repo.keys[10] = []string{"user_view", "warp_drive_engage", "report_generate"}

	resolver := NewResolver(repo)
	ac, err := resolver.Resolve(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, ac.Permissions, 1)
	require.True(t, ac.HasAny("user_view"))
}

func TestResolveDeduplicatesAcrossRoles(t *testing.T) {
	repo := newMemoryAuthRepo()
	seedPrincipal(t, repo, 1, "admin@example.com", "irrelevant-here")
	repo.roles[1] = []int64{10, 20}
	repo.keys[10] = []string{"user_view"}
	repo.keys[20] = []string{"USER_VIEW", " user_view "}

	resolver := NewResolver(repo)
	ac, err := resolver.Resolve(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, ac.Permissions, 1)
}

func TestResolveNoRolesYieldsEmptySet(t *testing.T) {
	repo := newMemoryAuthRepo()
	seedPrincipal(t, repo, 1, "admin@example.com", "irrelevant-here")

	resolver := NewResolver(repo)
	ac, err := resolver.Resolve(context.Background(), 1)
	require.NoError(t, err)
	require.Empty(t, ac.Permissions)
	require.False(t, ac.HasAny("user_view"))
}

func TestResolveUnknownPrincipal(t *testing.T) {
	resolver := NewResolver(newMemoryAuthRepo())
	_, err := resolver.Resolve(context.Background(), 404)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
