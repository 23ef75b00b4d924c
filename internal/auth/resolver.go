package auth

import (
	"context"
	"strings"

	"github.com/meridian-admin/meridian-admin/internal/catalog"
	"github.com/meridian-admin/meridian-admin/internal/shared"
)

// Resolver expands a principal id into an AuthContext holding the effective
// permission set. Resolution runs on every request so role and permission
// edits take effect on the very next request, even for long-lived tokens.
type Resolver struct {
	repo Repository
}

// NewResolver constructs a Resolver.
func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve loads the principal, its role memberships and the permission keys
// those roles carry, then maps each key through the catalog. Keys without a
// catalog entry are dropped silently; a stale key must not break
// authorization for the rest of the set. The resolver does not filter on the
// active flag.
func (r *Resolver) Resolve(ctx context.Context, principalID int64) (*shared.AuthContext, error) {
	principal, err := r.repo.FindByID(ctx, principalID)
	if err != nil {
		return nil, err
	}

	roleIDs, err := r.repo.RoleIDsForPrincipal(ctx, principalID)
	if err != nil {
		return nil, err
	}

	var keys []string
	if len(roleIDs) > 0 {
		keys, err = r.repo.PermissionKeysForRoles(ctx, roleIDs)
		if err != nil {
			return nil, err
		}
	}

	seen := make(map[string]struct{}, len(keys))
	perms := make([]catalog.Entry, 0, len(keys))
	for _, key := range keys {
		key = strings.ToLower(strings.TrimSpace(key))
		if _, dup := seen[key]; dup {
			continue
		}
		entry, ok := catalog.Find(key)
		if !ok {
			continue
		}
		seen[key] = struct{}{}
		perms = append(perms, entry)
	}

	return shared.NewAuthContext(principal.ID, principal.Email, principal.FirstName, principal.LastName, principal.Locale, perms), nil
}
