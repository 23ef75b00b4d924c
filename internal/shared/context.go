package shared

import (
	"context"
	"strings"

	"github.com/meridian-admin/meridian-admin/internal/catalog"
)

// AuthContext carries the resolved identity and effective permissions of the
// current request. It is built once per request by the privilege resolver,
// lives only in the request context and is never persisted.
type AuthContext struct {
	PrincipalID int64
	Email       string
	FirstName   string
	LastName    string
	Locale      string
	Permissions []catalog.Entry

	keys map[string]struct{}
}

// NewAuthContext builds an AuthContext from resolved catalog entries.
func NewAuthContext(principalID int64, email, firstName, lastName, locale string, perms []catalog.Entry) *AuthContext {
	keys := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		keys[strings.ToLower(p.Key)] = struct{}{}
	}
	return &AuthContext{
		PrincipalID: principalID,
		Email:       email,
		FirstName:   firstName,
		LastName:    lastName,
		Locale:      locale,
		Permissions: perms,
		keys:        keys,
	}
}

// HasAny reports whether the context holds at least one of the given
// permission keys. Keys are expected in canonical lower-case form.
func (a *AuthContext) HasAny(keys ...string) bool {
	if a == nil {
		return false
	}
	for _, k := range keys {
		if _, ok := a.keys[k]; ok {
			return true
		}
	}
	return false
}

type authContextKey struct{}

// ContextWithAuth stores the auth context in the request context.
func ContextWithAuth(ctx context.Context, ac *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey{}, ac)
}

// AuthFromContext extracts the auth context, or nil when the request has not
// passed authentication.
func AuthFromContext(ctx context.Context) *AuthContext {
	ac, _ := ctx.Value(authContextKey{}).(*AuthContext)
	return ac
}
