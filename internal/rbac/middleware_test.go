package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridian-admin/meridian-admin/internal/catalog"
	"github.com/meridian-admin/meridian-admin/internal/shared"
)

func guardRequest(t *testing.T, guard Middleware, required []string, held []string) *httptest.ResponseRecorder {
	t.Helper()
	var entries []catalog.Entry
	for _, key := range held {
		entry, ok := catalog.Find(key)
		require.True(t, ok, "unknown catalog key %q", key)
		entries = append(entries, entry)
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := guard.RequireAny(required...)(next)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if held != nil {
		ac := shared.NewAuthContext(1, "admin@example.com", "Ada", "Admin", "en", entries)
		req = req.WithContext(shared.ContextWithAuth(req.Context(), ac))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRequireAnyAdmitsOnIntersection(t *testing.T) {
	guard := Middleware{}
	rec := guardRequest(t, guard, []string{"user_view", "user_add"}, []string{"user_add", "role_view"})
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireAnyDeniesDisjointSets(t *testing.T) {
	guard := Middleware{}
	rec := guardRequest(t, guard, []string{"role_delete", "user_delete"}, []string{"category_view"})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAnyDeniesEmptyPermissionSet(t *testing.T) {
	guard := Middleware{}
	rec := guardRequest(t, guard, []string{"user_view"}, []string{})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAnyRejectsMissingAuthContext(t *testing.T) {
	guard := Middleware{}
	rec := guardRequest(t, guard, []string{"user_view"}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAnyNormalisesRequiredKeys(t *testing.T) {
	guard := Middleware{}
	rec := guardRequest(t, guard, []string{"  USER_VIEW "}, []string{"user_view"})
	require.Equal(t, http.StatusNoContent, rec.Code)
}
