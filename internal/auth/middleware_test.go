package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meridian-admin/meridian-admin/internal/shared"
)

func newTestAuthenticator(t *testing.T, repo *memoryAuthRepo) (Authenticator, *TokenIssuer) {
	t.Helper()
	issuer := NewTokenIssuer("unit-test-secret", time.Hour)
	return Authenticator{Issuer: issuer, Resolver: NewResolver(repo)}, issuer
}

func authedRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestMiddlewareAttachesAuthContext(t *testing.T) {
	repo := newMemoryAuthRepo()
	seedPrincipal(t, repo, 1, "admin@example.com", "irrelevant-here")
	repo.roles[1] = []int64{10}
	repo.keys[10] = []string{"user_view"}
	authn, issuer := newTestAuthenticator(t, repo)

	token, err := issuer.Issue(1)
	require.NoError(t, err)

	var captured *shared.AuthContext
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = shared.AuthFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	authn.Middleware(next).ServeHTTP(rec, authedRequest(token))

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, captured)
	require.Equal(t, "admin@example.com", captured.Email)
	require.True(t, captured.HasAny("user_view"))
}

func TestMiddlewareRejectsMissingHeader(t *testing.T) {
	authn, _ := newTestAuthenticator(t, newMemoryAuthRepo())

	rec := httptest.NewRecorder()
	authn.Middleware(http.NotFoundHandler()).ServeHTTP(rec, authedRequest(""))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareRejectsMalformedHeader(t *testing.T) {
	authn, _ := newTestAuthenticator(t, newMemoryAuthRepo())

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	authn.Middleware(http.NotFoundHandler()).ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareRejectsForgedToken(t *testing.T) {
	repo := newMemoryAuthRepo()
	seedPrincipal(t, repo, 1, "admin@example.com", "irrelevant-here")
	authn, _ := newTestAuthenticator(t, repo)

	foreign := NewTokenIssuer("other-secret", time.Hour)
	token, err := foreign.Issue(1)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	authn.Middleware(http.NotFoundHandler()).ServeHTTP(rec, authedRequest(token))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareRejectsTokenOfDeletedPrincipal(t *testing.T) {
	authn, issuer := newTestAuthenticator(t, newMemoryAuthRepo())

	token, err := issuer.Issue(99)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	authn.Middleware(http.NotFoundHandler()).ServeHTTP(rec, authedRequest(token))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
