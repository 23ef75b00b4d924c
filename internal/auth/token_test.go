package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/meridian-admin/meridian-admin/internal/shared"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("unit-test-secret", time.Hour)

	token, err := issuer.Issue(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, err := issuer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, int64(42), id)
}

func TestTokenExpiry(t *testing.T) {
	issuer := NewTokenIssuer("unit-test-secret", time.Minute)
	base := time.Now()
	issuer.now = func() time.Time { return base }

	token, err := issuer.Issue(7)
	require.NoError(t, err)

	// Still valid just before expiry.
	issuer.now = func() time.Time { return base.Add(59 * time.Second) }
	_, err = issuer.Parse(token)
	require.NoError(t, err)

	issuer.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err = issuer.Parse(token)
	require.ErrorIs(t, err, shared.ErrUnauthenticated)
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret-a", time.Hour)
	other := NewTokenIssuer("secret-b", time.Hour)

	token, err := issuer.Issue(1)
	require.NoError(t, err)

	_, err = other.Parse(token)
	require.ErrorIs(t, err, shared.ErrUnauthenticated)
}

func TestTokenRejectsForeignSigningMethod(t *testing.T) {
	issuer := NewTokenIssuer("unit-test-secret", time.Hour)

	claims := jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("unit-test-secret"))
	require.NoError(t, err)

	_, err = issuer.Parse(forged)
	require.ErrorIs(t, err, shared.ErrUnauthenticated)
}

func TestTokenGarbageInput(t *testing.T) {
	issuer := NewTokenIssuer("unit-test-secret", time.Hour)
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := issuer.Parse(raw)
		require.ErrorIs(t, err, shared.ErrUnauthenticated, "input %q", raw)
	}
}

func TestTokenNonNumericSubject(t *testing.T) {
	issuer := NewTokenIssuer("unit-test-secret", time.Hour)
	claims := jwt.RegisteredClaims{
		Subject:   "gandalf",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("unit-test-secret"))
	require.NoError(t, err)

	_, err = issuer.Parse(raw)
	require.ErrorIs(t, err, shared.ErrUnauthenticated)
}
