package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/meridian-admin/meridian-admin/internal/platform/httpx"
	"github.com/meridian-admin/meridian-admin/internal/shared"
)

// Authenticator is the request-pipeline stage that turns a bearer token into
// an AuthContext. Requests without a valid, unexpired, correctly signed token
// fail here with 401 and never reach permission guards.
type Authenticator struct {
	Issuer   *TokenIssuer
	Resolver *Resolver
	Logger   *slog.Logger
}

// Middleware verifies the Authorization header, resolves privileges and
// attaches the AuthContext to the request context.
func (a Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			httpx.RespondError(w, shared.ErrUnauthenticated)
			return
		}

		principalID, err := a.Issuer.Parse(token)
		if err != nil {
			httpx.RespondError(w, shared.ErrUnauthenticated)
			return
		}

		ac, err := a.Resolver.Resolve(r.Context(), principalID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				// Token outlived its principal.
				httpx.RespondError(w, shared.ErrUnauthenticated)
				return
			}
			if a.Logger != nil {
				a.Logger.Error("resolve privileges", slog.Int64("principal_id", principalID), slog.Any("error", err))
			}
			httpx.RespondError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.ContextWithAuth(r.Context(), ac)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
