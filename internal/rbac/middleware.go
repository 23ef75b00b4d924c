package rbac

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/meridian-admin/meridian-admin/internal/platform/httpx"
	"github.com/meridian-admin/meridian-admin/internal/shared"
)

// Middleware wires the authorization guard for HTTP handlers. It runs
// strictly after the authenticator; a request that never passed token
// verification carries no AuthContext and is rejected as unauthenticated.
type Middleware struct {
	Logger *slog.Logger
}

// RequireAny admits the request when the resolved permission set intersects
// the required keys (any-of semantics). A principal with zero roles and one
// whose roles simply do not match produce the identical denial.
func (m Middleware) RequireAny(perms ...string) func(http.Handler) http.Handler {
	required := normalizePermissions(perms)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(required) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			ac := shared.AuthFromContext(r.Context())
			if ac == nil {
				httpx.RespondError(w, shared.ErrUnauthenticated)
				return
			}
			if ac.HasAny(required...) {
				next.ServeHTTP(w, r)
				return
			}
			if m.Logger != nil {
				m.Logger.Warn("authorization denied",
					slog.Int64("principal_id", ac.PrincipalID),
					slog.String("required", strings.Join(required, ",")),
					slog.String("path", r.URL.Path))
			}
			httpx.RespondError(w, shared.ErrForbidden)
		})
	}
}

func normalizePermissions(perms []string) []string {
	unique := make(map[string]struct{}, len(perms))
	normalized := make([]string, 0, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(strings.ToLower(p))
		if p == "" {
			continue
		}
		if _, seen := unique[p]; seen {
			continue
		}
		unique[p] = struct{}{}
		normalized = append(normalized, p)
	}
	return normalized
}
