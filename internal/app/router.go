package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/meridian-admin/meridian-admin/internal/audit"
	"github.com/meridian-admin/meridian-admin/internal/auth"
	"github.com/meridian-admin/meridian-admin/internal/categories"
	"github.com/meridian-admin/meridian-admin/internal/observability"
	"github.com/meridian-admin/meridian-admin/internal/rbac"
	"github.com/meridian-admin/meridian-admin/internal/stats"
	"github.com/meridian-admin/meridian-admin/internal/users"
	"github.com/meridian-admin/meridian-admin/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	Authenticator auth.Authenticator

	AuthHandler       *auth.Handler
	UsersHandler      *users.Handler
	RolesHandler      *rbac.Handler
	CategoriesHandler *categories.Handler
	AuditHandler      *audit.Handler
	StatsHandler      *stats.Handler
	JobHandler        *jobs.Handler

	Metrics *observability.Metrics

	DB    *pgxpool.Pool
	Redis *redis.Client
}

// healthHandler reports readiness, pinging the backing stores when present.
func healthHandler(pool *pgxpool.Pool, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if pool != nil {
			if err := pool.Ping(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"unavailable","component":"postgres"}`))
				return
			}
		}
		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"unavailable","component":"redis"}`))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

// NewRouter constructs the chi.Router with Meridian defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", healthHandler(params.DB, params.Redis))

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			// Login and first-user registration stay public.
			params.AuthHandler.MountRoutes(r)
			params.UsersHandler.MountPublicRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(params.Authenticator.Middleware)
				params.UsersHandler.MountRoutes(r)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(params.Authenticator.Middleware)

			r.Route("/roles", params.RolesHandler.MountRoutes)
			r.Route("/categories", params.CategoriesHandler.MountRoutes)
			r.Route("/auditlogs", params.AuditHandler.MountRoutes)
			if params.StatsHandler != nil {
				r.Route("/stats", params.StatsHandler.MountRoutes)
			}
		})
	})

	return r
}
