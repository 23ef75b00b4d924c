package rbac

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-admin/meridian-admin/internal/catalog"
	"github.com/meridian-admin/meridian-admin/internal/i18n"
	"github.com/meridian-admin/meridian-admin/internal/platform/httpx"
	"github.com/meridian-admin/meridian-admin/internal/shared"
)

const auditLocation = "Roles"

// Handler wires the role management endpoints.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	recorder   *shared.AuditRecorder
	translator *i18n.Translator
	guard      Middleware
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, recorder *shared.AuditRecorder, translator *i18n.Translator, guard Middleware) *Handler {
	return &Handler{
		logger:     logger,
		service:    service,
		recorder:   recorder,
		translator: translator,
		guard:      guard,
	}
}

// MountRoutes registers role routes. The authenticator middleware must be
// installed upstream.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.guard.RequireAny("role_view")).Get("/", h.handleList)
	r.With(h.guard.RequireAny("role_add")).Post("/add", h.handleAdd)
	r.With(h.guard.RequireAny("role_update")).Put("/update", h.handleUpdate)
	r.With(h.guard.RequireAny("role_delete")).Delete("/delete", h.handleDelete)
	r.With(h.guard.RequireAny("role_view")).Get("/role_privileges", h.handlePrivileges)
}

type roleResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	IsActive  bool   `json:"is_active"`
	CreatedBy int64  `json:"created_by"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toRoleResponse(role Role) roleResponse {
	return roleResponse{
		ID:        role.ID,
		Name:      role.Name,
		IsActive:  role.IsActive,
		CreatedBy: role.CreatedBy,
		CreatedAt: role.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: role.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.ListRoles(r.Context())
	if err != nil {
		h.logger.Error("list roles", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]roleResponse, 0, len(roles))
	for _, role := range roles {
		out = append(out, toRoleResponse(role))
	}
	httpx.JSON(w, http.StatusOK, out)
}

type addRoleRequest struct {
	RoleName    string   `json:"role_name"`
	Permissions []string `json:"permissions"`
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	ac := shared.AuthFromContext(r.Context())

	var req addRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	if req.RoleName == "" {
		httpx.Problem(w, http.StatusBadRequest,
			h.translator.Translate("COMMON.VALIDATION_ERROR_TITLE", ac.Locale),
			h.translator.Translate("COMMON.FIELD_MUST_BE_FILLED", ac.Locale, "role_name"))
		return
	}
	if len(req.Permissions) == 0 {
		httpx.Problem(w, http.StatusBadRequest,
			h.translator.Translate("COMMON.VALIDATION_ERROR_TITLE", ac.Locale),
			h.translator.Translate("COMMON.FIELD_MUST_BE_TYPE", ac.Locale, "permissions", "Array"))
		return
	}

	role, diff, err := h.service.CreateRole(r.Context(), req.RoleName, req.Permissions, ac.PrincipalID)
	if err != nil {
		h.recorder.Error(ac.Email, auditLocation, "Add", map[string]any{"role_name": req.RoleName, "error": err.Error()})
		httpx.RespondError(w, err)
		return
	}

	h.recorder.Info(ac.Email, auditLocation, "Add", map[string]any{"role_id": role.ID, "role_name": role.Name, "added": diff.Added})
	httpx.JSON(w, http.StatusCreated, map[string]any{"role": toRoleResponse(role), "reconciled": diff})
}

type updateRoleRequest struct {
	ID          int64    `json:"id"`
	RoleName    string   `json:"role_name"`
	IsActive    *bool    `json:"is_active"`
	Permissions []string `json:"permissions"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ac := shared.AuthFromContext(r.Context())

	var req updateRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	if req.ID == 0 {
		httpx.Problem(w, http.StatusBadRequest,
			h.translator.Translate("COMMON.VALIDATION_ERROR_TITLE", ac.Locale),
			h.translator.Translate("COMMON.FIELD_MUST_BE_FILLED", ac.Locale, "id"))
		return
	}

	role, diff, err := h.service.UpdateRole(r.Context(), req.ID, req.RoleName, req.IsActive, req.Permissions, ac.PrincipalID)
	if err != nil {
		h.recorder.Error(ac.Email, auditLocation, "Update", map[string]any{"role_id": req.ID, "error": err.Error()})
		httpx.RespondError(w, err)
		return
	}

	h.recorder.Info(ac.Email, auditLocation, "Update", map[string]any{"role_id": role.ID, "added": diff.Added, "removed": diff.Removed})
	httpx.JSON(w, http.StatusOK, map[string]any{"role": toRoleResponse(role), "reconciled": diff})
}

type deleteRoleRequest struct {
	ID int64 `json:"id"`
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ac := shared.AuthFromContext(r.Context())

	var req deleteRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	if req.ID == 0 {
		httpx.Problem(w, http.StatusBadRequest,
			h.translator.Translate("COMMON.VALIDATION_ERROR_TITLE", ac.Locale),
			h.translator.Translate("COMMON.FIELD_MUST_BE_FILLED", ac.Locale, "id"))
		return
	}

	if err := h.service.DeleteRole(r.Context(), req.ID); err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			h.recorder.Error(ac.Email, auditLocation, "Delete", map[string]any{"role_id": req.ID, "error": err.Error()})
		}
		httpx.RespondError(w, err)
		return
	}

	h.recorder.Info(ac.Email, auditLocation, "Delete", map[string]any{"role_id": req.ID})
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) handlePrivileges(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"groups":     catalog.Groups(),
		"privileges": catalog.Entries(),
	})
}
