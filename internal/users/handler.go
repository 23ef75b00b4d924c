package users

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-admin/meridian-admin/internal/platform/httpx"
	"github.com/meridian-admin/meridian-admin/internal/rbac"
	"github.com/meridian-admin/meridian-admin/internal/shared"
)

const auditLocation = "Users"

// Handler wires the user management endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	recorder *shared.AuditRecorder
	guard    rbac.Middleware
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, recorder *shared.AuditRecorder, guard rbac.Middleware) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		recorder: recorder,
		guard:    guard,
	}
}

// MountPublicRoutes registers the bootstrap registration endpoint. It runs
// before authentication: it only works while the store holds no principal.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Post("/register", h.handleRegister)
}

// MountRoutes registers the guarded management routes. The authenticator
// middleware must be installed upstream.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.guard.RequireAny("user_view")).Get("/", h.handleList)
	r.With(h.guard.RequireAny("user_add")).Post("/add", h.handleAdd)
	r.With(h.guard.RequireAny("user_update")).Put("/update", h.handleUpdate)
	r.With(h.guard.RequireAny("user_delete")).Delete("/delete", h.handleDelete)
}

type userResponse struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Locale      string `json:"locale"`
	IsActive    bool   `json:"is_active"`
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		Locale:      u.Locale,
		IsActive:    u.IsActive,
	}
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Locale      string `json:"locale"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	user, err := h.service.Register(r.Context(), RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Locale:      req.Locale,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "user": toUserResponse(user)})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]userResponse, 0, len(list))
	for _, u := range list {
		out = append(out, toUserResponse(u))
	}
	httpx.JSON(w, http.StatusOK, out)
}

type addRequest struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	PhoneNumber string  `json:"phone_number"`
	Locale      string  `json:"locale"`
	Roles       []int64 `json:"roles"`
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	ac := shared.AuthFromContext(r.Context())

	var req addRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	user, err := h.service.Add(r.Context(), AddInput{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Locale:      req.Locale,
		Roles:       req.Roles,
	})
	if err != nil {
		if !errors.Is(err, shared.ErrValidation) {
			h.recorder.Error(ac.Email, auditLocation, "Add", map[string]any{"email": req.Email, "error": err.Error()})
		}
		httpx.RespondError(w, err)
		return
	}

	h.recorder.Info(ac.Email, auditLocation, "Add", map[string]any{"user_id": user.ID, "email": user.Email, "roles": req.Roles})
	httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "user": toUserResponse(user)})
}

type updateRequest struct {
	ID          int64   `json:"id"`
	Password    string  `json:"password"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	PhoneNumber string  `json:"phone_number"`
	Locale      string  `json:"locale"`
	IsActive    *bool   `json:"is_active"`
	Roles       []int64 `json:"roles"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ac := shared.AuthFromContext(r.Context())

	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	user, diff, err := h.service.Update(r.Context(), UpdateInput{
		ID:          req.ID,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Locale:      req.Locale,
		IsActive:    req.IsActive,
		Roles:       req.Roles,
	})
	if err != nil {
		if !errors.Is(err, shared.ErrValidation) {
			h.recorder.Error(ac.Email, auditLocation, "Update", map[string]any{"user_id": req.ID, "error": err.Error()})
		}
		httpx.RespondError(w, err)
		return
	}

	h.recorder.Info(ac.Email, auditLocation, "Update", map[string]any{"user_id": user.ID, "roles_added": diff.Added, "roles_removed": diff.Removed})
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "user": toUserResponse(user)})
}

type deleteRequest struct {
	ID int64 `json:"id"`
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ac := shared.AuthFromContext(r.Context())

	var req deleteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	if err := h.service.Delete(r.Context(), req.ID); err != nil {
		if !errors.Is(err, shared.ErrValidation) && !errors.Is(err, shared.ErrNotFound) {
			h.recorder.Error(ac.Email, auditLocation, "Delete", map[string]any{"user_id": req.ID, "error": err.Error()})
		}
		httpx.RespondError(w, err)
		return
	}

	h.recorder.Info(ac.Email, auditLocation, "Delete", map[string]any{"user_id": req.ID})
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}
