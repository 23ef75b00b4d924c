package categories

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-admin/meridian-admin/internal/platform/httpx"
	"github.com/meridian-admin/meridian-admin/internal/rbac"
	"github.com/meridian-admin/meridian-admin/internal/shared"
)

const auditLocation = "Categories"

// Handler wires the category endpoints.
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

// MountRoutes registers category routes. The authenticator middleware must
// be installed upstream.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.guard.RequireAny("category_view")).Get("/", h.handleList)
	r.With(h.guard.RequireAny("category_add")).Post("/add", h.handleAdd)
	r.With(h.guard.RequireAny("category_update")).Put("/update", h.handleUpdate)
	r.With(h.guard.RequireAny("category_delete")).Delete("/delete", h.handleDelete)
	r.With(h.guard.RequireAny("category_export")).Post("/export", h.handleExport)
}

type categoryResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	IsActive  bool   `json:"is_active"`
	CreatedBy int64  `json:"created_by"`
}

func toCategoryResponse(c Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, IsActive: c.IsActive, CreatedBy: c.CreatedBy}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list categories", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]categoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCategoryResponse(c))
	}
	httpx.JSON(w, http.StatusOK, out)
}

type addCategoryRequest struct {
	Name string `json:"name"`
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	ac := shared.AuthFromContext(r.Context())

	var req addCategoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	category, err := h.service.Create(r.Context(), req.Name, ac.PrincipalID)
	if err != nil {
		if !errors.Is(err, shared.ErrValidation) {
			h.recorder.Error(ac.Email, auditLocation, "Add", map[string]any{"name": req.Name, "error": err.Error()})
		}
		httpx.RespondError(w, err)
		return
	}

	h.recorder.Info(ac.Email, auditLocation, "Add", map[string]any{"category_id": category.ID, "name": category.Name})
	httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "category": toCategoryResponse(category)})
}

type updateCategoryRequest struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsActive *bool  `json:"is_active"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ac := shared.AuthFromContext(r.Context())

	var req updateCategoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	category, err := h.service.Update(r.Context(), req.ID, req.Name, req.IsActive)
	if err != nil {
		if !errors.Is(err, shared.ErrValidation) && !errors.Is(err, shared.ErrNotFound) {
			h.recorder.Error(ac.Email, auditLocation, "Update", map[string]any{"category_id": req.ID, "error": err.Error()})
		}
		httpx.RespondError(w, err)
		return
	}

	h.recorder.Info(ac.Email, auditLocation, "Update", map[string]any{"category_id": category.ID})
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "category": toCategoryResponse(category)})
}

type deleteCategoryRequest struct {
	ID int64 `json:"id"`
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ac := shared.AuthFromContext(r.Context())

	var req deleteCategoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	if err := h.service.Delete(r.Context(), req.ID); err != nil {
		if !errors.Is(err, shared.ErrValidation) && !errors.Is(err, shared.ErrNotFound) {
			h.recorder.Error(ac.Email, auditLocation, "Delete", map[string]any{"category_id": req.ID, "error": err.Error()})
		}
		httpx.RespondError(w, err)
		return
	}

	h.recorder.Info(ac.Email, auditLocation, "Delete", map[string]any{"category_id": req.ID})
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("export categories", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	csvBytes, err := WriteCSV(list)
	if err != nil {
		h.logger.Error("encode csv", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="categories.csv"`)
	if _, err := w.Write(csvBytes); err != nil {
		h.logger.Warn("write csv", slog.Any("error", err))
	}
}
