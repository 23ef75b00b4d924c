package stats

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-admin/meridian-admin/internal/platform/httpx"
	"github.com/meridian-admin/meridian-admin/internal/shared"
)

// Handler wires the statistics endpoints. The endpoints require an
// authenticated caller but no particular privilege.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the statistics routes. The authenticator middleware
// must be installed upstream.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/auditlogs", h.handleAuditActions)
	r.Post("/categories/unique", h.handleCategoryNames)
	r.Post("/users/count", h.handleUserCount)
	r.Get("/overview", h.handleOverview)
}

type auditActionsRequest struct {
	Location string `json:"location"`
}

func (h *Handler) handleAuditActions(w http.ResponseWriter, r *http.Request) {
	var req auditActionsRequest
	if r.ContentLength > 0 {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.RespondError(w, shared.ErrValidation)
			return
		}
	}
	rows, err := h.service.AuditActions(r.Context(), req.Location)
	if err != nil {
		h.logger.Error("aggregate audit actions", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

type activeFilterRequest struct {
	IsActive *bool `json:"is_active"`
}

func (h *Handler) handleCategoryNames(w http.ResponseWriter, r *http.Request) {
	var req activeFilterRequest
	if r.ContentLength > 0 {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.RespondError(w, shared.ErrValidation)
			return
		}
	}
	names, err := h.service.CategoryNames(r.Context(), req.IsActive)
	if err != nil {
		h.logger.Error("distinct category names", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, names)
}

func (h *Handler) handleUserCount(w http.ResponseWriter, r *http.Request) {
	var req activeFilterRequest
	if r.ContentLength > 0 {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.RespondError(w, shared.ErrValidation)
			return
		}
	}
	n, err := h.service.UserCount(r.Context(), req.IsActive)
	if err != nil {
		h.logger.Error("count users", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int64{"count": n})
}

func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.OverviewSnapshot(r.Context())
	if err != nil {
		h.logger.Error("stats overview", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, snapshot)
}
