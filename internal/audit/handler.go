package audit

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-admin/meridian-admin/internal/platform/httpx"
	"github.com/meridian-admin/meridian-admin/internal/rbac"
)

// Handler wires the audit log query endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   rbac.Middleware
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers audit routes. The authenticator middleware must be
// installed upstream.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.guard.RequireAny("auditlogs_view")).Post("/", h.handleList)
	r.With(h.guard.RequireAny("auditlogs_view")).Post("/export", h.handleExport)
}

type listRequest struct {
	BeginDate string `json:"begin_date"`
	EndDate   string `json:"end_date"`
	Location  string `json:"location"`
	Skip      int    `json:"skip"`
	Limit     int    `json:"limit"`
}

type recordResponse struct {
	ID         int64          `json:"id"`
	Level      string         `json:"level"`
	ActorEmail string         `json:"actor_email"`
	Location   string         `json:"location"`
	Action     string         `json:"action"`
	Payload    map[string]any `json:"payload,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (h *Handler) filters(req listRequest) Filters {
	f := Filters{
		Location: req.Location,
		Skip:     req.Skip,
		Limit:    req.Limit,
	}
	if t, err := time.Parse(time.RFC3339, req.BeginDate); err == nil {
		f.Begin = t
	}
	if t, err := time.Parse(time.RFC3339, req.EndDate); err == nil {
		f.End = t
	}
	return f
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	_ = httpx.DecodeJSON(r, &req) // an empty body falls back to the default window

	records, err := h.service.List(r.Context(), h.filters(req))
	if err != nil {
		h.logger.Error("list audit logs", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]recordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, recordResponse{
			ID:         rec.ID,
			Level:      rec.Level,
			ActorEmail: rec.ActorEmail,
			Location:   rec.Location,
			Action:     rec.Action,
			Payload:    rec.Payload,
			CreatedAt:  rec.CreatedAt,
		})
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	_ = httpx.DecodeJSON(r, &req)

	records, err := h.service.List(r.Context(), h.filters(req))
	if err != nil {
		h.logger.Error("export audit logs", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	csvBytes, err := WriteCSV(records)
	if err != nil {
		h.logger.Error("encode csv", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="audit-logs.csv"`)
	if _, err := w.Write(csvBytes); err != nil {
		h.logger.Warn("write csv", slog.Any("error", err))
	}
}
