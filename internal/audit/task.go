package audit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/meridian-admin/meridian-admin/internal/jobs"
	"github.com/meridian-admin/meridian-admin/internal/shared"
)

// TaskHandler consumes audit record tasks from the worker and persists them.
type TaskHandler struct {
	repo    Repository
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewTaskHandler constructs the asynq handler for audit records.
func NewTaskHandler(repo Repository, logger *slog.Logger, metrics *jobmetrics.Metrics) *TaskHandler {
	return &TaskHandler{repo: repo, logger: logger, metrics: metrics}
}

// Handle persists one audit record. A payload that does not decode is
// dropped rather than retried; the record is already lost to the producer.
func (h *TaskHandler) Handle(ctx context.Context, t *asynq.Task) error {
	if h == nil || h.repo == nil {
		return errors.New("audit: task handler not configured")
	}
	var payload shared.AuditRecordPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		if h.logger != nil {
			h.logger.Warn("audit decode", slog.Any("error", err))
		}
		return asynq.SkipRetry
	}

	tracker := h.metrics.Track(shared.TaskTypeAuditRecord)
	err := h.repo.Insert(ctx, Record{
		Level:      payload.Level,
		ActorEmail: payload.ActorEmail,
		Location:   payload.Location,
		Action:     payload.Action,
		Payload:    payload.Payload,
		CreatedAt:  payload.At,
	})
	return tracker.End(err)
}
