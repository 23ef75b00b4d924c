package shared

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// Audit log levels.
const (
	AuditLevelInfo  = "INFO"
	AuditLevelWarn  = "WARN"
	AuditLevelError = "ERROR"
)

// TaskTypeAuditRecord is the asynq task type carrying one audit record.
const TaskTypeAuditRecord = "audit:record"

// AuditRecordPayload is the wire format of an audit record task.
type AuditRecordPayload struct {
	Level      string         `json:"level"`
	ActorEmail string         `json:"actor_email"`
	Location   string         `json:"location"`
	Action     string         `json:"action"`
	Payload    map[string]any `json:"payload,omitempty"`
	At         time.Time      `json:"at"`
}

// NewAuditRecordTask builds the asynq task for a record payload.
func NewAuditRecordTask(payload AuditRecordPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeAuditRecord, data), nil
}

// AuditEnqueuer is the slice of asynq.Client the recorder depends on.
type AuditEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AuditRecorder is the fire-and-forget sink for privileged state changes.
// Records are enqueued onto Redis and persisted by the worker; an enqueue
// failure is logged and swallowed so the business operation it documents is
// never failed or blocked by its own audit trail. One instance is
// constructed per process and injected into every handler that records.
type AuditRecorder struct {
	client AuditEnqueuer
	logger *slog.Logger
	now    func() time.Time
}

// NewAuditRecorder returns a new AuditRecorder.
func NewAuditRecorder(client AuditEnqueuer, logger *slog.Logger) *AuditRecorder {
	return &AuditRecorder{
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// Info records a successful privileged mutation.
func (r *AuditRecorder) Info(actorEmail, location, action string, payload map[string]any) {
	r.Record(AuditLevelInfo, actorEmail, location, action, payload)
}

// Warn records a privileged mutation with a suspicious outcome.
func (r *AuditRecorder) Warn(actorEmail, location, action string, payload map[string]any) {
	r.Record(AuditLevelWarn, actorEmail, location, action, payload)
}

// Error records a failed privileged mutation attempt.
func (r *AuditRecorder) Error(actorEmail, location, action string, payload map[string]any) {
	r.Record(AuditLevelError, actorEmail, location, action, payload)
}

// Record enqueues one audit record. It never blocks on write completion and
// never surfaces an error to the caller.
func (r *AuditRecorder) Record(level, actorEmail, location, action string, payload map[string]any) {
	if r == nil || r.client == nil {
		return
	}
	task, err := NewAuditRecordTask(AuditRecordPayload{
		Level:      level,
		ActorEmail: actorEmail,
		Location:   location,
		Action:     action,
		Payload:    payload,
		At:         r.now().UTC(),
	})
	if err != nil {
		if r.logger != nil {
			r.logger.Warn("audit encode", slog.Any("error", err))
		}
		return
	}
	if _, err := r.client.Enqueue(task, asynq.Queue(AuditQueue)); err != nil {
		if r.logger != nil {
			r.logger.Warn("audit enqueue", slog.String("action", action), slog.Any("error", err))
		}
	}
}

// AuditQueue is the asynq queue dedicated to audit records.
const AuditQueue = "audit"
