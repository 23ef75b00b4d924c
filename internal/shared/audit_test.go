package shared

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	_ "github.com/meridian-admin/meridian-admin/testing"
)

type captureEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (c *captureEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.tasks = append(c.tasks, task)
	c.opts = append(c.opts, opts)
	return &asynq.TaskInfo{}, nil
}

func TestRecorderEnqueuesPayload(t *testing.T) {
	enq := &captureEnqueuer{}
	rec := NewAuditRecorder(enq, nil)
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	rec.now = func() time.Time { return at }

	rec.Info("admin@example.com", "Roles", "Add", map[string]any{"role_id": 5})

	require.Len(t, enq.tasks, 1)
	task := enq.tasks[0]
	require.Equal(t, TaskTypeAuditRecord, task.Type())

	var payload AuditRecordPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.Equal(t, AuditLevelInfo, payload.Level)
	require.Equal(t, "admin@example.com", payload.ActorEmail)
	require.Equal(t, "Roles", payload.Location)
	require.Equal(t, "Add", payload.Action)
	require.Equal(t, at, payload.At)
}

func TestRecorderLevels(t *testing.T) {
	enq := &captureEnqueuer{}
	rec := NewAuditRecorder(enq, nil)

	rec.Info("a@example.com", "Users", "Add", nil)
	rec.Warn("a@example.com", "Users", "Update", nil)
	rec.Error("a@example.com", "Users", "Delete", nil)

	require.Len(t, enq.tasks, 3)
	levels := make([]string, 0, 3)
	for _, task := range enq.tasks {
		var payload AuditRecordPayload
		require.NoError(t, json.Unmarshal(task.Payload(), &payload))
		levels = append(levels, payload.Level)
	}
	require.Equal(t, []string{AuditLevelInfo, AuditLevelWarn, AuditLevelError}, levels)
}

func TestRecorderSwallowsEnqueueFailure(t *testing.T) {
	enq := &captureEnqueuer{err: errors.New("redis unavailable")}
	rec := NewAuditRecorder(enq, nil)

	require.NotPanics(t, func() {
		rec.Error("admin@example.com", "Roles", "Delete", nil)
	})
}

func TestRecorderNilSafe(t *testing.T) {
	var rec *AuditRecorder
	require.NotPanics(t, func() {
		rec.Info("admin@example.com", "Roles", "Add", nil)
	})
	require.NotPanics(t, func() {
		NewAuditRecorder(nil, nil).Info("admin@example.com", "Roles", "Add", nil)
	})
}

func TestRecorderWritesToAuditQueue(t *testing.T) {
	mr := miniredis.RunT(t)
	client := asynq.NewClient(asynq.RedisClientOpt{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	rec := NewAuditRecorder(client, nil)
	rec.Info("admin@example.com", "Categories", "Add", map[string]any{"category_id": 1})

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: mr.Addr()})
	defer func() { _ = inspector.Close() }()
	info, err := inspector.GetQueueInfo(AuditQueue)
	require.NoError(t, err)
	require.Equal(t, 1, info.Pending)
}
