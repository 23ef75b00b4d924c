package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/meridian-admin/meridian-admin/internal/shared"
)

func TestTaskHandlerPersistsRecord(t *testing.T) {
	repo := &captureAuditRepo{}
	handler := NewTaskHandler(repo, nil, nil)

	at := time.Date(2026, 5, 5, 8, 0, 0, 0, time.UTC)
	task, err := shared.NewAuditRecordTask(shared.AuditRecordPayload{
		Level:      shared.AuditLevelInfo,
		ActorEmail: "admin@example.com",
		Location:   "Roles",
		Action:     "Update",
		Payload:    map[string]any{"role_id": float64(3)},
		At:         at,
	})
	require.NoError(t, err)

	require.NoError(t, handler.Handle(context.Background(), task))
	require.Len(t, repo.records, 1)
	rec := repo.records[0]
	require.Equal(t, "INFO", rec.Level)
	require.Equal(t, "admin@example.com", rec.ActorEmail)
	require.Equal(t, "Roles", rec.Location)
	require.Equal(t, at, rec.CreatedAt)
}

func TestTaskHandlerSkipsUndecodablePayload(t *testing.T) {
	repo := &captureAuditRepo{}
	handler := NewTaskHandler(repo, nil, nil)

	task := asynq.NewTask(shared.TaskTypeAuditRecord, []byte("not json"))
	err := handler.Handle(context.Background(), task)
	require.ErrorIs(t, err, asynq.SkipRetry)
	require.Empty(t, repo.records)
}

type failingAuditRepo struct {
	captureAuditRepo
}

func (r *failingAuditRepo) Insert(ctx context.Context, rec Record) error {
	return errors.New("insert failed")
}

func TestTaskHandlerPropagatesInsertError(t *testing.T) {
	handler := NewTaskHandler(&failingAuditRepo{}, nil, nil)

	task, err := shared.NewAuditRecordTask(shared.AuditRecordPayload{Level: shared.AuditLevelError})
	require.NoError(t, err)

	err = handler.Handle(context.Background(), task)
	require.Error(t, err)
	require.NotErrorIs(t, err, asynq.SkipRetry)
}
