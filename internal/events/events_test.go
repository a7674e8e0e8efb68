package events

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskserver/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTaskCompletedEvent(t *testing.T) {
	serverID := uuid.New()

	event := NewTaskCompletedEvent(serverID, 7, "sqrt", 4, 2, nil)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, serverID, event.ServerID)
	assert.Equal(t, uint64(7), event.TaskID)
	assert.Equal(t, "sqrt", event.Operation)
	assert.Equal(t, 4.0, event.Argument)
	assert.Equal(t, 2.0, event.Value)
	assert.Empty(t, event.Error)
	assert.False(t, event.Failed())
	assert.WithinDuration(t, time.Now(), event.CompletedAt, 2*time.Second)

	failed := NewTaskCompletedEvent(serverID, 8, "cube", 3, 0, errors.New("invalid operation"))
	assert.True(t, failed.Failed())
	assert.Equal(t, "invalid operation", failed.Error)
	assert.NotEqual(t, event.ID, failed.ID)
}

func TestHandlerFunc(t *testing.T) {
	var got *TaskCompletedEvent
	handler := HandlerFunc(func(_ context.Context, event *TaskCompletedEvent) error {
		got = event
		return nil
	})

	event := NewTaskCompletedEvent(uuid.New(), 1, "sine", 0, 0, nil)
	require.NoError(t, handler.HandleEvent(context.Background(), event))
	assert.Same(t, event, got)
}

func TestLoggingHandler(t *testing.T) {
	h := testutils.NewTestSlogHandler()
	handler := NewLoggingHandler(slog.New(h))

	ok := NewTaskCompletedEvent(uuid.New(), 1, "sine", 0, 0, nil)
	failed := NewTaskCompletedEvent(uuid.New(), 2, "cube", 3, 0, errors.New("invalid operation"))

	require.NoError(t, handler.HandleEvent(context.Background(), ok))
	require.NoError(t, handler.HandleEvent(context.Background(), failed))

	entries := h.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "task completed", entries[0]["message"])
	assert.Equal(t, "DEBUG", entries[0]["level"])
	assert.Equal(t, uint64(1), entries[0]["task_id"])

	warn, found := h.Find("task failed")
	require.True(t, found)
	assert.Equal(t, "WARN", warn["level"])
	assert.Equal(t, "invalid operation", warn["error"])
	assert.Equal(t, "cube", warn["operation"])
}
