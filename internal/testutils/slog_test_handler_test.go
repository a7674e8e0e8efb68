package testutils

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestSlogHandler(t *testing.T) {
	h := NewTestSlogHandler()
	logger := slog.New(h).With("component", "worker")

	logger.Info("task completed", "task_id", uint64(3))
	logger.Debug("task completed", "task_id", uint64(4))
	slog.New(h).Warn("queue closed")

	entries := h.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "INFO", entries[0]["level"])
	assert.Equal(t, "worker", entries[0]["component"])
	assert.Equal(t, uint64(3), entries[0]["task_id"])
	assert.NotContains(t, entries[2], "component")

	assert.Equal(t, 2, h.Count("task completed"))
	entry, ok := h.Find("queue closed")
	require.True(t, ok)
	assert.Equal(t, "WARN", entry["level"])

	_, ok = h.Find("missing")
	assert.False(t, ok)

	h.Clear()
	assert.Empty(t, h.Entries())
}

func TestTestSlogHandler_Concurrent(t *testing.T) {
	h := NewTestSlogHandler()
	logger := slog.New(h)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.With("k", "v").Info("hello")
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, h.Count("hello"))
}

