package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	Set(zap.New(core).Sugar())
	t.Cleanup(func() { Set(zap.NewNop().Sugar()) })

	Info("experiment started", "experiment_id", "exp-1")
	Error("failed to save event", errors.New("boom"))
	Debug("assignment", "user_id", "u-1", "variant_id", "v-1")

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)

	require.Equal(t, "experiment started", entries[0].Message)
	require.Equal(t, "exp-1", entries[0].ContextMap()["experiment_id"])

	require.Equal(t, "failed to save event", entries[1].Message)
	require.Equal(t, "boom", entries[1].ContextMap()["error"])

	require.Equal(t, zap.DebugLevel, entries[2].Level)
}
