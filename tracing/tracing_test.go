package tracing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpan_NoopBeforeInit(t *testing.T) {
	var sp *Span
	assert.Nil(t, sp.WithAttributes(map[string]string{"k": "v"}))
	sp.SetStatus(errors.New("ignored"))
	EndSpan(sp, nil)
	assert.Equal(t, "", sp.TraceID())
	_, ok := SpanFromContext(context.Background())
	assert.False(t, ok)
}

func TestTracingFile(t *testing.T) {
	location := filepath.Join(t.TempDir(), "spans.json")
	require.NoError(t, Init("cpusched", "0.0.1", location))

	ctx, parent := StartSpan(context.Background(), "compare")
	parent.WithAttributes(Attrs(map[string]int{"processes": 3}))
	_, child := StartSpan(ctx, "run")
	child.WithInt("ticks", 12).AddEvent("completed", map[string]int{"tick": 12})
	current, ok := SpanFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, parent.TraceID(), current.TraceID())
	assert.Equal(t, parent.TraceID(), child.TraceID())
	EndSpan(child, nil)
	EndSpan(parent, errors.New("tick limit exceeded"))

	other := filepath.Join(t.TempDir(), "ignored.json")
	require.NoError(t, Init("cpusched", "0.0.1", other), "first installation wins")

	require.NoError(t, Shutdown(context.Background()))
	require.NoError(t, Shutdown(context.Background()), "shutdown is idempotent")
	data, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"run"`)
	assert.Contains(t, string(data), "tick limit exceeded")

	_, after := StartSpan(context.Background(), "after")
	assert.Equal(t, "", after.TraceID(), "no-op after shutdown")
	EndSpan(after, nil)

	again := filepath.Join(t.TempDir(), "again.json")
	require.NoError(t, Init("cpusched", "0.0.1", again))
	_, span := StartSpan(context.Background(), "reinstalled")
	EndSpan(span, nil)
	require.NoError(t, Shutdown(context.Background()))
	data, err = os.ReadFile(again)
	require.NoError(t, err)
	assert.Contains(t, string(data), "reinstalled")
}
