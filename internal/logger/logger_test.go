package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reset(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		mu.Lock()
		instance = nil
		mu.Unlock()
	})
}

func TestNoopBeforeInit(t *testing.T) {
	reset(t)
	assert.NotPanics(t, func() {
		Info("dropped", "k", 1)
		Debug("dropped")
		With("k", "v").Warn("dropped")
	})
}

func TestLevels(t *testing.T) {
	reset(t)
	var buf bytes.Buffer
	require.NoError(t, Init(Options{Level: "warn", Writer: &buf}))

	Info("hidden")
	Warn("shown", "rows", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "rows=3")
}

func TestDebugOverride(t *testing.T) {
	reset(t)
	var buf bytes.Buffer
	require.NoError(t, Init(Options{Level: "error", Debug: true, Writer: &buf}))

	Debug("details")
	assert.Contains(t, buf.String(), "details")
}

func TestWith(t *testing.T) {
	reset(t)
	var buf bytes.Buffer
	require.NoError(t, Init(Options{Writer: &buf}))

	l := With("display", "full/hsCode/category")
	l.Info("graph built", "nodes", 8)

	out := buf.String()
	assert.Contains(t, out, "display=full/hsCode/category")
	assert.Contains(t, out, "nodes=8")
}

func TestInvalidLevel(t *testing.T) {
	reset(t)
	assert.Error(t, Init(Options{Level: "loud"}))
	assert.Nil(t, get())
}
