package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Disabled(t *testing.T) {
	prev := L
	t.Cleanup(func() { L = prev })

	require.NoError(t, Init(Options{Enabled: false}))
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		assert.False(t, L.Enabled(t.Context(), level), "level %s", level)
	}
}

func TestInit_DisableAfterEnable(t *testing.T) {
	prev := L
	t.Cleanup(func() { L = prev })

	var buf bytes.Buffer
	require.NoError(t, Init(Options{Enabled: true, Writer: &buf}))
	require.True(t, L.Enabled(t.Context(), slog.LevelInfo))

	require.NoError(t, Init(Options{}))
	Warn("dropped")
	assert.Empty(t, buf.String())
	assert.False(t, L.Enabled(t.Context(), slog.LevelWarn))
}

func TestInit_TextWriter(t *testing.T) {
	prev := L
	t.Cleanup(func() { L = prev })

	var buf bytes.Buffer
	require.NoError(t, Init(Options{Enabled: true, Writer: &buf, Level: slog.LevelDebug}))

	Debug("allocating", "bytes", 4)
	assert.Contains(t, buf.String(), "msg=allocating")
	assert.Contains(t, buf.String(), "bytes=4")
}

func TestInit_JSONDefaultLevel(t *testing.T) {
	prev := L
	t.Cleanup(func() { L = prev })

	var buf bytes.Buffer
	require.NoError(t, Init(Options{Enabled: true, Writer: &buf, JSON: true}))

	Debug("hidden")
	assert.Empty(t, buf.String(), "debug is below the default info level")

	Warn("underflow", "bytes", 8)
	assert.Contains(t, buf.String(), `"msg":"underflow"`)
}
