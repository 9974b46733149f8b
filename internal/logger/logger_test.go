package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewJSONOutsideLocal(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Env: "prod", Level: "info", Output: &buf})
	log.Debug("hidden")
	log.Info("login", slog.String("user", "u1"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "login", entry["msg"])
	assert.Equal(t, "u1", entry["user"])
	assert.Equal(t, "prod", entry["env"])
}

func TestNewTextLocally(t *testing.T) {
	var buf bytes.Buffer
	New(Options{Env: "local", Output: &buf}).Info("ready")
	assert.Contains(t, buf.String(), "msg=ready")
}

func TestTraceContextHandlerAddsIDs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewTraceContextHandler(slog.NewJSONHandler(&buf, nil)))

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))
	log.InfoContext(ctx, "traced")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, traceID.String(), entry["trace_id"])
	assert.Equal(t, spanID.String(), entry["span_id"])
}

func TestMultiHandlerFansOut(t *testing.T) {
	var infoBuf, errBuf bytes.Buffer
	h := NewMultiHandler(
		slog.NewJSONHandler(&infoBuf, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errBuf, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	log := slog.New(h).With(slog.String("component", "test"))

	log.Info("only info sink")
	assert.Contains(t, infoBuf.String(), "only info sink")
	assert.Empty(t, errBuf.String())

	log.Error("both sinks")
	assert.Contains(t, infoBuf.String(), "both sinks")
	assert.Contains(t, errBuf.String(), `"component":"test"`)
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
}
