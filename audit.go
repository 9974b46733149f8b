package learnhub

import (
	"io"
	"log/slog"

	internalaudit "github.com/MrEthical07/learnhub/internal/audit"
)

// AuditEvent is the record handed to an [AuditSink].
type AuditEvent = internalaudit.Event

// AuditSink receives audit events on the dispatcher goroutine.
type AuditSink = internalaudit.Sink

// NoOpSink discards audit events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink buffers audit events in a channel, mostly for tests.
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink = internalaudit.JSONWriterSink

// SlogSink logs audit events through a structured logger.
type SlogSink = internalaudit.SlogSink

func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	return internalaudit.NewSlogSink(logger)
}
