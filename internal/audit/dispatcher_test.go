package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type countingSink struct {
	count atomic.Int64
}

func (s *countingSink) Emit(context.Context, Event) {
	s.count.Add(1)
}

type gateSink struct {
	gate chan struct{}
}

func (s *gateSink) Emit(context.Context, Event) {
	<-s.gate
}

func TestDisabledDispatcherIsNil(t *testing.T) {
	d := NewDispatcher(Config{Enabled: false}, &countingSink{})
	if d != nil {
		t.Fatal("expected nil dispatcher when disabled")
	}
	d.Emit(context.Background(), Event{EventType: "x"})
	d.Close()
	if d.Dropped() != 0 || d.Delivered() != 0 {
		t.Fatal("nil dispatcher must report zero counters")
	}
}

func TestCloseDrainsBufferedEvents(t *testing.T) {
	sink := &countingSink{}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 64}, sink)

	for i := 0; i < 50; i++ {
		d.Emit(context.Background(), Event{EventType: "login_success"})
	}
	d.Close()

	if got := sink.count.Load(); got != 50 {
		t.Fatalf("expected 50 delivered events, got %d", got)
	}
	if d.Delivered() != 50 {
		t.Fatalf("expected delivered counter 50, got %d", d.Delivered())
	}

	d.Emit(context.Background(), Event{EventType: "after_close"})
	d.Close()
	if got := sink.count.Load(); got != 50 {
		t.Fatalf("expected no delivery after close, got %d", got)
	}
}

func TestDropIfFullCountsDrops(t *testing.T) {
	sink := &gateSink{gate: make(chan struct{})}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)

	// First event is picked up by the worker and blocks in the sink, the
	// second fills the buffer, the rest are dropped.
	d.Emit(context.Background(), Event{EventType: "a"})
	deadline := time.Now().Add(time.Second)
	for len(d.ch) != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	d.Emit(context.Background(), Event{EventType: "b"})
	d.Emit(context.Background(), Event{EventType: "c"})
	d.Emit(context.Background(), Event{EventType: "d"})

	if got := d.Dropped(); got != 2 {
		t.Fatalf("expected 2 dropped events, got %d", got)
	}

	close(sink.gate)
	d.Close()
}

func TestBlockingEmitHonorsContext(t *testing.T) {
	sink := &gateSink{gate: make(chan struct{})}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1}, sink)

	d.Emit(context.Background(), Event{EventType: "a"})
	deadline := time.Now().Add(time.Second)
	for len(d.ch) != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	d.Emit(context.Background(), Event{EventType: "b"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	d.Emit(ctx, Event{EventType: "c"})
	if d.Dropped() != 1 {
		t.Fatalf("expected timed-out emit to count as dropped, got %d", d.Dropped())
	}

	close(sink.gate)
	d.Close()
}

func TestJSONWriterSinkWritesLines(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)
	sink.Emit(context.Background(), Event{EventType: "logout", IdentityID: "U1", Success: true})
	sink.Emit(context.Background(), Event{EventType: "refresh_invalid", Error: "refresh_invalid"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	var first Event
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if first.IdentityID != "U1" || !first.Success {
		t.Fatalf("unexpected event %+v", first)
	}
}

func TestSlogSinkLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	sink := NewSlogSink(logger)

	sink.Emit(context.Background(), Event{EventType: "login_failure", Error: "invalid_credentials", Metadata: map[string]string{"reason": "password"}})

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec["level"] != "WARN" {
		t.Fatalf("expected WARN for failed event, got %v", rec["level"])
	}
	if rec["meta.reason"] != "password" {
		t.Fatalf("expected metadata attr, got %v", rec)
	}
}

func TestChannelSinkDelivers(t *testing.T) {
	sink := NewChannelSink(1)
	sink.Emit(context.Background(), Event{EventType: "x"})
	select {
	case ev := <-sink.Events():
		if ev.EventType != "x" {
			t.Fatalf("unexpected event %+v", ev)
		}
	default:
		t.Fatal("expected buffered event")
	}
}
