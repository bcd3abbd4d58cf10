package slog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/brandon-schabel/octoprompt-sub007/providers/observability"
)

func newBufferedObserver(level slog.Level) (*Observer, *bytes.Buffer) {
	var buffer bytes.Buffer
	handler := slog.NewTextHandler(&buffer, &slog.HandlerOptions{Level: level})
	return New(slog.New(handler)), &buffer
}

func TestObserver_LogsWithAttributes(t *testing.T) {
	observer, buffer := newBufferedObserver(slog.LevelInfo)

	observer.Info(context.Background(), "stream started",
		observability.String("llm.provider", "openai"),
		observability.Int("stream.fragments", 3),
	)

	output := buffer.String()
	if !strings.Contains(output, "stream started") {
		t.Errorf("output missing message: %s", output)
	}
	if !strings.Contains(output, "llm.provider=openai") {
		t.Errorf("output missing provider attribute: %s", output)
	}
}

func TestObserver_TraceSuppressedByDefault(t *testing.T) {
	observer, buffer := newBufferedObserver(slog.LevelDebug)

	observer.Trace(context.Background(), "raw wire line")
	if buffer.Len() != 0 {
		t.Errorf("trace leaked at debug level: %s", buffer.String())
	}
}

func TestObserver_SpanLifecycle(t *testing.T) {
	observer, buffer := newBufferedObserver(slog.LevelDebug)

	ctx, span := observer.StartSpan(context.Background(), "llm.stream",
		observability.String("llm.provider", "ollama"),
	)
	if observability.SpanFromContext(ctx) != span {
		t.Error("StartSpan did not attach the span to the context")
	}

	span.AddEvent("stream.done", observability.Int("stream.fragments", 2))
	span.RecordError(errors.New("boom"))
	span.End()

	output := buffer.String()
	for _, want := range []string{"span.start", "stream.done", "boom", "span.end", "duration"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q: %s", want, output)
		}
	}
}
