// Package stream implements the vendor-agnostic normalizer that drives one
// streaming chat exchange end to end.
//
// CreateStream asks the plugin for the vendor byte stream, splits it into wire
// lines, delegates per-line parsing back to the plugin, and fans the
// normalized text out three ways: appended to the running aggregate, enqueued
// as UTF-8 bytes on the returned stream, and delivered to OnPartial. Adding a
// provider means writing a plugin's two methods; nothing in this package
// branches on vendor identity.
package stream

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/brandon-schabel/octoprompt-sub007/internal/utils"
	"github.com/brandon-schabel/octoprompt-sub007/providers/ai"
	"github.com/brandon-schabel/octoprompt-sub007/providers/observability"
)

// CreateStream runs one streaming exchange and returns a byte stream of
// normalized plain-text fragments. The returned stream closes exactly when
// OnDone or OnError fires.
//
// CreateStream never returns an error: pre-stream failures (bad credentials,
// non-2xx response, network failure) fire OnError with an empty partial and
// yield an already-closed empty stream, so callers always receive a valid
// readable object. Exactly one of OnDone or OnError fires per call.
//
// Closing the returned stream cancels the exchange and aborts the in-flight
// vendor request; the read loop then reports the aborted read through OnError
// with whatever text had accumulated.
func CreateStream(ctx context.Context, request ai.StreamRequest) io.ReadCloser {
	span := observability.SpanFromContext(ctx)
	observer := observability.ObserverFromContext(ctx)
	handlers := request.Handlers

	streamID := uuid.NewString()

	if span != nil {
		span.AddEvent(observability.EventStreamRequestStart,
			observability.String(observability.AttrStreamID, streamID),
			observability.String(observability.AttrLLMProvider, request.Plugin.Name()),
			observability.String(observability.AttrLLMModel, request.Options.Model),
		)
	}
	if observer != nil {
		observer.Debug(ctx, "Preparing streaming request",
			observability.String(observability.AttrStreamID, streamID),
			observability.String(observability.AttrLLMProvider, request.Plugin.Name()),
			observability.String(observability.AttrLLMModel, request.Options.Model),
		)
	}

	body, err := request.Plugin.PrepareRequest(ctx, ai.Params{
		UserMessage:   request.UserMessage,
		SystemMessage: request.SystemMessage,
		Options:       request.Options,
	})
	if err != nil {
		if span != nil {
			span.AddEvent(observability.EventStreamError, observability.Error(err))
			span.RecordError(err)
		}
		if observer != nil {
			observer.Error(ctx, "Streaming request failed before any data",
				observability.String(observability.AttrStreamID, streamID),
				observability.Error(err),
			)
		}
		if handlers.OnError != nil {
			handlers.OnError(err, ai.AssistantMessage(""))
		}
		return newClosedBuffer()
	}

	// Both the read loop (on exit) and the consumer (on cancel) close the
	// vendor body; the Once keeps that race harmless.
	var bodyOnce sync.Once
	closeBody := func() { bodyOnce.Do(func() { utils.CloseWithLog(body) }) }

	if request.SystemMessage != "" && handlers.OnSystemMessage != nil {
		handlers.OnSystemMessage(ai.SystemMessage(request.SystemMessage))
	}
	if handlers.OnUserMessage != nil {
		handlers.OnUserMessage(ai.UserMessage(request.UserMessage))
	}

	out := newTextBuffer(closeBody)

	go readLoop(ctx, request, body, closeBody, out, streamID)

	return out
}

// readLoop is the sequential per-request engine: it owns the aggregate and
// terminates through exactly one of the done or fail paths.
func readLoop(ctx context.Context, request ai.StreamRequest, body io.ReadCloser, closeBody func(), out *textBuffer, streamID string) {
	span := observability.SpanFromContext(ctx)
	observer := observability.ObserverFromContext(ctx)
	handlers := request.Handlers

	defer closeBody()

	var fullResponse strings.Builder
	fragments := 0

	done := func() {
		full := fullResponse.String()
		if span != nil {
			span.AddEvent(observability.EventStreamDone,
				observability.String(observability.AttrStreamID, streamID),
				observability.Int(observability.AttrStreamFragments, fragments),
				observability.Int(observability.AttrStreamBytes, len(full)),
			)
		}
		if handlers.OnDone != nil {
			handlers.OnDone(ai.AssistantMessage(full))
		}
		out.closeWrite()
	}

	fail := func(err error) {
		if span != nil {
			span.AddEvent(observability.EventStreamError,
				observability.String(observability.AttrStreamID, streamID),
				observability.Error(err),
			)
			span.RecordError(err)
		}
		if observer != nil {
			observer.Error(ctx, "Stream failed mid-flight",
				observability.String(observability.AttrStreamID, streamID),
				observability.Int(observability.AttrStreamFragments, fragments),
				observability.Error(err),
			)
		}
		if handlers.OnError != nil {
			handlers.OnError(err, ai.AssistantMessage(fullResponse.String()))
		}
		out.closeWriteWithError(err)
	}

	scanner := utils.NewLineScanner(body)

	for {
		if ctx.Err() != nil {
			fail(ctx.Err())
			return
		}

		line, scanErr := scanner.Next()
		if scanErr == io.EOF {
			// Vendors without an explicit sentinel (Ollama, Gemini) finish by
			// closing the connection.
			done()
			return
		}
		if scanErr != nil {
			fail(fmt.Errorf("reading vendor stream: %w", scanErr))
			return
		}

		if request.Options.Debug && observer != nil {
			observer.Trace(ctx, "Raw wire line",
				observability.String(observability.AttrStreamID, streamID),
				observability.String("line", utils.TruncateString(line, 200)),
			)
		}

		parsed := request.Plugin.ParseSSELine(line)

		if parsed.Done {
			// Hard terminal transition: buffered bytes past the sentinel are
			// never read.
			done()
			return
		}

		if parsed.Text == "" {
			continue
		}

		fullResponse.WriteString(parsed.Text)
		fragments++

		if writeErr := out.write([]byte(parsed.Text)); writeErr != nil {
			fail(writeErr)
			return
		}
		if handlers.OnPartial != nil {
			handlers.OnPartial(ai.AssistantMessage(parsed.Text))
		}
	}
}
