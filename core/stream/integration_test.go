package stream_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/brandon-schabel/octoprompt-sub007/core/stream"
	"github.com/brandon-schabel/octoprompt-sub007/providers/ai"
	"github.com/brandon-schabel/octoprompt-sub007/providers/ai/ollama"
	"github.com/brandon-schabel/octoprompt-sub007/providers/ai/openaicompat"
)

// writeSSE writes one SSE data line and flushes so chunks really hit the wire
// incrementally.
func writeSSE(writer http.ResponseWriter, data string) {
	fmt.Fprintf(writer, "data: %s\n\n", data)
	if flusher, ok := writer.(http.Flusher); ok {
		flusher.Flush()
	}
}

func compatPlugin(baseURL string) ai.Plugin {
	return openaicompat.New(openaicompat.Config{
		Vendor:       "testvendor",
		BaseURL:      baseURL,
		APIKey:       "test-key",
		DefaultModel: "test-model",
	})
}

// TestEndToEnd_OpenAIWire drives the full pipeline — HTTP request, SSE
// framing, plugin parsing, aggregation, callbacks — against a live test
// server speaking the OpenAI wire format, including one corrupt frame.
func TestEndToEnd_OpenAIWire(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "text/event-stream")
		writeSSE(writer, `{"choices":[{"delta":{"content":"A"}}]}`)
		writeSSE(writer, `{not json`)
		writeSSE(writer, `{"choices":[{"delta":{"content":"B"}}]}`)
		writeSSE(writer, `[DONE]`)
	}))
	defer server.Close()

	var partials []string
	var full string
	terminal := make(chan struct{})

	out := stream.CreateStream(context.Background(), ai.StreamRequest{
		UserMessage: "hi",
		Plugin:      compatPlugin(server.URL),
		Handlers: ai.Handlers{
			OnPartial: func(fragment ai.Message) {
				partials = append(partials, fragment.Content)
			},
			OnDone: func(msg ai.Message) {
				full = msg.Content
				close(terminal)
			},
			OnError: func(err error, partial ai.Message) {
				t.Errorf("unexpected OnError: %v", err)
				close(terminal)
			},
		},
	})

	streamed, err := io.ReadAll(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	select {
	case <-terminal:
	case <-time.After(5 * time.Second):
		t.Fatal("no terminal callback")
	}

	if strings.Join(partials, "|") != "A|B" {
		t.Errorf("partials = %v, want [A B]", partials)
	}
	if full != "AB" {
		t.Errorf("OnDone = %q, want AB", full)
	}
	if string(streamed) != "AB" {
		t.Errorf("stream bytes = %q, want AB", streamed)
	}
}

// TestEndToEnd_HTTPFailure verifies a non-OK response produces OnError with
// an empty partial and no OnPartial calls (and an empty readable stream).
func TestEndToEnd_HTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		http.Error(writer, `{"error":"no such model"}`, http.StatusNotFound)
	}))
	defer server.Close()

	partialCalls := 0
	var streamErr error
	var errPartial ai.Message
	terminal := make(chan struct{})

	out := stream.CreateStream(context.Background(), ai.StreamRequest{
		UserMessage: "hi",
		Plugin:      compatPlugin(server.URL),
		Handlers: ai.Handlers{
			OnPartial: func(fragment ai.Message) { partialCalls++ },
			OnDone: func(msg ai.Message) {
				t.Error("unexpected OnDone")
				close(terminal)
			},
			OnError: func(err error, partial ai.Message) {
				streamErr = err
				errPartial = partial
				close(terminal)
			},
		},
	})

	select {
	case <-terminal:
	case <-time.After(5 * time.Second):
		t.Fatal("no terminal callback")
	}

	if partialCalls != 0 {
		t.Errorf("OnPartial fired %d times before failure", partialCalls)
	}
	if streamErr == nil {
		t.Fatal("OnError not called")
	}
	if errPartial.Role != ai.RoleAssistant || errPartial.Content != "" {
		t.Errorf("error partial = %+v, want empty assistant message", errPartial)
	}

	data, err := io.ReadAll(out)
	if err != nil || len(data) != 0 {
		t.Errorf("failed stream read = (%q, %v), want empty and clean", data, err)
	}
}

// TestEndToEnd_OllamaNDJSON drives the pipeline against a server speaking
// Ollama's newline-delimited JSON with no sentinel: EOF completes the stream.
func TestEndToEnd_OllamaNDJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/x-ndjson")
		for _, chunk := range []string{"Str", "eam", "ing"} {
			fmt.Fprintf(writer, `{"message":{"content":"%s"},"done":false}`+"\n", chunk)
			if flusher, ok := writer.(http.Flusher); ok {
				flusher.Flush()
			}
		}
		fmt.Fprint(writer, `{"message":{"content":""},"done":true}`+"\n")
	}))
	defer server.Close()

	var full string
	errCalls := 0
	terminal := make(chan struct{})

	out := stream.CreateStream(context.Background(), ai.StreamRequest{
		UserMessage: "hi",
		Plugin:      ollama.New().WithBaseURL(server.URL),
		Handlers: ai.Handlers{
			OnDone: func(msg ai.Message) {
				full = msg.Content
				close(terminal)
			},
			OnError: func(err error, partial ai.Message) {
				errCalls++
				close(terminal)
			},
		},
	})

	streamed, err := io.ReadAll(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	select {
	case <-terminal:
	case <-time.After(5 * time.Second):
		t.Fatal("no terminal callback")
	}

	if errCalls != 0 {
		t.Errorf("OnError fired %d times on clean EOF", errCalls)
	}
	if full != "Streaming" || string(streamed) != "Streaming" {
		t.Errorf("full = %q, stream = %q, want Streaming", full, streamed)
	}
}
