package ollama

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brandon-schabel/octoprompt-sub007/internal/utils"
	"github.com/brandon-schabel/octoprompt-sub007/providers/ai"
)

func TestParseSSELine(t *testing.T) {
	plugin := New()

	tests := []struct {
		name string
		line string
		want ai.ParsedLine
	}{
		{
			name: "bare NDJSON content",
			line: `{"message":{"content":"Hi there"},"done":false}`,
			want: ai.ParsedLine{Text: "Hi there"},
		},
		{
			name: "final frame never maps to the sentinel",
			line: `{"message":{"content":""},"done":true}`,
			want: ai.ParsedLine{},
		},
		{
			name: "re-framed as SSE upstream",
			line: `data: {"message":{"content":"proxied"}}`,
			want: ai.ParsedLine{Text: "proxied"},
		},
		{
			name: "malformed line",
			line: `not json at all {{`,
			want: ai.ParsedLine{},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := plugin.ParseSSELine(test.line); got != test.want {
				t.Errorf("ParseSSELine(%q) = %+v, want %+v", test.line, got, test.want)
			}
		})
	}
}

func TestPrepareRequest_NoAuthAndOptionMapping(t *testing.T) {
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/api/chat" {
			t.Errorf("path = %q", request.URL.Path)
		}
		if got := request.Header.Get("Authorization"); got != "" {
			t.Errorf("unexpected Authorization header %q", got)
		}
		_ = json.NewDecoder(request.Body).Decode(&payload)
		_, _ = writer.Write([]byte(`{"message":{"content":"ok"},"done":true}` + "\n"))
	}))
	defer server.Close()

	plugin := New().WithBaseURL(server.URL)
	body, err := plugin.PrepareRequest(context.Background(), ai.Params{
		UserMessage: "hi",
		Options: ai.Options{
			Model:       "llama3.2",
			Temperature: utils.Ptr(0.3),
			MaxTokens:   32,
			TopK:        40,
		},
	})
	if err != nil {
		t.Fatalf("PrepareRequest: %v", err)
	}
	defer utils.CloseWithLog(body)
	_, _ = io.ReadAll(body)

	if payload["stream"] != true {
		t.Errorf("stream = %v", payload["stream"])
	}

	// Sampling parameters ride in "options" under Ollama's parameter names.
	options, ok := payload["options"].(map[string]any)
	if !ok {
		t.Fatalf("options missing from payload %v", payload)
	}
	if options["temperature"] != 0.3 {
		t.Errorf("temperature = %v", options["temperature"])
	}
	if options["num_predict"] != float64(32) {
		t.Errorf("num_predict = %v", options["num_predict"])
	}
	if options["top_k"] != float64(40) {
		t.Errorf("top_k = %v", options["top_k"])
	}
}
