package anthropic

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
			name: "content block delta",
			line: `data: {"type":"content_block_delta","delta":{"text":"world!"}}`,
			want: ai.ParsedLine{Text: "world!"},
		},
		{
			name: "message stop",
			line: `data: {"type":"message_stop"}`,
			want: ai.ParsedLine{Done: true},
		},
		{
			name: "done sentinel",
			line: `data: [DONE]`,
			want: ai.ParsedLine{Done: true},
		},
		{
			name: "ping keep-alive",
			line: `data: {"type":"ping"}`,
			want: ai.ParsedLine{},
		},
		{
			name: "message start",
			line: `data: {"type":"message_start","message":{"id":"msg_1"}}`,
			want: ai.ParsedLine{},
		},
		{
			name: "event line",
			line: `event: content_block_delta`,
			want: ai.ParsedLine{},
		},
		{
			name: "malformed JSON",
			line: `data: {"type":`,
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

func TestPrepareRequest_HeadersAndDefaults(t *testing.T) {
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/messages" {
			t.Errorf("path = %q", request.URL.Path)
		}
		if got := request.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("x-api-key = %q", got)
		}
		if got := request.Header.Get("anthropic-version"); got != anthropicVersion {
			t.Errorf("anthropic-version = %q", got)
		}
		if got := request.Header.Get("Authorization"); got != "" {
			t.Errorf("unexpected Authorization header %q", got)
		}
		_ = json.NewDecoder(request.Body).Decode(&payload)
		_, _ = writer.Write([]byte(`data: {"type":"message_stop"}` + "\n\n"))
	}))
	defer server.Close()

	plugin := New().WithAPIKey("test-key").WithBaseURL(server.URL)
	body, err := plugin.PrepareRequest(context.Background(), ai.Params{
		UserMessage:   "hi",
		SystemMessage: "be brief",
	})
	if err != nil {
		t.Fatalf("PrepareRequest: %v", err)
	}
	defer utils.CloseWithLog(body)
	_, _ = io.ReadAll(body)

	if payload["max_tokens"] != float64(defaultMaxTokens) {
		t.Errorf("max_tokens = %v, want the %d default", payload["max_tokens"], defaultMaxTokens)
	}
	if payload["temperature"] != 1.0 {
		t.Errorf("temperature = %v, want the 1.0 default", payload["temperature"])
	}
	if payload["stream"] != true {
		t.Errorf("stream = %v", payload["stream"])
	}
	if payload["system"] != "be brief" {
		t.Errorf("system = %v, want top-level system field", payload["system"])
	}

	// The messages array carries the user turn only; system rides separately.
	messages, ok := payload["messages"].([]any)
	if !ok || len(messages) != 1 {
		t.Fatalf("messages = %v, want exactly the user turn", payload["messages"])
	}
	userTurn := messages[0].(map[string]any)
	if userTurn["role"] != "user" || userTurn["content"] != "hi" {
		t.Errorf("user turn = %v", userTurn)
	}
}
