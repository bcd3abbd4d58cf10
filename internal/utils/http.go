package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/brandon-schabel/octoprompt-sub007/providers/ai"
	"github.com/brandon-schabel/octoprompt-sub007/providers/observability"
)

// HeaderOption is a single HTTP header to set on an outbound request.
// Options are applied after the defaults, so a vendor can override or clear
// the standard Authorization header.
type HeaderOption struct {
	Key   string
	Value string
}

// maxErrorBodySize caps how much of an error response body is read. Enforced
// via io.LimitReader to keep a rogue response from allocating unbounded memory.
const maxErrorBodySize int64 = 1 * 1024 * 1024

// DoPostStream performs an HTTP POST with a JSON body and returns the response
// body left open for incremental reading. The caller owns closing the body.
//
// When apiKey is non-empty a Bearer Authorization header is set; vendors with
// different auth schemes pass an empty apiKey and supply their own headers.
// Non-2xx responses and responses without a body are reported as
// [*ai.HTTPError] with the body drained and closed before returning.
func DoPostStream(ctx context.Context, client *http.Client, url string, apiKey string, body any, headers ...HeaderOption) (io.ReadCloser, error) {
	span := observability.SpanFromContext(ctx)

	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("error marshaling body: %w", err)
	}

	if span != nil {
		span.AddEvent("http.stream_request.prepared",
			observability.String(observability.AttrHTTPMethod, "POST"),
			observability.String(observability.AttrHTTPURL, url),
			observability.Int(observability.AttrHTTPRequestBodySize, len(jsonBody)),
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	for _, header := range headers {
		req.Header.Set(header.Key, header.Value)
	}

	requestStart := time.Now()
	response, err := httpClient.Do(req)
	requestDuration := time.Since(requestStart)

	if err != nil {
		if span != nil {
			span.AddEvent("http.stream_request.error",
				observability.Error(err),
				observability.Duration("http.request.duration", requestDuration),
			)
		}
		return nil, fmt.Errorf("error sending stream request: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		defer CloseWithLog(response.Body)
		errorBody, readErr := io.ReadAll(io.LimitReader(response.Body, maxErrorBodySize))
		if readErr != nil {
			return nil, &ai.HTTPError{StatusCode: response.StatusCode, Body: fmt.Sprintf("(failed to read body: %v)", readErr)}
		}
		return nil, &ai.HTTPError{StatusCode: response.StatusCode, Body: string(errorBody)}
	}

	if response.Body == nil {
		return nil, &ai.HTTPError{StatusCode: response.StatusCode, Body: "response has no body"}
	}

	if span != nil {
		span.AddEvent("http.stream_response.started",
			observability.Int(observability.AttrHTTPStatusCode, response.StatusCode),
			observability.Duration("http.request.duration", requestDuration),
		)
	}

	return response.Body, nil
}

// CloseWithLog closes c and logs a warning on failure instead of returning the
// error, for use in defers where a close error must not override the primary one.
func CloseWithLog(c io.Closer) {
	if err := c.Close(); err != nil {
		slog.Warn("failed to close stream body", "error", err.Error())
	}
}
