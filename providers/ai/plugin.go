package ai

import (
	"context"
	"io"
)

// Params carries the caller input a plugin needs to build one vendor request.
type Params struct {
	UserMessage   string
	SystemMessage string // optional; empty means no system prompt
	Options       Options
}

// ParsedLine is the outcome of parsing one raw wire line.
//
// The three outcomes of the contract map as follows: extracted content sets
// Text (Done false); the vendor's explicit end-of-stream marker sets Done; a
// line carrying nothing — framing noise, comments, malformed JSON — is the
// zero value. Malformed frames are deliberately not errors: one corrupt line
// must never abort an otherwise healthy stream.
type ParsedLine struct {
	Text string
	Done bool
}

// Plugin is the per-vendor contract. A plugin knows two things about its
// vendor and nothing else: how to issue the streaming HTTP request, and how to
// turn one raw wire line into normalized text.
//
// Implementations must be safe for use by one stream at a time; the normalizer
// never shares a plugin call across goroutines within a request.
type Plugin interface {
	// Name returns the vendor identifier, e.g. "openai" or "ollama".
	// It is used for logging and span attributes only.
	Name() string

	// PrepareRequest builds and issues the vendor-specific streaming POST and
	// returns the raw response body. A non-2xx response or a missing body is
	// reported as a [*HTTPError]; transport failures are returned wrapped.
	// Callers must not assume any alignment between read chunks and wire
	// event boundaries.
	PrepareRequest(ctx context.Context, params Params) (io.ReadCloser, error)

	// ParseSSELine parses one raw wire line. Lines without the vendor's
	// expected framing, and well-framed lines whose JSON is malformed or
	// carries no content, yield the zero ParsedLine.
	ParseSSELine(line string) ParsedLine
}
