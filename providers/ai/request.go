package ai

// Options are the sampling parameters forwarded to the vendor. Pointer fields
// distinguish "unset" from an explicit zero so per-vendor defaults can apply
// (Anthropic defaults temperature to 1.0, the OpenAI-compatible family to 0.7).
// Extra is an opaque vendor passthrough merged into the request payload.
type Options struct {
	Model            string
	Temperature      *float64
	MaxTokens        int
	TopP             *float64
	TopK             int
	FrequencyPenalty *float64
	PresencePenalty  *float64

	// Debug enables raw wire-line tracing through the context observer.
	Debug bool

	Extra map[string]any
}

// Handlers are the lifecycle callbacks for one streaming exchange. Every field
// is optional; a nil handler is skipped.
//
// Handlers are invoked synchronously, in program order, from the streaming
// goroutine — which is decoupled from the goroutine consuming the returned
// byte stream. A handler that kicks off its own asynchronous work (persisting
// a partial, say) is not awaited; a handler that blocks stalls further reads
// from the vendor for this request only.
type Handlers struct {
	// OnSystemMessage fires once, before any data is read, when a system
	// message was supplied.
	OnSystemMessage func(msg Message)

	// OnUserMessage fires once, before any data is read.
	OnUserMessage func(msg Message)

	// OnPartial fires once per normalized text fragment, with that fragment
	// only (not the running aggregate).
	OnPartial func(fragment Message)

	// OnDone fires exactly once on successful completion with the full
	// aggregated assistant message. Mutually exclusive with OnError.
	OnDone func(full Message)

	// OnError fires at most once, with whatever partial text had accumulated.
	// After OnError no further OnPartial or OnDone calls occur.
	OnError func(err error, partial Message)
}

// StreamRequest is the caller-supplied input for one streaming exchange.
// It lives for the duration of a single HTTP streaming call and holds no
// state shared with any other request.
type StreamRequest struct {
	UserMessage   string
	SystemMessage string // optional
	Plugin        Plugin
	Options       Options
	Handlers      Handlers
}
