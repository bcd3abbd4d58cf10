package observability

// Semantic attribute names shared across the engine, loosely following
// OpenTelemetry naming so traces stay greppable.
const (
	// AttrLLMProvider is the vendor identifier ("openai", "ollama", ...).
	AttrLLMProvider = "llm.provider"

	// AttrLLMModel is the model identifier sent to the vendor.
	AttrLLMModel = "llm.model"

	// AttrStreamID uniquely identifies one streaming exchange.
	AttrStreamID = "stream.id"

	// AttrStreamFragments counts normalized fragments emitted so far.
	AttrStreamFragments = "stream.fragments"

	// AttrStreamBytes counts normalized bytes emitted so far.
	AttrStreamBytes = "stream.bytes"

	AttrHTTPMethod          = "http.method"
	AttrHTTPURL             = "http.url"
	AttrHTTPStatusCode      = "http.status_code"
	AttrHTTPRequestBodySize = "http.request.body.size"
)

// Span event names used by the stream normalizer.
const (
	EventStreamRequestStart = "stream.request.start"
	EventStreamDone         = "stream.done"
	EventStreamError        = "stream.error"
)
