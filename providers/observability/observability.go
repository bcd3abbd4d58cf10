// Package observability defines the tracing and structured-logging contract
// used throughout the streaming engine. Components never log directly; they
// enrich whatever observer or span the caller placed in the context, and do
// nothing when none is present.
package observability

import (
	"context"
	"fmt"
	"time"
)

// Provider combines tracing and structured logging. Implementations live in
// subpackages (see the slog subpackage for the standard-library-backed one).
type Provider interface {
	Tracer
	Logger
}

// Tracer starts spans representing units of work.
type Tracer interface {
	StartSpan(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Span represents a single unit of work.
type Span interface {
	// End completes the span.
	End()
	// SetAttributes adds attributes to the span.
	SetAttributes(attrs ...Attribute)
	// RecordError records an error against the span.
	RecordError(err error)
	// AddEvent adds a point-in-time event to the span.
	AddEvent(name string, attrs ...Attribute)
}

// Logger provides leveled structured logging.
type Logger interface {
	Trace(ctx context.Context, msg string, attrs ...Attribute)
	Debug(ctx context.Context, msg string, attrs ...Attribute)
	Info(ctx context.Context, msg string, attrs ...Attribute)
	Warn(ctx context.Context, msg string, attrs ...Attribute)
	Error(ctx context.Context, msg string, attrs ...Attribute)
}

// Attribute is a key-value pair of span or log metadata.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int creates an integer attribute.
func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Float creates a float attribute.
func Float(key string, value float64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value}
}

// Error creates an error attribute under the conventional "error" key.
func Error(err error) Attribute {
	if err == nil {
		return Attribute{Key: "error", Value: "<nil>"}
	}
	return Attribute{Key: "error", Value: fmt.Sprintf("%v", err)}
}
