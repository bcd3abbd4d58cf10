// Package ai defines the provider-agnostic streaming contract shared by every
// vendor plugin and by the stream normalizer in core/stream.
//
// The package is intentionally small: a chat [Message], the caller-supplied
// [StreamRequest] (sampling [Options] plus lifecycle [Handlers]), and the
// two-method [Plugin] interface every vendor implements. Vendor wire formats
// never leak past a plugin; the normalizer and callers only ever see
// normalized text.
package ai
