package stream

import (
	"errors"
	"io"
	"sync"
)

// errConsumerClosed is reported to the write side after the consumer closed
// the returned stream.
var errConsumerClosed = errors.New("stream closed by consumer")

// textBuffer is the byte stream handed back to the caller of CreateStream.
//
// Writes never block: the buffer grows without bound so a slow (or entirely
// absent) consumer cannot back-pressure the vendor connection. Callers that
// only use the lifecycle handlers may drop the stream unread. Reads block
// until data arrives or the write side terminates; buffered data is always
// drained before the terminal condition is surfaced.
//
// Closing from the consumer side discards pending data, wakes blocked
// readers, and fires closeHook exactly once — the normalizer uses the hook to
// abort the in-flight vendor request.
type textBuffer struct {
	mu   sync.Mutex
	cond *sync.Cond

	data     []byte
	writeErr error // terminal condition for readers; io.EOF on clean close
	closed   bool  // consumer called Close

	closeHook func()
	hookOnce  sync.Once
}

func newTextBuffer(closeHook func()) *textBuffer {
	buffer := &textBuffer{closeHook: closeHook}
	buffer.cond = sync.NewCond(&buffer.mu)
	return buffer
}

// newClosedBuffer returns a buffer that is already at EOF: a valid, readable,
// empty stream for the immediate-failure path.
func newClosedBuffer() *textBuffer {
	buffer := newTextBuffer(nil)
	buffer.closeWrite()
	return buffer
}

// write appends p for the consumer to read. It reports errConsumerClosed when
// the consumer is gone so the write side can stop early.
func (b *textBuffer) write(p []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return errConsumerClosed
	}
	if b.writeErr != nil {
		return b.writeErr
	}
	b.data = append(b.data, p...)
	b.cond.Broadcast()
	return nil
}

// closeWrite marks the stream complete; readers drain remaining data and then
// see io.EOF.
func (b *textBuffer) closeWrite() {
	b.closeWriteWithError(io.EOF)
}

// closeWriteWithError terminates the stream with err so the error also
// surfaces to direct consumers of the byte stream, not only through OnError.
func (b *textBuffer) closeWriteWithError(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.writeErr == nil {
		b.writeErr = err
	}
	b.cond.Broadcast()
}

// Read implements io.Reader.
func (b *textBuffer) Read(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for len(b.data) == 0 && b.writeErr == nil && !b.closed {
		b.cond.Wait()
	}

	if len(b.data) > 0 {
		n := copy(p, b.data)
		b.data = b.data[n:]
		return n, nil
	}
	if b.closed {
		return 0, errConsumerClosed
	}
	return 0, b.writeErr
}

// Close implements io.Closer for the consumer side. It cancels the exchange:
// pending data is discarded and the underlying vendor request is aborted via
// the close hook.
func (b *textBuffer) Close() error {
	b.mu.Lock()
	b.closed = true
	b.data = nil
	b.cond.Broadcast()
	b.mu.Unlock()

	if b.closeHook != nil {
		b.hookOnce.Do(b.closeHook)
	}
	return nil
}
